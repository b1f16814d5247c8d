package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	EventCartUpdated    = "CartUpdated"
	EventOrderSubmitted = "OrderSubmitted"
)

const (
	TopicCartUpdated    = "storefront.cart.updated"
	TopicOrderSubmitted = "storefront.order.submitted"
)

// Envelope wraps every storefront event. Payload carries the
// event-specific body.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// New fills the envelope boilerplate around a payload struct. Payloads
// are our own types; a marshal failure here is a programming error.
func New(eventType, producer, traceID, correlationID string, payload any) Envelope {
	b, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: correlationID,
		Payload:       b,
	}
}

// Encode serializes the envelope for the wire.
func (e Envelope) Encode() []byte {
	b, err := json.Marshal(e)
	if err != nil {
		panic(err)
	}
	return b
}

// Decode parses a wire message back into an envelope.
func Decode(b []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return e, nil
}

// DecodePayload extracts the event-specific body.
func DecodePayload[T any](e Envelope) (T, error) {
	var t T
	if err := json.Unmarshal(e.Payload, &t); err != nil {
		return t, fmt.Errorf("decode %s payload: %w", e.EventType, err)
	}
	return t, nil
}

type CartUpdatedPayload struct {
	SessionID string `json:"session_id"`
	Action    string `json:"action"` // add | update | remove | clear
	ProductID string `json:"product_id,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
	ItemCount int    `json:"item_count"`
}

type OrderSubmittedPayload struct {
	OrderID  string  `json:"order_id"`
	Username string  `json:"username"`
	Total    float64 `json:"total"`
	Items    int     `json:"items"`
}

// Partition key = session or order ID, so events for one cart/order
// keep their order.
func PartitionKey(id string) []byte { return []byte(id) }
