package ordercache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/popvault/storefront/internal/checkout"
	"github.com/popvault/storefront/internal/events"
	"github.com/popvault/storefront/internal/redisx"
)

// OrderFetcher is the slice of the backend client this service needs.
type OrderFetcher interface {
	GetUserOrders(ctx context.Context, username string) ([]checkout.Order, error)
}

// Service keeps the per-user order-history cache warm: whenever an
// order is submitted it re-fetches that user's orders from the shop
// API and rewrites the cache key the storefront reads.
type Service struct {
	Backend     OrderFetcher
	Redis       *redis.Client
	ServiceName string
}

// HandleOrderSubmitted is installed as the consumer handler.
func (s *Service) HandleOrderSubmitted(ctx context.Context, m kafkago.Message) error {
	env, err := events.Decode(m.Value)
	if err != nil {
		return err
	}
	if env.EventType != events.EventOrderSubmitted {
		return nil // ignore
	}

	// dedup via event_id so a redelivery does not hammer the backend
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}

	p, err := events.DecodePayload[events.OrderSubmittedPayload](env)
	if err != nil {
		return err
	}
	if p.Username == "" {
		return nil
	}

	orders, err := s.Backend.GetUserOrders(ctx, p.Username)
	if err != nil {
		// no commit; redelivery retries the refresh
		return err
	}
	b, err := json.Marshal(orders)
	if err != nil {
		return err
	}
	key := fmt.Sprintf(redisx.KeyOrders, p.Username)
	if err := s.Redis.Set(ctx, key, b, redisx.TTLOrders).Err(); err != nil {
		return err
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	return nil
}
