package redisx

import "time"

const (
	// Session blob: session:{session_id} -> {"version":1,"user":{...},"token":"..."}
	KeySession = "session:%s"

	// Cart blob: cart:{session_id} -> {"version":1,"items":[...]}
	KeyCart = "cart:%s"

	// Cached order history: orders:{username} -> JSON array of orders
	KeyOrders = "orders:%s"

	// In-flight checkout guard: inflight:checkout:{session_id} -> 1
	// Blocks duplicate submission while a checkout is pending.
	KeyCheckoutInFlight = "inflight:checkout:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLSession  = 30 * 24 * time.Hour
	TTLCart     = 30 * 24 * time.Hour
	TTLOrders   = 10 * time.Minute
	TTLInFlight = 30 * time.Second
	TTLDedup    = 48 * time.Hour
)
