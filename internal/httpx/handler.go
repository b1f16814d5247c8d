package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/popvault/storefront/internal/backend"
	"github.com/popvault/storefront/internal/cart"
	"github.com/popvault/storefront/internal/checkout"
	"github.com/popvault/storefront/internal/events"
	kafkax "github.com/popvault/storefront/internal/kafka"
	"github.com/popvault/storefront/internal/session"
)

// Handler wires all storefront routes. One instance serves every
// session; per-session state lives in Redis.
type Handler struct {
	Backend  *backend.Client
	Carts    *cart.Store
	Sessions *session.Store
	Redis    *redis.Client
	Builder  *checkout.Builder

	CartEvents  *kafkax.Producer // storefront.cart.updated
	OrderEvents *kafkax.Producer // storefront.order.submitted

	VATRate          float64
	ShippingFlat     float64
	FreeShippingOver float64
	PageSize         int
	Service          string
}

func (h *Handler) Register(r *chi.Mux) {
	r.Post("/login", h.login)
	r.Post("/signup", h.signup)
	r.Post("/logout", h.logout)
	r.Delete("/account", h.deleteAccount)

	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)

	r.Get("/cart", h.getCart)
	r.Post("/cart/items", h.addCartItem)
	r.Put("/cart/items/{id}", h.updateCartItem)
	r.Delete("/cart/items/{id}", h.removeCartItem)
	r.Delete("/cart", h.clearCart)

	r.Post("/checkout", h.submitOrder)
	r.Get("/orders", h.listOrders)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

const sessionCookie = "sid"

// sessionID resolves the caller's session, minting an ID (and setting
// the cookie) on first contact.
func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if v := r.Header.Get("X-Session-Id"); v != "" {
		return v
	}
	if ck, err := r.Cookie(sessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	sid := session.NewID()
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: sid, Path: "/", HttpOnly: true})
	return sid
}

// confirmed reports whether the caller acknowledged a destructive
// action. Without it, remove/clear answer 409 and nothing mutates.
func confirmed(r *http.Request) bool {
	return r.URL.Query().Get("confirm") == "true"
}

func confirmationRequired(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusConflict, map[string]string{
		"error":   "confirmation_required",
		"message": message,
	})
}

// cartView is the rendered cart: line items plus derived amounts,
// rounded to 2 decimals for display only.
type cartView struct {
	Items    []cart.LineItem `json:"items"`
	Subtotal float64         `json:"subtotal"`
	VAT      float64         `json:"vat"`
	Shipping float64         `json:"shipping"`
	Total    float64         `json:"total"`
}

func (h *Handler) viewOf(c *cart.Cart) cartView {
	t := c.Totals(h.VATRate, h.ShippingFlat, h.FreeShippingOver)
	items := c.Items
	if items == nil {
		items = []cart.LineItem{}
	}
	return cartView{
		Items:    items,
		Subtotal: cart.Round2(t.Subtotal),
		VAT:      cart.Round2(t.VAT),
		Shipping: cart.Round2(t.Shipping),
		Total:    cart.Round2(t.Total),
	}
}

func (h *Handler) publishCartUpdated(r *http.Request, sid, action, productID string, quantity, itemCount int) {
	if h.CartEvents == nil {
		return
	}
	p := events.CartUpdatedPayload{
		SessionID: sid,
		Action:    action,
		ProductID: productID,
		Quantity:  quantity,
		ItemCount: itemCount,
	}
	ev := events.New(events.EventCartUpdated, h.Service, r.Header.Get("X-Request-Id"), sid, p)
	h.CartEvents.Publish(events.PartitionKey(sid), ev.Encode(),
		kafkago.Header{Key: "x-event-type", Value: []byte(events.EventCartUpdated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *Handler) publishOrderSubmitted(r *http.Request, o checkout.Order) {
	if h.OrderEvents == nil {
		return
	}
	p := events.OrderSubmittedPayload{
		OrderID:  o.ID,
		Username: o.User.Username,
		Total:    o.Total,
		Items:    len(o.Products),
	}
	ev := events.New(events.EventOrderSubmitted, h.Service, r.Header.Get("X-Request-Id"), o.ID, p)
	h.OrderEvents.Publish(events.PartitionKey(o.ID), ev.Encode(),
		kafkago.Header{Key: "x-event-type", Value: []byte(events.EventOrderSubmitted)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
