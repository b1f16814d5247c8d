package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/popvault/storefront/internal/cart"
	"github.com/popvault/storefront/internal/session"
)

var (
	// ErrAuthenticationRequired gates checkout: guests cannot submit
	// orders.
	ErrAuthenticationRequired = errors.New("authentication required")

	ErrEmptyCart = errors.New("cart is empty")
)

// Submitter sends a finished order to the shop API.
type Submitter interface {
	InsertOrder(ctx context.Context, o Order) error
}

// Builder turns a confirmed cart plus an authenticated user into an
// immutable order and submits it. The order total is the cart's total
// at submission time; the backend is trusted not to recompute it.
type Builder struct {
	API Submitter

	VATRate      float64
	ShippingFlat float64
	FreeShipping float64 // subtotal threshold, 0 disables
	Now          func() time.Time
}

// Submit builds and sends the order. On any failure the caller's cart
// is untouched, so the user can retry; the cart is only cleared by the
// caller after a successful submission.
func (b *Builder) Submit(ctx context.Context, sess session.Session, c *cart.Cart) (Order, error) {
	if sess.Guest() {
		return Order{}, ErrAuthenticationRequired
	}
	if len(c.Items) == 0 {
		return Order{}, ErrEmptyCart
	}

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	totals := c.Totals(b.VATRate, b.ShippingFlat, b.FreeShipping)
	o := Order{
		ID:       newOrderID(),
		User:     *sess.User,
		Products: snapshot(c),
		Total:    cart.Round2(totals.Total),
		Date:     now().UTC(),
		Status:   StatusFulfilled,
	}

	if err := b.API.InsertOrder(ctx, o); err != nil {
		return Order{}, err
	}
	return o, nil
}
