package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/popvault/storefront/internal/cart"
	"github.com/popvault/storefront/internal/session"
)

type Status string

const (
	StatusFulfilled Status = "fulfilled"
	StatusOnHold    Status = "on hold"
	StatusScheduled Status = "scheduled"
)

// ProductSnapshot is the slice of a product frozen into an order.
// Copied, never referenced: later catalog edits must not rewrite
// history.
type ProductSnapshot struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	ProductType string  `json:"product_type"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"` // units bought
	Description string  `json:"description"`
	Img         string  `json:"img"`
}

// Order is the immutable record of one completed checkout. Built once
// at submission time, never mutated afterwards.
type Order struct {
	ID       string            `json:"id"`
	User     session.User      `json:"user"`
	Products []ProductSnapshot `json:"products"`
	Total    float64           `json:"total"` // rounded to 2 decimals at this boundary
	Date     time.Time         `json:"date"`
	Status   Status            `json:"status"`
}

// snapshot freezes the cart's line items into order products.
func snapshot(c *cart.Cart) []ProductSnapshot {
	out := make([]ProductSnapshot, 0, len(c.Items))
	for _, it := range c.Items {
		out = append(out, ProductSnapshot{
			ID:          it.Product.ID,
			Title:       it.Product.Title,
			ProductType: it.Product.ProductType,
			Price:       it.Product.Price,
			Quantity:    it.CartQuantity,
			Description: it.Product.Description,
			Img:         it.Product.Img,
		})
	}
	return out
}

func newOrderID() string { return uuid.NewString() }
