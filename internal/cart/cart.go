package cart

import (
	"errors"
	"math"

	"github.com/popvault/storefront/internal/catalog"
)

var (
	// ErrConfirmationRequired routes destructive intents (quantity 0,
	// remove, clear) through an explicit confirmation step before any
	// mutation happens.
	ErrConfirmationRequired = errors.New("confirmation required")

	ErrOutOfStock = errors.New("product is out of stock")
	ErrNotInCart  = errors.New("product not in cart")
)

// LineItem is a product snapshot plus how many units of it are in the
// cart. Invariant: 1 <= CartQuantity <= Product.Quantity.
type LineItem struct {
	Product      catalog.Product `json:"product"`
	CartQuantity int             `json:"cart_quantity"`
}

// Cart is an ordered list of line items, unique per product ID.
// It is a plain value; persistence lives in Store.
type Cart struct {
	Items []LineItem
}

// AddItem merges quantity units of p into the cart, clamping to the
// stock limit. clamped reports that the caller asked for more than the
// stock allows; the operation still proceeds with the clamped value.
func (c *Cart) AddItem(p catalog.Product, quantity int) (clamped bool, err error) {
	if p.Quantity <= 0 {
		return false, ErrOutOfStock
	}
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.Items {
		if c.Items[i].Product.ID != p.ID {
			continue
		}
		next := c.Items[i].CartQuantity + quantity
		if next > p.Quantity {
			next = p.Quantity
			clamped = true
		}
		c.Items[i].CartQuantity = next
		return clamped, nil
	}
	if quantity > p.Quantity {
		quantity = p.Quantity
		clamped = true
	}
	c.Items = append(c.Items, LineItem{Product: p, CartQuantity: quantity})
	return clamped, nil
}

// UpdateQuantity sets the quantity for a product already in the cart,
// clamped to [1, stock]. Quantity 0 signals intent-to-remove and comes
// back as ErrConfirmationRequired without mutating anything; the
// caller must confirm and call RemoveItem.
func (c *Cart) UpdateQuantity(productID string, quantity int) (clamped bool, err error) {
	if quantity == 0 {
		return false, ErrConfirmationRequired
	}
	for i := range c.Items {
		if c.Items[i].Product.ID != productID {
			continue
		}
		if quantity < 1 {
			quantity = 1
		}
		if max := c.Items[i].Product.Quantity; quantity > max {
			quantity = max
			clamped = true
		}
		c.Items[i].CartQuantity = quantity
		return clamped, nil
	}
	return false, ErrNotInCart
}

// RemoveItem deletes the line item for productID. Removing an absent
// product is a no-op, so a repeated (already confirmed) remove cannot
// fail.
func (c *Cart) RemoveItem(productID string) {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() { c.Items = nil }

// Quantity reports the cart quantity for productID, 0 if absent.
func (c *Cart) Quantity(productID string) int {
	for _, it := range c.Items {
		if it.Product.ID == productID {
			return it.CartQuantity
		}
	}
	return 0
}

// Subtotal is sum(price * quantity), pre-tax, pre-shipping. All money
// math stays in float64; rounding happens only at the boundary via
// Round2.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, it := range c.Items {
		sum += it.Product.Price * float64(it.CartQuantity)
	}
	return sum
}

// VAT is the value-added tax on the subtotal.
func (c *Cart) VAT(rate float64) float64 {
	return c.Subtotal() * rate
}

// Shipping returns 0 when a free-shipping threshold is configured
// (> 0) and the subtotal exceeds it, otherwise the flat cost.
func Shipping(subtotal, flatCost, freeThreshold float64) float64 {
	if freeThreshold > 0 && subtotal > freeThreshold {
		return 0
	}
	return flatCost
}

// Totals holds the derived amounts for one cart. Total is exactly
// Subtotal + VAT + Shipping, unrounded.
type Totals struct {
	Subtotal float64
	VAT      float64
	Shipping float64
	Total    float64
}

// Totals derives subtotal, VAT, shipping and total in one pass.
func (c *Cart) Totals(vatRate, shippingFlat, freeThreshold float64) Totals {
	sub := c.Subtotal()
	vat := sub * vatRate
	ship := Shipping(sub, shippingFlat, freeThreshold)
	return Totals{Subtotal: sub, VAT: vat, Shipping: ship, Total: sub + vat + ship}
}

// Round2 rounds to 2 decimals. Display and order submission only;
// never feed the result back into cart math.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
