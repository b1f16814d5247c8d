package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popvault/storefront/internal/catalog"
)

func funko(id string, price float64, stock int) catalog.Product {
	return catalog.Product{ID: id, Title: "Pop " + id, Price: price, Quantity: stock}
}

func TestAddItemClampsToStock(t *testing.T) {
	c := &Cart{}

	clamped, err := c.AddItem(funko("p1", 10, 3), 5)
	require.NoError(t, err)
	assert.True(t, clamped)
	assert.Equal(t, 3, c.Quantity("p1"))

	// adding again cannot push past the stock limit either
	clamped, err = c.AddItem(funko("p1", 10, 3), 1)
	require.NoError(t, err)
	assert.True(t, clamped)
	assert.Equal(t, 3, c.Quantity("p1"))
}

func TestAddItemMergesAndNormalizes(t *testing.T) {
	c := &Cart{}

	_, err := c.AddItem(funko("p1", 10, 10), 2)
	require.NoError(t, err)
	_, err = c.AddItem(funko("p1", 10, 10), 3)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Quantity("p1"))

	// quantity < 1 is treated as 1
	_, err = c.AddItem(funko("p2", 5, 10), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Quantity("p2"))
}

func TestAddItemOutOfStock(t *testing.T) {
	c := &Cart{}
	_, err := c.AddItem(funko("p1", 10, 0), 1)
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Empty(t, c.Items)
}

func TestUpdateQuantityZeroNeedsConfirmation(t *testing.T) {
	c := &Cart{}
	_, err := c.AddItem(funko("p1", 10, 5), 2)
	require.NoError(t, err)

	_, err = c.UpdateQuantity("p1", 0)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	// declined removal mutates nothing
	assert.Equal(t, 2, c.Quantity("p1"))
}

func TestUpdateQuantityClampsAndReportsMissing(t *testing.T) {
	c := &Cart{}
	_, err := c.AddItem(funko("p1", 10, 4), 1)
	require.NoError(t, err)

	clamped, err := c.UpdateQuantity("p1", 9)
	require.NoError(t, err)
	assert.True(t, clamped)
	assert.Equal(t, 4, c.Quantity("p1"))

	clamped, err = c.UpdateQuantity("p1", -3)
	require.NoError(t, err)
	assert.False(t, clamped)
	assert.Equal(t, 1, c.Quantity("p1"))

	_, err = c.UpdateQuantity("ghost", 2)
	assert.ErrorIs(t, err, ErrNotInCart)
}

func TestRemoveItemIdempotent(t *testing.T) {
	c := &Cart{}
	_, err := c.AddItem(funko("p1", 10, 5), 1)
	require.NoError(t, err)

	c.RemoveItem("p1")
	assert.Empty(t, c.Items)
	c.RemoveItem("p1") // second remove is a no-op
	assert.Empty(t, c.Items)
}

func TestTotals(t *testing.T) {
	c := &Cart{}
	_, err := c.AddItem(funko("p1", 10.99, 10), 2)
	require.NoError(t, err)
	_, err = c.AddItem(funko("p2", 24.99, 10), 1)
	require.NoError(t, err)

	tt := c.Totals(0.22, 5.00, 0)
	assert.InDelta(t, 46.97, tt.Subtotal, 1e-9)
	assert.InDelta(t, 10.3334, tt.VAT, 1e-9)
	assert.InDelta(t, 5.00, tt.Shipping, 1e-9)
	// the identity holds exactly, not just approximately
	assert.Equal(t, tt.Subtotal+tt.VAT+tt.Shipping, tt.Total)
	assert.InDelta(t, 62.30, Round2(tt.Total), 1e-9)
}

func TestFreeShippingThreshold(t *testing.T) {
	assert.Equal(t, 5.0, Shipping(30, 5, 50))
	assert.Equal(t, 0.0, Shipping(80, 5, 50))
	// threshold must be exceeded, not merely met
	assert.Equal(t, 5.0, Shipping(50, 5, 50))
	// 0 disables free shipping entirely
	assert.Equal(t, 5.0, Shipping(1000, 5, 0))
}

func TestEncodeDecodeCart(t *testing.T) {
	c := &Cart{}
	_, err := c.AddItem(funko("p1", 10.99, 5), 2)
	require.NoError(t, err)
	_, err = c.AddItem(funko("p2", 24.99, 3), 1)
	require.NoError(t, err)

	b, err := encodeCart(c)
	require.NoError(t, err)
	got, err := decodeCart(b)
	require.NoError(t, err)
	assert.ElementsMatch(t, c.Items, got.Items)
}

func TestDecodeCartRejectsUnknownVersion(t *testing.T) {
	_, err := decodeCart([]byte(`{"version":99,"items":[]}`))
	assert.ErrorContains(t, err, "unsupported schema version")
}
