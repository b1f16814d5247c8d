package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popvault/storefront/internal/cart"
	"github.com/popvault/storefront/internal/catalog"
	"github.com/popvault/storefront/internal/session"
)

type fakeAPI struct {
	submitted []Order
	err       error
}

func (f *fakeAPI) InsertOrder(_ context.Context, o Order) error {
	if f.err != nil {
		return f.err
	}
	f.submitted = append(f.submitted, o)
	return nil
}

func buyer() session.Session {
	return session.Session{User: &session.User{ID: "u1", Username: "bob", Email: "bob@example.com"}}
}

func filledCart(t *testing.T) *cart.Cart {
	t.Helper()
	c := &cart.Cart{}
	_, err := c.AddItem(catalog.Product{ID: "p1", Title: "Pop One", Price: 10.99, Quantity: 10}, 2)
	require.NoError(t, err)
	_, err = c.AddItem(catalog.Product{ID: "p2", Title: "Pop Two", Price: 24.99, Quantity: 5}, 1)
	require.NoError(t, err)
	return c
}

func TestSubmitRejectsGuests(t *testing.T) {
	api := &fakeAPI{}
	b := &Builder{API: api, VATRate: 0.22, ShippingFlat: 5}
	c := filledCart(t)

	_, err := b.Submit(context.Background(), session.Session{}, c)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
	assert.Empty(t, api.submitted)
	// the cart survives so the user can log in and retry
	assert.Len(t, c.Items, 2)
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	b := &Builder{API: &fakeAPI{}, VATRate: 0.22, ShippingFlat: 5}
	_, err := b.Submit(context.Background(), buyer(), &cart.Cart{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubmitBuildsOrder(t *testing.T) {
	api := &fakeAPI{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b := &Builder{API: api, VATRate: 0.22, ShippingFlat: 5, Now: func() time.Time { return now }}
	c := filledCart(t)

	o, err := b.Submit(context.Background(), buyer(), c)
	require.NoError(t, err)
	require.Len(t, api.submitted, 1)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "bob", o.User.Username)
	assert.Equal(t, StatusFulfilled, o.Status)
	assert.Equal(t, now, o.Date)
	// 46.97 + 22% VAT + 5.00 flat shipping, rounded at the boundary
	assert.InDelta(t, 62.30, o.Total, 1e-9)

	require.Len(t, o.Products, 2)
	assert.Equal(t, "p1", o.Products[0].ID)
	assert.Equal(t, 2, o.Products[0].Quantity)
	assert.Equal(t, 10.99, o.Products[0].Price)
}

func TestSubmitSnapshotsProducts(t *testing.T) {
	api := &fakeAPI{}
	b := &Builder{API: api, VATRate: 0.22, ShippingFlat: 5}
	c := filledCart(t)

	o, err := b.Submit(context.Background(), buyer(), c)
	require.NoError(t, err)

	// later catalog or cart edits must not rewrite order history
	c.Items[0].Product.Price = 999
	c.Items[0].Product.Title = "renamed"
	assert.Equal(t, 10.99, o.Products[0].Price)
	assert.Equal(t, "Pop One", o.Products[0].Title)
}

func TestSubmitFailureLeavesCartUntouched(t *testing.T) {
	api := &fakeAPI{err: errors.New("backend down")}
	b := &Builder{API: api, VATRate: 0.22, ShippingFlat: 5}
	c := filledCart(t)

	_, err := b.Submit(context.Background(), buyer(), c)
	assert.Error(t, err)
	assert.Len(t, c.Items, 2)
	assert.Equal(t, 2, c.Quantity("p1"))
}
