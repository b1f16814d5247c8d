package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popvault/storefront/internal/checkout"
	"github.com/popvault/storefront/internal/session"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second)
}

func TestLoginSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)
		w.Write([]byte(`{"_id":123,"username":"bob","email":"bob@example.com","token":"tok-1"}`))
	})

	user, token, err := c.Login(context.Background(), "bob", "Pass1!")
	require.NoError(t, err)
	// numeric legacy ids come back as strings
	assert.Equal(t, "123", user.ID)
	assert.Equal(t, "bob", user.Username)
	assert.Equal(t, "tok-1", token)
}

func TestLoginFailureCarriesDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"wrong password"}`))
	})

	_, _, err := c.Login(context.Background(), "bob", "nope")
	assert.ErrorIs(t, err, ErrLoginFailed)
	assert.ErrorContains(t, err, "wrong password")
}

func TestLoginFailureFallsBackToGenericDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, _, err := c.Login(context.Background(), "bob", "Pass1!")
	assert.ErrorIs(t, err, ErrLoginFailed)
	assert.ErrorContains(t, err, "please try again later")
}

func TestInsertOrderFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"product p1 no longer available"}`))
	})

	err := c.InsertOrder(context.Background(), checkout.Order{ID: "o1", User: session.User{Username: "bob"}})
	assert.ErrorIs(t, err, ErrOrderSubmission)
	assert.ErrorContains(t, err, "no longer available")
}

func TestGetAllProductsNormalizesWireShapes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/getAllProducts", r.URL.Path)
		// data wrapper, legacy _id, and the cartQuantity stock alias
		w.Write([]byte(`{"data":[
			{"_id":7,"title":"Pop A","price":9.99,"quantity":4,"interest":["Marvel"]},
			{"id":"abc","title":"Pop B","price":12.5,"cartQuantity":2}
		]}`))
	})

	ps, err := c.GetAllProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, ps, 2)

	assert.Equal(t, "7", ps[0].ID)
	assert.Equal(t, 4, ps[0].Quantity)
	assert.Equal(t, "Marvel", ps[0].PrimaryInterest())

	assert.Equal(t, "abc", ps[1].ID)
	assert.Equal(t, 2, ps[1].Quantity)
	assert.Equal(t, 12.5, ps[1].Price)
}

func TestGetProducts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/getProducts", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "Marvel", q.Get("category"))
		require.Equal(t, "man", q.Get("searchTerm"))
		require.Equal(t, "price-asc", q.Get("sortingCriteria"))
		require.Equal(t, "2", q.Get("pageIndex"))
		w.Write([]byte(`[{"_id":3,"title":"Pop C","price":14.99,"quantity":1}]`))
	})

	ps, err := c.GetProducts(context.Background(), ProductQuery{
		Category:        "Marvel",
		SearchTerm:      "man",
		SortingCriteria: "price-asc",
		PageIndex:       2,
	})
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "3", ps[0].ID)
	assert.Equal(t, "Pop C", ps[0].Title)
	assert.Equal(t, 1, ps[0].Quantity)
}

func TestGetUniqueProductsCount(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Marvel", r.URL.Query().Get("category"))
		w.Write([]byte(`42`))
	})

	n, err := c.GetUniqueProductsCount(context.Background(), "Marvel", "")
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestGetProductByIDNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"not found"}`))
	})

	_, err := c.GetProductByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetUserOrders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/getUserOrders", r.URL.Path)
		require.Equal(t, "bob", r.URL.Query().Get("username"))
		w.Write([]byte(`[{
			"_id":"o1",
			"user":{"_id":1,"username":"bob","email":"bob@example.com"},
			"products":[{"id":"p1","title":"Pop A","price":9.99,"quantity":2}],
			"total":29.18,
			"date":"2025-06-01T12:00:00Z",
			"status":"fulfilled"
		}]`))
	})

	orders, err := c.GetUserOrders(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, orders, 1)

	o := orders[0]
	assert.Equal(t, "o1", o.ID)
	assert.Equal(t, "1", o.User.ID)
	assert.Equal(t, checkout.StatusFulfilled, o.Status)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), o.Date)
	require.Len(t, o.Products, 1)
	assert.Equal(t, 2, o.Products[0].Quantity)
}

func TestStatusErrorSurfacesCode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"upstream exploded"}`))
	})

	_, err := c.GetUser(context.Background(), "bob")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.Status)
	assert.Equal(t, "upstream exploded", se.Detail)
}
