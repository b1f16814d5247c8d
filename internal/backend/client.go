package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/popvault/storefront/internal/catalog"
	"github.com/popvault/storefront/internal/checkout"
	"github.com/popvault/storefront/internal/session"
)

// DefaultTimeout caps every shop API call; an expired request surfaces
// as a normal error, never a hang.
const DefaultTimeout = 10 * time.Second

const maxBody = 4 << 20

// Client talks to the external shop API. It is the only place the
// storefront performs network I/O.
type Client struct {
	base string
	hc   *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: timeout},
	}
}

// do runs one request and returns the unwrapped response body.
// Non-2xx replies come back as *StatusError carrying the server's
// detail text.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode >= 400 {
		return nil, &StatusError{Status: resp.StatusCode, Detail: detailFrom(b)}
	}
	return unwrapData(b), nil
}

// detailFrom digs the human-readable message out of an error body.
func detailFrom(b []byte) string {
	var w struct {
		Detail  string `json:"detail"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return ""
	}
	switch {
	case w.Detail != "":
		return w.Detail
	case w.Error != "":
		return w.Error
	default:
		return w.Message
	}
}

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates and returns the user plus the backend token.
func (c *Client) Login(ctx context.Context, username, password string) (session.User, string, error) {
	// the backend accepts the username in the email slot too
	b, err := c.do(ctx, http.MethodPost, "/login", nil, credentials{Username: username, Email: username, Password: password})
	if err != nil {
		return session.User{}, "", fmt.Errorf("%w: %s", ErrLoginFailed, Detail(err, "please try again later"))
	}
	var w wireUser
	if err := json.Unmarshal(b, &w); err != nil {
		return session.User{}, "", fmt.Errorf("%w: unexpected response", ErrLoginFailed)
	}
	return w.canonical(), w.Token, nil
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, username, email, password string) error {
	_, err := c.do(ctx, http.MethodPost, "/signup", nil, credentials{Username: username, Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("%w: %s", ErrRegistrationFailed, Detail(err, "please try again later"))
	}
	return nil
}

// GetUser fetches a profile by username.
func (c *Client) GetUser(ctx context.Context, username string) (session.User, error) {
	q := url.Values{"username": {username}, "email": {username}}
	b, err := c.do(ctx, http.MethodGet, "/getUser", q, nil)
	if err != nil {
		return session.User{}, fmt.Errorf("get user %s: %w", username, err)
	}
	var w wireUser
	if err := json.Unmarshal(b, &w); err != nil {
		return session.User{}, fmt.Errorf("get user %s: decode: %w", username, err)
	}
	return w.canonical(), nil
}

// DeleteAccount removes the account from the backend.
func (c *Client) DeleteAccount(ctx context.Context, username string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/deleteAccount/"+url.PathEscape(username), nil, nil); err != nil {
		return fmt.Errorf("delete account %s: %w", username, err)
	}
	return nil
}

// GetUserOrders lists a user's order history.
func (c *Client) GetUserOrders(ctx context.Context, username string) ([]checkout.Order, error) {
	q := url.Values{"username": {username}}
	b, err := c.do(ctx, http.MethodGet, "/getUserOrders", q, nil)
	if err != nil {
		return nil, fmt.Errorf("get orders for %s: %w", username, err)
	}
	return decodeOrders(b)
}

// InsertOrder submits a new order. On failure the caller keeps its
// cart; the server detail (or a generic fallback) rides along.
func (c *Client) InsertOrder(ctx context.Context, o checkout.Order) error {
	if _, err := c.do(ctx, http.MethodPost, "/insertOrder", nil, o); err != nil {
		return fmt.Errorf("%w: %s", ErrOrderSubmission, Detail(err, "order failed, please try again later"))
	}
	return nil
}

// ProductQuery mirrors the /getProducts query contract.
type ProductQuery struct {
	Category        string
	SearchTerm      string
	SortingCriteria string
	PageIndex       int
}

// GetProducts fetches one backend-paged product slice.
func (c *Client) GetProducts(ctx context.Context, pq ProductQuery) ([]catalog.Product, error) {
	q := url.Values{
		"category":        {pq.Category},
		"searchTerm":      {pq.SearchTerm},
		"sortingCriteria": {pq.SortingCriteria},
		"pageIndex":       {strconv.Itoa(pq.PageIndex)},
	}
	b, err := c.do(ctx, http.MethodGet, "/getProducts", q, nil)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	return decodeProducts(b)
}

// GetAllProducts fetches the whole catalog; the storefront's query
// pipeline filters, sorts and paginates it locally.
func (c *Client) GetAllProducts(ctx context.Context) ([]catalog.Product, error) {
	b, err := c.do(ctx, http.MethodGet, "/getAllProducts", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("get all products: %w", err)
	}
	return decodeProducts(b)
}

// GetUniqueProductsCount reports how many distinct products match a
// filter, for pagination math.
func (c *Client) GetUniqueProductsCount(ctx context.Context, category, searchTerm string) (int, error) {
	q := url.Values{"category": {category}, "searchTerm": {searchTerm}}
	b, err := c.do(ctx, http.MethodGet, "/getUniqueProductsCount", q, nil)
	if err != nil {
		return 0, fmt.Errorf("get products count: %w", err)
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return 0, fmt.Errorf("get products count: decode: %w", err)
	}
	return n, nil
}

// GetProductByID fetches one product. A missing product maps to
// ErrNotFound.
func (c *Client) GetProductByID(ctx context.Context, id string) (catalog.Product, error) {
	b, err := c.do(ctx, http.MethodGet, "/getByID/"+url.PathEscape(id), nil, nil)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Status == http.StatusNotFound {
			return catalog.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return catalog.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return decodeProduct(b)
}
