package backend

// The shop API's payload shapes drifted across prototype generations:
// "_id" vs "id" (number or string), "quantity" vs "cartQuantity",
// some replies wrapped in {"data": ...}. All of that is normalized
// here, at the boundary; only canonical types travel inward.

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/popvault/storefront/internal/catalog"
	"github.com/popvault/storefront/internal/checkout"
	"github.com/popvault/storefront/internal/session"
)

// unwrapData strips the optional {"data": ...} wrapper.
func unwrapData(b []byte) json.RawMessage {
	var w struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &w); err == nil && len(w.Data) > 0 && string(w.Data) != "null" {
		return w.Data
	}
	return b
}

// flexID accepts both string and numeric identifiers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexID(n.String())
		return nil
	}
	return fmt.Errorf("id: unsupported shape %s", b)
}

func pickID(id, legacy flexID) string {
	if id != "" {
		return string(id)
	}
	return string(legacy)
}

type wireProduct struct {
	ID           flexID   `json:"id"`
	LegacyID     flexID   `json:"_id"`
	Title        string   `json:"title"`
	ProductType  string   `json:"product_type"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Quantity     *int     `json:"quantity"`
	CartQuantity *int     `json:"cartQuantity"`
	Img          string   `json:"img"`
	Interest     []string `json:"interest"`
	Tags         []string `json:"tags"`
	Vendor       string   `json:"vendor"`
}

func (w wireProduct) canonical() catalog.Product {
	qty := 0
	switch {
	case w.Quantity != nil:
		qty = *w.Quantity
	case w.CartQuantity != nil:
		qty = *w.CartQuantity
	}
	if qty < 0 {
		qty = 0
	}
	return catalog.Product{
		ID:          pickID(w.ID, w.LegacyID),
		Title:       w.Title,
		ProductType: w.ProductType,
		Description: w.Description,
		Price:       w.Price,
		Quantity:    qty,
		Img:         w.Img,
		Interest:    w.Interest,
		Tags:        w.Tags,
		Vendor:      w.Vendor,
	}
}

func decodeProduct(b []byte) (catalog.Product, error) {
	var w wireProduct
	if err := json.Unmarshal(b, &w); err != nil {
		return catalog.Product{}, fmt.Errorf("decode product: %w", err)
	}
	return w.canonical(), nil
}

func decodeProducts(b []byte) ([]catalog.Product, error) {
	var ws []wireProduct
	if err := json.Unmarshal(b, &ws); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	out := make([]catalog.Product, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.canonical())
	}
	return out, nil
}

type wireUser struct {
	ID       flexID `json:"id"`
	LegacyID flexID `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

func (w wireUser) canonical() session.User {
	return session.User{
		ID:       pickID(w.ID, w.LegacyID),
		Username: w.Username,
		Email:    w.Email,
	}
}

type wireOrder struct {
	ID       flexID                     `json:"id"`
	LegacyID flexID                     `json:"_id"`
	User     wireUser                   `json:"user"`
	Products []checkout.ProductSnapshot `json:"products"`
	Total    float64                    `json:"total"`
	Date     string                     `json:"date"`
	Status   string                     `json:"status"`
}

func (w wireOrder) canonical() checkout.Order {
	// historical orders carry the date as an ISO string
	date, err := time.Parse(time.RFC3339, w.Date)
	if err != nil {
		date = time.Time{}
	}
	return checkout.Order{
		ID:       pickID(w.ID, w.LegacyID),
		User:     w.User.canonical(),
		Products: w.Products,
		Total:    w.Total,
		Date:     date,
		Status:   checkout.Status(w.Status),
	}
}

func decodeOrders(b []byte) ([]checkout.Order, error) {
	var ws []wireOrder
	if err := json.Unmarshal(b, &ws); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	out := make([]checkout.Order, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.canonical())
	}
	return out, nil
}
