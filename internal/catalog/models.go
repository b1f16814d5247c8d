package catalog

// Product is the canonical catalog schema. The shop API is the owner
// of record; the storefront never mutates products, it only snapshots
// them into carts and orders.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	ProductType string   `json:"product_type"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Quantity    int      `json:"quantity"` // units in stock, >= 0
	Img         string   `json:"img"`
	Interest    []string `json:"interest"`
	Tags        []string `json:"tags,omitempty"`
	Vendor      string   `json:"vendor,omitempty"`
}

// PrimaryInterest is the tag category filters match against.
// Products without interest tags only match the "All" sentinel.
func (p Product) PrimaryInterest() string {
	if len(p.Interest) == 0 {
		return ""
	}
	return p.Interest[0]
}
