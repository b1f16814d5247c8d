package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sorting criteria accepted by SortBy. CriteriaDefault keeps the
// catalog (insertion) order.
const (
	CriteriaDefault   = "default"
	CriteriaPriceAsc  = "price-asc"
	CriteriaPriceDesc = "price-desc"
	CriteriaTitleAsc  = "title-asc"
	CriteriaTitleDesc = "title-desc"
)

// CategoryAll is the sentinel category meaning "no filter".
const CategoryAll = "All"

// FilterByCategory keeps products whose primary interest tag equals
// category exactly. CategoryAll passes everything through.
func FilterByCategory(products []Product, category string) []Product {
	if category == "" || category == CategoryAll {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.PrimaryInterest() == category {
			out = append(out, p)
		}
	}
	return out
}

// FilterBySearch keeps products whose title contains term,
// case-insensitive. An empty term passes everything through.
func FilterBySearch(products []Product, term string) []Product {
	if term == "" {
		return products
	}
	needle := strings.ToLower(term)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			out = append(out, p)
		}
	}
	return out
}

// SortBy returns a sorted copy; the input slice is not touched.
// Title order is locale-aware. Unknown criteria behave like
// CriteriaDefault.
func SortBy(products []Product, criteria string) []Product {
	out := make([]Product, len(products))
	copy(out, products)

	switch criteria {
	case CriteriaPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case CriteriaPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case CriteriaTitleAsc:
		c := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool { return c.CompareString(out[i].Title, out[j].Title) < 0 })
	case CriteriaTitleDesc:
		c := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool { return c.CompareString(out[i].Title, out[j].Title) > 0 })
	}
	return out
}

// Paginate slices out one ZERO-indexed page. Pages past the end come
// back empty, never as an error.
func Paginate(products []Product, pageIndex, pageSize int) []Product {
	if pageIndex < 0 || pageSize <= 0 {
		return []Product{}
	}
	// checked via division so an arbitrarily large pageIndex cannot
	// overflow the start offset
	if pageIndex > len(products)/pageSize {
		return []Product{}
	}
	start := pageIndex * pageSize
	if start >= len(products) {
		return []Product{}
	}
	end := start + pageSize
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

// Query runs the full pipeline in the fixed order
// filter -> sort -> paginate, so page boundaries are computed over the
// final filtered/sorted set. It also reports the total match count for
// pagination math.
func Query(products []Product, category, term, criteria string, pageIndex, pageSize int) (page []Product, total int) {
	matched := FilterBySearch(FilterByCategory(products, category), term)
	return Paginate(SortBy(matched, criteria), pageIndex, pageSize), len(matched)
}

// PageCount is the number of pages needed for total items.
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
