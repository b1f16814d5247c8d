package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/popvault/storefront/internal/backend"
	"github.com/popvault/storefront/internal/catalog"
)

type productPage struct {
	Products   []catalog.Product `json:"products"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := q.Get("category")
	if category == "" {
		category = catalog.CategoryAll
	}
	term := q.Get("searchTerm")
	criteria := q.Get("sortingCriteria")
	if criteria == "" {
		criteria = catalog.CriteriaDefault
	}
	pageStr := q.Get("pageIndex")
	if pageStr == "" {
		pageStr = q.Get("page")
	}
	page, _ := strconv.Atoi(pageStr)

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	all, err := h.Backend.GetAllProducts(ctx)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	// page boundaries are computed over the filtered+sorted set; an
	// empty page is the "no products" state, not an error
	items, total := catalog.Query(all, category, term, criteria, page, h.PageSize)
	writeJSON(w, http.StatusOK, productPage{
		Products:   items,
		Total:      total,
		Page:       page,
		TotalPages: catalog.PageCount(total, h.PageSize),
	})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	p, err := h.Backend.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, p)
}
