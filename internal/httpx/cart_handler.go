package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/popvault/storefront/internal/backend"
	"github.com/popvault/storefront/internal/cart"
)

// cartResponse is a cart view plus an optional stock-limit warning.
// Clamping is a policy outcome, not an error: the mutation proceeds
// and the warning tells the user why the quantity differs.
type cartResponse struct {
	cartView
	Warning string `json:"warning,omitempty"`
}

func stockWarning(stock int) string {
	return fmt.Sprintf("stock limit reached: only %d in stock", stock)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	c, err := h.Carts.Load(r.Context(), sid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load cart"})
		return
	}
	writeJSON(w, http.StatusOK, h.viewOf(c))
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing product_id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()
	sid := h.sessionID(w, r)

	// snapshot + stock limit come from the catalog of record
	p, err := h.Backend.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	c, err := h.Carts.Load(ctx, sid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load cart"})
		return
	}
	clamped, err := c.AddItem(p, req.Quantity)
	if err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	if err := h.Carts.Save(ctx, sid, c); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save cart"})
		return
	}
	h.publishCartUpdated(r, sid, "add", p.ID, c.Quantity(p.ID), len(c.Items))

	resp := cartResponse{cartView: h.viewOf(c)}
	if clamped {
		resp.Warning = stockWarning(p.Quantity)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing quantity"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()
	sid := h.sessionID(w, r)

	c, err := h.Carts.Load(ctx, sid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load cart"})
		return
	}

	// quantity 0 is an intent-to-remove; it only proceeds once the
	// user confirmed, and the decline path mutates nothing
	if *req.Quantity == 0 {
		if !confirmed(r) {
			confirmationRequired(w, "setting quantity to 0 removes the item; retry with confirm=true")
			return
		}
		c.RemoveItem(id)
		if err := h.Carts.Save(ctx, sid, c); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save cart"})
			return
		}
		h.publishCartUpdated(r, sid, "remove", id, 0, len(c.Items))
		writeJSON(w, http.StatusOK, h.viewOf(c))
		return
	}

	clamped, err := c.UpdateQuantity(id, *req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrNotInCart) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not in cart"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.Carts.Save(ctx, sid, c); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save cart"})
		return
	}
	h.publishCartUpdated(r, sid, "update", id, c.Quantity(id), len(c.Items))

	resp := cartResponse{cartView: h.viewOf(c)}
	if clamped {
		resp.Warning = stockWarning(c.Quantity(id))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !confirmed(r) {
		confirmationRequired(w, "removing an item must be confirmed; retry with confirm=true")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()
	sid := h.sessionID(w, r)

	c, err := h.Carts.Load(ctx, sid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load cart"})
		return
	}
	c.RemoveItem(id)
	if err := h.Carts.Save(ctx, sid, c); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save cart"})
		return
	}
	h.publishCartUpdated(r, sid, "remove", id, 0, len(c.Items))
	writeJSON(w, http.StatusOK, h.viewOf(c))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		confirmationRequired(w, "clearing the cart must be confirmed; retry with confirm=true")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()
	sid := h.sessionID(w, r)

	if err := h.Carts.Delete(ctx, sid); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to clear cart"})
		return
	}
	h.publishCartUpdated(r, sid, "clear", "", 0, 0)
	writeJSON(w, http.StatusOK, h.viewOf(&cart.Cart{}))
}
