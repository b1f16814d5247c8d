package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/popvault/storefront/internal/backend"
	"github.com/popvault/storefront/internal/checkout"
	"github.com/popvault/storefront/internal/redisx"
)

func (h *Handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()
	sid := h.sessionID(w, r)

	// one checkout per session at a time; a double-click or a retry
	// while the first submission is in flight answers 409
	guard := fmt.Sprintf(redisx.KeyCheckoutInFlight, sid)
	ok, err := redisx.AcquireOnce(ctx, h.Redis, guard, redisx.TTLInFlight)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to start checkout"})
		return
	}
	if !ok {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "checkout already in progress"})
		return
	}
	defer h.Redis.Del(context.Background(), guard)

	sess, err := h.Sessions.Load(ctx, sid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load session"})
		return
	}
	c, err := h.Carts.Load(ctx, sid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load cart"})
		return
	}

	order, err := h.Builder.Submit(ctx, sess, c)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrAuthenticationRequired):
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "you need an account to buy something"})
		case errors.Is(err, checkout.ErrEmptyCart):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, backend.ErrOrderSubmission):
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "checkout failed"})
		}
		return
	}

	// submission succeeded: the cart is spent, and the cached order
	// history is stale until the consumer re-warms it
	if err := h.Carts.Delete(ctx, sid); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "order placed but cart not cleared"})
		return
	}
	_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrders, order.User.Username)).Err()
	h.publishOrderSubmitted(r, order)

	writeJSON(w, http.StatusCreated, order)
}
