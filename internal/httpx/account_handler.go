package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/popvault/storefront/internal/redisx"
	"github.com/popvault/storefront/internal/session"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := validateUsername(req.Username); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := validatePassword(req.Password); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	user, token, err := h.Backend.Login(ctx, req.Username, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}

	sid := h.sessionID(w, r)
	if err := h.Sessions.Save(ctx, sid, session.Session{User: &user, Token: token}); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save session"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	for _, err := range []error{
		validateUsername(req.Username),
		validateEmail(req.Email),
		validatePassword(req.Password),
	} {
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	if err := h.Backend.Signup(ctx, req.Username, req.Email, req.Password); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "account created"})
}

// logout ends the session and wipes the cart: a returning guest starts
// clean.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()
	sid := h.sessionID(w, r)

	if err := h.Sessions.Delete(ctx, sid); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to end session"})
		return
	}
	if err := h.Carts.Delete(ctx, sid); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to clear cart"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()
	sid := h.sessionID(w, r)

	sess, err := h.Sessions.Load(ctx, sid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load session"})
		return
	}
	if sess.Guest() {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	username := sess.User.Username

	if err := h.Backend.DeleteAccount(ctx, username); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	_ = h.Sessions.Delete(ctx, sid)
	_ = h.Carts.Delete(ctx, sid)
	_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrders, username)).Err()
	writeJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()
	sid := h.sessionID(w, r)

	sess, err := h.Sessions.Load(ctx, sid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load session"})
		return
	}
	if sess.Guest() {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	username := sess.User.Username

	// 1) cache fast path
	key := fmt.Sprintf(redisx.KeyOrders, username)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	// 2) fallback to the backend, then warm the cache
	orders, err := h.Backend.GetUserOrders(ctx, username)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	if b, err := json.Marshal(orders); err == nil {
		_ = h.Redis.Set(ctx, key, b, redisx.TTLOrders).Err()
	}
	writeJSON(w, http.StatusOK, orders)
}
