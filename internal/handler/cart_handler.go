package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"mishki-store/internal/cart"
	"mishki-store/internal/model"

	"github.com/rs/zerolog"
)

// ownerHeader identifies the cart owner, "guest:<token>" or
// "user:<id>".
const ownerHeader = "X-Cart-Owner"

// CartHandler handles cart HTTP requests.
type CartHandler struct {
	store  *cart.Store
	logger zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(store *cart.Store, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		store:  store,
		logger: logger.With().Str("handler", "cart").Logger(),
	}
}

func (h *CartHandler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner := strings.TrimSpace(r.Header.Get(ownerHeader))
	if owner == "" {
		writeError(w, http.StatusBadRequest, "X-Cart-Owner header is required", h.logger)
		return "", false
	}
	return owner, true
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	c, err := h.store.Get(r.Context(), owner)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	var item model.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	c, err := h.store.AddItem(r.Context(), owner, item)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UpdateItem handles PUT /api/cart/items/{id} requests.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/cart/items/"), "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "item ID is required", h.logger)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	c, err := h.store.UpdateQuantity(r.Context(), owner, id, req.Quantity)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// RemoveItem handles DELETE /api/cart/items/{id} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/cart/items/"), "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "item ID is required", h.logger)
		return
	}

	c, err := h.store.RemoveItem(r.Context(), owner, id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	if err := h.store.Clear(r.Context(), owner); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Merge handles POST /api/cart/merge requests, reconciling the guest
// cart into the user cart at login.
func (h *CartHandler) Merge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req struct {
		GuestID string `json:"guestId"`
		UserID  string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if req.GuestID == "" || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "guestId and userId are required", h.logger)
		return
	}

	c, err := h.store.TransferOwner(r.Context(), "guest:"+req.GuestID, "user:"+req.UserID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
