package handler

import (
	"encoding/json"
	"net/http"

	"mishki-store/internal/service"

	"github.com/rs/zerolog"
)

// NewsletterHandler handles newsletter subscriptions.
type NewsletterHandler struct {
	service service.NewsletterService
	logger  zerolog.Logger
}

// NewNewsletterHandler creates a new newsletter handler.
func NewNewsletterHandler(service service.NewsletterService, logger zerolog.Logger) *NewsletterHandler {
	return &NewsletterHandler{
		service: service,
		logger:  logger.With().Str("handler", "newsletter").Logger(),
	}
}

// Subscribe handles POST /api/newsletter requests.
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.service.Subscribe(r.Context(), req.Email); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}
