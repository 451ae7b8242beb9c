package handler

import (
	"net/http"

	"mishki-store/internal/config"

	"github.com/rs/zerolog"
)

// PayPalHandler serves the public PayPal client configuration the
// storefront needs to initialise the payment SDK.
type PayPalHandler struct {
	cfg    config.PayPalConfig
	logger zerolog.Logger
}

// NewPayPalHandler creates a new PayPal config handler.
func NewPayPalHandler(cfg config.PayPalConfig, logger zerolog.Logger) *PayPalHandler {
	return &PayPalHandler{
		cfg:    cfg,
		logger: logger.With().Str("handler", "paypal").Logger(),
	}
}

// Config handles GET /api/paypal/config requests.
func (h *PayPalHandler) Config(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"clientId": h.cfg.ClientID,
		"currency": h.cfg.Currency,
	})
}
