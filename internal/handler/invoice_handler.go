package handler

import (
	"encoding/json"
	"net/http"

	"mishki-store/internal/model"
	"mishki-store/internal/service"

	"github.com/rs/zerolog"
)

// InvoiceHandler handles the on-demand invoice email endpoint.
type InvoiceHandler struct {
	orders service.OrderService
	logger zerolog.Logger
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(orders service.OrderService, logger zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		orders: orders,
		logger: logger.With().Str("handler", "invoice").Logger(),
	}
}

// Email handles POST /api/invoice-email requests: re-renders the
// provided invoice data and mails it to the recipient.
func (h *InvoiceHandler) Email(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req struct {
		Email       string            `json:"email"`
		InvoiceData model.InvoiceData `json:"invoiceData"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.orders.EmailInvoice(r.Context(), req.Email, req.InvoiceData); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
