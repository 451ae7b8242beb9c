package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mishki-store/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInvoiceHandler_Email(t *testing.T) {
	body := `{
		"email": "marie@example.com",
		"invoiceData": {
			"locale": "fr",
			"invoiceNumber": "INV-A1B2C3D4",
			"issueDate": "15/03/2025",
			"totals": {"subtotal": 20.00, "taxLabel": "TVA 20%", "taxAmount": 4.00, "total": 24.00, "currency": "EUR"}
		}
	}`

	t.Run("Sent", func(t *testing.T) {
		orders := new(MockOrderService)
		orders.On("EmailInvoice", mock.Anything, "marie@example.com", mock.AnythingOfType("model.InvoiceData")).
			Return(nil).Once()

		h := NewInvoiceHandler(orders, zerolog.Nop())
		rec := httptest.NewRecorder()
		h.Email(rec, httptest.NewRequest(http.MethodPost, "/api/invoice-email", strings.NewReader(body)))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]bool
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp["ok"])
		orders.AssertExpectations(t)
	})

	t.Run("SMTP unavailable surfaces as 500", func(t *testing.T) {
		orders := new(MockOrderService)
		orders.On("EmailInvoice", mock.Anything, mock.Anything, mock.Anything).
			Return(model.ErrSMTPUnavailable).Once()

		h := NewInvoiceHandler(orders, zerolog.Nop())
		rec := httptest.NewRecorder()
		h.Email(rec, httptest.NewRequest(http.MethodPost, "/api/invoice-email", strings.NewReader(body)))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, model.ErrCodeSMTPUnavailable, resp.Code)
	})

	t.Run("Missing recipient is a 400", func(t *testing.T) {
		orders := new(MockOrderService)
		orders.On("EmailInvoice", mock.Anything, "", mock.Anything).
			Return(model.NewDomainError(model.ErrCodeMissingField, "recipient email is required")).Once()

		h := NewInvoiceHandler(orders, zerolog.Nop())
		rec := httptest.NewRecorder()
		h.Email(rec, httptest.NewRequest(http.MethodPost, "/api/invoice-email", strings.NewReader(`{"email": ""}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Method not allowed", func(t *testing.T) {
		h := NewInvoiceHandler(new(MockOrderService), zerolog.Nop())
		rec := httptest.NewRecorder()
		h.Email(rec, httptest.NewRequest(http.MethodGet, "/api/invoice-email", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestNewsletterHandler_Subscribe(t *testing.T) {
	t.Run("Subscribed", func(t *testing.T) {
		svc := new(MockNewsletterService)
		svc.On("Subscribe", mock.Anything, "lea@example.com").Return(nil).Once()

		h := NewNewsletterHandler(svc, zerolog.Nop())
		rec := httptest.NewRecorder()
		h.Subscribe(rec, httptest.NewRequest(http.MethodPost, "/api/newsletter",
			strings.NewReader(`{"email": "lea@example.com"}`)))

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("Invalid email", func(t *testing.T) {
		svc := new(MockNewsletterService)
		svc.On("Subscribe", mock.Anything, "nope").
			Return(model.NewDomainError(model.ErrCodeMissingField, "a valid email address is required")).Once()

		h := NewNewsletterHandler(svc, zerolog.Nop())
		rec := httptest.NewRecorder()
		h.Subscribe(rec, httptest.NewRequest(http.MethodPost, "/api/newsletter",
			strings.NewReader(`{"email": "nope"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSeedHandler_DisabledReturns403(t *testing.T) {
	h := NewSeedHandler(nil, false, "data/seed/catalog.json", zerolog.Nop())
	rec := httptest.NewRecorder()
	h.Run(rec, httptest.NewRequest(http.MethodPost, "/api/seed", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.ErrCodeSeedDisabled, resp.Code)
}
