package email

import (
	"testing"

	"mishki-store/internal/config"
	"mishki-store/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInvoice() model.InvoiceData {
	return model.InvoiceData{
		Locale:        model.LocaleFR,
		InvoiceNumber: "INV-A1B2C3D4",
		OrderNumber:   "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d",
		IssueDate:     "15/03/2025",
		Buyer: model.InvoiceParty{
			Name:  "Marie Dupont",
			Email: "marie@example.com",
		},
		Totals: model.InvoiceTotals{
			Subtotal:  20.00,
			TaxLabel:  "TVA 20%",
			TaxAmount: 4.00,
			Total:     24.00,
			Currency:  "EUR",
		},
	}
}

func TestNewNotifier_DisabledWithoutConfig(t *testing.T) {
	notifier, err := NewNotifier(config.SMTPConfig{}, "https://mishki.example", zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, notifier.Configured())

	err = notifier.SendInvoice("marie@example.com", testInvoice(), []byte("%PDF"))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrSMTPUnavailable)
}

func TestNewNotifier_ConfiguredWithFullConfig(t *testing.T) {
	cfg := config.SMTPConfig{
		Host: "smtp.example.com",
		Port: 587,
		User: "mailer",
		Pass: "secret",
		From: "facturation@mishki.com",
	}
	notifier, err := NewNotifier(cfg, "https://mishki.example", zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, notifier.Configured())
}

func TestRenderBody(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(*model.InvoiceData)
		expectInBody []string
	}{
		{
			name:   "B2C body uses buyer name and order tracking link",
			mutate: func(inv *model.InvoiceData) {},
			expectInBody: []string{
				"Bonjour Marie Dupont",
				"INV-A1B2C3D4",
				"24.00 EUR",
				"/compte/commandes",
				"Suivre ma commande",
			},
		},
		{
			name: "B2B body uses company name and pro link",
			mutate: func(inv *model.InvoiceData) {
				inv.Buyer.Company = "Savonnerie du Centre"
			},
			expectInBody: []string{
				"Bonjour Savonnerie du Centre",
				"/pro/commandes",
				"Mon espace pro",
			},
		},
		{
			name: "anonymous buyer falls back to generic greeting",
			mutate: func(inv *model.InvoiceData) {
				inv.Buyer.Name = ""
			},
			expectInBody: []string{"Bonjour client"},
		},
	}

	cfg := config.SMTPConfig{Host: "smtp.example.com", Port: 587, User: "u", Pass: "p", From: "f@x"}
	raw, err := NewNotifier(cfg, "https://mishki.example", zerolog.Nop())
	require.NoError(t, err)
	notifier, ok := raw.(*smtpNotifier)
	require.True(t, ok)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := testInvoice()
			tt.mutate(&inv)

			body, err := notifier.renderBody(inv)
			require.NoError(t, err)
			for _, fragment := range tt.expectInBody {
				assert.Contains(t, body, fragment)
			}
			assert.Contains(t, body, "#235730")
		})
	}
}
