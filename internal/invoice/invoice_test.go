package invoice

import (
	"testing"
	"time"

	"mishki-store/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() *model.Order {
	id := uuid.MustParse("a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d")
	return &model.Order{
		ID: id,
		Buyer: model.Buyer{
			FirstName: "Marie",
			LastName:  "Dupont",
			Email:     "marie@example.com",
			Company:   "Savonnerie du Centre",
			Siret:     "12345678900011",
			Remise:    10,
		},
		Lines: []model.OrderLine{
			{Reference: "SAV-001", Name: "Savon lavande", Quantity: 2, UnitPriceHT: 10.00, TotalHT: 20.00},
		},
		Totals: model.Totals{
			SubtotalHT: 20.00,
			Tax:        4.00,
			TotalTTC:   24.00,
			Currency:   "EUR",
		},
		PaymentStatus: model.PaymentStatusPaid,
		Provider:      model.ProviderPayPal,
		Shipping: &model.Shipping{
			Address:      "12 Rue des Lilas",
			City:         "Lyon",
			PostalCode:   "69003",
			Phone:        "0612345678",
			DeliveryType: "domicile",
		},
		Locale:    model.LocaleFR,
		CreatedAt: time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestNumber(t *testing.T) {
	order := testOrder()
	assert.Equal(t, "INV-A1B2C3D4", Number(order))
}

func TestBuild_FR(t *testing.T) {
	order := testOrder()
	data := Build(order)

	assert.Equal(t, model.LocaleFR, data.Locale)
	assert.Equal(t, "INV-A1B2C3D4", data.InvoiceNumber)
	assert.Equal(t, "15/03/2025", data.IssueDate)

	assert.Equal(t, SellerName, data.Seller.Name)
	assert.Equal(t, SellerSiret, data.Seller.Siret)
	assert.Equal(t, SellerAPE, data.Seller.APE)

	assert.Equal(t, "Marie Dupont", data.Buyer.Name)
	assert.Equal(t, "Savonnerie du Centre", data.Buyer.Company)
	assert.Equal(t, "69003 Lyon", data.Buyer.City)

	assert.Equal(t, "TVA 20%", data.Totals.TaxLabel)
	assert.Equal(t, 20.00, data.Totals.Subtotal)
	assert.Equal(t, 4.00, data.Totals.TaxAmount)
	assert.Equal(t, 24.00, data.Totals.Total)

	assert.Equal(t, "Réglée par PayPal", data.Payment.Terms)
	assert.Empty(t, data.Serie)
	assert.NotEmpty(t, data.Notes)

	require.Len(t, data.Lines, 1)
	assert.Equal(t, "SAV-001", data.Lines[0].Code)
	assert.Equal(t, 10.0, data.Lines[0].Discount)
}

func TestBuild_PE(t *testing.T) {
	order := testOrder()
	order.Locale = model.LocalePE
	order.Totals.Currency = "PEN"
	order.PaymentStatus = model.PaymentStatusPending
	order.Provider = model.ProviderCard

	data := Build(order)

	assert.Equal(t, model.LocalePE, data.Locale)
	assert.Equal(t, "IGV 18%", data.Totals.TaxLabel)
	assert.Equal(t, "E001-A1B2", data.Serie)
	assert.Equal(t, SellerSiret, data.Seller.RUC)
	assert.Empty(t, data.Seller.Siret)

	require.Len(t, data.Payment.Installments, 1)
	assert.Equal(t, 24.00, data.Payment.Installments[0].Amount)
	assert.Equal(t, "14/04/2025", data.Payment.Installments[0].DueDate)
}

func TestBuild_LegacyLocaleFallback(t *testing.T) {
	order := testOrder()
	order.Locale = ""
	order.Totals.Currency = "PEN"

	data := Build(order)
	assert.Equal(t, model.LocalePE, data.Locale)
	assert.Equal(t, "IGV 18%", data.Totals.TaxLabel)
}

func TestBuild_PaymentTerms(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		provider string
		expected string
	}{
		{"paid via paypal", model.PaymentStatusPaid, model.ProviderPayPal, "Réglée par PayPal"},
		{"paid via card", model.PaymentStatusPaid, model.ProviderCard, "Réglée par carte bancaire"},
		{"pending", model.PaymentStatusPending, model.ProviderCard, "Paiement à réception"},
		{"late", model.PaymentStatusLate, model.ProviderCard, "Paiement en retard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := testOrder()
			order.PaymentStatus = tt.status
			order.Provider = tt.provider
			assert.Equal(t, tt.expected, Build(order).Payment.Terms)
		})
	}
}

func TestRender_Deterministic(t *testing.T) {
	data := Build(testOrder())

	first, err := Render(data)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// Cross a wall-clock second so embedded document dates cannot
	// accidentally match.
	time.Sleep(1100 * time.Millisecond)

	second, err := Render(data)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical invoice data must render to identical bytes")
}

func TestRender_BothLocales(t *testing.T) {
	for _, locale := range []string{model.LocaleFR, model.LocalePE} {
		t.Run(locale, func(t *testing.T) {
			order := testOrder()
			order.Locale = locale
			if locale == model.LocalePE {
				order.Totals.Currency = "PEN"
				order.PaymentStatus = model.PaymentStatusPending
			}

			pdfBytes, err := Render(Build(order))
			require.NoError(t, err)
			assert.Greater(t, len(pdfBytes), 500)
			assert.Equal(t, "%PDF", string(pdfBytes[:4]))
		})
	}
}

func TestRender_InvalidIssueDate(t *testing.T) {
	data := Build(testOrder())
	data.IssueDate = "not-a-date"

	_, err := Render(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid issue date")
}
