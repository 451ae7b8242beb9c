// Package invoice builds and renders the PDF invoice for an order.
// Build is a pure mapping from the persisted order to InvoiceData;
// Render turns InvoiceData into PDF bytes deterministically.
package invoice

import (
	"fmt"
	"strings"

	"mishki-store/internal/model"
	"mishki-store/internal/pricing"
)

// Seller identity printed on every invoice.
const (
	SellerName    = "MISHKI LAB"
	SellerAddress = "5 Rue du Printemps"
	SellerCity    = "88000 Jeuxey"
	SellerSiret   = "92089652300011"
	SellerAPE     = "2042Z"
	SellerEmail   = "facturation@mishki.com"
)

// dateLayout is the display format used on invoices, both locales.
const dateLayout = "02/01/2006"

// Number derives the invoice number from the order identifier.
func Number(order *model.Order) string {
	id := strings.ReplaceAll(order.ID.String(), "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return "INV-" + strings.ToUpper(id)
}

// Build maps a persisted order to the invoice document. The locale
// stored on the order drives the template; orders imported from the
// legacy store without a locale fall back to the currency signal.
func Build(order *model.Order) model.InvoiceData {
	locale := order.Locale
	if locale == "" {
		locale = model.LocaleFR
		if strings.EqualFold(order.Totals.Currency, "PEN") {
			locale = model.LocalePE
		}
	}

	region := pricing.RegionFR
	if locale == model.LocalePE {
		region = pricing.RegionPE
	}

	data := model.InvoiceData{
		Locale:        locale,
		InvoiceNumber: Number(order),
		OrderNumber:   order.ID.String(),
		IssueDate:     order.CreatedAt.Format(dateLayout),
		Buyer:         buildBuyer(order),
		Seller:        sellerParty(locale),
		Payment:       buildPayment(order, locale),
		Lines:         buildLines(order),
		Totals: model.InvoiceTotals{
			Subtotal:  order.Totals.SubtotalHT,
			TaxLabel:  region.TaxLabel(),
			TaxAmount: order.Totals.Tax,
			Total:     order.Totals.TotalTTC,
			Currency:  order.Totals.Currency,
		},
	}

	if locale == model.LocalePE {
		// Serie in the SUNAT electronic-invoice style, derived from
		// the order id so regeneration is stable.
		data.Serie = fmt.Sprintf("E001-%s", strings.ToUpper(order.ID.String()[:4]))
	} else {
		data.Notes = []string{
			"En cas de retard de paiement, une pénalité de trois fois le taux d'intérêt légal sera appliquée.",
			"Indemnité forfaitaire pour frais de recouvrement : 40 EUR.",
		}
	}

	return data
}

func sellerParty(locale string) model.InvoiceParty {
	party := model.InvoiceParty{
		Name:         SellerName,
		AddressLines: []string{SellerAddress},
		City:         SellerCity,
		Email:        SellerEmail,
	}
	if locale == model.LocalePE {
		// The FR company sells into PE under the same identity; the
		// SIRET is shown as the foreign tax reference.
		party.RUC = SellerSiret
	} else {
		party.Siret = SellerSiret
		party.APE = SellerAPE
	}
	return party
}

func buildBuyer(order *model.Order) model.InvoiceParty {
	name := strings.TrimSpace(order.Buyer.FirstName + " " + order.Buyer.LastName)
	party := model.InvoiceParty{
		Name:    name,
		Company: order.Buyer.Company,
		Email:   order.Buyer.Email,
		Siret:   order.Buyer.Siret,
	}
	if order.Shipping != nil {
		if order.Shipping.ContactName != "" && party.Name == "" {
			party.Name = order.Shipping.ContactName
		}
		party.AddressLines = []string{order.Shipping.Address}
		party.City = strings.TrimSpace(order.Shipping.PostalCode + " " + order.Shipping.City)
		party.Phone = order.Shipping.Phone
	}
	return party
}

func buildPayment(order *model.Order, locale string) model.InvoicePayment {
	payment := model.InvoicePayment{Method: order.Provider}

	switch order.PaymentStatus {
	case model.PaymentStatusPaid:
		if order.Provider == model.ProviderPayPal {
			payment.Terms = "Réglée par PayPal"
		} else {
			payment.Terms = "Réglée par carte bancaire"
		}
	case model.PaymentStatusLate:
		payment.Terms = "Paiement en retard"
	default:
		payment.Terms = "Paiement à réception"
	}

	if locale == model.LocalePE && order.PaymentStatus != model.PaymentStatusPaid {
		// Pending PE invoices carry a single-installment schedule due
		// 30 days after issue.
		payment.Installments = []model.Installment{
			{
				Amount:  order.Totals.TotalTTC,
				DueDate: order.CreatedAt.AddDate(0, 0, 30).Format(dateLayout),
			},
		}
	}

	return payment
}

func buildLines(order *model.Order) []model.InvoiceLine {
	lines := make([]model.InvoiceLine, 0, len(order.Lines))
	for _, l := range order.Lines {
		line := model.InvoiceLine{
			Qty:         l.Quantity,
			Unit:        "u",
			Code:        l.Reference,
			Description: l.Name,
			UnitPrice:   l.UnitPriceHT,
			Discount:    order.Buyer.Remise,
		}
		lines = append(lines, line)
	}
	return lines
}
