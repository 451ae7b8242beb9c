// Package pricing resolves the buyer's tax region and computes
// tax-inclusive totals for both storefronts.
package pricing

import (
	"math"
	"strings"

	"mishki-store/internal/model"
)

// Region selects the applicable VAT regime.
type Region string

const (
	RegionFR Region = "fr"
	RegionPE Region = "pe"
)

// Fixed regional tax rates. Not stored per-line.
const (
	RateFR = 0.20
	RatePE = 0.18
)

// Rate returns the tax rate for the region.
func (r Region) Rate() float64 {
	if r == RegionPE {
		return RatePE
	}
	return RateFR
}

// TaxLabel returns the invoice tax label for the region.
func (r Region) TaxLabel() string {
	if r == RegionPE {
		return "IGV 18%"
	}
	return "TVA 20%"
}

// Currency returns the region's currency code.
func (r Region) Currency() string {
	if r == RegionPE {
		return "PEN"
	}
	return "EUR"
}

// Resolve picks the buyer's region. An explicit region from the
// buyer's profile always wins; a PEN currency code wins next; the
// timezone and locale string heuristics are kept only as fallbacks
// for legacy clients that send neither. Defaults to FR.
func Resolve(explicit, currency, timezone, locale string) Region {
	switch strings.ToLower(explicit) {
	case string(RegionPE):
		return RegionPE
	case string(RegionFR):
		return RegionFR
	}

	if strings.EqualFold(currency, "PEN") {
		return RegionPE
	}

	tz := strings.ToLower(timezone)
	if strings.Contains(tz, "lima") || strings.Contains(tz, "peru") {
		return RegionPE
	}
	if strings.Contains(tz, "paris") {
		return RegionFR
	}

	if strings.Contains(strings.ToLower(locale), "pe") {
		return RegionPE
	}
	return RegionFR
}

// Round2 rounds to the cent.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ApplyRemise applies a percentage discount to a tax-exclusive unit
// price, clamped at zero.
func ApplyRemise(priceHT, percent float64) float64 {
	discounted := priceHT - (priceHT*percent)/100
	if discounted < 0 {
		return 0
	}
	return discounted
}

// TotalsFromHT computes totals from tax-exclusive lines:
// subtotal = sum(qty x unitPriceHT), tax = subtotal x rate.
func TotalsFromHT(lines []model.OrderLine, region Region, currency string) model.Totals {
	subtotal := 0.0
	for _, l := range lines {
		total := l.TotalHT
		if total == 0 {
			total = float64(l.Quantity) * l.UnitPriceHT
		}
		subtotal += total
	}
	tax := subtotal * region.Rate()
	return model.Totals{
		SubtotalHT: Round2(subtotal),
		Tax:        Round2(tax),
		TotalTTC:   Round2(subtotal + tax),
		Currency:   currency,
	}
}

// TotalsFromTTC computes totals from tax-inclusive cart prices, as the
// B2C storefront displays them: the tax-exclusive subtotal is derived
// by dividing out the rate.
func TotalsFromTTC(items []model.CartItem, region Region, currency string) model.Totals {
	totalTTC := 0.0
	for _, it := range items {
		totalTTC += it.Price * float64(it.Quantity)
	}
	subtotal := totalTTC / (1 + region.Rate())
	return model.Totals{
		SubtotalHT: Round2(subtotal),
		Tax:        Round2(totalTTC - subtotal),
		TotalTTC:   Round2(totalTTC),
		Currency:   currency,
	}
}

// UnitPriceHTFromTTC derives the tax-exclusive unit price from a
// tax-inclusive display price, for invoice lines.
func UnitPriceHTFromTTC(priceTTC float64, region Region) float64 {
	return Round2(priceTTC / (1 + region.Rate()))
}
