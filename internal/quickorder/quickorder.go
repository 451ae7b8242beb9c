// Package quickorder validates B2B quick-order drafts: typed product
// references, a per-line minimum order quantity, stock clamping and
// the per-account remise discount.
package quickorder

import (
	"fmt"
	"strings"

	"mishki-store/internal/model"
	"mishki-store/internal/pricing"
)

// DefaultMinQuantity is the B2B minimum order quantity per line.
const DefaultMinQuantity = 100

// DraftLine is one typed row of the quick-order form.
type DraftLine struct {
	Reference string `json:"reference"`
	Quantity  int    `json:"quantity"`
}

// ValidatedLine is a draft line resolved against the catalog. Message
// is non-empty when the stock could not satisfy the request; the
// quantity is then clamped to the available stock and checkout stays
// blocked until the buyer accepts the adjusted draft.
type ValidatedLine struct {
	Reference   string  `json:"reference"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	UnitPriceHT float64 `json:"unitPriceHT"`
	TotalHT     float64 `json:"totalHT"`
	Stock       int     `json:"stock"`
	Message     string  `json:"message,omitempty"`
}

// Result is the outcome of validating a draft.
type Result struct {
	Lines  []ValidatedLine `json:"lines"`
	Totals model.Totals    `json:"totals"`
	// Blocked is true while any line carries a stock message or an
	// unknown reference; checkout must not proceed.
	Blocked bool `json:"blocked"`
}

// NormalizeRef canonicalizes a typed reference for catalog lookup.
func NormalizeRef(ref string) string {
	return strings.ToLower(strings.TrimSpace(ref))
}

// Validate resolves each draft line against the catalog (keyed by
// normalized reference), raises quantities to the minimum order
// quantity, clamps them to available stock, and prices them with the
// account's remise. Totals are computed from the validated lines at
// the FR rate, as B2B invoicing is EUR.
func Validate(draft []DraftLine, catalog map[string]model.Product, minQty int, remise float64) Result {
	if minQty < 1 {
		minQty = DefaultMinQuantity
	}

	result := Result{Lines: make([]ValidatedLine, 0, len(draft))}
	orderLines := make([]model.OrderLine, 0, len(draft))

	for _, d := range draft {
		ref := NormalizeRef(d.Reference)
		if ref == "" {
			result.Blocked = true
			continue
		}

		product, ok := catalog[ref]
		if !ok {
			result.Lines = append(result.Lines, ValidatedLine{
				Reference: strings.ToUpper(d.Reference),
				Message:   fmt.Sprintf("Référence inconnue: %s", strings.ToUpper(d.Reference)),
			})
			result.Blocked = true
			continue
		}

		line := ValidatedLine{
			Reference:   product.Reference,
			Name:        product.Name,
			UnitPriceHT: pricing.ApplyRemise(product.PriceHT, remise),
			Stock:       product.Stock,
		}

		qty := d.Quantity
		if qty < minQty {
			qty = minQty
		}

		switch {
		case product.Stock <= 0:
			line.Quantity = 0
			line.Message = "Stock épuisé"
			result.Blocked = true
		case product.Stock < minQty:
			line.Quantity = product.Stock
			line.Message = fmt.Sprintf("Stock insuffisant (min %d, dispo %d)", minQty, product.Stock)
			result.Blocked = true
		case qty > product.Stock:
			line.Quantity = product.Stock
			line.Message = fmt.Sprintf("Stock max: %d", product.Stock)
			result.Blocked = true
		default:
			line.Quantity = qty
		}

		line.TotalHT = pricing.Round2(line.UnitPriceHT * float64(line.Quantity))
		result.Lines = append(result.Lines, line)

		if line.Message == "" && line.Quantity > 0 {
			orderLines = append(orderLines, model.OrderLine{
				Reference:   line.Reference,
				Name:        line.Name,
				Quantity:    line.Quantity,
				UnitPriceHT: line.UnitPriceHT,
				TotalHT:     line.TotalHT,
			})
		}
	}

	if len(result.Lines) == 0 {
		result.Blocked = true
	}
	result.Totals = pricing.TotalsFromHT(orderLines, pricing.RegionFR, "EUR")
	return result
}

// Reservations converts validated lines into the stock decrements the
// checkout transaction must apply.
func Reservations(lines []model.OrderLine) []model.StockReservation {
	out := make([]model.StockReservation, 0, len(lines))
	for _, l := range lines {
		if l.Reference == "" || l.Quantity <= 0 {
			continue
		}
		out = append(out, model.StockReservation{Reference: l.Reference, Quantity: l.Quantity})
	}
	return out
}
