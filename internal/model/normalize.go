package model

import "encoding/json"

// legacyLine mirrors the field unions found in documents written by
// older storefront versions: quantity appeared as quantite, quantity
// or qty; the product key as reference, slug or id; the unit price as
// unitPriceHT, prixHT or price.
type legacyLine struct {
	Reference   string   `json:"reference"`
	Slug        string   `json:"slug"`
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Nom         string   `json:"nom"`
	Quantite    *int     `json:"quantite"`
	Quantity    *int     `json:"quantity"`
	Qty         *int     `json:"qty"`
	UnitPriceHT *float64 `json:"unitPriceHT"`
	PrixHT      *float64 `json:"prixHT"`
	Price       *float64 `json:"price"`
	TotalHT     *float64 `json:"totalHT"`
}

type legacyOrderDoc struct {
	Lines      []legacyLine `json:"lines"`
	Items      []legacyLine `json:"items"`
	OrderItems []legacyLine `json:"orderItems"`
}

// NormalizeOrderLines decodes a raw order line payload into the
// canonical OrderLine shape, accepting every legacy field variant.
// It is called exactly once, at the data-store boundary; nothing past
// the repository ever sees the union shapes.
func NormalizeOrderLines(raw json.RawMessage) ([]OrderLine, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var legacy []legacyLine
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return nil, err
		}
	} else {
		var doc legacyOrderDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		switch {
		case len(doc.Lines) > 0:
			legacy = doc.Lines
		case len(doc.Items) > 0:
			legacy = doc.Items
		default:
			legacy = doc.OrderItems
		}
	}

	lines := make([]OrderLine, 0, len(legacy))
	for _, l := range legacy {
		line := OrderLine{
			Reference: firstNonEmpty(l.Reference, l.Slug, l.ID),
			Name:      firstNonEmpty(l.Name, l.Nom),
			Quantity:  firstPositiveInt(l.Quantite, l.Quantity, l.Qty),
		}
		if line.Quantity == 0 {
			line.Quantity = 1
		}
		line.UnitPriceHT = firstFloat(l.UnitPriceHT, l.PrixHT, l.Price)
		if l.TotalHT != nil {
			line.TotalHT = *l.TotalHT
		} else {
			line.TotalHT = float64(line.Quantity) * line.UnitPriceHT
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositiveInt(values ...*int) int {
	for _, v := range values {
		if v != nil && *v > 0 {
			return *v
		}
	}
	return 0
}

func firstFloat(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}
