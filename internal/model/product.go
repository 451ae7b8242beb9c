package model

import "time"

// Product represents a catalogue product shared by both storefronts.
// PriceTTC is the tax-inclusive B2C display price; PriceHT is the
// tax-exclusive B2B unit price used for quick orders and invoicing.
type Product struct {
	ID        string    `json:"id" db:"id"`
	Reference string    `json:"reference" db:"reference"`
	Name      string    `json:"name" db:"name"`
	PriceTTC  float64   `json:"priceTTC" db:"price_ttc"`
	PriceHT   float64   `json:"priceHT" db:"price_ht"`
	Image     string    `json:"image" db:"image"`
	Category  string    `json:"category" db:"category"`
	Stock     int       `json:"stock" db:"stock"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
