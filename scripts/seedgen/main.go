package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"mishki-store/internal/model"
	"mishki-store/internal/seed"
)

// Generates a sample seed document under data/seed/ so a fresh
// development database can be populated through POST /api/seed.
func main() {
	dataDir := "data/seed"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	data := seed.Data{
		Products: []model.Product{
			{ID: "P001", Reference: "SAV-001", Name: "Savon lavande", PriceTTC: 12.00, PriceHT: 10.00, Category: "savons", Stock: 500},
			{ID: "P002", Reference: "SAV-002", Name: "Savon miel", PriceTTC: 14.40, PriceHT: 12.00, Category: "savons", Stock: 400},
			{ID: "P003", Reference: "SHA-001", Name: "Shampoing solide", PriceTTC: 18.00, PriceHT: 15.00, Category: "shampoings", Stock: 300},
			{ID: "P004", Reference: "BAU-001", Name: "Baume karité", PriceTTC: 24.00, PriceHT: 20.00, Category: "baumes", Stock: 250},
			{ID: "P005", Reference: "COF-001", Name: "Coffret découverte", PriceTTC: 48.00, PriceHT: 40.00, Category: "coffrets", Stock: 100},
		},
		Users: []seed.UserSeed{
			{
				ID: "demo-pro",
				Buyer: model.Buyer{
					Email:   "pro@maison-verte.fr",
					Company: "Maison Verte",
					Siret:   "12345678900011",
					Remise:  10,
				},
				Shipping: &model.Shipping{
					Address:      "4 Avenue des Champs",
					City:         "Paris",
					PostalCode:   "75008",
					Phone:        "0145678901",
					DeliveryType: "relais",
				},
			},
		},
		Newsletters: []string{"demo@mishki.com"},
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode seed document: %v", err)
	}

	filePath := filepath.Join(dataDir, "catalog.json")
	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d products, %d users, %d newsletter subscriptions\n",
		filePath, len(data.Products), len(data.Users), len(data.Newsletters))
}
