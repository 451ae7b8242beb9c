// Package seed loads demo catalog data from a JSON document and
// upserts it into the database. The loader reads from a local file or
// from S3, with an S3-first fallback, and is exposed through a gated
// API endpoint.
package seed

import (
	"context"
	"encoding/json"

	"mishki-store/internal/model"
)

// Data is the seed document shape.
type Data struct {
	Products    []model.Product `json:"products"`
	Users       []UserSeed      `json:"users,omitempty"`
	Newsletters []string        `json:"newsletters,omitempty"`
}

// UserSeed is one saved buyer profile in the seed document.
type UserSeed struct {
	ID       string          `json:"id"`
	Buyer    model.Buyer     `json:"buyer"`
	Shipping *model.Shipping `json:"shipping,omitempty"`
}

// Loader reads the seed document from a source identified by path or
// key.
type Loader interface {
	Load(ctx context.Context, path string) (*Data, error)
}

func decode(raw []byte) (*Data, error) {
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
