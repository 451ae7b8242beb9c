package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"mishki-store/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartStorage persists carts as one JSONB document per owner. It
// satisfies the cart.Storage interface so the cart store itself stays
// independent of the backing database.
type cartStorage struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartStorage creates a PostgreSQL-backed cart storage adapter.
func NewCartStorage(pool *pgxpool.Pool, logger zerolog.Logger) *cartStorage {
	return &cartStorage{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// Get returns the items stored for an owner. A missing row is an
// empty cart, not an error.
func (s *cartStorage) Get(ctx context.Context, owner string) ([]model.CartItem, error) {
	var itemsJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT items FROM carts WHERE owner = $1`,
		owner,
	).Scan(&itemsJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		s.logger.Error().Err(err).Str("owner", owner).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	var items []model.CartItem
	if err := json.Unmarshal(itemsJSON, &items); err != nil {
		s.logger.Error().Err(err).Str("owner", owner).Msg("failed to decode cart items")
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	return items, nil
}

// Put replaces the stored items for an owner.
func (s *cartStorage) Put(ctx context.Context, owner string, items []model.CartItem) error {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart items: %w", err)
	}

	query := `
		INSERT INTO carts (owner, items, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (owner) DO UPDATE SET
			items = EXCLUDED.items,
			updated_at = NOW()
	`

	if _, err := s.pool.Exec(ctx, query, owner, itemsJSON); err != nil {
		s.logger.Error().Err(err).Str("owner", owner).Msg("failed to save cart")
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Delete removes an owner's cart. Deleting a missing cart is a no-op.
func (s *cartStorage) Delete(ctx context.Context, owner string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM carts WHERE owner = $1`, owner); err != nil {
		s.logger.Error().Err(err).Str("owner", owner).Msg("failed to delete cart")
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
