package repository

import (
	"context"
	"fmt"
	"strings"

	"mishki-store/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination support.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT id, reference, name, price_ttc, price_ht, image, category, stock, created_at
		FROM products
		ORDER BY reference
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		err := rows.Scan(&p.ID, &p.Reference, &p.Name, &p.PriceTTC, &p.PriceHT, &p.Image, &p.Category, &p.Stock, &p.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `
		SELECT id, reference, name, price_ttc, price_ht, image, category, stock, created_at
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Reference, &p.Name, &p.PriceTTC, &p.PriceHT, &p.Image, &p.Category, &p.Stock, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetByReferences retrieves products keyed by normalized (lowercased,
// trimmed) reference.
func (r *productRepository) GetByReferences(ctx context.Context, refs []string) (map[string]model.Product, error) {
	catalog := make(map[string]model.Product, len(refs))
	if len(refs) == 0 {
		return catalog, nil
	}

	normalized := make([]string, 0, len(refs))
	for _, ref := range refs {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(ref)))
	}

	query := `
		SELECT id, reference, name, price_ttc, price_ht, image, category, stock, created_at
		FROM products
		WHERE LOWER(reference) = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, normalized)
	if err != nil {
		r.logger.Error().Err(err).
			Int("ref_count", len(refs)).
			Msg("failed to query products by reference")
		return nil, fmt.Errorf("failed to query products by reference: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p model.Product
		err := rows.Scan(&p.ID, &p.Reference, &p.Name, &p.PriceTTC, &p.PriceHT, &p.Image, &p.Category, &p.Stock, &p.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		catalog[strings.ToLower(p.Reference)] = p
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return catalog, nil
}

// Upsert inserts or updates a product by id.
func (r *productRepository) Upsert(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (id, reference, name, price_ttc, price_ht, image, category, stock, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (id) DO UPDATE SET
			reference = EXCLUDED.reference,
			name = EXCLUDED.name,
			price_ttc = EXCLUDED.price_ttc,
			price_ht = EXCLUDED.price_ht,
			image = EXCLUDED.image,
			category = EXCLUDED.category,
			stock = EXCLUDED.stock
	`

	_, err := r.pool.Exec(ctx, query, p.ID, p.Reference, p.Name, p.PriceTTC, p.PriceHT, p.Image, p.Category, p.Stock)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to upsert product")
		return fmt.Errorf("failed to upsert product: %w", err)
	}
	return nil
}
