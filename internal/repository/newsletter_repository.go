package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// newsletterRepository implements the NewsletterRepository interface
// using PostgreSQL.
type newsletterRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewNewsletterRepository creates a new PostgreSQL-backed newsletter repository.
func NewNewsletterRepository(pool *pgxpool.Pool, logger zerolog.Logger) NewsletterRepository {
	return &newsletterRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "newsletter").Logger(),
	}
}

// Subscribe records a newsletter subscription. Resubscribing the same
// address is a no-op, not an error.
func (r *newsletterRepository) Subscribe(ctx context.Context, email string) error {
	normalized := strings.ToLower(strings.TrimSpace(email))

	query := `
		INSERT INTO newsletter_subscriptions (email, created_at)
		VALUES ($1, NOW())
		ON CONFLICT (email) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query, normalized)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to record newsletter subscription")
		return fmt.Errorf("failed to record newsletter subscription: %w", err)
	}

	r.logger.Info().Str("email", normalized).Msg("newsletter subscription recorded")
	return nil
}
