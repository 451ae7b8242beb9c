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

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

// GetProfile returns the saved buyer profile and delivery address for a
// user, or (nil, nil, nil) when the user has never saved one.
func (r *userRepository) GetProfile(ctx context.Context, userID string) (*model.Buyer, *model.Shipping, error) {
	query := `
		SELECT email, first_name, last_name, company, siret, remise, shipping
		FROM users
		WHERE id = $1
	`

	var (
		buyer        model.Buyer
		email        *string
		firstName    *string
		lastName     *string
		company      *string
		siret        *string
		shippingJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&email, &firstName, &lastName, &company, &siret, &buyer.Remise, &shippingJSON,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("user_id", userID).Msg("user profile not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query user profile")
		return nil, nil, fmt.Errorf("failed to query user profile: %w", err)
	}

	buyer.UserID = userID
	buyer.Email = deref(email)
	buyer.FirstName = deref(firstName)
	buyer.LastName = deref(lastName)
	buyer.Company = deref(company)
	buyer.Siret = deref(siret)

	var shipping *model.Shipping
	if len(shippingJSON) > 0 {
		shipping = &model.Shipping{}
		if err := json.Unmarshal(shippingJSON, shipping); err != nil {
			r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to decode saved shipping")
			return nil, nil, fmt.Errorf("failed to decode saved shipping: %w", err)
		}
	}

	return &buyer, shipping, nil
}

// UpsertProfile saves the buyer profile and delivery address so the
// next checkout can prefill them.
func (r *userRepository) UpsertProfile(ctx context.Context, userID string, buyer *model.Buyer, shipping *model.Shipping) error {
	var shippingJSON []byte
	if shipping != nil {
		var err error
		shippingJSON, err = json.Marshal(shipping)
		if err != nil {
			return fmt.Errorf("failed to encode shipping: %w", err)
		}
	}

	query := `
		INSERT INTO users (id, email, first_name, last_name, company, siret, remise, shipping, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			company = EXCLUDED.company,
			siret = EXCLUDED.siret,
			remise = EXCLUDED.remise,
			shipping = EXCLUDED.shipping,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		userID,
		nullable(buyer.Email),
		nullable(buyer.FirstName),
		nullable(buyer.LastName),
		nullable(buyer.Company),
		nullable(buyer.Siret),
		buyer.Remise,
		shippingJSON,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to upsert user profile")
		return fmt.Errorf("failed to upsert user profile: %w", err)
	}

	return nil
}
