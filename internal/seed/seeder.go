package seed

import (
	"context"
	"fmt"

	"mishki-store/internal/repository"

	"github.com/rs/zerolog"
)

// Result summarises one seeding run.
type Result struct {
	Products    int `json:"products"`
	Users       int `json:"users"`
	Newsletters int `json:"newsletters"`
}

// Seeder loads a seed document and upserts its contents.
type Seeder struct {
	loader         Loader
	productRepo    repository.ProductRepository
	userRepo       repository.UserRepository
	newsletterRepo repository.NewsletterRepository
	logger         zerolog.Logger
}

// NewSeeder creates a seeder over the given loader and repositories.
func NewSeeder(
	loader Loader,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	newsletterRepo repository.NewsletterRepository,
	logger zerolog.Logger,
) *Seeder {
	return &Seeder{
		loader:         loader,
		productRepo:    productRepo,
		userRepo:       userRepo,
		newsletterRepo: newsletterRepo,
		logger:         logger.With().Str("component", "seeder").Logger(),
	}
}

// Run loads the seed document from the given path and upserts every
// product, user profile and newsletter subscription it contains.
// Re-running with the same document is idempotent.
func (s *Seeder) Run(ctx context.Context, path string) (*Result, error) {
	data, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	for i := range data.Products {
		if err := s.productRepo.Upsert(ctx, &data.Products[i]); err != nil {
			return nil, fmt.Errorf("failed to seed product %s: %w", data.Products[i].Reference, err)
		}
		result.Products++
	}

	for _, user := range data.Users {
		if user.ID == "" {
			continue
		}
		if err := s.userRepo.UpsertProfile(ctx, user.ID, &user.Buyer, user.Shipping); err != nil {
			return nil, fmt.Errorf("failed to seed user %s: %w", user.ID, err)
		}
		result.Users++
	}

	for _, email := range data.Newsletters {
		if email == "" {
			continue
		}
		if err := s.newsletterRepo.Subscribe(ctx, email); err != nil {
			return nil, fmt.Errorf("failed to seed newsletter subscription: %w", err)
		}
		result.Newsletters++
	}

	s.logger.Info().
		Int("products", result.Products).
		Int("users", result.Users).
		Int("newsletters", result.Newsletters).
		Msg("seeding completed")

	return result, nil
}
