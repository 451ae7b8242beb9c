package service

import (
	"context"
	"strings"

	"mishki-store/internal/model"
	"mishki-store/internal/repository"

	"github.com/rs/zerolog"
)

// newsletterService implements NewsletterService.
type newsletterService struct {
	newsletterRepo repository.NewsletterRepository
	logger         zerolog.Logger
}

// NewNewsletterService creates a new newsletter service.
func NewNewsletterService(newsletterRepo repository.NewsletterRepository, logger zerolog.Logger) NewsletterService {
	return &newsletterService{
		newsletterRepo: newsletterRepo,
		logger:         logger.With().Str("service", "newsletter").Logger(),
	}
}

// Subscribe records a newsletter subscription after a minimal email
// sanity check.
func (s *newsletterService) Subscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return model.NewDomainError(model.ErrCodeMissingField, "a valid email address is required")
	}

	return s.newsletterRepo.Subscribe(ctx, email)
}
