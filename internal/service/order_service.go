package service

import (
	"context"
	"fmt"

	"mishki-store/internal/email"
	"mishki-store/internal/invoice"
	"mishki-store/internal/model"
	"mishki-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	notifier  email.Notifier
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository, notifier email.Notifier, logger zerolog.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		notifier:  notifier,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// GetByID retrieves an order with its normalized lines.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// InvoicePDF renders the order's invoice from the persisted order. The
// locale stored at creation time drives the template, so regeneration
// is stable even if the region heuristics change.
func (s *orderService) InvoicePDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	data := invoice.Build(order)
	pdf, err := invoice.Render(data)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to render invoice")
		return nil, "", fmt.Errorf("failed to render invoice: %w", err)
	}

	s.logger.Debug().
		Str("order_id", id.String()).
		Str("invoice", data.InvoiceNumber).
		Int("bytes", len(pdf)).
		Msg("invoice rendered")

	return pdf, data.InvoiceNumber, nil
}

// EmailInvoice re-renders the given invoice data and sends it to the
// recipient. Unlike the checkout-time email this path is synchronous
// and surfaces delivery errors, it backs an explicit user action.
func (s *orderService) EmailInvoice(ctx context.Context, to string, data model.InvoiceData) error {
	if to == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "recipient email is required")
	}
	if !s.notifier.Configured() {
		return model.ErrSMTPUnavailable
	}

	pdf, err := invoice.Render(data)
	if err != nil {
		s.logger.Error().Err(err).Str("invoice", data.InvoiceNumber).Msg("failed to render invoice for email")
		return fmt.Errorf("failed to render invoice: %w", err)
	}

	if err := s.notifier.SendInvoice(to, data, pdf); err != nil {
		return err
	}

	s.logger.Info().Str("invoice", data.InvoiceNumber).Msg("invoice emailed on request")
	return nil
}
