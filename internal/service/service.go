package service

import (
	"context"

	"mishki-store/internal/model"
	"mishki-store/internal/quickorder"

	"github.com/google/uuid"
)

// ProductService defines operations for catalog access.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// CheckoutService turns a cart or quick-order draft into a persisted
// order with its payment record.
type CheckoutService interface {
	// Checkout validates the request, resolves the buyer's region,
	// writes order + payment (with stock reservation for quick
	// orders) and fires the invoice email. Returns
	// *model.ValidationError for missing delivery fields and
	// *model.StockError when a reservation cannot be satisfied.
	Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.CheckoutResponse, error)

	// ValidateQuickOrder resolves a typed B2B draft against the
	// catalog without writing anything.
	ValidateQuickOrder(ctx context.Context, draft []quickorder.DraftLine, remise float64) (*quickorder.Result, error)
}

// OrderService defines read operations over persisted orders and their
// invoices.
type OrderService interface {
	// GetByID retrieves an order with its normalized lines.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// InvoicePDF renders the order's invoice. Returns the PDF bytes
	// and the invoice number.
	InvoicePDF(ctx context.Context, id uuid.UUID) ([]byte, string, error)

	// EmailInvoice re-renders the given invoice data and sends it to
	// the recipient. Returns model.ErrSMTPUnavailable when no SMTP
	// relay is configured.
	EmailInvoice(ctx context.Context, to string, data model.InvoiceData) error
}

// NewsletterService records newsletter subscriptions.
type NewsletterService interface {
	Subscribe(ctx context.Context, email string) error
}
