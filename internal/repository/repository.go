package repository

import (
	"context"

	"mishki-store/internal/model"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByReferences retrieves products keyed by normalized
	// reference, for quick-order draft validation.
	GetByReferences(ctx context.Context, refs []string) (map[string]model.Product, error)

	// Upsert inserts or updates a product, used by the seeder.
	Upsert(ctx context.Context, p *model.Product) error
}

// OrderRepository defines the interface for order and payment
// persistence.
type OrderRepository interface {
	// CreateOrderAndPayment writes the order and its payment record
	// in one transaction. When reservations are given (B2B quick
	// orders), every referenced product's stock is read, validated
	// and decremented inside the same transaction; any shortfall
	// aborts the whole transaction with a *model.StockError and no
	// partial decrement.
	CreateOrderAndPayment(ctx context.Context, order *model.Order, payment *model.Payment, reservations []model.StockReservation) error

	// GetByID retrieves an order with its normalized lines.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetStock returns the current stock for a reference. Used by
	// tests and the quick-order draft validation.
	GetStock(ctx context.Context, reference string) (int, error)
}

// UserRepository provides the saved buyer profile used to prefill the
// delivery address at checkout.
type UserRepository interface {
	GetProfile(ctx context.Context, userID string) (*model.Buyer, *model.Shipping, error)
	UpsertProfile(ctx context.Context, userID string, buyer *model.Buyer, shipping *model.Shipping) error
}

// NewsletterRepository records newsletter subscriptions.
type NewsletterRepository interface {
	Subscribe(ctx context.Context, email string) error
}
