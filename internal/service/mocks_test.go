package service

import (
	"context"

	"mishki-store/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockProductRepo mocks repository.ProductRepository.
type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductRepo) GetByReferences(ctx context.Context, refs []string) (map[string]model.Product, error) {
	args := m.Called(ctx, refs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]model.Product), args.Error(1)
}

func (m *mockProductRepo) Upsert(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// mockOrderRepo mocks repository.OrderRepository.
type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) CreateOrderAndPayment(ctx context.Context, order *model.Order, payment *model.Payment, reservations []model.StockReservation) error {
	args := m.Called(ctx, order, payment, reservations)
	return args.Error(0)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *mockOrderRepo) GetStock(ctx context.Context, reference string) (int, error) {
	args := m.Called(ctx, reference)
	return args.Int(0), args.Error(1)
}

// mockUserRepo mocks repository.UserRepository.
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetProfile(ctx context.Context, userID string) (*model.Buyer, *model.Shipping, error) {
	args := m.Called(ctx, userID)
	var buyer *model.Buyer
	var shipping *model.Shipping
	if args.Get(0) != nil {
		buyer = args.Get(0).(*model.Buyer)
	}
	if args.Get(1) != nil {
		shipping = args.Get(1).(*model.Shipping)
	}
	return buyer, shipping, args.Error(2)
}

func (m *mockUserRepo) UpsertProfile(ctx context.Context, userID string, buyer *model.Buyer, shipping *model.Shipping) error {
	args := m.Called(ctx, userID, buyer, shipping)
	return args.Error(0)
}

// mockNewsletterRepo mocks repository.NewsletterRepository.
type mockNewsletterRepo struct {
	mock.Mock
}

func (m *mockNewsletterRepo) Subscribe(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// mockNotifier mocks email.Notifier.
type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendInvoice(to string, inv model.InvoiceData, pdf []byte) error {
	args := m.Called(to, inv, pdf)
	return args.Error(0)
}

func (m *mockNotifier) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}
