package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"mishki-store/internal/model"
	"mishki-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder(id uuid.UUID) (*model.Order, *model.Payment) {
	order := &model.Order{
		ID: id,
		Buyer: model.Buyer{
			UserID:    "u1",
			Email:     "marie@example.com",
			FirstName: "Marie",
			LastName:  "Dupont",
		},
		Lines: []model.OrderLine{
			{Reference: "SAV-001", Name: "Savon lavande", Quantity: 2, UnitPriceHT: 10.00, TotalHT: 20.00},
		},
		Totals:        model.Totals{SubtotalHT: 20.00, Tax: 4.00, TotalTTC: 24.00, Currency: "EUR"},
		PaymentStatus: model.PaymentStatusPaid,
		Provider:      model.ProviderPayPal,
		PaymentID:     "PAYID-1",
		Shipping: &model.Shipping{
			Address:      "12 Rue des Lilas",
			City:         "Lyon",
			PostalCode:   "69003",
			Phone:        "0612345678",
			DeliveryType: "domicile",
		},
		Locale:    "fr",
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	payment := &model.Payment{
		ID:        uuid.New(),
		OrderID:   id,
		Totals:    order.Totals,
		Status:    order.PaymentStatus,
		Provider:  order.Provider,
		PaymentID: order.PaymentID,
		CreatedAt: order.CreatedAt,
	}
	return order, payment
}

func TestProductRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewProductRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("GetAll returns seeded products ordered by reference", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		products, err := repo.GetAll(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, products, 5)
		assert.Equal(t, "BAU-001", products[0].Reference)
	})

	t.Run("GetAll with pagination", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		products, err := repo.GetAll(ctx, 2, 0)
		require.NoError(t, err)
		assert.Len(t, products, 2)

		products, err = repo.GetAll(ctx, 2, 4)
		require.NoError(t, err)
		assert.Len(t, products, 1)
	})

	t.Run("GetByID returns correct product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		product, err := repo.GetByID(ctx, "P001")
		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, "SAV-001", product.Reference)
		assert.Equal(t, 12.00, product.PriceTTC)
		assert.Equal(t, 10.00, product.PriceHT)
		assert.Equal(t, 50, product.Stock)
	})

	t.Run("GetByID returns nil for non-existent product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		product, err := repo.GetByID(ctx, "P999")
		require.NoError(t, err)
		assert.Nil(t, product)
	})

	t.Run("GetByReferences is case insensitive", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		catalog, err := repo.GetByReferences(ctx, []string{"sav-001", "SHA-001", "NOPE-1"})
		require.NoError(t, err)
		require.Len(t, catalog, 2)
		assert.Equal(t, "Savon lavande", catalog["sav-001"].Name)
		assert.Equal(t, "Shampoing solide", catalog["sha-001"].Name)
	})

	t.Run("Upsert updates an existing product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		err := repo.Upsert(ctx, &model.Product{
			ID:        "P001",
			Reference: "SAV-001",
			Name:      "Savon lavande bio",
			PriceTTC:  13.20,
			PriceHT:   11.00,
			Stock:     75,
		})
		require.NoError(t, err)

		product, err := repo.GetByID(ctx, "P001")
		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, "Savon lavande bio", product.Name)
		assert.Equal(t, 75, product.Stock)
	})
}

func TestOrderRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewOrderRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("CreateOrderAndPayment round trip", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		orderID := uuid.New()
		order, payment := testOrder(orderID)

		err := repo.CreateOrderAndPayment(ctx, order, payment, nil)
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, orderID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, orderID, got.ID)
		assert.Equal(t, "marie@example.com", got.Buyer.Email)
		require.Len(t, got.Lines, 1)
		assert.Equal(t, "SAV-001", got.Lines[0].Reference)
		assert.Equal(t, 24.00, got.Totals.TotalTTC)
		assert.Equal(t, model.PaymentStatusPaid, got.PaymentStatus)
		require.NotNil(t, got.Shipping)
		assert.Equal(t, "Lyon", got.Shipping.City)
		assert.Equal(t, "fr", got.Locale)

		var paymentCount int
		err = testDB.Pool.QueryRow(ctx,
			"SELECT COUNT(*) FROM payments WHERE order_id = $1", orderID,
		).Scan(&paymentCount)
		require.NoError(t, err)
		assert.Equal(t, 1, paymentCount)
	})

	t.Run("Reservation decrements stock", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		orderID := uuid.New()
		order, payment := testOrder(orderID)
		reservations := []model.StockReservation{{Reference: "SAV-001", Quantity: 20}}

		err := repo.CreateOrderAndPayment(ctx, order, payment, reservations)
		require.NoError(t, err)

		stock, err := repo.GetStock(ctx, "SAV-001")
		require.NoError(t, err)
		assert.Equal(t, 30, stock)
	})

	t.Run("Insufficient stock rejects the whole transaction", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		orderID := uuid.New()
		order, payment := testOrder(orderID)
		// SAV-002 has plenty; SAV-001 only has 50. Neither line may be
		// decremented when one of them fails.
		reservations := []model.StockReservation{
			{Reference: "SAV-002", Quantity: 10},
			{Reference: "SAV-001", Quantity: 60},
		}

		err := repo.CreateOrderAndPayment(ctx, order, payment, reservations)
		require.Error(t, err)

		var stockErr *model.StockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "SAV-001", stockErr.Reference)
		assert.Equal(t, 60, stockErr.Requested)
		assert.Equal(t, 50, stockErr.Available)

		stock, err := repo.GetStock(ctx, "SAV-001")
		require.NoError(t, err)
		assert.Equal(t, 50, stock)
		stock, err = repo.GetStock(ctx, "SAV-002")
		require.NoError(t, err)
		assert.Equal(t, 200, stock)

		got, err := repo.GetByID(ctx, orderID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Unknown reference aborts the transaction", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		orderID := uuid.New()
		order, payment := testOrder(orderID)
		reservations := []model.StockReservation{{Reference: "NOPE-1", Quantity: 1}}

		err := repo.CreateOrderAndPayment(ctx, order, payment, reservations)
		require.ErrorIs(t, err, model.ErrUnknownReference)

		got, err := repo.GetByID(ctx, orderID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Concurrent reservations never oversell", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		// Two checkouts of 30 against a stock of 50. The row lock
		// serializes them: exactly one commits, the other sees the
		// decremented stock and fails.
		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				order, payment := testOrder(uuid.New())
				errs[i] = repo.CreateOrderAndPayment(ctx, order, payment,
					[]model.StockReservation{{Reference: "SAV-001", Quantity: 30}})
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			} else {
				var stockErr *model.StockError
				require.ErrorAs(t, err, &stockErr)
			}
		}
		assert.Equal(t, 1, succeeded)

		stock, err := repo.GetStock(ctx, "SAV-001")
		require.NoError(t, err)
		assert.Equal(t, 20, stock)
	})

	t.Run("Opposite-order multi-line reservations both commit", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		// Same two references, submitted in opposite orders. Row locks
		// are taken in a stable order, so neither transaction can
		// deadlock against the other; both fit the stock and commit.
		drafts := [][]model.StockReservation{
			{{Reference: "SAV-002", Quantity: 40}, {Reference: "SHA-001", Quantity: 30}},
			{{Reference: "SHA-001", Quantity: 30}, {Reference: "SAV-002", Quantity: 40}},
		}

		var wg sync.WaitGroup
		errs := make([]error, len(drafts))
		for i, reservations := range drafts {
			wg.Add(1)
			go func(i int, reservations []model.StockReservation) {
				defer wg.Done()
				order, payment := testOrder(uuid.New())
				errs[i] = repo.CreateOrderAndPayment(ctx, order, payment, reservations)
			}(i, reservations)
		}
		wg.Wait()

		require.NoError(t, errs[0])
		require.NoError(t, errs[1])

		stock, err := repo.GetStock(ctx, "SAV-002")
		require.NoError(t, err)
		assert.Equal(t, 120, stock)
		stock, err = repo.GetStock(ctx, "SHA-001")
		require.NoError(t, err)
		assert.Equal(t, 60, stock)
	})

	t.Run("GetByID returns nil for non-existent order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		order, err := repo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, order)
	})
}

func TestCartStorage_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	storage := repository.NewCartStorage(testDB.Pool, zerolog.Nop())

	ctx := context.Background()

	t.Run("Missing cart reads as empty", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		items, err := storage.Get(ctx, "guest:missing")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("Put then Get round trip", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		items := []model.CartItem{
			{ID: "P001", Name: "Savon lavande", Price: 12.00, Quantity: 2},
		}
		require.NoError(t, storage.Put(ctx, "guest:abc", items))

		got, err := storage.Get(ctx, "guest:abc")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 2, got[0].Quantity)

		// Put replaces, not appends.
		items[0].Quantity = 5
		require.NoError(t, storage.Put(ctx, "guest:abc", items))
		got, err = storage.Get(ctx, "guest:abc")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 5, got[0].Quantity)
	})

	t.Run("Delete clears the cart", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		require.NoError(t, storage.Put(ctx, "user:u1",
			[]model.CartItem{{ID: "P001", Name: "Savon", Price: 12.00, Quantity: 1}}))
		require.NoError(t, storage.Delete(ctx, "user:u1"))

		items, err := storage.Get(ctx, "user:u1")
		require.NoError(t, err)
		assert.Empty(t, items)

		// Deleting again is a no-op.
		require.NoError(t, storage.Delete(ctx, "user:u1"))
	})
}

func TestUserRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	repo := repository.NewUserRepository(testDB.Pool, zerolog.Nop())

	ctx := context.Background()

	t.Run("GetProfile returns nil for unknown user", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		buyer, shipping, err := repo.GetProfile(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, buyer)
		assert.Nil(t, shipping)
	})

	t.Run("UpsertProfile round trip", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		buyer := &model.Buyer{
			Email:   "pro@maison-verte.fr",
			Company: "Maison Verte",
			Siret:   "12345678900011",
			Remise:  10,
		}
		shipping := &model.Shipping{
			Address:      "4 Avenue des Champs",
			City:         "Paris",
			PostalCode:   "75008",
			Phone:        "0145678901",
			DeliveryType: "relais",
		}
		require.NoError(t, repo.UpsertProfile(ctx, "u1", buyer, shipping))

		gotBuyer, gotShipping, err := repo.GetProfile(ctx, "u1")
		require.NoError(t, err)
		require.NotNil(t, gotBuyer)
		assert.Equal(t, "u1", gotBuyer.UserID)
		assert.Equal(t, "Maison Verte", gotBuyer.Company)
		assert.Equal(t, 10.0, gotBuyer.Remise)
		require.NotNil(t, gotShipping)
		assert.Equal(t, "Paris", gotShipping.City)

		// Upsert overwrites the saved address.
		shipping.City = "Lille"
		require.NoError(t, repo.UpsertProfile(ctx, "u1", buyer, shipping))
		_, gotShipping, err = repo.GetProfile(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Lille", gotShipping.City)
	})
}

func TestNewsletterRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	repo := repository.NewNewsletterRepository(testDB.Pool, zerolog.Nop())

	ctx := context.Background()
	CleanupDB(t, testDB.Pool)

	require.NoError(t, repo.Subscribe(ctx, "Lea@Example.com"))
	// Resubscribing the same address, in any casing, is a no-op.
	require.NoError(t, repo.Subscribe(ctx, "lea@example.com"))

	var count int
	err := testDB.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM newsletter_subscriptions").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
