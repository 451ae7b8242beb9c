package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"mishki-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// CreateOrderAndPayment writes the order, its payment record and any
// stock decrements in one transaction. The legacy store wrote order
// and payment as two independent documents, which left a window where
// one could exist without the other; a single transaction closes it.
//
// Stock reservation contract: every referenced product row is locked
// and read before any write, all requested quantities are validated
// against the available stock, and only then are the decrements
// applied. A shortfall on any line aborts the whole transaction with
// a *model.StockError naming the offending reference.
func (r *orderRepository) CreateOrderAndPayment(ctx context.Context, order *model.Order, payment *model.Payment, reservations []model.StockReservation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if len(reservations) > 0 {
		if err = r.reserveStock(ctx, tx, reservations); err != nil {
			return err
		}
	}

	if err = r.insertOrder(ctx, tx, order); err != nil {
		return err
	}

	if err = r.insertPayment(ctx, tx, payment); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit order transaction: %w", err)
	}

	r.logger.Info().
		Str("order_id", order.ID.String()).
		Int("line_count", len(order.Lines)).
		Int("reserved", len(reservations)).
		Str("provider", order.Provider).
		Msg("order and payment created")

	return nil
}

// reserveStock locks all referenced rows, validates every requested
// quantity, then applies the decrements. All reads complete before
// any write. Rows are locked in normalized reference order so two
// concurrent multi-line checkouts cannot take the same locks in
// opposite orders and deadlock.
func (r *orderRepository) reserveStock(ctx context.Context, tx pgx.Tx, reservations []model.StockReservation) error {
	type locked struct {
		reference string
		stock     int
	}

	ordered := make([]model.StockReservation, len(reservations))
	copy(ordered, reservations)
	sort.Slice(ordered, func(i, j int) bool {
		return strings.ToLower(ordered[i].Reference) < strings.ToLower(ordered[j].Reference)
	})

	stocks := make([]locked, 0, len(ordered))
	for _, res := range ordered {
		var stock int
		err := tx.QueryRow(ctx,
			`SELECT stock FROM products WHERE LOWER(reference) = LOWER($1) FOR UPDATE`,
			res.Reference,
		).Scan(&stock)
		if err != nil {
			if err == pgx.ErrNoRows {
				return model.ErrUnknownReference
			}
			r.logger.Error().Err(err).Str("reference", res.Reference).Msg("failed to read stock")
			return fmt.Errorf("failed to read stock for %s: %w", res.Reference, err)
		}
		stocks = append(stocks, locked{reference: res.Reference, stock: stock})
	}

	for i, res := range ordered {
		if res.Quantity > stocks[i].stock {
			r.logger.Warn().
				Str("reference", res.Reference).
				Int("requested", res.Quantity).
				Int("available", stocks[i].stock).
				Msg("stock reservation rejected")
			return &model.StockError{
				Reference: res.Reference,
				Requested: res.Quantity,
				Available: stocks[i].stock,
			}
		}
	}

	for _, res := range ordered {
		_, err := tx.Exec(ctx,
			`UPDATE products SET stock = stock - $1 WHERE LOWER(reference) = LOWER($2)`,
			res.Quantity, res.Reference,
		)
		if err != nil {
			r.logger.Error().Err(err).Str("reference", res.Reference).Msg("failed to decrement stock")
			return fmt.Errorf("failed to decrement stock for %s: %w", res.Reference, err)
		}
	}

	return nil
}

func (r *orderRepository) insertOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	linesJSON, err := json.Marshal(order.Lines)
	if err != nil {
		return fmt.Errorf("failed to encode order lines: %w", err)
	}

	var shippingJSON []byte
	if order.Shipping != nil {
		shippingJSON, err = json.Marshal(order.Shipping)
		if err != nil {
			return fmt.Errorf("failed to encode shipping snapshot: %w", err)
		}
	}

	query := `
		INSERT INTO orders (
			id, user_id, user_email, user_first_name, user_last_name,
			user_company, user_siret, user_remise,
			lines, amount_ht, tax, amount_ttc, currency,
			payment_status, payment_provider, payment_id,
			shipping, locale, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err = tx.Exec(ctx, query,
		order.ID,
		nullable(order.Buyer.UserID),
		nullable(order.Buyer.Email),
		nullable(order.Buyer.FirstName),
		nullable(order.Buyer.LastName),
		nullable(order.Buyer.Company),
		nullable(order.Buyer.Siret),
		order.Buyer.Remise,
		linesJSON,
		order.Totals.SubtotalHT,
		order.Totals.Tax,
		order.Totals.TotalTTC,
		order.Totals.Currency,
		order.PaymentStatus,
		order.Provider,
		nullable(order.PaymentID),
		shippingJSON,
		order.Locale,
		order.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) insertPayment(ctx context.Context, tx pgx.Tx, payment *model.Payment) error {
	query := `
		INSERT INTO payments (
			id, order_id, amount_ht, tax, amount_ttc, currency,
			status, provider, payment_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := tx.Exec(ctx, query,
		payment.ID,
		payment.OrderID,
		payment.Totals.SubtotalHT,
		payment.Totals.Tax,
		payment.Totals.TotalTTC,
		payment.Totals.Currency,
		payment.Status,
		payment.Provider,
		nullable(payment.PaymentID),
		payment.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", payment.OrderID.String()).Msg("failed to create payment")
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetByID retrieves an order by its ID. Lines are stored as JSONB and
// normalized on read, so documents imported from the legacy store with
// variant field names come back in the canonical shape.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `
		SELECT id, user_id, user_email, user_first_name, user_last_name,
		       user_company, user_siret, user_remise,
		       lines, amount_ht, tax, amount_ttc, currency,
		       payment_status, payment_provider, payment_id,
		       shipping, locale, created_at
		FROM orders
		WHERE id = $1
	`

	var (
		order        model.Order
		userID       *string
		email        *string
		firstName    *string
		lastName     *string
		company      *string
		siret        *string
		paymentID    *string
		linesJSON    []byte
		shippingJSON []byte
		createdAt    time.Time
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID, &userID, &email, &firstName, &lastName,
		&company, &siret, &order.Buyer.Remise,
		&linesJSON, &order.Totals.SubtotalHT, &order.Totals.Tax, &order.Totals.TotalTTC, &order.Totals.Currency,
		&order.PaymentStatus, &order.Provider, &paymentID,
		&shippingJSON, &order.Locale, &createdAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	order.Buyer.UserID = deref(userID)
	order.Buyer.Email = deref(email)
	order.Buyer.FirstName = deref(firstName)
	order.Buyer.LastName = deref(lastName)
	order.Buyer.Company = deref(company)
	order.Buyer.Siret = deref(siret)
	order.PaymentID = deref(paymentID)
	order.CreatedAt = createdAt

	order.Lines, err = model.NormalizeOrderLines(linesJSON)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to decode order lines")
		return nil, fmt.Errorf("failed to decode order lines: %w", err)
	}

	if len(shippingJSON) > 0 {
		var shipping model.Shipping
		if err := json.Unmarshal(shippingJSON, &shipping); err != nil {
			r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to decode shipping snapshot")
			return nil, fmt.Errorf("failed to decode shipping snapshot: %w", err)
		}
		order.Shipping = &shipping
	}

	return &order, nil
}

// GetStock returns the current stock for a product reference.
func (r *orderRepository) GetStock(ctx context.Context, reference string) (int, error) {
	var stock int
	err := r.pool.QueryRow(ctx,
		`SELECT stock FROM products WHERE LOWER(reference) = LOWER($1)`,
		reference,
	).Scan(&stock)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, model.ErrUnknownReference
		}
		return 0, fmt.Errorf("failed to read stock for %s: %w", reference, err)
	}
	return stock, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
