package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mishki-store/internal/cart"
	"mishki-store/internal/email"
	"mishki-store/internal/invoice"
	"mishki-store/internal/model"
	"mishki-store/internal/pricing"
	"mishki-store/internal/quickorder"
	"mishki-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Channels accepted by the checkout endpoint.
const (
	ChannelB2C = "b2c"
	ChannelB2B = "b2b"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	orderRepo      repository.OrderRepository
	productRepo    repository.ProductRepository
	userRepo       repository.UserRepository
	cartStore      *cart.Store
	notifier       email.Notifier
	b2bMinQuantity int
	logger         zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	cartStore *cart.Store,
	notifier email.Notifier,
	b2bMinQuantity int,
	logger zerolog.Logger,
) CheckoutService {
	if b2bMinQuantity < 1 {
		b2bMinQuantity = quickorder.DefaultMinQuantity
	}
	return &checkoutService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		userRepo:       userRepo,
		cartStore:      cartStore,
		notifier:       notifier,
		b2bMinQuantity: b2bMinQuantity,
		logger:         logger.With().Str("service", "checkout").Logger(),
	}
}

// Checkout validates the request, resolves the buyer's region, writes
// order + payment in one transaction and fires the invoice email.
func (s *checkoutService) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("checkout request is nil")
	}

	if err := s.resolveShipping(ctx, req); err != nil {
		return nil, err
	}

	region := pricing.Resolve(req.Region, req.Currency, req.Timezone, req.ClientLocale)
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = region.Currency()
	}

	var (
		lines        []model.OrderLine
		totals       model.Totals
		reservations []model.StockReservation
		err          error
	)

	switch {
	case req.Channel == ChannelB2B && req.QuickOrder:
		lines, totals, reservations, err = s.prepareQuickOrder(ctx, req)
	case req.Channel == ChannelB2C && len(req.Lines) == 0 && req.CartOwner != "":
		lines, totals, err = s.prepareFromCart(ctx, req.CartOwner, region, currency)
	default:
		lines, totals, err = s.prepareFromLines(req, region, currency)
	}
	if err != nil {
		return nil, err
	}

	status := model.PaymentStatusPending
	if req.PaymentID != "" {
		status = model.PaymentStatusPaid
	}

	now := time.Now()
	order := &model.Order{
		ID:            uuid.New(),
		Buyer:         req.Buyer,
		Lines:         lines,
		Totals:        totals,
		PaymentStatus: status,
		Provider:      req.Provider,
		PaymentID:     req.PaymentID,
		Shipping:      &req.Shipping,
		Locale:        string(region),
		CreatedAt:     now,
	}
	payment := &model.Payment{
		ID:        uuid.New(),
		OrderID:   order.ID,
		Totals:    totals,
		Status:    status,
		Provider:  req.Provider,
		PaymentID: req.PaymentID,
		CreatedAt: now,
	}

	if err := s.orderRepo.CreateOrderAndPayment(ctx, order, payment, reservations); err != nil {
		return nil, err
	}

	s.saveProfile(ctx, req)
	s.clearCart(ctx, req)

	invoiceData := invoice.Build(order)
	s.sendInvoiceEmail(req, order, invoiceData)

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("channel", req.Channel).
		Str("locale", order.Locale).
		Float64("total_ttc", totals.TotalTTC).
		Msg("checkout completed")

	return &model.CheckoutResponse{
		OrderID:       order.ID,
		InvoiceNumber: invoiceData.InvoiceNumber,
		Totals:        totals,
		Locale:        order.Locale,
	}, nil
}

// resolveShipping validates the delivery fields, pulling the saved
// address first when the buyer asked for it.
func (s *checkoutService) resolveShipping(ctx context.Context, req *model.CheckoutRequest) error {
	if req.UseSaved && req.Buyer.UserID != "" {
		savedBuyer, savedShipping, err := s.userRepo.GetProfile(ctx, req.Buyer.UserID)
		if err != nil {
			return fmt.Errorf("failed to load saved profile: %w", err)
		}
		if savedShipping != nil {
			if req.Shipping.Address == "" {
				req.Shipping.Address = savedShipping.Address
			}
			if req.Shipping.City == "" {
				req.Shipping.City = savedShipping.City
			}
			if req.Shipping.PostalCode == "" {
				req.Shipping.PostalCode = savedShipping.PostalCode
			}
			if req.Shipping.Phone == "" {
				req.Shipping.Phone = savedShipping.Phone
			}
			if req.Shipping.ContactName == "" {
				req.Shipping.ContactName = savedShipping.ContactName
			}
		}
		if savedBuyer != nil && req.Buyer.Remise == 0 {
			req.Buyer.Remise = savedBuyer.Remise
		}
	}

	var missing []string
	if req.Shipping.Phone == "" {
		missing = append(missing, "phone")
	}
	if req.Shipping.DeliveryType == "" {
		missing = append(missing, "deliveryType")
	}
	if req.Shipping.Address == "" {
		missing = append(missing, "address")
	}
	if req.Shipping.City == "" {
		missing = append(missing, "city")
	}
	if req.Shipping.PostalCode == "" {
		missing = append(missing, "postalCode")
	}

	if len(missing) > 0 {
		s.logger.Warn().Strs("missing", missing).Msg("checkout blocked on delivery fields")
		return &model.ValidationError{Fields: missing}
	}
	return nil
}

// prepareQuickOrder revalidates the B2B draft against the catalog and
// converts it into order lines plus the stock reservations the
// transaction must apply.
func (s *checkoutService) prepareQuickOrder(ctx context.Context, req *model.CheckoutRequest) ([]model.OrderLine, model.Totals, []model.StockReservation, error) {
	draft := make([]quickorder.DraftLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		draft = append(draft, quickorder.DraftLine{Reference: l.Reference, Quantity: l.Quantity})
	}

	result, err := s.ValidateQuickOrder(ctx, draft, req.Buyer.Remise)
	if err != nil {
		return nil, model.Totals{}, nil, err
	}

	if result.Blocked {
		for _, line := range result.Lines {
			if line.Message != "" {
				s.logger.Warn().
					Str("reference", line.Reference).
					Str("message", line.Message).
					Msg("quick order blocked")
				return nil, model.Totals{}, nil, model.NewDomainError(model.ErrCodeStockInsufficient, line.Message)
			}
		}
		return nil, model.Totals{}, nil, model.NewDomainError(model.ErrCodeInvalidQuantity, "Aucune ligne valide")
	}

	lines := make([]model.OrderLine, 0, len(result.Lines))
	for _, l := range result.Lines {
		lines = append(lines, model.OrderLine{
			Reference:   l.Reference,
			Name:        l.Name,
			Quantity:    l.Quantity,
			UnitPriceHT: l.UnitPriceHT,
			TotalHT:     l.TotalHT,
		})
	}
	return lines, result.Totals, quickorder.Reservations(lines), nil
}

// prepareFromCart checks out the buyer's stored cart. Displayed cart
// prices are tax-inclusive; the tax-exclusive amounts are derived.
func (s *checkoutService) prepareFromCart(ctx context.Context, owner string, region pricing.Region, currency string) ([]model.OrderLine, model.Totals, error) {
	c, err := s.cartStore.Get(ctx, owner)
	if err != nil {
		return nil, model.Totals{}, err
	}
	if len(c.Items) == 0 {
		return nil, model.Totals{}, model.NewDomainError(model.ErrCodeInvalidQuantity, "Le panier est vide")
	}

	lines := make([]model.OrderLine, 0, len(c.Items))
	for _, it := range c.Items {
		unitHT := pricing.UnitPriceHTFromTTC(it.Price, region)
		lines = append(lines, model.OrderLine{
			Reference:   it.ID,
			Name:        it.Name,
			Quantity:    it.Quantity,
			UnitPriceHT: unitHT,
			TotalHT:     pricing.Round2(unitHT * float64(it.Quantity)),
		})
	}

	return lines, pricing.TotalsFromTTC(c.Items, region, currency), nil
}

// prepareFromLines prices explicit tax-exclusive lines, applying the
// account remise when present.
func (s *checkoutService) prepareFromLines(req *model.CheckoutRequest, region pricing.Region, currency string) ([]model.OrderLine, model.Totals, error) {
	if len(req.Lines) == 0 {
		return nil, model.Totals{}, model.NewDomainError(model.ErrCodeInvalidQuantity, "Aucune ligne de commande")
	}

	lines := make([]model.OrderLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		if l.Quantity <= 0 {
			return nil, model.Totals{}, model.ErrInvalidQuantity
		}
		unitHT := pricing.ApplyRemise(l.UnitPriceHT, req.Buyer.Remise)
		lines = append(lines, model.OrderLine{
			Reference:   l.Reference,
			Name:        l.Name,
			Quantity:    l.Quantity,
			UnitPriceHT: unitHT,
			TotalHT:     pricing.Round2(unitHT * float64(l.Quantity)),
		})
	}

	return lines, pricing.TotalsFromHT(lines, region, currency), nil
}

// ValidateQuickOrder resolves a typed B2B draft against the catalog.
func (s *checkoutService) ValidateQuickOrder(ctx context.Context, draft []quickorder.DraftLine, remise float64) (*quickorder.Result, error) {
	refs := make([]string, 0, len(draft))
	for _, d := range draft {
		refs = append(refs, d.Reference)
	}

	catalog, err := s.productRepo.GetByReferences(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog for quick order: %w", err)
	}

	result := quickorder.Validate(draft, catalog, s.b2bMinQuantity, remise)
	return &result, nil
}

// saveProfile persists the delivery address for the next checkout.
// Best effort, a failure never blocks the order.
func (s *checkoutService) saveProfile(ctx context.Context, req *model.CheckoutRequest) {
	if req.Buyer.UserID == "" {
		return
	}
	if err := s.userRepo.UpsertProfile(ctx, req.Buyer.UserID, &req.Buyer, &req.Shipping); err != nil {
		s.logger.Error().Err(err).Str("user_id", req.Buyer.UserID).Msg("failed to save buyer profile")
	}
}

// clearCart empties the checked-out cart. Best effort.
func (s *checkoutService) clearCart(ctx context.Context, req *model.CheckoutRequest) {
	if req.CartOwner == "" {
		return
	}
	if err := s.cartStore.Clear(ctx, req.CartOwner); err != nil {
		s.logger.Error().Err(err).Str("owner", req.CartOwner).Msg("failed to clear cart after checkout")
	}
}

// sendInvoiceEmail renders and sends the invoice in the background.
// Delivery failures are logged, never surfaced to the buyer.
func (s *checkoutService) sendInvoiceEmail(req *model.CheckoutRequest, order *model.Order, data model.InvoiceData) {
	recipient := req.Email
	if recipient == "" {
		recipient = order.Buyer.Email
	}
	if recipient == "" || !s.notifier.Configured() {
		return
	}

	logger := s.logger.With().Str("order_id", order.ID.String()).Logger()
	go func() {
		pdf, err := invoice.Render(data)
		if err != nil {
			logger.Error().Err(err).Msg("failed to render invoice for email")
			return
		}
		if err := s.notifier.SendInvoice(recipient, data, pdf); err != nil {
			logger.Error().Err(err).Msg("failed to send invoice email")
		}
	}()
}
