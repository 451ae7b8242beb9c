// Package cart implements the per-owner cart store. All mutation goes
// through Store, which persists the full item list to an injected
// Storage adapter after every change; there is no ambient state.
package cart

import (
	"context"
	"fmt"

	"mishki-store/internal/model"

	"github.com/rs/zerolog"
)

// Storage is the key-value persistence adapter behind a Store. Keys
// are owner identifiers ("guest:<token>" or "user:<id>").
type Storage interface {
	Get(ctx context.Context, owner string) ([]model.CartItem, error)
	Put(ctx context.Context, owner string, items []model.CartItem) error
	Delete(ctx context.Context, owner string) error
}

// Store holds cart operations for one storefront. MinQuantity is 1
// for B2C and the minimum order quantity for B2B.
type Store struct {
	storage     Storage
	minQuantity int
	logger      zerolog.Logger
}

// NewStore creates a cart store backed by the given adapter.
func NewStore(storage Storage, minQuantity int, logger zerolog.Logger) *Store {
	if minQuantity < 1 {
		minQuantity = 1
	}
	return &Store{
		storage:     storage,
		minQuantity: minQuantity,
		logger:      logger.With().Str("component", "cart").Logger(),
	}
}

// Get returns the owner's cart.
func (s *Store) Get(ctx context.Context, owner string) (*model.Cart, error) {
	items, err := s.storage.Get(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return &model.Cart{Owner: owner, Items: items}, nil
}

// AddItem merges the item into the cart by identifier, summing
// quantities, and persists the result.
func (s *Store) AddItem(ctx context.Context, owner string, item model.CartItem) (*model.Cart, error) {
	if item.ID == "" {
		return nil, model.ErrProductNotFound
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	items, err := s.storage.Get(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	merged := false
	for i := range items {
		if items[i].ID == item.ID {
			items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, item)
	}

	if err := s.storage.Put(ctx, owner, items); err != nil {
		return nil, fmt.Errorf("failed to persist cart: %w", err)
	}

	s.logger.Debug().
		Str("owner", owner).
		Str("item_id", item.ID).
		Int("quantity", item.Quantity).
		Msg("item added to cart")

	return &model.Cart{Owner: owner, Items: items}, nil
}

// UpdateQuantity sets the quantity of an item, clamped to the store
// minimum. Unknown identifiers are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, owner, id string, quantity int) (*model.Cart, error) {
	if quantity < s.minQuantity {
		quantity = s.minQuantity
	}

	items, err := s.storage.Get(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	for i := range items {
		if items[i].ID == id {
			items[i].Quantity = quantity
			break
		}
	}

	if err := s.storage.Put(ctx, owner, items); err != nil {
		return nil, fmt.Errorf("failed to persist cart: %w", err)
	}
	return &model.Cart{Owner: owner, Items: items}, nil
}

// RemoveItem deletes one item from the cart.
func (s *Store) RemoveItem(ctx context.Context, owner, id string) (*model.Cart, error) {
	return s.RemoveItems(ctx, owner, []string{id})
}

// RemoveItems deletes the listed items, used after a partial checkout
// where only the paid lines leave the cart.
func (s *Store) RemoveItems(ctx context.Context, owner string, ids []string) (*model.Cart, error) {
	items, err := s.storage.Get(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	kept := items[:0]
	for _, it := range items {
		if _, remove := idSet[it.ID]; !remove {
			kept = append(kept, it)
		}
	}

	if err := s.storage.Put(ctx, owner, kept); err != nil {
		return nil, fmt.Errorf("failed to persist cart: %w", err)
	}
	return &model.Cart{Owner: owner, Items: kept}, nil
}

// Clear empties the owner's cart.
func (s *Store) Clear(ctx context.Context, owner string) error {
	if err := s.storage.Delete(ctx, owner); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// TransferOwner merges the guest cart into the user cart and clears
// the guest slot, so a later logout cannot re-merge the same items.
func (s *Store) TransferOwner(ctx context.Context, guestOwner, userOwner string) (*model.Cart, error) {
	guestItems, err := s.storage.Get(ctx, guestOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to load guest cart: %w", err)
	}
	userItems, err := s.storage.Get(ctx, userOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to load user cart: %w", err)
	}

	merged := Merge(guestItems, userItems)

	if err := s.storage.Put(ctx, userOwner, merged); err != nil {
		return nil, fmt.Errorf("failed to persist merged cart: %w", err)
	}
	if err := s.storage.Delete(ctx, guestOwner); err != nil {
		return nil, fmt.Errorf("failed to clear guest cart: %w", err)
	}

	s.logger.Info().
		Str("guest", guestOwner).
		Str("user", userOwner).
		Int("items", len(merged)).
		Msg("guest cart merged into user cart")

	return &model.Cart{Owner: userOwner, Items: merged}, nil
}

// Merge reconciles two item lists into one, summing quantities per
// identifier and never duplicating entries. Output order is the first
// occurrence order of each identifier, which keeps merges stable.
func Merge(a, b []model.CartItem) []model.CartItem {
	byID := make(map[string]*model.CartItem)
	order := make([]string, 0, len(a)+len(b))

	for _, src := range [][]model.CartItem{a, b} {
		for _, item := range src {
			if existing, ok := byID[item.ID]; ok {
				existing.Quantity += item.Quantity
				continue
			}
			copied := item
			byID[item.ID] = &copied
			order = append(order, item.ID)
		}
	}

	merged := make([]model.CartItem, 0, len(order))
	for _, id := range order {
		merged = append(merged, *byID[id])
	}
	return merged
}
