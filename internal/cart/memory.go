package cart

import (
	"context"
	"sync"

	"mishki-store/internal/model"
)

// memoryStorage is an in-process Storage adapter, used in tests and
// as a fallback when no database is configured.
type memoryStorage struct {
	mu    sync.RWMutex
	carts map[string][]model.CartItem
}

// NewMemoryStorage creates an empty in-memory cart storage.
func NewMemoryStorage() Storage {
	return &memoryStorage{carts: make(map[string][]model.CartItem)}
}

func (m *memoryStorage) Get(ctx context.Context, owner string) ([]model.CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := m.carts[owner]
	out := make([]model.CartItem, len(items))
	copy(out, items)
	return out, nil
}

func (m *memoryStorage) Put(ctx context.Context, owner string, items []model.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]model.CartItem, len(items))
	copy(stored, items)
	m.carts[owner] = stored
	return nil
}

func (m *memoryStorage) Delete(ctx context.Context, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, owner)
	return nil
}
