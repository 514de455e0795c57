// Package memory implements an in-memory item repository.
package memory

import (
	"context"
	"sync"

	"purchaseflow/pkg/item"
)

// Repository provides an in-memory implementation of item.Repository.
type Repository struct {
	mu    sync.RWMutex
	items map[string]item.Item
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{items: make(map[string]item.Item)}
}

// FindByName retrieves an item by name.
func (r *Repository) FindByName(ctx context.Context, name string) (item.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[name]
	if !ok {
		return item.Item{}, item.ErrNotFound
	}
	return it, nil
}

// Save stores the item, keyed by name.
func (r *Repository) Save(ctx context.Context, it item.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[it.Name] = it
	return nil
}

// DecrementIfAvailable reserves one unit under the write lock, so two
// concurrent callers can never both take the last unit.
func (r *Repository) DecrementIfAvailable(ctx context.Context, name string) (item.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[name]
	if !ok {
		return item.Item{}, item.ErrNotFound
	}
	if it.QuantityAvailable <= 0 {
		return item.Item{}, item.ErrOutOfStock
	}
	it.QuantityAvailable--
	r.items[name] = it
	return it, nil
}
