package item

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Item represents a purchasable product.
type Item struct {
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	QuantityAvailable int             `json:"quantity_available"`
}

// Repository defines behavior for persisting items.
//
// DecrementIfAvailable reserves one unit of the named item: it decrements
// QuantityAvailable by one if and only if at least one unit is available,
// as a single atomic operation at the store, and returns the item as saved.
// It returns ErrOutOfStock when no unit is available and ErrNotFound when
// the item does not exist.
type Repository interface {
	FindByName(ctx context.Context, name string) (Item, error)
	Save(ctx context.Context, it Item) error
	DecrementIfAvailable(ctx context.Context, name string) (Item, error)
}

// ErrNotFound indicates the requested item does not exist.
var ErrNotFound = errors.New("item not found")

// ErrOutOfStock indicates no units are left to reserve.
var ErrOutOfStock = errors.New("item out of stock")
