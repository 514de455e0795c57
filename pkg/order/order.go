package order

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// SizeNotApplicable is stored when the buyer did not pick a size.
const SizeNotApplicable = "N/A"

// Order represents a customer purchase order. It is created unpaid, before
// any money moves, so a failed payment still leaves an auditable record.
type Order struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	Address          string          `json:"address"`
	CityState        string          `json:"city_state"`
	Zip              string          `json:"zip"`
	Size             string          `json:"size"`
	ItemName         string          `json:"item_name"`
	ItemPrice        decimal.Decimal `json:"item_price"`
	Fulfilled        bool            `json:"fulfilled"`
	Charged          bool            `json:"charged"`
	PaymentReference string          `json:"payment_reference,omitempty"`
}

// Repository defines behavior for persisting orders.
type Repository interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, error)
	Update(ctx context.Context, o Order) error
}

// ErrNotFound indicates the requested order does not exist.
var ErrNotFound = errors.New("order not found")
