package postgres

import (
	"context"
	"database/sql"

	"purchaseflow/pkg/order"
)

// Repository persists orders in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository. The caller must ensure the database
// has an orders table:
// CREATE TABLE IF NOT EXISTS orders (id TEXT PRIMARY KEY, name TEXT, email TEXT,
// address TEXT, city_state TEXT, zip TEXT, size TEXT, item_name TEXT,
// item_price NUMERIC, fulfilled BOOL, charged BOOL, payment_reference TEXT);
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new order.
func (r *Repository) Create(ctx context.Context, o order.Order) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO orders (id, name, email, address, city_state, zip, size,
		 item_name, item_price, fulfilled, charged, payment_reference)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		o.ID, o.Name, o.Email, o.Address, o.CityState, o.Zip, o.Size,
		o.ItemName, o.ItemPrice, o.Fulfilled, o.Charged, o.PaymentReference)
	return err
}

// Get retrieves an order by ID.
func (r *Repository) Get(ctx context.Context, id string) (order.Order, error) {
	var o order.Order
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, address, city_state, zip, size, item_name,
		 item_price, fulfilled, charged, payment_reference FROM orders WHERE id=$1`, id,
	).Scan(&o.ID, &o.Name, &o.Email, &o.Address, &o.CityState, &o.Zip, &o.Size,
		&o.ItemName, &o.ItemPrice, &o.Fulfilled, &o.Charged, &o.PaymentReference)
	if err == sql.ErrNoRows {
		return order.Order{}, order.ErrNotFound
	}
	return o, err
}

// Update updates an existing order.
func (r *Repository) Update(ctx context.Context, o order.Order) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET name=$2, email=$3, address=$4, city_state=$5, zip=$6,
		 size=$7, item_name=$8, item_price=$9, fulfilled=$10, charged=$11,
		 payment_reference=$12 WHERE id=$1`,
		o.ID, o.Name, o.Email, o.Address, o.CityState, o.Zip, o.Size,
		o.ItemName, o.ItemPrice, o.Fulfilled, o.Charged, o.PaymentReference)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return order.ErrNotFound
	}
	return nil
}
