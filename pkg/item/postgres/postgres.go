package postgres

import (
	"context"
	"database/sql"

	"purchaseflow/pkg/item"
)

// Repository persists items in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository. The caller must ensure the database
// has an items table:
// CREATE TABLE IF NOT EXISTS items (name TEXT PRIMARY KEY, price NUMERIC, quantity_available INT);
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// FindByName retrieves an item by name.
func (r *Repository) FindByName(ctx context.Context, name string) (item.Item, error) {
	var it item.Item
	err := r.db.QueryRowContext(ctx,
		"SELECT name, price, quantity_available FROM items WHERE name=$1", name,
	).Scan(&it.Name, &it.Price, &it.QuantityAvailable)
	if err == sql.ErrNoRows {
		return item.Item{}, item.ErrNotFound
	}
	return it, err
}

// Save upserts the item, keyed by name.
func (r *Repository) Save(ctx context.Context, it item.Item) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO items (name, price, quantity_available) VALUES ($1,$2,$3)
		 ON CONFLICT (name) DO UPDATE SET price=$2, quantity_available=$3`,
		it.Name, it.Price, it.QuantityAvailable)
	return err
}

// DecrementIfAvailable reserves one unit with a conditional UPDATE, so the
// reserve-iff-available decision executes inside the database and concurrent
// reservations cannot drive the count negative.
func (r *Repository) DecrementIfAvailable(ctx context.Context, name string) (item.Item, error) {
	var it item.Item
	err := r.db.QueryRowContext(ctx,
		`UPDATE items SET quantity_available = quantity_available - 1
		 WHERE name=$1 AND quantity_available > 0
		 RETURNING name, price, quantity_available`, name,
	).Scan(&it.Name, &it.Price, &it.QuantityAvailable)
	if err == sql.ErrNoRows {
		// Either the item is missing or the stock floor was hit.
		var n int
		if err := r.db.QueryRowContext(ctx,
			"SELECT 1 FROM items WHERE name=$1", name).Scan(&n); err == sql.ErrNoRows {
			return item.Item{}, item.ErrNotFound
		} else if err != nil {
			return item.Item{}, err
		}
		return item.Item{}, item.ErrOutOfStock
	}
	return it, err
}
