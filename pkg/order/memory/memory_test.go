package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"purchaseflow/pkg/order"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New()
	o := order.Order{
		ID:        "1",
		Name:      "Ada Lovelace",
		Email:     "ada@example.com",
		ItemName:  "Mug",
		ItemPrice: decimal.NewFromInt(10),
		Size:      order.SizeNotApplicable,
	}
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.Get(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Charged || got.Fulfilled {
		t.Fatal("new order must be uncharged and unfulfilled")
	}
	o.Charged = true
	o.PaymentReference = "ch_123"
	if err := repo.Update(ctx, o); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = repo.Get(ctx, "1")
	if !got.Charged || got.PaymentReference != "ch_123" {
		t.Fatalf("update not applied: %+v", got)
	}
	if err := repo.Update(ctx, order.Order{ID: "missing"}); err != order.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
