package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"purchaseflow/pkg/item"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New()
	mug := item.Item{Name: "Mug", Price: decimal.NewFromInt(10), QuantityAvailable: 2}
	if err := repo.Save(ctx, mug); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.FindByName(ctx, "Mug")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.QuantityAvailable != 2 {
		t.Fatalf("expected 2 available, got %d", got.QuantityAvailable)
	}
	if _, err := repo.FindByName(ctx, "Plate"); err != item.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDecrementIfAvailable(t *testing.T) {
	ctx := context.Background()
	repo := New()
	repo.Save(ctx, item.Item{Name: "Mug", Price: decimal.NewFromInt(10), QuantityAvailable: 1})

	got, err := repo.DecrementIfAvailable(ctx, "Mug")
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if got.QuantityAvailable != 0 {
		t.Fatalf("expected 0 available after last unit sold, got %d", got.QuantityAvailable)
	}
	if _, err := repo.DecrementIfAvailable(ctx, "Mug"); err != item.ErrOutOfStock {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
	if _, err := repo.DecrementIfAvailable(ctx, "Plate"); err != item.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDecrementIfAvailableConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := New()
	repo.Save(ctx, item.Item{Name: "Mug", Price: decimal.NewFromInt(10), QuantityAvailable: 1})

	const callers = 16
	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.DecrementIfAvailable(ctx, "Mug")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var won int
	for err := range results {
		if err == nil {
			won++
		} else if err != item.ErrOutOfStock {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 {
		t.Fatalf("expected exactly one reservation to win, got %d", won)
	}
	got, _ := repo.FindByName(ctx, "Mug")
	if got.QuantityAvailable != 0 {
		t.Fatalf("expected 0 available, got %d", got.QuantityAvailable)
	}
}
