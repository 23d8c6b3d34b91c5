package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/elka/internal/models"
	"github.com/mmynk/elka/internal/money"
	"github.com/mmynk/elka/internal/storage"
)

func TestSQLiteStore(t *testing.T) {
	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "elka-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "nested", "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("LoadBill returns ErrNotFound for unknown session", func(t *testing.T) {
		_, err := store.LoadBill(ctx, "nobody")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("SaveBill and LoadBill round trip", func(t *testing.T) {
		original := &models.Bill{
			Rate: models.Rate{BGNPerEUR: 2},
			Items: []models.LineItem{
				models.UnitItem{ID: "item_1", Name: "Milk", UnitPriceBGN: 2.39, Qty: 2},
				models.WeightItem{ID: "item_2", Name: "Apples", PricePerKgBGN: 3.2, Kg: 0, Grams: 850},
			},
			PayingEUR: 20,
			Lang:      money.LangEN,
		}

		if err := store.SaveBill(ctx, "s1", original); err != nil {
			t.Fatalf("SaveBill failed: %v", err)
		}

		retrieved, err := store.LoadBill(ctx, "s1")
		if err != nil {
			t.Fatalf("LoadBill failed: %v", err)
		}

		if retrieved.Rate != original.Rate {
			t.Errorf("Rate mismatch: got %v, want %v", retrieved.Rate, original.Rate)
		}
		if retrieved.PayingEUR != original.PayingEUR {
			t.Errorf("PayingEUR mismatch: got %f, want %f", retrieved.PayingEUR, original.PayingEUR)
		}
		if retrieved.Lang != original.Lang {
			t.Errorf("Lang mismatch: got %s, want %s", retrieved.Lang, original.Lang)
		}
		if len(retrieved.Items) != len(original.Items) {
			t.Fatalf("Items count mismatch: got %d, want %d", len(retrieved.Items), len(original.Items))
		}
		for i, item := range retrieved.Items {
			if item != original.Items[i] {
				t.Errorf("Item %d mismatch: got %+v, want %+v", i, item, original.Items[i])
			}
		}
	})

	t.Run("SaveBill overwrites previous state", func(t *testing.T) {
		first := models.NewBill(money.LangBG)
		first.PayingEUR = 5
		if err := store.SaveBill(ctx, "s2", first); err != nil {
			t.Fatalf("SaveBill failed: %v", err)
		}

		second := models.NewBill(money.LangBG)
		second.PayingEUR = 7
		if err := store.SaveBill(ctx, "s2", second); err != nil {
			t.Fatalf("SaveBill failed: %v", err)
		}

		got, err := store.LoadBill(ctx, "s2")
		if err != nil {
			t.Fatalf("LoadBill failed: %v", err)
		}
		if got.PayingEUR != 7 {
			t.Errorf("PayingEUR = %f, want 7", got.PayingEUR)
		}
	})

	t.Run("Snapshot lifecycle is independent of the bill", func(t *testing.T) {
		bill := models.NewBill(money.LangBG)
		bill.Items = append(bill.Items, models.UnitItem{ID: "item_3", UnitPriceBGN: 1, Qty: 1})

		if err := store.SaveSnapshot(ctx, "s3", bill); err != nil {
			t.Fatalf("SaveSnapshot failed: %v", err)
		}
		if _, err := store.LoadBill(ctx, "s3"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected no live bill, got %v", err)
		}

		snap, err := store.LoadSnapshot(ctx, "s3")
		if err != nil {
			t.Fatalf("LoadSnapshot failed: %v", err)
		}
		if len(snap.Items) != 1 {
			t.Errorf("Snapshot items = %d, want 1", len(snap.Items))
		}

		if err := store.ClearSnapshot(ctx, "s3"); err != nil {
			t.Fatalf("ClearSnapshot failed: %v", err)
		}
		if _, err := store.LoadSnapshot(ctx, "s3"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after clear, got %v", err)
		}
		if err := store.ClearSnapshot(ctx, "s3"); err != nil {
			t.Errorf("Clearing a missing snapshot failed: %v", err)
		}
	})

	t.Run("PurgeBefore removes stale sessions", func(t *testing.T) {
		store.now = func() time.Time { return time.Unix(1000, 0) }
		if err := store.SaveBill(ctx, "stale", models.NewBill(money.LangBG)); err != nil {
			t.Fatalf("SaveBill failed: %v", err)
		}
		store.now = time.Now

		if _, err := store.PurgeBefore(ctx, time.Unix(2000, 0)); err != nil {
			t.Fatalf("PurgeBefore failed: %v", err)
		}
		if _, err := store.LoadBill(ctx, "stale"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected stale session to be purged, got %v", err)
		}
		if _, err := store.LoadBill(ctx, "s2"); err != nil {
			t.Errorf("Expected fresh session to survive, got %v", err)
		}
	})
}
