package calculator

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/mmynk/elka/internal/models"
	"github.com/mmynk/elka/internal/money"
)

var official = models.Rate{BGNPerEUR: 1.95583}

func TestLineTotals(t *testing.T) {
	tests := []struct {
		name      string
		item      models.LineItem
		rate      models.Rate
		wantBGN   float64
		wantEUR   float64
		wantLabel string
	}{
		{
			name:    "unit item",
			item:    models.UnitItem{ID: "1", UnitPriceBGN: 2.50, Qty: 3},
			rate:    official,
			wantBGN: 7.50,
			// 7.50 / 1.95583 = 3.8347
			wantEUR: 3.83,
		},
		{
			name:      "weight item",
			item:      models.WeightItem{ID: "2", PricePerKgBGN: 4.00, Kg: 1, Grams: 500},
			rate:      official,
			wantBGN:   6.00,
			wantEUR:   3.07,
			wantLabel: "1.500 kg",
		},
		{
			name:      "weight below one kilogram",
			item:      models.WeightItem{ID: "3", PricePerKgBGN: 12.99, Kg: 0, Grams: 234},
			rate:      official,
			wantBGN:   3.04,
			wantEUR:   1.55,
			wantLabel: "0.234 kg",
		},
		{
			name:      "zero weight",
			item:      models.WeightItem{ID: "4", PricePerKgBGN: 5, Kg: 0, Grams: 0},
			rate:      official,
			wantBGN:   0,
			wantEUR:   0,
			wantLabel: "0.000 kg",
		},
		{
			name:    "fractional quantity",
			item:    models.UnitItem{ID: "5", UnitPriceBGN: 0.1, Qty: 3},
			rate:    models.Rate{BGNPerEUR: 1},
			wantBGN: 0.3,
			wantEUR: 0.3,
		},
		{
			name:    "negative price is computed, not rejected",
			item:    models.UnitItem{ID: "6", UnitPriceBGN: -2, Qty: 1},
			rate:    models.Rate{BGNPerEUR: 2},
			wantBGN: -2,
			wantEUR: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineTotals(tt.item, tt.rate)
			if got.LineBGN != tt.wantBGN {
				t.Errorf("LineBGN = %v, want %v", got.LineBGN, tt.wantBGN)
			}
			if got.LineEUR != tt.wantEUR {
				t.Errorf("LineEUR = %v, want %v", got.LineEUR, tt.wantEUR)
			}
			if got.WeightLabel != tt.wantLabel {
				t.Errorf("WeightLabel = %q, want %q", got.WeightLabel, tt.wantLabel)
			}
		})
	}
}

func TestLineTotalsMagnitude(t *testing.T) {
	tests := []struct {
		name string
		item models.LineItem
		rate models.Rate
	}{
		{"largest accepted line", models.UnitItem{UnitPriceBGN: money.MaxAmount, Qty: 1}, official},
		{"largest line at smallest rate", models.UnitItem{UnitPriceBGN: money.MaxAmount, Qty: 1}, models.Rate{BGNPerEUR: models.MinRate}},
		{"largest price at heaviest weight", models.WeightItem{PricePerKgBGN: money.MaxAmount, Kg: models.MaxKg, Grams: 999}, official},
		{"cents near 1e13", models.UnitItem{UnitPriceBGN: 1e13 + 0.125, Qty: 1}, official},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineTotals(tt.item, tt.rate)
			if math.IsInf(got.LineBGN, 0) || math.IsNaN(got.LineBGN) {
				t.Errorf("LineBGN = %v, want finite", got.LineBGN)
			}
			if math.IsInf(got.LineEUR, 0) || math.IsNaN(got.LineEUR) {
				t.Errorf("LineEUR = %v, want finite", got.LineEUR)
			}
			if got.LineEUR != money.Round2(got.LineBGN/tt.rate.BGNPerEUR) {
				t.Errorf("LineEUR %v is not round2(%v / %v)", got.LineEUR, got.LineBGN, tt.rate.BGNPerEUR)
			}
		})
	}

	// The engine does not bound its inputs; past float range the line is
	// infinite and must still format without panicking.
	line := LineTotals(models.UnitItem{UnitPriceBGN: 1e308, Qty: 10}, official)
	if !math.IsInf(line.LineBGN, 1) || !math.IsInf(line.LineEUR, 1) {
		t.Fatalf("overflowing line = %+v, want +Inf in both currencies", line)
	}
	if got := money.Format(line.LineBGN, money.BGN, money.LangEN); got != "+Inf BGN" {
		t.Errorf("Format(+Inf) = %q", got)
	}
	if totals := BillTotals([]models.LineItem{models.UnitItem{UnitPriceBGN: 1e308, Qty: 10}}, official); !math.IsInf(totals.TotalBGN, 1) {
		t.Errorf("TotalBGN = %v, want +Inf", totals.TotalBGN)
	}
}

func TestBillTotals(t *testing.T) {
	items := []models.LineItem{
		models.UnitItem{ID: "1", UnitPriceBGN: 2.50, Qty: 3},
		models.WeightItem{ID: "2", PricePerKgBGN: 4.00, Kg: 1, Grams: 500},
	}

	got := BillTotals(items, official)
	if got.TotalBGN != 13.50 {
		t.Errorf("TotalBGN = %v, want 13.50", got.TotalBGN)
	}
	// 3.83 + 3.07
	if got.TotalEUR != 6.90 {
		t.Errorf("TotalEUR = %v, want 6.90", got.TotalEUR)
	}

	if empty := BillTotals(nil, official); empty != (Totals{}) {
		t.Errorf("empty bill totals = %+v, want zero", empty)
	}
}

func TestBillTotalsMatchLineSum(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	rates := []models.Rate{official, {BGNPerEUR: 1}, {BGNPerEUR: 0.37}, {BGNPerEUR: 117.3}}

	for round := 0; round < 200; round++ {
		rate := rates[round%len(rates)]
		items := randomItems(rng, 1+rng.Intn(40))

		var sumBGN, sumEUR float64
		for _, item := range items {
			line := LineTotals(item, rate)
			sumBGN += line.LineBGN
			sumEUR += line.LineEUR

			if line.LineEUR != money.Round2(line.LineBGN/rate.BGNPerEUR) {
				t.Fatalf("LineEUR %v is not round2(%v / %v)", line.LineEUR, line.LineBGN, rate.BGNPerEUR)
			}
		}

		got := BillTotals(items, rate)
		if got.TotalBGN != money.Round2(sumBGN) {
			t.Fatalf("TotalBGN = %v, want %v", got.TotalBGN, money.Round2(sumBGN))
		}
		if got.TotalEUR != money.Round2(sumEUR) {
			t.Fatalf("TotalEUR = %v, want %v", got.TotalEUR, money.Round2(sumEUR))
		}
		if again := BillTotals(items, rate); again != got {
			t.Fatalf("BillTotals not deterministic: %+v vs %+v", again, got)
		}
	}
}

func TestCalculateChange(t *testing.T) {
	tests := []struct {
		name          string
		paying        float64
		total         float64
		wantChange    float64
		wantRemaining float64
	}{
		{name: "overpaid", paying: 10.00, total: 6.91, wantChange: 3.09},
		{name: "underpaid", paying: 5.00, total: 6.91, wantRemaining: 1.91},
		{name: "exact", paying: 6.91, total: 6.91},
		{name: "nothing paid", paying: 0, total: 6.90, wantRemaining: 6.90},
		{name: "float noise near zero", paying: 0.3, total: 0.1 + 0.2},
		{name: "negative tender", paying: -1, total: 2, wantRemaining: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateChange(tt.paying, tt.total)
			if got.ChangeEUR != tt.wantChange {
				t.Errorf("ChangeEUR = %v, want %v", got.ChangeEUR, tt.wantChange)
			}
			if got.RemainingEUR != tt.wantRemaining {
				t.Errorf("RemainingEUR = %v, want %v", got.RemainingEUR, tt.wantRemaining)
			}
		})
	}
}

func TestCalculateChangeExclusive(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 1000; i++ {
		paying := float64(rng.Intn(50000)) / 100
		total := float64(rng.Intn(50000)) / 100

		got := CalculateChange(paying, total)
		if got.ChangeEUR != 0 && got.RemainingEUR != 0 {
			t.Fatalf("both change and remaining set for %v/%v: %+v", paying, total, got)
		}
		if got.ChangeEUR < 0 || got.RemainingEUR < 0 {
			t.Fatalf("negative result for %v/%v: %+v", paying, total, got)
		}
		if diff := got.ChangeEUR - got.RemainingEUR; diff != money.Round2(paying-total) {
			t.Fatalf("change - remaining = %v, want %v", diff, money.Round2(paying-total))
		}
	}
}

func randomItems(rng *rand.Rand, n int) []models.LineItem {
	items := make([]models.LineItem, n)
	for i := range items {
		id := fmt.Sprintf("item_%d", i)
		if rng.Intn(2) == 0 {
			items[i] = models.UnitItem{
				ID:           id,
				UnitPriceBGN: float64(1+rng.Intn(9999)) / 100,
				Qty:          float64(1+rng.Intn(40)) / 4,
			}
			continue
		}
		items[i] = models.WeightItem{
			ID:            id,
			PricePerKgBGN: float64(1+rng.Intn(9999)) / 100,
			Kg:            rng.Intn(5),
			Grams:         rng.Intn(1000),
		}
	}
	return items
}
