package models

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/mmynk/elka/internal/money"
)

func TestSplitKg(t *testing.T) {
	tests := []struct {
		in        float64
		kg, grams int
	}{
		{1.5, 1, 500},
		{0.234, 0, 234},
		{2, 2, 0},
		{1.9996, 2, 0},
		{0.0004, 0, 0},
		{-1, 0, 0},
		{MaxKg, MaxKg, 0},
		{MaxKg - 0.0004, MaxKg, 0},
		{MaxKg + 0.5, MaxKg + 1, 0},
		{1e19, MaxKg + 1, 0},
		{math.Inf(1), MaxKg + 1, 0},
		{math.NaN(), 0, 0},
	}
	for _, tt := range tests {
		kg, grams := SplitKg(tt.in)
		if kg != tt.kg || grams != tt.grams {
			t.Errorf("SplitKg(%v) = %d kg %d g, want %d kg %d g", tt.in, kg, grams, tt.kg, tt.grams)
		}
	}
}

func TestBillJSON(t *testing.T) {
	bill := &Bill{
		Rate: OfficialRate(),
		Items: []LineItem{
			UnitItem{ID: "item_1", Name: "Bread", UnitPriceBGN: 2.5, Qty: 3},
			WeightItem{ID: "item_2", PricePerKgBGN: 4, Kg: 1, Grams: 500},
		},
		PayingEUR: 10,
		Lang:      money.LangEN,
	}

	data, err := json.Marshal(bill)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"type":"weight"`) {
		t.Errorf("expected type tag in %s", data)
	}

	var decoded Bill
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded.Rate != bill.Rate {
		t.Errorf("Rate = %v, want %v", decoded.Rate, bill.Rate)
	}
	if decoded.PayingEUR != 10 || decoded.Lang != money.LangEN {
		t.Errorf("unexpected paying/lang: %v %s", decoded.PayingEUR, decoded.Lang)
	}
	if len(decoded.Items) != 2 {
		t.Fatalf("Items count = %d, want 2", len(decoded.Items))
	}
	if _, ok := decoded.Items[0].(UnitItem); !ok {
		t.Errorf("item 0 is %T, want UnitItem", decoded.Items[0])
	}
	w, ok := decoded.Items[1].(WeightItem)
	if !ok {
		t.Fatalf("item 1 is %T, want WeightItem", decoded.Items[1])
	}
	if w.Kg != 1 || w.Grams != 500 || w.TotalGrams() != 1500 {
		t.Errorf("unexpected weight %d kg %d g", w.Kg, w.Grams)
	}
}

func TestBillUnmarshalRejectsBadItems(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown type", `{"rate":{"bgnPerEur":1.95583},"items":[{"id":"x","type":"box"}]}`},
		{"grams out of range", `{"rate":{"bgnPerEur":1.95583},"items":[{"id":"x","type":"weight","grams":1000}]}`},
		{"malformed", `{"items":`},
		{"unit price out of range", `{"rate":{"bgnPerEur":1.95583},"items":[{"id":"x","type":"unit","unitPriceBgn":1e307,"qty":1}]}`},
		{"weight out of range", `{"rate":{"bgnPerEur":1.95583},"items":[{"id":"x","type":"weight","pricePerKgBgn":1,"kg":4611686018427387}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Bill
			if err := json.Unmarshal([]byte(tt.data), &b); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestBillUnmarshalDefaults(t *testing.T) {
	var b Bill
	if err := json.Unmarshal([]byte(`{"rate":{"bgnPerEur":0},"items":[]}`), &b); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if b.Rate != OfficialRate() {
		t.Errorf("Rate = %v, want official rate", b.Rate)
	}
	if b.Lang != money.LangBG {
		t.Errorf("Lang = %q, want bg", b.Lang)
	}
}

func TestRemoveItem(t *testing.T) {
	bill := NewBill(money.LangBG)
	bill.Items = append(bill.Items,
		UnitItem{ID: "a", UnitPriceBGN: 1, Qty: 1},
		UnitItem{ID: "b", UnitPriceBGN: 2, Qty: 1},
		UnitItem{ID: "c", UnitPriceBGN: 3, Qty: 1},
	)
	snapshot := bill.Items

	if !bill.RemoveItem("b") {
		t.Fatal("expected b to be removed")
	}
	if bill.RemoveItem("b") {
		t.Error("expected second removal to report false")
	}
	if len(bill.Items) != 2 || bill.Items[0].ItemID() != "a" || bill.Items[1].ItemID() != "c" {
		t.Errorf("unexpected items after removal: %v", bill.Items)
	}
	if snapshot[1].ItemID() != "b" {
		t.Error("removal modified the previous backing array")
	}
}

func TestRateValid(t *testing.T) {
	tests := []struct {
		rate float64
		want bool
	}{
		{money.OfficialRate, true},
		{MinRate, true},
		{MaxRate, true},
		{0, false},
		{-1.95583, false},
		{MinRate / 10, false},
		{MaxRate * 10, false},
		{math.Inf(1), false},
		{math.NaN(), false},
	}
	for _, tt := range tests {
		if got := (Rate{BGNPerEUR: tt.rate}).Valid(); got != tt.want {
			t.Errorf("Rate{%v}.Valid() = %v, want %v", tt.rate, got, tt.want)
		}
	}
}
