package models

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/mmynk/elka/internal/money"
)

// Bounds of a usable exchange rate. They keep every converted line total
// finite for amounts up to money.MaxAmount.
const (
	MinRate = 1e-6
	MaxRate = 1e6
)

// MaxKg is the heaviest weight item accepted, in whole kilograms.
const MaxKg = 10000

// Rate is the exchange rate between the two currencies.
type Rate struct {
	// BGNPerEUR is how many leva equal one euro, between MinRate and MaxRate.
	BGNPerEUR float64 `json:"bgnPerEur"`
}

// OfficialRate returns the fixed BGN/EUR rate.
func OfficialRate() Rate {
	return Rate{BGNPerEUR: money.OfficialRate}
}

// Valid reports whether the rate can be used for conversion.
func (r Rate) Valid() bool {
	return r.BGNPerEUR >= MinRate && r.BGNPerEUR <= MaxRate
}

// LineItem is a single priced entry on a bill.
// It is implemented only by UnitItem and WeightItem.
type LineItem interface {
	ItemID() string
	ItemName() string
	isLineItem()
}

// UnitItem is priced per piece.
type UnitItem struct {
	ID   string
	Name string

	// UnitPriceBGN is the price of one piece in leva.
	UnitPriceBGN float64

	// Qty is the number of pieces and may be fractional.
	Qty float64
}

// WeightItem is priced per kilogram.
type WeightItem struct {
	ID   string
	Name string

	// PricePerKgBGN is the price of one kilogram in leva.
	PricePerKgBGN float64

	// Kg is the whole-kilogram part of the weight.
	Kg int

	// Grams is the remainder in grams, 0..999.
	Grams int
}

func (u UnitItem) ItemID() string   { return u.ID }
func (u UnitItem) ItemName() string { return u.Name }
func (UnitItem) isLineItem()        {}

func (w WeightItem) ItemID() string   { return w.ID }
func (w WeightItem) ItemName() string { return w.Name }
func (WeightItem) isLineItem()        {}

// TotalGrams returns the whole weight in grams.
func (w WeightItem) TotalGrams() int {
	return w.Kg*1000 + w.Grams
}

// SplitKg converts decimal kilograms into whole kilograms and grams.
// Grams are rounded to the nearest gram; a result of 1000 grams carries
// into the kilogram part. Negative and NaN input give zero; anything above
// MaxKg gives MaxKg+1 kg so that it fails validation instead of wrapping.
func SplitKg(decimalKg float64) (kg, grams int) {
	switch {
	case math.IsNaN(decimalKg) || decimalKg <= 0:
		return 0, 0
	case decimalKg > MaxKg:
		return MaxKg + 1, 0
	}
	total := int(math.Round(decimalKg * 1000))
	return total / 1000, total % 1000
}

// Bill is the live bill of one session.
type Bill struct {
	Rate Rate

	// Items are kept in insertion order.
	Items []LineItem

	// PayingEUR is the amount handed over by the customer, in euro.
	PayingEUR float64

	Lang money.Lang
}

// NewBill returns an empty bill at the official rate.
func NewBill(lang money.Lang) *Bill {
	return &Bill{
		Rate:  OfficialRate(),
		Items: []LineItem{},
		Lang:  lang,
	}
}

// FindItem returns the index of the item with the given ID, or -1.
func (b *Bill) FindItem(id string) int {
	for i, item := range b.Items {
		if item.ItemID() == id {
			return i
		}
	}
	return -1
}

// RemoveItem deletes the item with the given ID and reports whether it existed.
func (b *Bill) RemoveItem(id string) bool {
	i := b.FindItem(id)
	if i < 0 {
		return false
	}
	b.Items = append(b.Items[:i:i], b.Items[i+1:]...)
	return true
}

const (
	itemTypeUnit   = "unit"
	itemTypeWeight = "weight"
)

// itemRecord is the flat stored form of a LineItem.
type itemRecord struct {
	ID            string  `json:"id"`
	Type          string  `json:"type"`
	Name          string  `json:"name,omitempty"`
	UnitPriceBGN  float64 `json:"unitPriceBgn,omitempty"`
	Qty           float64 `json:"qty,omitempty"`
	PricePerKgBGN float64 `json:"pricePerKgBgn,omitempty"`
	Kg            int     `json:"kg,omitempty"`
	Grams         int     `json:"grams,omitempty"`
}

type billRecord struct {
	Rate      Rate         `json:"rate"`
	Items     []itemRecord `json:"items"`
	PayingEUR float64      `json:"payingEur"`
	Lang      money.Lang   `json:"lang"`
}

// MarshalJSON encodes the bill as a flat record with a "type" tag per item.
func (b Bill) MarshalJSON() ([]byte, error) {
	rec := billRecord{
		Rate:      b.Rate,
		Items:     make([]itemRecord, 0, len(b.Items)),
		PayingEUR: b.PayingEUR,
		Lang:      b.Lang,
	}
	for _, item := range b.Items {
		switch it := item.(type) {
		case UnitItem:
			rec.Items = append(rec.Items, itemRecord{
				ID:           it.ID,
				Type:         itemTypeUnit,
				Name:         it.Name,
				UnitPriceBGN: it.UnitPriceBGN,
				Qty:          it.Qty,
			})
		case WeightItem:
			rec.Items = append(rec.Items, itemRecord{
				ID:            it.ID,
				Type:          itemTypeWeight,
				Name:          it.Name,
				PricePerKgBGN: it.PricePerKgBGN,
				Kg:            it.Kg,
				Grams:         it.Grams,
			})
		default:
			return nil, fmt.Errorf("unknown line item type %T", item)
		}
	}
	return json.Marshal(rec)
}

// UnmarshalJSON decodes a bill written by MarshalJSON.
func (b *Bill) UnmarshalJSON(data []byte) error {
	var rec billRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	items := make([]LineItem, 0, len(rec.Items))
	for _, r := range rec.Items {
		switch r.Type {
		case itemTypeUnit:
			if !money.InRange(r.UnitPriceBGN) || !money.InRange(r.Qty) {
				return fmt.Errorf("item %s: amount out of range", r.ID)
			}
			items = append(items, UnitItem{
				ID:           r.ID,
				Name:         r.Name,
				UnitPriceBGN: r.UnitPriceBGN,
				Qty:          r.Qty,
			})
		case itemTypeWeight:
			if r.Grams < 0 || r.Grams > 999 {
				return fmt.Errorf("item %s: grams out of range: %d", r.ID, r.Grams)
			}
			if r.Kg < 0 || r.Kg > MaxKg || !money.InRange(r.PricePerKgBGN) {
				return fmt.Errorf("item %s: amount out of range", r.ID)
			}
			items = append(items, WeightItem{
				ID:            r.ID,
				Name:          r.Name,
				PricePerKgBGN: r.PricePerKgBGN,
				Kg:            r.Kg,
				Grams:         r.Grams,
			})
		default:
			return fmt.Errorf("item %s: unknown type %q", r.ID, r.Type)
		}
	}

	*b = Bill{
		Rate:      rec.Rate,
		Items:     items,
		PayingEUR: rec.PayingEUR,
		Lang:      rec.Lang,
	}
	if !b.Rate.Valid() {
		b.Rate = OfficialRate()
	}
	if !money.InRange(b.PayingEUR) {
		b.PayingEUR = 0
	}
	if b.Lang == "" {
		b.Lang = money.LangBG
	}
	return nil
}
