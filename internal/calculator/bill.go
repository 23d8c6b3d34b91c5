package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/elka/internal/models"
	"github.com/mmynk/elka/internal/money"
)

// Line is the computed total of one bill item in both currencies.
type Line struct {
	LineBGN float64
	LineEUR float64

	// WeightLabel is set for weight items only, e.g. "1.500 kg".
	// It is display metadata and never used in arithmetic.
	WeightLabel string
}

// Totals is the sum of all line totals of a bill.
type Totals struct {
	TotalBGN float64
	TotalEUR float64
}

// Change is the result of comparing the tendered amount with the total.
// At most one of the two fields is non-zero.
type Change struct {
	ChangeEUR    float64
	RemainingEUR float64
}

// LineTotals computes the total of a single item.
// Both amounts are rounded to cents per line so that the displayed lines
// always add up to the displayed total.
func LineTotals(item models.LineItem, rate models.Rate) Line {
	var line Line

	switch it := item.(type) {
	case models.UnitItem:
		line.LineBGN = it.UnitPriceBGN * it.Qty
	case models.WeightItem:
		totalKg := float64(it.Kg) + float64(it.Grams)/1000
		line.LineBGN = it.PricePerKgBGN * totalKg
		line.WeightLabel = decimal.New(int64(it.TotalGrams()), -3).StringFixed(3) + " kg"
	default:
		panic(fmt.Sprintf("calculator: unknown line item type %T", item))
	}

	// The euro amount is converted from the rounded leva amount, so it is
	// always the conversion of what is displayed.
	line.LineBGN = money.Round2(line.LineBGN)
	line.LineEUR = money.Round2(line.LineBGN / rate.BGNPerEUR)
	return line
}

// BillTotals sums the rounded line totals in insertion order.
// Based on the algorithm: total = round2(Σ round2(line))
func BillTotals(items []models.LineItem, rate models.Rate) Totals {
	var totals Totals
	for _, item := range items {
		line := LineTotals(item, rate)
		totals.TotalBGN += line.LineBGN
		totals.TotalEUR += line.LineEUR
	}

	totals.TotalBGN = money.Round2(totals.TotalBGN)
	totals.TotalEUR = money.Round2(totals.TotalEUR)
	return totals
}

// CalculateChange compares what the customer pays with the bill total, both in euro.
// A negative tendered amount is not rejected; it simply increases what remains due.
func CalculateChange(payingEUR, totalEUR float64) Change {
	diff := payingEUR - totalEUR
	if diff >= 0 {
		return Change{ChangeEUR: money.Round2(diff)}
	}
	return Change{RemainingEUR: money.Round2(-diff)}
}
