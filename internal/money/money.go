// Package money holds the numeric primitives shared by the bill engine and
// the service layer: lenient decimal parsing, cent rounding and display
// formatting for the two supported currencies.
package money

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// OfficialRate is the fixed number of leva per euro.
const OfficialRate = 1.95583

// MaxAmount is the largest magnitude accepted for any entered or computed amount.
const MaxAmount = 1e12

// roundLimit is where float64 spacing reaches an eighth of a unit; above it
// there are no cents left to round.
const roundLimit = 1e15

// Currency identifies one side of the BGN/EUR pair.
type Currency string

const (
	BGN Currency = "BGN"
	EUR Currency = "EUR"
)

// Valid reports whether c is one of the two supported currencies.
func (c Currency) Valid() bool {
	return c == BGN || c == EUR
}

// Other returns the opposite currency of the pair.
func (c Currency) Other() Currency {
	if c == EUR {
		return BGN
	}
	return EUR
}

// Lang selects the display language for formatted amounts and messages.
type Lang string

const (
	LangBG Lang = "bg"
	LangEN Lang = "en"
)

// ParseLang maps free text to a supported language, falling back to Bulgarian.
func ParseLang(s string) Lang {
	if strings.EqualFold(strings.TrimSpace(s), string(LangEN)) {
		return LangEN
	}
	return LangBG
}

// ParseFlexible parses user input that may use either a comma or a dot as
// the decimal separator. The second result is false when the input is empty,
// malformed, or does not describe a finite number.
func ParseFlexible(input string) (float64, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, false
	}
	if strings.Count(trimmed, ",")+strings.Count(trimmed, ".") > 1 {
		return 0, false
	}
	normalized := strings.Replace(trimmed, ",", ".", 1)
	if !plainDecimal(normalized) {
		return 0, false
	}

	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// plainDecimal rejects the spellings strconv accepts beyond ordinary
// decimal notation: hex floats, underscores, "inf" and "nan".
func plainDecimal(s string) bool {
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
		case (r == '+' || r == '-') && i == 0:
		default:
			return false
		}
	}
	return digits > 0
}

// InRange reports whether v is finite and no larger in magnitude than MaxAmount.
func InRange(v float64) bool {
	return !math.IsNaN(v) && math.Abs(v) <= MaxAmount
}

// Round2 rounds v to whole cents, half away from zero.
// Magnitudes above 1e15 and non-finite values are returned unchanged.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.Abs(v) >= roundLimit {
		return v
	}
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}

// ToBGN normalizes an amount entered in either currency to leva.
func ToBGN(amount float64, c Currency, bgnPerEUR float64) float64 {
	if c == EUR {
		return amount * bgnPerEUR
	}
	return amount
}

// Convert translates amount from one currency into the other and reports
// the target currency. The result is not rounded.
func Convert(amount float64, from Currency, bgnPerEUR float64) (float64, Currency) {
	if from == EUR {
		return amount * bgnPerEUR, from.Other()
	}
	return amount / bgnPerEUR, from.Other()
}

// Format renders an amount with two decimals and the currency suffix used
// by the given language.
func Format(amount float64, c Currency, lang Lang) string {
	var s string
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		s = strconv.FormatFloat(amount, 'f', 2, 64)
	} else {
		s = decimal.NewFromFloat(amount).StringFixed(2)
	}
	if s == "-0.00" {
		s = "0.00"
	}
	if c == EUR {
		return s + " €"
	}
	if lang == LangBG {
		return s + " лв"
	}
	return s + " BGN"
}
