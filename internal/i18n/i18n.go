// Package i18n holds the user-facing messages in Bulgarian and English.
package i18n

import "github.com/mmynk/elka/internal/money"

// Key identifies a translatable message.
type Key string

const (
	Required             Key = "required"
	InvalidNumber        Key = "invalidNumber"
	TooLarge             Key = "tooLarge"
	GramsMustBe          Key = "gramsMustBe"
	PriceMustBePositive  Key = "priceMustBePositive"
	QtyMustBePositive    Key = "qtyMustBePositive"
	WeightMustBePositive Key = "weightMustBePositive"
	RateMustBePositive   Key = "rateMustBePositive"
	InvalidCurrency      Key = "invalidCurrency"
	ItemNotFound         Key = "itemNotFound"
	NothingToUndo        Key = "nothingToUndo"
)

var translations = map[money.Lang]map[Key]string{
	money.LangBG: {
		Required:             "задължително",
		InvalidNumber:        "невалидно число",
		TooLarge:             "стойността е твърде голяма",
		GramsMustBe:          "грамите трябва да са между 0 и 999",
		PriceMustBePositive:  "цената трябва да е положителна",
		QtyMustBePositive:    "количеството трябва да е положително",
		WeightMustBePositive: "теглото трябва да е положително",
		RateMustBePositive:   "курсът трябва да е положително число в допустимите граници",
		InvalidCurrency:      "невалидна валута",
		ItemNotFound:         "артикулът не е намерен",
		NothingToUndo:        "няма какво да се върне",
	},
	money.LangEN: {
		Required:             "required",
		InvalidNumber:        "invalid number",
		TooLarge:             "value is too large",
		GramsMustBe:          "grams must be between 0 and 999",
		PriceMustBePositive:  "price must be positive",
		QtyMustBePositive:    "quantity must be positive",
		WeightMustBePositive: "weight must be positive",
		RateMustBePositive:   "rate must be a positive number within range",
		InvalidCurrency:      "invalid currency",
		ItemNotFound:         "item not found",
		NothingToUndo:        "nothing to undo",
	},
}

// T returns the message for key in lang, or the key itself when missing.
func T(key Key, lang money.Lang) string {
	if msg, ok := translations[lang][key]; ok {
		return msg
	}
	return string(key)
}
