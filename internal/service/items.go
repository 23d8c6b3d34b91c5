package service

import (
	"errors"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/elka/internal/i18n"
	"github.com/mmynk/elka/internal/models"
	"github.com/mmynk/elka/internal/money"
	"github.com/mmynk/elka/pkg/api"
)

// The lte bounds on prices and line totals are money.MaxAmount; Kg is
// bounded by models.MaxKg.

// unitInput is a unit item after parsing and conversion to leva.
type unitInput struct {
	PriceBGN float64 `validate:"gt=0,lte=1000000000000"`
	Qty      float64 `validate:"gt=0"`
	LineBGN  float64 `validate:"lte=1000000000000"`
}

// weightInput is a weight item after parsing and conversion to leva.
type weightInput struct {
	PricePerKgBGN float64 `validate:"gt=0,lte=1000000000000"`
	Kg            int     `validate:"gte=0,lte=10000"`
	Grams         int     `validate:"gte=0,lte=999"`
	TotalGrams    int     `validate:"gt=0"`
	LineBGN       float64 `validate:"lte=1000000000000"`
}

// fieldMessages maps a failed input field to the message shown to the user.
var fieldMessages = map[string]i18n.Key{
	"PriceBGN":      i18n.PriceMustBePositive,
	"PricePerKgBGN": i18n.PriceMustBePositive,
	"Qty":           i18n.QtyMustBePositive,
	"Kg":            i18n.WeightMustBePositive,
	"TotalGrams":    i18n.WeightMustBePositive,
	"Grams":         i18n.GramsMustBe,
	"LineBGN":       i18n.TooLarge,
}

// messageFor picks the message for a failed field. An upper bound on any
// field other than Grams means the value is too large.
func messageFor(fe validator.FieldError) (i18n.Key, bool) {
	if fe.Tag() == "lte" && fe.Field() != "Grams" {
		return i18n.TooLarge, true
	}
	key, ok := fieldMessages[fe.Field()]
	return key, ok
}

// unitItem turns a form submission into a UnitItem priced in leva.
func (s *BillService) unitItem(msg *api.AddUnitItemRequest, bill *models.Bill) (models.UnitItem, error) {
	lang := bill.Lang
	currency, err := parseCurrency(msg.Currency, lang)
	if err != nil {
		return models.UnitItem{}, err
	}
	price, err := parseAmount(msg.Price, lang)
	if err != nil {
		return models.UnitItem{}, err
	}
	qtyText := msg.Qty
	if isBlank(qtyText) {
		qtyText = "1"
	}
	qty, err := parseAmount(qtyText, lang)
	if err != nil {
		return models.UnitItem{}, err
	}

	priceBGN := money.ToBGN(price, currency, bill.Rate.BGNPerEUR)
	in := unitInput{
		PriceBGN: priceBGN,
		Qty:      qty,
		LineBGN:  priceBGN * qty,
	}
	if err := s.check(in, lang); err != nil {
		return models.UnitItem{}, err
	}

	return models.UnitItem{
		ID:           s.newID(),
		Name:         strings.TrimSpace(msg.Name),
		UnitPriceBGN: in.PriceBGN,
		Qty:          in.Qty,
	}, nil
}

// weightItem turns a form submission into a WeightItem priced in leva.
func (s *BillService) weightItem(msg *api.AddWeightItemRequest, bill *models.Bill) (models.WeightItem, error) {
	lang := bill.Lang
	currency, err := parseCurrency(msg.Currency, lang)
	if err != nil {
		return models.WeightItem{}, err
	}
	price, err := parseAmount(msg.PricePerKg, lang)
	if err != nil {
		return models.WeightItem{}, err
	}

	kg, grams := msg.Kg, msg.Grams
	if !isBlank(msg.WeightKg) {
		decimalKg, err := parseAmount(msg.WeightKg, lang)
		if err != nil {
			return models.WeightItem{}, err
		}
		kg, grams = models.SplitKg(decimalKg)
	}

	in := weightInput{
		PricePerKgBGN: money.ToBGN(price, currency, bill.Rate.BGNPerEUR),
		Kg:            kg,
		Grams:         grams,
	}
	// kg*1000 is only formed for an in-range Kg; otherwise the Kg rule rejects the input.
	if kg >= 0 && kg <= models.MaxKg {
		in.TotalGrams = kg*1000 + grams
		in.LineBGN = in.PricePerKgBGN * (float64(kg) + float64(grams)/1000)
	}
	if err := s.check(in, lang); err != nil {
		return models.WeightItem{}, err
	}

	return models.WeightItem{
		ID:            s.newID(),
		Name:          strings.TrimSpace(msg.Name),
		PricePerKgBGN: in.PricePerKgBGN,
		Kg:            in.Kg,
		Grams:         in.Grams,
	}, nil
}

// check validates v and reports the first failing field as InvalidArgument.
func (s *BillService) check(v any, lang money.Lang) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if key, ok := messageFor(fieldErrs[0]); ok {
			return invalidArgument(key, lang)
		}
	}
	return connect.NewError(connect.CodeInvalidArgument, err)
}

// parseAmount parses a required number no larger in magnitude than money.MaxAmount.
func parseAmount(text string, lang money.Lang) (float64, error) {
	if isBlank(text) {
		return 0, invalidArgument(i18n.Required, lang)
	}
	v, ok := money.ParseFlexible(text)
	if !ok {
		return 0, invalidArgument(i18n.InvalidNumber, lang)
	}
	if !money.InRange(v) {
		return 0, invalidArgument(i18n.TooLarge, lang)
	}
	return v, nil
}

// parseCurrency accepts BGN or EUR in any case; empty means BGN.
func parseCurrency(text string, lang money.Lang) (money.Currency, error) {
	if isBlank(text) {
		return money.BGN, nil
	}
	c := money.Currency(strings.ToUpper(strings.TrimSpace(text)))
	if !c.Valid() {
		return "", invalidArgument(i18n.InvalidCurrency, lang)
	}
	return c, nil
}

func invalidArgument(key i18n.Key, lang money.Lang) error {
	return connect.NewError(connect.CodeInvalidArgument, errors.New(i18n.T(key, lang)))
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
