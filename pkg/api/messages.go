// Package api defines the wire messages of the elka.v1.BillService Connect
// service together with its handler and client constructors.
package api

// Item types in ItemView.Type.
const (
	ItemTypeUnit   = "unit"
	ItemTypeWeight = "weight"
)

// BillView is the bill of one session with every derived value filled in.
type BillView struct {
	Rate      float64    `json:"rate"`
	Lang      string     `json:"lang"`
	Items     []ItemView `json:"items"`
	ItemCount int        `json:"itemCount"`

	TotalBGN     float64 `json:"totalBgn"`
	TotalEUR     float64 `json:"totalEur"`
	TotalBGNText string  `json:"totalBgnText"`
	TotalEURText string  `json:"totalEurText"`

	PayingEUR     float64 `json:"payingEur"`
	ChangeEUR     float64 `json:"changeEur"`
	RemainingEUR  float64 `json:"remainingEur"`
	ChangeText    string  `json:"changeText"`
	RemainingText string  `json:"remainingText"`

	// CanUndo is true while a cleared bill can still be restored.
	CanUndo bool `json:"canUndo"`
}

// ItemView is one line of the bill.
type ItemView struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name,omitempty"`

	UnitPriceBGN  float64 `json:"unitPriceBgn,omitempty"`
	Qty           float64 `json:"qty,omitempty"`
	PricePerKgBGN float64 `json:"pricePerKgBgn,omitempty"`
	Kg            int     `json:"kg,omitempty"`
	Grams         int     `json:"grams,omitempty"`
	WeightLabel   string  `json:"weightLabel,omitempty"`

	LineBGN     float64 `json:"lineBgn"`
	LineEUR     float64 `json:"lineEur"`
	LineBGNText string  `json:"lineBgnText"`
	LineEURText string  `json:"lineEurText"`
}

type StartSessionRequest struct {
	Lang string `json:"lang,omitempty"`
}

type StartSessionResponse struct {
	SessionID string    `json:"sessionId"`
	Token     string    `json:"token"`
	Bill      *BillView `json:"bill"`
}

type GetBillRequest struct{}

// BillResponse is returned by every call that reads or changes the bill.
type BillResponse struct {
	Bill *BillView `json:"bill"`
}

// AddUnitItemRequest adds an item priced per piece. Numbers are raw user
// input and may use a comma as decimal separator.
type AddUnitItemRequest struct {
	Name  string `json:"name,omitempty"`
	Price string `json:"price"`
	// Qty defaults to "1" when empty.
	Qty      string `json:"qty,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// AddWeightItemRequest adds an item priced per kilogram. The weight is
// either WeightKg (decimal kilograms) or, when that is empty, Kg and Grams.
type AddWeightItemRequest struct {
	Name       string `json:"name,omitempty"`
	PricePerKg string `json:"pricePerKg"`
	WeightKg   string `json:"weightKg,omitempty"`
	Kg         int    `json:"kg,omitempty"`
	Grams      int    `json:"grams,omitempty"`
	Currency   string `json:"currency,omitempty"`
}

type DeleteItemRequest struct {
	ID string `json:"id"`
}

type ClearBillRequest struct{}

type UndoClearRequest struct{}

type SetRateRequest struct {
	Rate string `json:"rate"`
}

type ResetRateRequest struct{}

type SetPayingRequest struct {
	Amount string `json:"amount"`
}

type SetLangRequest struct {
	Lang string `json:"lang"`
}

type ConvertRequest struct {
	Amount string `json:"amount"`
	From   string `json:"from"`
}

type ConvertResponse struct {
	Amount   float64 `json:"amount"`
	To       string  `json:"to"`
	FromText string  `json:"fromText"`
	ToText   string  `json:"toText"`
}
