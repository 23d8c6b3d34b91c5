package service

import (
	"context"
	"errors"
	"hash/fnv"
	"log/slog"
	"sync"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/elka/internal/auth"
	"github.com/mmynk/elka/internal/calculator"
	"github.com/mmynk/elka/internal/i18n"
	"github.com/mmynk/elka/internal/ids"
	"github.com/mmynk/elka/internal/middleware"
	"github.com/mmynk/elka/internal/models"
	"github.com/mmynk/elka/internal/money"
	"github.com/mmynk/elka/internal/storage"
	"github.com/mmynk/elka/pkg/api"
)

var _ api.BillServiceHandler = (*BillService)(nil)

// BillService implements the Connect BillService.
// Each session owns one live bill which is loaded, changed and saved on every call.
type BillService struct {
	store       storage.Store
	jwtManager  *auth.JWTManager
	validate    *validator.Validate
	defaultLang money.Lang
	newID       func() string

	// locks serializes load-modify-save per session.
	locks [64]sync.Mutex
}

// NewBillService creates a new BillService with the given storage backend.
func NewBillService(store storage.Store, jwtManager *auth.JWTManager, defaultLang money.Lang) *BillService {
	return &BillService{
		store:       store,
		jwtManager:  jwtManager,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		defaultLang: defaultLang,
		newID:       ids.New,
	}
}

// StartSession creates a new session with an empty bill and returns its token.
func (s *BillService) StartSession(ctx context.Context, req *connect.Request[api.StartSessionRequest]) (*connect.Response[api.StartSessionResponse], error) {
	sessionID := ids.NewSession()
	token, err := s.jwtManager.Generate(sessionID)
	if err != nil {
		slog.Error("StartSession failed to sign token", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	lang := s.defaultLang
	if req.Msg.Lang != "" {
		lang = money.ParseLang(req.Msg.Lang)
	}
	bill := models.NewBill(lang)
	s.save(ctx, sessionID, bill)

	slog.Info("Session started", "session_id", sessionID, "lang", lang)
	return connect.NewResponse(&api.StartSessionResponse{
		SessionID: sessionID,
		Token:     token,
		Bill:      buildView(bill, false),
	}), nil
}

// GetBill returns the current bill with all derived totals.
func (s *BillService) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.BillResponse], error) {
	sessionID := middleware.GetSessionID(ctx)
	unlock := s.lock(sessionID)
	defer unlock()

	return s.respond(ctx, sessionID, s.load(ctx, sessionID)), nil
}

// AddUnitItem appends an item priced per piece.
func (s *BillService) AddUnitItem(ctx context.Context, req *connect.Request[api.AddUnitItemRequest]) (*connect.Response[api.BillResponse], error) {
	return s.mutate(ctx, func(bill *models.Bill) error {
		item, err := s.unitItem(req.Msg, bill)
		if err != nil {
			return err
		}
		bill.Items = append(bill.Items, item)
		slog.Debug("Added unit item", "id", item.ID, "price_bgn", item.UnitPriceBGN, "qty", item.Qty)
		return nil
	}, true)
}

// AddWeightItem appends an item priced per kilogram.
func (s *BillService) AddWeightItem(ctx context.Context, req *connect.Request[api.AddWeightItemRequest]) (*connect.Response[api.BillResponse], error) {
	return s.mutate(ctx, func(bill *models.Bill) error {
		item, err := s.weightItem(req.Msg, bill)
		if err != nil {
			return err
		}
		bill.Items = append(bill.Items, item)
		slog.Debug("Added weight item", "id", item.ID, "price_per_kg_bgn", item.PricePerKgBGN, "kg", item.Kg, "grams", item.Grams)
		return nil
	}, true)
}

// DeleteItem removes one item from the bill.
func (s *BillService) DeleteItem(ctx context.Context, req *connect.Request[api.DeleteItemRequest]) (*connect.Response[api.BillResponse], error) {
	return s.mutate(ctx, func(bill *models.Bill) error {
		if !bill.RemoveItem(req.Msg.ID) {
			return connect.NewError(connect.CodeNotFound, errors.New(i18n.T(i18n.ItemNotFound, bill.Lang)))
		}
		return nil
	}, false)
}

// ClearBill empties the bill after keeping a snapshot for UndoClear.
// The rate and language survive a clear.
func (s *BillService) ClearBill(ctx context.Context, req *connect.Request[api.ClearBillRequest]) (*connect.Response[api.BillResponse], error) {
	sessionID := middleware.GetSessionID(ctx)
	unlock := s.lock(sessionID)
	defer unlock()

	bill := s.load(ctx, sessionID)
	// Clearing a bill without items keeps the previous snapshot.
	if len(bill.Items) > 0 {
		if err := s.store.SaveSnapshot(ctx, sessionID, bill); err != nil {
			slog.Error("ClearBill failed to save snapshot", "session_id", sessionID, "error", err)
		}
	}

	cleared := models.NewBill(bill.Lang)
	cleared.Rate = bill.Rate
	s.save(ctx, sessionID, cleared)

	slog.Info("Bill cleared", "session_id", sessionID, "items", len(bill.Items))
	return s.respond(ctx, sessionID, cleared), nil
}

// UndoClear restores the bill saved by the last ClearBill.
func (s *BillService) UndoClear(ctx context.Context, req *connect.Request[api.UndoClearRequest]) (*connect.Response[api.BillResponse], error) {
	sessionID := middleware.GetSessionID(ctx)
	unlock := s.lock(sessionID)
	defer unlock()

	snapshot, err := s.store.LoadSnapshot(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("UndoClear failed to load snapshot", "session_id", sessionID, "error", err)
		}
		lang := s.load(ctx, sessionID).Lang
		return nil, connect.NewError(connect.CodeFailedPrecondition, errors.New(i18n.T(i18n.NothingToUndo, lang)))
	}

	s.save(ctx, sessionID, snapshot)
	s.clearSnapshot(ctx, sessionID)

	slog.Info("Bill restored", "session_id", sessionID, "items", len(snapshot.Items))
	return s.respond(ctx, sessionID, snapshot), nil
}

// SetRate changes the exchange rate. The rate must be a positive number.
func (s *BillService) SetRate(ctx context.Context, req *connect.Request[api.SetRateRequest]) (*connect.Response[api.BillResponse], error) {
	return s.mutate(ctx, func(bill *models.Bill) error {
		v, ok := money.ParseFlexible(req.Msg.Rate)
		rate := models.Rate{BGNPerEUR: v}
		if !ok || !rate.Valid() {
			return invalidArgument(i18n.RateMustBePositive, bill.Lang)
		}
		bill.Rate = rate
		return nil
	}, false)
}

// ResetRate restores the official exchange rate.
func (s *BillService) ResetRate(ctx context.Context, req *connect.Request[api.ResetRateRequest]) (*connect.Response[api.BillResponse], error) {
	return s.mutate(ctx, func(bill *models.Bill) error {
		bill.Rate = models.OfficialRate()
		return nil
	}, false)
}

// SetPaying records the amount tendered in euro. Empty input means zero;
// input that is not a non-negative number up to money.MaxAmount leaves the
// previous amount in place.
func (s *BillService) SetPaying(ctx context.Context, req *connect.Request[api.SetPayingRequest]) (*connect.Response[api.BillResponse], error) {
	return s.mutate(ctx, func(bill *models.Bill) error {
		if isBlank(req.Msg.Amount) {
			bill.PayingEUR = 0
			return nil
		}
		if v, ok := money.ParseFlexible(req.Msg.Amount); ok && v >= 0 && money.InRange(v) {
			bill.PayingEUR = v
		}
		return nil
	}, false)
}

// SetLang switches the display language of the session.
func (s *BillService) SetLang(ctx context.Context, req *connect.Request[api.SetLangRequest]) (*connect.Response[api.BillResponse], error) {
	return s.mutate(ctx, func(bill *models.Bill) error {
		bill.Lang = money.ParseLang(req.Msg.Lang)
		return nil
	}, false)
}

// Convert translates an amount between the two currencies at the session's rate.
func (s *BillService) Convert(ctx context.Context, req *connect.Request[api.ConvertRequest]) (*connect.Response[api.ConvertResponse], error) {
	sessionID := middleware.GetSessionID(ctx)
	bill := s.load(ctx, sessionID)

	from, err := parseCurrency(req.Msg.From, bill.Lang)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(req.Msg.Amount, bill.Lang)
	if err != nil {
		return nil, err
	}

	converted, to := money.Convert(amount, from, bill.Rate.BGNPerEUR)
	if !money.InRange(converted) {
		return nil, invalidArgument(i18n.TooLarge, bill.Lang)
	}
	converted = money.Round2(converted)
	return connect.NewResponse(&api.ConvertResponse{
		Amount:   converted,
		To:       string(to),
		FromText: money.Format(amount, from, bill.Lang),
		ToText:   money.Format(converted, to, bill.Lang),
	}), nil
}

// mutate loads the session bill, applies fn and saves the result.
// When fn fails nothing is saved. invalidatesUndo drops the undo snapshot
// so that an undo cannot discard items added after a clear.
func (s *BillService) mutate(ctx context.Context, fn func(*models.Bill) error, invalidatesUndo bool) (*connect.Response[api.BillResponse], error) {
	sessionID := middleware.GetSessionID(ctx)
	unlock := s.lock(sessionID)
	defer unlock()

	bill := s.load(ctx, sessionID)
	if err := fn(bill); err != nil {
		return nil, err
	}
	s.save(ctx, sessionID, bill)
	if invalidatesUndo {
		s.clearSnapshot(ctx, sessionID)
	}
	return s.respond(ctx, sessionID, bill), nil
}

func (s *BillService) respond(ctx context.Context, sessionID string, bill *models.Bill) *connect.Response[api.BillResponse] {
	_, err := s.store.LoadSnapshot(ctx, sessionID)
	return connect.NewResponse(&api.BillResponse{Bill: buildView(bill, err == nil)})
}

// load returns the stored bill, or a fresh one when nothing usable is stored.
func (s *BillService) load(ctx context.Context, sessionID string) *models.Bill {
	bill, err := s.store.LoadBill(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("Failed to load bill, starting fresh", "session_id", sessionID, "error", err)
		}
		return models.NewBill(s.defaultLang)
	}
	return bill
}

// save persists the bill. Failures are logged and otherwise ignored.
func (s *BillService) save(ctx context.Context, sessionID string, bill *models.Bill) {
	if err := s.store.SaveBill(ctx, sessionID, bill); err != nil {
		slog.Error("Failed to save bill", "session_id", sessionID, "error", err)
	}
}

func (s *BillService) clearSnapshot(ctx context.Context, sessionID string) {
	if err := s.store.ClearSnapshot(ctx, sessionID); err != nil {
		slog.Error("Failed to clear snapshot", "session_id", sessionID, "error", err)
	}
}

func (s *BillService) lock(sessionID string) func() {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	mu := &s.locks[h.Sum32()%uint32(len(s.locks))]
	mu.Lock()
	return mu.Unlock
}

// buildView fills in every derived value of the bill.
func buildView(bill *models.Bill, canUndo bool) *api.BillView {
	lang := bill.Lang
	view := &api.BillView{
		Rate:      bill.Rate.BGNPerEUR,
		Lang:      string(lang),
		Items:     make([]api.ItemView, 0, len(bill.Items)),
		ItemCount: len(bill.Items),
		PayingEUR: bill.PayingEUR,
		CanUndo:   canUndo,
	}

	for _, item := range bill.Items {
		line := calculator.LineTotals(item, bill.Rate)
		iv := api.ItemView{
			ID:          item.ItemID(),
			Name:        item.ItemName(),
			WeightLabel: line.WeightLabel,
			LineBGN:     line.LineBGN,
			LineEUR:     line.LineEUR,
			LineBGNText: money.Format(line.LineBGN, money.BGN, lang),
			LineEURText: money.Format(line.LineEUR, money.EUR, lang),
		}
		switch it := item.(type) {
		case models.UnitItem:
			iv.Type = api.ItemTypeUnit
			iv.UnitPriceBGN = it.UnitPriceBGN
			iv.Qty = it.Qty
		case models.WeightItem:
			iv.Type = api.ItemTypeWeight
			iv.PricePerKgBGN = it.PricePerKgBGN
			iv.Kg = it.Kg
			iv.Grams = it.Grams
		}
		view.Items = append(view.Items, iv)
	}

	totals := calculator.BillTotals(bill.Items, bill.Rate)
	change := calculator.CalculateChange(bill.PayingEUR, totals.TotalEUR)

	view.TotalBGN = totals.TotalBGN
	view.TotalEUR = totals.TotalEUR
	view.TotalBGNText = money.Format(totals.TotalBGN, money.BGN, lang)
	view.TotalEURText = money.Format(totals.TotalEUR, money.EUR, lang)
	view.ChangeEUR = change.ChangeEUR
	view.RemainingEUR = change.RemainingEUR
	view.ChangeText = money.Format(change.ChangeEUR, money.EUR, lang)
	view.RemainingText = money.Format(change.RemainingEUR, money.EUR, lang)
	return view
}
