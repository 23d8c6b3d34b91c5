package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// BillServiceName is the fully-qualified name of the bill service.
const BillServiceName = "elka.v1.BillService"

// Procedure paths of the bill service.
const (
	StartSessionProcedure  = "/" + BillServiceName + "/StartSession"
	GetBillProcedure       = "/" + BillServiceName + "/GetBill"
	AddUnitItemProcedure   = "/" + BillServiceName + "/AddUnitItem"
	AddWeightItemProcedure = "/" + BillServiceName + "/AddWeightItem"
	DeleteItemProcedure    = "/" + BillServiceName + "/DeleteItem"
	ClearBillProcedure     = "/" + BillServiceName + "/ClearBill"
	UndoClearProcedure     = "/" + BillServiceName + "/UndoClear"
	SetRateProcedure       = "/" + BillServiceName + "/SetRate"
	ResetRateProcedure     = "/" + BillServiceName + "/ResetRate"
	SetPayingProcedure     = "/" + BillServiceName + "/SetPaying"
	SetLangProcedure       = "/" + BillServiceName + "/SetLang"
	ConvertProcedure       = "/" + BillServiceName + "/Convert"
)

// BillServiceHandler is implemented by the server side of the bill service.
type BillServiceHandler interface {
	StartSession(context.Context, *connect.Request[StartSessionRequest]) (*connect.Response[StartSessionResponse], error)
	GetBill(context.Context, *connect.Request[GetBillRequest]) (*connect.Response[BillResponse], error)
	AddUnitItem(context.Context, *connect.Request[AddUnitItemRequest]) (*connect.Response[BillResponse], error)
	AddWeightItem(context.Context, *connect.Request[AddWeightItemRequest]) (*connect.Response[BillResponse], error)
	DeleteItem(context.Context, *connect.Request[DeleteItemRequest]) (*connect.Response[BillResponse], error)
	ClearBill(context.Context, *connect.Request[ClearBillRequest]) (*connect.Response[BillResponse], error)
	UndoClear(context.Context, *connect.Request[UndoClearRequest]) (*connect.Response[BillResponse], error)
	SetRate(context.Context, *connect.Request[SetRateRequest]) (*connect.Response[BillResponse], error)
	ResetRate(context.Context, *connect.Request[ResetRateRequest]) (*connect.Response[BillResponse], error)
	SetPaying(context.Context, *connect.Request[SetPayingRequest]) (*connect.Response[BillResponse], error)
	SetLang(context.Context, *connect.Request[SetLangRequest]) (*connect.Response[BillResponse], error)
	Convert(context.Context, *connect.Request[ConvertRequest]) (*connect.Response[ConvertResponse], error)
}

// NewBillServiceHandler builds an HTTP handler for every bill service
// procedure and returns the path prefix to mount it on.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)

	handlers := map[string]http.Handler{
		StartSessionProcedure:  connect.NewUnaryHandler(StartSessionProcedure, svc.StartSession, opts...),
		GetBillProcedure:       connect.NewUnaryHandler(GetBillProcedure, svc.GetBill, opts...),
		AddUnitItemProcedure:   connect.NewUnaryHandler(AddUnitItemProcedure, svc.AddUnitItem, opts...),
		AddWeightItemProcedure: connect.NewUnaryHandler(AddWeightItemProcedure, svc.AddWeightItem, opts...),
		DeleteItemProcedure:    connect.NewUnaryHandler(DeleteItemProcedure, svc.DeleteItem, opts...),
		ClearBillProcedure:     connect.NewUnaryHandler(ClearBillProcedure, svc.ClearBill, opts...),
		UndoClearProcedure:     connect.NewUnaryHandler(UndoClearProcedure, svc.UndoClear, opts...),
		SetRateProcedure:       connect.NewUnaryHandler(SetRateProcedure, svc.SetRate, opts...),
		ResetRateProcedure:     connect.NewUnaryHandler(ResetRateProcedure, svc.ResetRate, opts...),
		SetPayingProcedure:     connect.NewUnaryHandler(SetPayingProcedure, svc.SetPaying, opts...),
		SetLangProcedure:       connect.NewUnaryHandler(SetLangProcedure, svc.SetLang, opts...),
		ConvertProcedure:       connect.NewUnaryHandler(ConvertProcedure, svc.Convert, opts...),
	}

	prefix := "/" + BillServiceName + "/"
	return prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok || !strings.HasPrefix(r.URL.Path, prefix) {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// BillServiceClient calls the bill service.
type BillServiceClient struct {
	startSession  *connect.Client[StartSessionRequest, StartSessionResponse]
	getBill       *connect.Client[GetBillRequest, BillResponse]
	addUnitItem   *connect.Client[AddUnitItemRequest, BillResponse]
	addWeightItem *connect.Client[AddWeightItemRequest, BillResponse]
	deleteItem    *connect.Client[DeleteItemRequest, BillResponse]
	clearBill     *connect.Client[ClearBillRequest, BillResponse]
	undoClear     *connect.Client[UndoClearRequest, BillResponse]
	setRate       *connect.Client[SetRateRequest, BillResponse]
	resetRate     *connect.Client[ResetRateRequest, BillResponse]
	setPaying     *connect.Client[SetPayingRequest, BillResponse]
	setLang       *connect.Client[SetLangRequest, BillResponse]
	convert       *connect.Client[ConvertRequest, ConvertResponse]
}

// NewBillServiceClient constructs a client for the service at baseURL.
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &BillServiceClient{
		startSession:  connect.NewClient[StartSessionRequest, StartSessionResponse](httpClient, baseURL+StartSessionProcedure, opts...),
		getBill:       connect.NewClient[GetBillRequest, BillResponse](httpClient, baseURL+GetBillProcedure, opts...),
		addUnitItem:   connect.NewClient[AddUnitItemRequest, BillResponse](httpClient, baseURL+AddUnitItemProcedure, opts...),
		addWeightItem: connect.NewClient[AddWeightItemRequest, BillResponse](httpClient, baseURL+AddWeightItemProcedure, opts...),
		deleteItem:    connect.NewClient[DeleteItemRequest, BillResponse](httpClient, baseURL+DeleteItemProcedure, opts...),
		clearBill:     connect.NewClient[ClearBillRequest, BillResponse](httpClient, baseURL+ClearBillProcedure, opts...),
		undoClear:     connect.NewClient[UndoClearRequest, BillResponse](httpClient, baseURL+UndoClearProcedure, opts...),
		setRate:       connect.NewClient[SetRateRequest, BillResponse](httpClient, baseURL+SetRateProcedure, opts...),
		resetRate:     connect.NewClient[ResetRateRequest, BillResponse](httpClient, baseURL+ResetRateProcedure, opts...),
		setPaying:     connect.NewClient[SetPayingRequest, BillResponse](httpClient, baseURL+SetPayingProcedure, opts...),
		setLang:       connect.NewClient[SetLangRequest, BillResponse](httpClient, baseURL+SetLangProcedure, opts...),
		convert:       connect.NewClient[ConvertRequest, ConvertResponse](httpClient, baseURL+ConvertProcedure, opts...),
	}
}

func (c *BillServiceClient) StartSession(ctx context.Context, req *connect.Request[StartSessionRequest]) (*connect.Response[StartSessionResponse], error) {
	return c.startSession.CallUnary(ctx, req)
}

func (c *BillServiceClient) GetBill(ctx context.Context, req *connect.Request[GetBillRequest]) (*connect.Response[BillResponse], error) {
	return c.getBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) AddUnitItem(ctx context.Context, req *connect.Request[AddUnitItemRequest]) (*connect.Response[BillResponse], error) {
	return c.addUnitItem.CallUnary(ctx, req)
}

func (c *BillServiceClient) AddWeightItem(ctx context.Context, req *connect.Request[AddWeightItemRequest]) (*connect.Response[BillResponse], error) {
	return c.addWeightItem.CallUnary(ctx, req)
}

func (c *BillServiceClient) DeleteItem(ctx context.Context, req *connect.Request[DeleteItemRequest]) (*connect.Response[BillResponse], error) {
	return c.deleteItem.CallUnary(ctx, req)
}

func (c *BillServiceClient) ClearBill(ctx context.Context, req *connect.Request[ClearBillRequest]) (*connect.Response[BillResponse], error) {
	return c.clearBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) UndoClear(ctx context.Context, req *connect.Request[UndoClearRequest]) (*connect.Response[BillResponse], error) {
	return c.undoClear.CallUnary(ctx, req)
}

func (c *BillServiceClient) SetRate(ctx context.Context, req *connect.Request[SetRateRequest]) (*connect.Response[BillResponse], error) {
	return c.setRate.CallUnary(ctx, req)
}

func (c *BillServiceClient) ResetRate(ctx context.Context, req *connect.Request[ResetRateRequest]) (*connect.Response[BillResponse], error) {
	return c.resetRate.CallUnary(ctx, req)
}

func (c *BillServiceClient) SetPaying(ctx context.Context, req *connect.Request[SetPayingRequest]) (*connect.Response[BillResponse], error) {
	return c.setPaying.CallUnary(ctx, req)
}

func (c *BillServiceClient) SetLang(ctx context.Context, req *connect.Request[SetLangRequest]) (*connect.Response[BillResponse], error) {
	return c.setLang.CallUnary(ctx, req)
}

func (c *BillServiceClient) Convert(ctx context.Context, req *connect.Request[ConvertRequest]) (*connect.Response[ConvertResponse], error) {
	return c.convert.CallUnary(ctx, req)
}
