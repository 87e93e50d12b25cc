package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the ledger service.
const LedgerServiceName = "tripledger.v1.LedgerService"

const (
	LedgerServiceCreateTransactionProcedure = "/tripledger.v1.LedgerService/CreateTransaction"
	LedgerServiceUpdateTransactionProcedure = "/tripledger.v1.LedgerService/UpdateTransaction"
	LedgerServiceDeleteTransactionProcedure = "/tripledger.v1.LedgerService/DeleteTransaction"
	LedgerServiceListTransactionsProcedure  = "/tripledger.v1.LedgerService/ListTransactions"
	LedgerServiceValidateSplitProcedure     = "/tripledger.v1.LedgerService/ValidateSplit"
	LedgerServiceGetBalancesProcedure       = "/tripledger.v1.LedgerService/GetBalances"
)

// LedgerServiceHandler is implemented by the ledger service.
type LedgerServiceHandler interface {
	CreateTransaction(context.Context, *connect.Request[CreateTransactionRequest]) (*connect.Response[CreateTransactionResponse], error)
	UpdateTransaction(context.Context, *connect.Request[UpdateTransactionRequest]) (*connect.Response[UpdateTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[DeleteTransactionRequest]) (*connect.Response[DeleteTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error)
	ValidateSplit(context.Context, *connect.Request[ValidateSplitRequest]) (*connect.Response[ValidateSplitResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for the ledger service.
// It returns the path to mount the handler on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(LedgerServiceCreateTransactionProcedure, connect.NewUnaryHandler(LedgerServiceCreateTransactionProcedure, svc.CreateTransaction, opts...))
	mux.Handle(LedgerServiceUpdateTransactionProcedure, connect.NewUnaryHandler(LedgerServiceUpdateTransactionProcedure, svc.UpdateTransaction, opts...))
	mux.Handle(LedgerServiceDeleteTransactionProcedure, connect.NewUnaryHandler(LedgerServiceDeleteTransactionProcedure, svc.DeleteTransaction, opts...))
	mux.Handle(LedgerServiceListTransactionsProcedure, connect.NewUnaryHandler(LedgerServiceListTransactionsProcedure, svc.ListTransactions, opts...))
	mux.Handle(LedgerServiceValidateSplitProcedure, connect.NewUnaryHandler(LedgerServiceValidateSplitProcedure, svc.ValidateSplit, opts...))
	mux.Handle(LedgerServiceGetBalancesProcedure, connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...))

	return "/" + LedgerServiceName + "/", mux
}

// LedgerServiceClient calls the ledger service.
type LedgerServiceClient struct {
	createTransaction *connect.Client[CreateTransactionRequest, CreateTransactionResponse]
	updateTransaction *connect.Client[UpdateTransactionRequest, UpdateTransactionResponse]
	deleteTransaction *connect.Client[DeleteTransactionRequest, DeleteTransactionResponse]
	listTransactions  *connect.Client[ListTransactionsRequest, ListTransactionsResponse]
	validateSplit     *connect.Client[ValidateSplitRequest, ValidateSplitResponse]
	getBalances       *connect.Client[GetBalancesRequest, GetBalancesResponse]
}

// NewLedgerServiceClient creates a client for the ledger service at baseURL.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)

	return &LedgerServiceClient{
		createTransaction: connect.NewClient[CreateTransactionRequest, CreateTransactionResponse](httpClient, baseURL+LedgerServiceCreateTransactionProcedure, opts...),
		updateTransaction: connect.NewClient[UpdateTransactionRequest, UpdateTransactionResponse](httpClient, baseURL+LedgerServiceUpdateTransactionProcedure, opts...),
		deleteTransaction: connect.NewClient[DeleteTransactionRequest, DeleteTransactionResponse](httpClient, baseURL+LedgerServiceDeleteTransactionProcedure, opts...),
		listTransactions:  connect.NewClient[ListTransactionsRequest, ListTransactionsResponse](httpClient, baseURL+LedgerServiceListTransactionsProcedure, opts...),
		validateSplit:     connect.NewClient[ValidateSplitRequest, ValidateSplitResponse](httpClient, baseURL+LedgerServiceValidateSplitProcedure, opts...),
		getBalances:       connect.NewClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
	}
}

func (c *LedgerServiceClient) CreateTransaction(ctx context.Context, req *connect.Request[CreateTransactionRequest]) (*connect.Response[CreateTransactionResponse], error) {
	return c.createTransaction.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) UpdateTransaction(ctx context.Context, req *connect.Request[UpdateTransactionRequest]) (*connect.Response[UpdateTransactionResponse], error) {
	return c.updateTransaction.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) DeleteTransaction(ctx context.Context, req *connect.Request[DeleteTransactionRequest]) (*connect.Response[DeleteTransactionResponse], error) {
	return c.deleteTransaction.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListTransactions(ctx context.Context, req *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ValidateSplit(ctx context.Context, req *connect.Request[ValidateSplitRequest]) (*connect.Response[ValidateSplitResponse], error) {
	return c.validateSplit.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}
