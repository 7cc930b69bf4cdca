package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

// TransactionServiceName is the fully-qualified name of the TransactionService service.
const TransactionServiceName = "splitledger.v1.TransactionService"

// Procedure paths, as the Connect HTTP routes.
const (
	TransactionServiceCreateTransactionProcedure = "/" + TransactionServiceName + "/CreateTransaction"
	TransactionServiceListTransactionsProcedure  = "/" + TransactionServiceName + "/ListTransactions"
	TransactionServiceUpdateTransactionProcedure = "/" + TransactionServiceName + "/UpdateTransaction"
	TransactionServiceDeleteTransactionProcedure = "/" + TransactionServiceName + "/DeleteTransaction"
)

// TransactionServiceClient is a client for the splitledger.v1.TransactionService service.
type TransactionServiceClient interface {
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	UpdateTransaction(context.Context, *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
}

// NewTransactionServiceClient constructs a client for the splitledger.v1.TransactionService service.
// The JSON codec is always applied; opts may add interceptors or headers.
func NewTransactionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TransactionServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{api.WithJSON()}, opts...)
	return &transactionServiceClient{
		createTransaction: connect.NewClient[api.CreateTransactionRequest, api.CreateTransactionResponse](httpClient, baseURL+TransactionServiceCreateTransactionProcedure, opts...),
		listTransactions:  connect.NewClient[api.ListTransactionsRequest, api.ListTransactionsResponse](httpClient, baseURL+TransactionServiceListTransactionsProcedure, opts...),
		updateTransaction: connect.NewClient[api.UpdateTransactionRequest, api.UpdateTransactionResponse](httpClient, baseURL+TransactionServiceUpdateTransactionProcedure, opts...),
		deleteTransaction: connect.NewClient[api.DeleteTransactionRequest, api.DeleteTransactionResponse](httpClient, baseURL+TransactionServiceDeleteTransactionProcedure, opts...),
	}
}

type transactionServiceClient struct {
	createTransaction *connect.Client[api.CreateTransactionRequest, api.CreateTransactionResponse]
	listTransactions  *connect.Client[api.ListTransactionsRequest, api.ListTransactionsResponse]
	updateTransaction *connect.Client[api.UpdateTransactionRequest, api.UpdateTransactionResponse]
	deleteTransaction *connect.Client[api.DeleteTransactionRequest, api.DeleteTransactionResponse]
}

func (c *transactionServiceClient) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	return c.createTransaction.CallUnary(ctx, req)
}

func (c *transactionServiceClient) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *transactionServiceClient) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error) {
	return c.updateTransaction.CallUnary(ctx, req)
}

func (c *transactionServiceClient) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	return c.deleteTransaction.CallUnary(ctx, req)
}

// TransactionServiceHandler is implemented by the server side of splitledger.v1.TransactionService.
// TransactionService manages the caller's personal income and expense entries.
type TransactionServiceHandler interface {
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	UpdateTransaction(context.Context, *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
}

// NewTransactionServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewTransactionServiceHandler(svc TransactionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{api.WithJSON()}, opts...)
	createTransactionHandler := connect.NewUnaryHandler(TransactionServiceCreateTransactionProcedure, svc.CreateTransaction, opts...)
	listTransactionsHandler := connect.NewUnaryHandler(TransactionServiceListTransactionsProcedure, svc.ListTransactions, opts...)
	updateTransactionHandler := connect.NewUnaryHandler(TransactionServiceUpdateTransactionProcedure, svc.UpdateTransaction, opts...)
	deleteTransactionHandler := connect.NewUnaryHandler(TransactionServiceDeleteTransactionProcedure, svc.DeleteTransaction, opts...)
	return "/" + TransactionServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case TransactionServiceCreateTransactionProcedure:
			createTransactionHandler.ServeHTTP(w, r)
		case TransactionServiceListTransactionsProcedure:
			listTransactionsHandler.ServeHTTP(w, r)
		case TransactionServiceUpdateTransactionProcedure:
			updateTransactionHandler.ServeHTTP(w, r)
		case TransactionServiceDeleteTransactionProcedure:
			deleteTransactionHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
