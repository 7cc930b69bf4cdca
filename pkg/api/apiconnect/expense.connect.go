package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

// ExpenseServiceName is the fully-qualified name of the ExpenseService service.
const ExpenseServiceName = "splitledger.v1.ExpenseService"

// Procedure paths, as the Connect HTTP routes.
const (
	ExpenseServiceCreateExpenseProcedure      = "/" + ExpenseServiceName + "/CreateExpense"
	ExpenseServiceListExpensesProcedure       = "/" + ExpenseServiceName + "/ListExpenses"
	ExpenseServiceGetBalancesProcedure        = "/" + ExpenseServiceName + "/GetBalances"
	ExpenseServiceGetMySettlementsProcedure   = "/" + ExpenseServiceName + "/GetMySettlements"
	ExpenseServiceGetSpendingSummaryProcedure = "/" + ExpenseServiceName + "/GetSpendingSummary"
	ExpenseServiceGetDashboardProcedure       = "/" + ExpenseServiceName + "/GetDashboard"
)

// ExpenseServiceClient is a client for the splitledger.v1.ExpenseService service.
type ExpenseServiceClient interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetMySettlements(context.Context, *connect.Request[api.GetMySettlementsRequest]) (*connect.Response[api.GetMySettlementsResponse], error)
	GetSpendingSummary(context.Context, *connect.Request[api.GetSpendingSummaryRequest]) (*connect.Response[api.GetSpendingSummaryResponse], error)
	GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error)
}

// NewExpenseServiceClient constructs a client for the splitledger.v1.ExpenseService service.
// The JSON codec is always applied; opts may add interceptors or headers.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{api.WithJSON()}, opts...)
	return &expenseServiceClient{
		createExpense:      connect.NewClient[api.CreateExpenseRequest, api.CreateExpenseResponse](httpClient, baseURL+ExpenseServiceCreateExpenseProcedure, opts...),
		listExpenses:       connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+ExpenseServiceListExpensesProcedure, opts...),
		getBalances:        connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+ExpenseServiceGetBalancesProcedure, opts...),
		getMySettlements:   connect.NewClient[api.GetMySettlementsRequest, api.GetMySettlementsResponse](httpClient, baseURL+ExpenseServiceGetMySettlementsProcedure, opts...),
		getSpendingSummary: connect.NewClient[api.GetSpendingSummaryRequest, api.GetSpendingSummaryResponse](httpClient, baseURL+ExpenseServiceGetSpendingSummaryProcedure, opts...),
		getDashboard:       connect.NewClient[api.GetDashboardRequest, api.GetDashboardResponse](httpClient, baseURL+ExpenseServiceGetDashboardProcedure, opts...),
	}
}

type expenseServiceClient struct {
	createExpense      *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	listExpenses       *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	getBalances        *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	getMySettlements   *connect.Client[api.GetMySettlementsRequest, api.GetMySettlementsResponse]
	getSpendingSummary *connect.Client[api.GetSpendingSummaryRequest, api.GetSpendingSummaryResponse]
	getDashboard       *connect.Client[api.GetDashboardRequest, api.GetDashboardResponse]
}

func (c *expenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetMySettlements(ctx context.Context, req *connect.Request[api.GetMySettlementsRequest]) (*connect.Response[api.GetMySettlementsResponse], error) {
	return c.getMySettlements.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetSpendingSummary(ctx context.Context, req *connect.Request[api.GetSpendingSummaryRequest]) (*connect.Response[api.GetSpendingSummaryResponse], error) {
	return c.getSpendingSummary.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	return c.getDashboard.CallUnary(ctx, req)
}

// ExpenseServiceHandler is implemented by the server side of splitledger.v1.ExpenseService.
// ExpenseService records shared expenses and reports balances and settlements.
type ExpenseServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetMySettlements(context.Context, *connect.Request[api.GetMySettlementsRequest]) (*connect.Response[api.GetMySettlementsResponse], error)
	GetSpendingSummary(context.Context, *connect.Request[api.GetSpendingSummaryRequest]) (*connect.Response[api.GetSpendingSummaryResponse], error)
	GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{api.WithJSON()}, opts...)
	createExpenseHandler := connect.NewUnaryHandler(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts...)
	listExpensesHandler := connect.NewUnaryHandler(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts...)
	getBalancesHandler := connect.NewUnaryHandler(ExpenseServiceGetBalancesProcedure, svc.GetBalances, opts...)
	getMySettlementsHandler := connect.NewUnaryHandler(ExpenseServiceGetMySettlementsProcedure, svc.GetMySettlements, opts...)
	getSpendingSummaryHandler := connect.NewUnaryHandler(ExpenseServiceGetSpendingSummaryProcedure, svc.GetSpendingSummary, opts...)
	getDashboardHandler := connect.NewUnaryHandler(ExpenseServiceGetDashboardProcedure, svc.GetDashboard, opts...)
	return "/" + ExpenseServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ExpenseServiceCreateExpenseProcedure:
			createExpenseHandler.ServeHTTP(w, r)
		case ExpenseServiceListExpensesProcedure:
			listExpensesHandler.ServeHTTP(w, r)
		case ExpenseServiceGetBalancesProcedure:
			getBalancesHandler.ServeHTTP(w, r)
		case ExpenseServiceGetMySettlementsProcedure:
			getMySettlementsHandler.ServeHTTP(w, r)
		case ExpenseServiceGetSpendingSummaryProcedure:
			getSpendingSummaryHandler.ServeHTTP(w, r)
		case ExpenseServiceGetDashboardProcedure:
			getDashboardHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
