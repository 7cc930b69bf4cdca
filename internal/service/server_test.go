package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

const testSecret = "test-secret-test-secret-test-secret"

// testServer runs every service behind the real interceptors on a temp database.
type testServer struct {
	store       *sqlite.SQLiteStore
	metrics     *metrics.Metrics
	expenses    *ExpenseService
	auth        apiconnect.AuthServiceClient
	groups      apiconnect.GroupServiceClient
	expense     apiconnect.ExpenseServiceClient
	transaction apiconnect.TransactionServiceClient
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	// Create temp database
	tempDir, err := os.MkdirTemp("", "splitledger-service-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager(testSecret, time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	m := metrics.New()
	expenseSvc := NewExpenseService(store, m)

	protected := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(
		NewAuthService(authenticator, jwtManager, store, nil),
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager)),
	))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store, m), protected))
	mux.Handle(apiconnect.NewExpenseServiceHandler(expenseSvc, protected))
	mux.Handle(apiconnect.NewTransactionServiceHandler(NewTransactionService(store), protected))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testServer{
		store:       store,
		metrics:     m,
		expenses:    expenseSvc,
		auth:        apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		groups:      apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		expense:     apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		transaction: apiconnect.NewTransactionServiceClient(http.DefaultClient, server.URL),
	}
}

// testUser is a registered account and its session token.
type testUser struct {
	ID    string
	Name  string
	Token string
}

func (s *testServer) register(t *testing.T, name string) testUser {
	t.Helper()
	resp, err := s.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       name + "@example.com",
		DisplayName: name,
		Password:    "password-" + name,
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", name, err)
	}
	return testUser{ID: resp.Msg.User.ID, Name: name, Token: resp.Msg.Token}
}

// createGroup creates a group owned by admin and joins the other users in order.
func (s *testServer) createGroup(t *testing.T, name string, admin testUser, others ...testUser) api.Group {
	t.Helper()
	resp, err := s.groups.CreateGroup(context.Background(), authed(admin, &api.CreateGroupRequest{Name: name}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	group := resp.Msg.Group
	for _, u := range others {
		joined, err := s.groups.JoinGroup(context.Background(), authed(u, &api.JoinGroupRequest{InviteCode: group.InviteCode}))
		if err != nil {
			t.Fatalf("JoinGroup(%s) failed: %v", u.Name, err)
		}
		group = joined.Msg.Group
	}
	return group
}

func (s *testServer) addExpense(t *testing.T, by testUser, groupID, amount string, payer testUser, involved ...testUser) api.Expense {
	t.Helper()
	inv := make([]api.InvolvedMember, len(involved))
	for i, u := range involved {
		inv[i] = api.InvolvedMember{UserID: u.ID, Name: u.Name}
	}
	resp, err := s.expense.CreateExpense(context.Background(), authed(by, &api.CreateExpenseRequest{
		GroupID:      groupID,
		Description:  "expense " + amount,
		Amount:       amount,
		Type:         "Food",
		PaidBy:       payer.Name,
		PaidByUserID: payer.ID,
		Involved:     inv,
	}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	return resp.Msg.Expense
}

// authed wraps msg in a request carrying the user's bearer token.
func authed[T any](u testUser, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+u.Token)
	return req
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error, got %T: %v", err, err)
	}
	if connectErr.Code() != want {
		t.Errorf("expected code %v, got %v (%s)", want, connectErr.Code(), connectErr.Message())
	}
}
