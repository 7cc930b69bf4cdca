package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

func newTestHandler(t *testing.T, rateLimit int) http.Handler {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{
		Port:      8080,
		DBPath:    "unused",
		JWTSecret: "server-test-secret-server-test-secret",
		TokenTTL:  time.Hour,
		RateLimit: rateLimit,
	}
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	m := metrics.New()

	return newHandler(cfg, routes{
		auth:         service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, nil),
		groups:       service.NewGroupService(store, m),
		expenses:     service.NewExpenseService(store, m),
		transactions: service.NewTransactionService(store),
		jwt:          jwtManager,
		metrics:      m,
	})
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t, 0)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestCORSPreflight(t *testing.T) {
	h := newTestHandler(t, 0)

	req := httptest.NewRequest(http.MethodOptions, apiconnect.GroupServiceListGroupsProcedure, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRateLimit(t *testing.T) {
	h := newTestHandler(t, 2)

	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes[i] = rec.Code
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRPCMetrics(t *testing.T) {
	server := httptest.NewServer(newTestHandler(t, 0))
	t.Cleanup(server.Close)

	authClient := apiconnect.NewAuthServiceClient(server.Client(), server.URL)
	_, err := authClient.Login(context.Background(), connect.NewRequest(&api.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	groups := apiconnect.NewGroupServiceClient(server.Client(), server.URL)
	_, err = groups.ListGroups(context.Background(), connect.NewRequest(&api.ListGroupsRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	resp, err := server.Client().Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body),
		`splitledger_rpc_requests_total{code="unauthenticated",procedure="`+apiconnect.AuthServiceLoginProcedure+`"} 1`)
}
