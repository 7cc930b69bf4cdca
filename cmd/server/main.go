package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
	"github.com/mmynk/splitledger/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.SetupWithLevel(cfg.SlogLevel())

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	m := metrics.New()

	handler := newHandler(cfg, routes{
		auth:         service.NewAuthService(authenticator, jwtManager, store, slog.Default()),
		groups:       service.NewGroupService(store, m),
		expenses:     service.NewExpenseService(store, m),
		transactions: service.NewTransactionService(store),
		jwt:          jwtManager,
		metrics:      m,
	})

	server := &http.Server{
		Addr: cfg.Addr(),
		// h2c for HTTP/2 without TLS (required for Connect streaming clients)
		Handler:      h2c.NewHandler(handler, &http2.Server{}),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", cfg.Addr())
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}
}

// routes bundles what newHandler mounts.
type routes struct {
	auth         apiconnect.AuthServiceHandler
	groups       apiconnect.GroupServiceHandler
	expenses     apiconnect.ExpenseServiceHandler
	transactions apiconnect.TransactionServiceHandler
	jwt          *auth.JWTManager
	metrics      *metrics.Metrics
}

// newHandler mounts the Connect services, /metrics and /healthz behind the HTTP middleware chain.
func newHandler(cfg *config.Config, r routes) http.Handler {
	protected := connect.WithInterceptors(
		middleware.RequireAuth(r.jwt),
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(r.metrics),
	)
	public := connect.WithInterceptors(
		middleware.OptionalAuth(r.jwt),
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(r.metrics),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(r.auth, public))
	mux.Handle(apiconnect.NewGroupServiceHandler(r.groups, protected))
	mux.Handle(apiconnect.NewExpenseServiceHandler(r.expenses, protected))
	mux.Handle(apiconnect.NewTransactionServiceHandler(r.transactions, protected))

	mux.Handle("GET /metrics", r.metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})

	var h http.Handler = mux
	h = rateLimitMiddleware(cfg.RateLimit, h)
	h = secureMiddleware(h)
	h = corsMiddleware(h)
	return loggingMiddleware(h)
}
