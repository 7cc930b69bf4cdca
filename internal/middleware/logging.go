package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/metrics"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// It logs the procedure name, user ID, duration, and any error codes/messages.
// Internal errors are logged at error level, client errors at warn.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			userID := GetUserID(ctx) // empty if pre-auth
			duration := time.Since(start).Milliseconds()
			if err != nil {
				code := connect.CodeOf(err)
				var connectErr *connect.Error
				msg := err.Error()
				if errors.As(err, &connectErr) {
					msg = connectErr.Message()
				}
				level := slog.LevelWarn
				if code == connect.CodeInternal || code == connect.CodeUnknown {
					level = slog.LevelError
				}
				slog.Log(ctx, level, "RPC error",
					"procedure", procedure,
					"code", code,
					"error", msg,
					"user_id", userID,
					"duration_ms", duration,
				)
			} else {
				slog.Info("RPC ok",
					"procedure", procedure,
					"user_id", userID,
					"duration_ms", duration,
				)
			}

			return resp, err
		}
	}
}

// MetricsInterceptor records RPC counts and latency by procedure and result code.
func MetricsInterceptor(m *metrics.Metrics) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.ObserveRPC(req.Spec().Procedure, code, time.Since(start))

			return resp, err
		}
	}
}
