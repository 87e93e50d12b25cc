package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// tripScoped is implemented by requests that address a single trip.
type tripScoped interface {
	GetTripID() string
}

// transactionScoped is implemented by requests that address one ledger record.
type transactionScoped interface {
	GetTransactionID() string
}

// requestAttrs collects the log attributes that identify what a call touched.
func requestAttrs(ctx context.Context, req connect.AnyRequest) []any {
	attrs := []any{
		"procedure", req.Spec().Procedure,
		"account_id", GetAccountID(ctx), // empty if pre-auth
	}
	msg := req.Any()
	if m, ok := msg.(tripScoped); ok && m.GetTripID() != "" {
		attrs = append(attrs, "trip_id", m.GetTripID())
	}
	if m, ok := msg.(transactionScoped); ok && m.GetTransactionID() != "" {
		attrs = append(attrs, "transaction_id", m.GetTransactionID())
	}
	return attrs
}

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// with the caller, the trip or transaction it addressed, and its outcome.
// Client-side failures (bad input, denied access) log at warn, anything
// else that is not a Connect error logs at error.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			attrs := requestAttrs(ctx, req)

			resp, err := next(ctx, req)

			attrs = append(attrs, "duration_ms", time.Since(start).Milliseconds())

			var connectErr *connect.Error
			switch {
			case err == nil:
				slog.Info("RPC ok", attrs...)
			case errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal:
				slog.Warn("RPC rejected", append(attrs, "code", connectErr.Code().String(), "error", connectErr.Message())...)
			default:
				slog.Error("RPC failed", append(attrs, "code", connect.CodeOf(err).String(), "error", err)...)
			}

			return resp, err
		}
	}
}
