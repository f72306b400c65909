package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// It logs the procedure name, username, duration, and any error codes/messages.
// It must run before RequireAuth, so the username is read after the call returns.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			// RequireAuth runs later in the chain and stores the principal here.
			principal := &principalHolder{}
			resp, err := next(context.WithValue(ctx, principalHolderKey, principal), req)

			duration := time.Since(start).Milliseconds()
			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal && connectErr.Code() != connect.CodeUnknown {
					logger.Warn("RPC error",
						"procedure", procedure,
						"code", connectErr.Code(),
						"error", connectErr.Message(),
						"username", principal.username,
						"duration_ms", duration,
					)
				} else {
					logger.Error("RPC error",
						"procedure", procedure,
						"error", err,
						"username", principal.username,
						"duration_ms", duration,
					)
				}
			} else {
				logger.Info("RPC ok",
					"procedure", procedure,
					"username", principal.username,
					"duration_ms", duration,
				)
			}

			return resp, err
		}
	}
}

const principalHolderKey contextKey = "principal_holder"

// principalHolder lets RequireAuth report the principal back to outer interceptors.
type principalHolder struct {
	username string
}

func recordPrincipal(ctx context.Context, username string) {
	if holder, ok := ctx.Value(principalHolderKey).(*principalHolder); ok {
		holder.username = username
	}
}
