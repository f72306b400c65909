package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/storefront/internal/auth"
	"github.com/mmynk/storefront/internal/middleware"
	"github.com/mmynk/storefront/internal/shop"
	"github.com/mmynk/storefront/internal/storage"
)

var (
	errInternal         = errors.New("internal error")
	errNotAuthenticated = errors.New("authentication required")
)

// toConnectError maps a domain error to the Connect error returned to the client.
// Unexpected errors are logged and replaced by a generic message.
func toConnectError(logger *slog.Logger, procedure string, err error) error {
	switch {
	case auth.IsValidationError(err), errors.Is(err, shop.ErrInvalidQuantity):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	case errors.Is(err, auth.ErrUsernameTaken), errors.Is(err, storage.ErrAlreadyExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, shop.ErrUserNotFound), errors.Is(err, shop.ErrItemNotFound), errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		logger.Error("Unexpected error", "procedure", procedure, "error", err)
		return connect.NewError(connect.CodeInternal, errInternal)
	}
}

// resolveUsername returns the username a cart or order request acts on.
// An empty username means the caller itself; any other user is forbidden.
func resolveUsername(ctx context.Context, requested string) (string, error) {
	principal := middleware.GetUsername(ctx)
	if principal == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errNotAuthenticated)
	}
	if requested == "" {
		return principal, nil
	}
	if requested != principal {
		return "", connect.NewError(connect.CodePermissionDenied,
			fmt.Errorf("user %s may not act on behalf of %s", principal, requested))
	}
	return requested, nil
}
