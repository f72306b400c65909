package auth

import (
	"context"

	"github.com/mmynk/storefront/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, passkeys, OAuth, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Register validates the signup input and creates a new user account together
	// with its empty cart. confirmation must repeat the credential.
	Register(ctx context.Context, username, credential, confirmation string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	// Unknown users and wrong credentials return the same error.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)
}
