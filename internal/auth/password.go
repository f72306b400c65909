package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/storefront/internal/models"
	"github.com/mmynk/storefront/internal/storage"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 8

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameRequired   = errors.New("username is required")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordMismatch   = errors.New("password and confirmation do not match")
	ErrUsernameTaken      = errors.New("username already registered")
)

// IsValidationError reports whether err is one of the signup validation errors.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrUsernameRequired) ||
		errors.Is(err, ErrWeakPassword) ||
		errors.Is(err, ErrPasswordMismatch)
}

// UserStorage defines the interface for user persistence operations.
// This allows the authenticator to be independent of the storage implementation.
type UserStorage interface {
	// CreateUser stores the user and an empty cart for it, or returns
	// storage.ErrAlreadyExists if the username is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// HashPassword returns a salted bcrypt hash of the password.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var _ Authenticator = (*PasswordAuthenticator)(nil)

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage UserStorage
	cost    int

	// dummyHash is compared against when the username is unknown, so that
	// both failure paths spend the same bcrypt work.
	dummyHash string
}

// NewPasswordAuthenticator creates a new password-based authenticator.
// A cost outside bcrypt's range falls back to bcrypt.DefaultCost.
func NewPasswordAuthenticator(storage UserStorage, cost int) (*PasswordAuthenticator, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	dummyHash, err := HashPassword("storefront-dummy-password", cost)
	if err != nil {
		return nil, err
	}

	return &PasswordAuthenticator{
		storage:   storage,
		cost:      cost,
		dummyHash: dummyHash,
	}, nil
}

// validateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) validateCredential(credential string) error {
	if len(credential) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// ValidateSignup checks the signup input without touching storage.
func (a *PasswordAuthenticator) ValidateSignup(username, credential, confirmation string) error {
	if strings.TrimSpace(username) == "" {
		return ErrUsernameRequired
	}
	if err := a.validateCredential(credential); err != nil {
		return err
	}
	if credential != confirmation {
		return ErrPasswordMismatch
	}
	return nil
}

// Register creates a new user account with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, username, credential, confirmation string) (*models.User, error) {
	if err := a.ValidateSignup(username, credential, confirmation); err != nil {
		return nil, err
	}

	hashedPassword, err := HashPassword(credential, a.cost)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(username, hashedPassword)

	// The store enforces uniqueness atomically, so two concurrent signups
	// for the same name cannot both succeed.
	if err := a.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies the username and password, returning the user if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, username, credential string) (*models.User, error) {
	user, err := a.storage.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		VerifyPassword(credential, a.dummyHash)
		return nil, ErrInvalidCredentials
	}

	if !VerifyPassword(credential, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
