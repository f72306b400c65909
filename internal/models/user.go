package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
// A user is created once at signup and never modified afterwards.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the unique login name. Never empty.
	Username string

	// PasswordHash is the bcrypt hash of the user's password.
	// The plaintext password is never stored.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64
}

// NewUser creates a user with a fresh ID for the given username and password hash.
func NewUser(username, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
