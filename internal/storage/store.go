// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/storefront/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a unique key is already taken.
	ErrAlreadyExists = errors.New("already exists")
)

// UserStore is the credential store.
type UserStore interface {
	// CreateUser persists a new user together with an empty cart.
	// Returns ErrAlreadyExists if the username is taken; nothing is written then.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername returns ErrNotFound if no user has that username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID returns ErrNotFound if no user has that ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Catalog is the read-only source of purchasable items.
type Catalog interface {
	// GetItem returns ErrNotFound if the item does not exist.
	GetItem(ctx context.Context, id int64) (*models.Item, error)

	// FindItemsByName returns the items with exactly that name, possibly none.
	FindItemsByName(ctx context.Context, name string) ([]*models.Item, error)

	// ListItems returns all items ordered by ID.
	ListItems(ctx context.Context) ([]*models.Item, error)
}

// CartStore persists carts.
type CartStore interface {
	// GetCartByUserID returns ErrNotFound if the user has no cart.
	GetCartByUserID(ctx context.Context, userID string) (*models.Cart, error)

	// SaveCart replaces the stored items and total of an existing cart.
	SaveCart(ctx context.Context, cart *models.Cart) error
}

// OrderStore persists orders. Orders are only ever appended.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error

	// ListOrdersByUserID returns the user's orders oldest first.
	ListOrdersByUserID(ctx context.Context, userID string) ([]*models.Order, error)
}

// Store defines the full set of storage operations.
// This abstraction allows swapping storage backends (SQLite, in-memory, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	Catalog
	CartStore
	OrderStore

	// Close releases any resources held by the store.
	Close() error
}
