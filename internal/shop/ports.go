// Package shop holds the cart and order engines: the read-modify-write
// transactions on a user's cart and the order snapshots taken from it.
package shop

import (
	"context"

	"github.com/mmynk/storefront/internal/models"
)

//go:generate mockgen -source=ports.go -package shop -destination ports_mock.go

// UserFinder looks up users by username.
type UserFinder interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// ItemFinder looks up catalog items.
type ItemFinder interface {
	GetItem(ctx context.Context, id int64) (*models.Item, error)
}

// CartRepository loads and stores carts.
type CartRepository interface {
	GetCartByUserID(ctx context.Context, userID string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
}

// OrderRepository appends and lists orders.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	ListOrdersByUserID(ctx context.Context, userID string) ([]*models.Order, error)
}
