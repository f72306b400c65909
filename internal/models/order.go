package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is an immutable record of a submitted cart.
type Order struct {
	// ID is the unique identifier for the order (UUID format).
	ID string

	// UserID is the user who submitted the order.
	UserID string

	// Username is filled in by the stores on read for convenience.
	Username string

	// Items is a copy of the cart's items at submission time.
	Items []Item

	// Total is copied from the cart, not recomputed.
	Total decimal.Decimal

	// CreatedAt is the Unix timestamp when the order was submitted.
	CreatedAt int64
}

// NewOrderFromCart snapshots the cart into a new order for the user.
func NewOrderFromCart(user *User, cart *Cart) *Order {
	items := make([]Item, len(cart.Items))
	copy(items, cart.Items)

	return &Order{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Username:  user.Username,
		Items:     items,
		Total:     cart.Total,
		CreatedAt: time.Now().Unix(),
	}
}
