package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is a user's pre-purchase collection of items.
//
// Items is an ordered sequence in which duplicates represent quantity.
// Total always equals the sum of Items[i].Price after any mutation.
type Cart struct {
	// ID is the unique identifier for the cart (UUID format).
	ID string

	// UserID is the owning user. The cart never controls the user's lifecycle.
	UserID string

	// Items are the selected items, one entry per unit.
	Items []Item

	// Total is the sum of all item prices.
	Total decimal.Decimal

	// UpdatedAt is the Unix timestamp of the last mutation.
	UpdatedAt int64
}

// NewCart creates an empty cart owned by the given user.
func NewCart(userID string) *Cart {
	return &Cart{
		ID:     uuid.New().String(),
		UserID: userID,
		Items:  []Item{},
		Total:  decimal.Zero,
	}
}

// Clone returns a deep copy of the cart, so the copy's Items can be
// modified without affecting the original.
func (c *Cart) Clone() *Cart {
	clone := *c
	clone.Items = make([]Item, len(c.Items))
	copy(clone.Items, c.Items)
	return &clone
}
