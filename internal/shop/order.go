package shop

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/storefront/internal/models"
)

// OrderEngine turns carts into orders and lists a user's orders.
type OrderEngine struct {
	users  UserFinder
	carts  CartRepository
	orders OrderRepository
	locks  *KeyedMutex
	opts   options
}

// NewOrderEngine creates an order engine sharing locks with the CartEngine.
func NewOrderEngine(users UserFinder, carts CartRepository, orders OrderRepository, locks *KeyedMutex, opts ...Option) *OrderEngine {
	return &OrderEngine{
		users:  users,
		carts:  carts,
		orders: orders,
		locks:  locks,
		opts:   newOptions(opts),
	}
}

// Submit stores a snapshot of the user's cart as a new order.
// An empty cart yields an order with no items and a zero total. Once the
// order is stored, Submit succeeds even if clearing the cart fails.
func (e *OrderEngine) Submit(ctx context.Context, username string) (*models.Order, error) {
	unlock := e.locks.Lock(username)
	defer unlock()

	user, err := findUser(ctx, e.users, username)
	if err != nil {
		return nil, err
	}

	cart, err := e.carts.GetCartByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	order := models.NewOrderFromCart(user, cart)
	if err := e.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	total, _ := order.Total.Float64()
	e.opts.metrics.OrderSubmitted(total)

	if e.opts.clearCartOnSubmit && len(cart.Items) > 0 {
		cart.Items = []models.Item{}
		cart.Total = decimal.Zero
		// The order is already stored, so a failed clear is only logged.
		if err := e.carts.SaveCart(ctx, cart); err != nil {
			e.opts.logger.Error("Failed to clear cart after submit",
				"username", username, "order_id", order.ID, "error", err)
		}
	}

	return order, nil
}

// History returns the user's orders, oldest first.
func (e *OrderEngine) History(ctx context.Context, username string) ([]*models.Order, error) {
	user, err := findUser(ctx, e.users, username)
	if err != nil {
		return nil, err
	}

	orders, err := e.orders.ListOrdersByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}
