package shop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/storefront/internal/calculator"
	"github.com/mmynk/storefront/internal/metrics"
	"github.com/mmynk/storefront/internal/models"
	"github.com/mmynk/storefront/internal/storage"
)

// Option configures the engines.
type Option func(*options)

type options struct {
	clearCartOnSubmit bool
	metrics           *metrics.Metrics
	logger            *slog.Logger
}

// WithClearCartOnSubmit empties the cart after its order has been stored.
// Carts are left unchanged by default, so an unchanged cart can be
// submitted again as a new order.
func WithClearCartOnSubmit(clear bool) Option {
	return func(o *options) {
		o.clearCartOnSubmit = clear
	}
}

// WithMetrics records cart and order activity.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithLogger sets the logger for failures that do not fail the operation.
// The default is slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// CartEngine adds items to and removes items from user carts.
type CartEngine struct {
	users UserFinder
	items ItemFinder
	carts CartRepository
	locks *KeyedMutex
	opts  options
}

// NewCartEngine creates a cart engine. locks must be shared with the
// OrderEngine so that cart changes and submissions of one user never overlap.
func NewCartEngine(users UserFinder, items ItemFinder, carts CartRepository, locks *KeyedMutex, opts ...Option) *CartEngine {
	return &CartEngine{
		users: users,
		items: items,
		carts: carts,
		locks: locks,
		opts:  newOptions(opts),
	}
}

// AddItem appends quantity units of the item to the user's cart and returns the updated cart.
func (e *CartEngine) AddItem(ctx context.Context, username string, itemID int64, quantity int) (*models.Cart, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	unlock := e.locks.Lock(username)
	defer unlock()

	cart, item, err := e.load(ctx, username, itemID)
	if err != nil {
		return nil, err
	}

	cart.Items = calculator.AddUnits(cart.Items, *item, quantity)
	cart.Total = calculator.Total(cart.Items)

	if err := e.carts.SaveCart(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	e.opts.metrics.CartUnits("add", quantity)

	return cart, nil
}

// RemoveItem removes quantity units of the item from the user's cart, earliest
// first. If the cart holds fewer units, all of them are removed.
func (e *CartEngine) RemoveItem(ctx context.Context, username string, itemID int64, quantity int) (*models.Cart, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	unlock := e.locks.Lock(username)
	defer unlock()

	cart, _, err := e.load(ctx, username, itemID)
	if err != nil {
		return nil, err
	}

	remaining, removed := calculator.RemoveUnits(cart.Items, itemID, quantity)
	if removed == 0 {
		return cart, nil
	}
	cart.Items = remaining
	cart.Total = calculator.Total(cart.Items)

	if err := e.carts.SaveCart(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	e.opts.metrics.CartUnits("remove", removed)

	return cart, nil
}

func (e *CartEngine) load(ctx context.Context, username string, itemID int64) (*models.Cart, *models.Item, error) {
	user, err := findUser(ctx, e.users, username)
	if err != nil {
		return nil, nil, err
	}

	item, err := e.items.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: %d", ErrItemNotFound, itemID)
		}
		return nil, nil, fmt.Errorf("failed to get item: %w", err)
	}

	cart, err := e.carts.GetCartByUserID(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return cart, item, nil
}

func findUser(ctx context.Context, users UserFinder, username string) (*models.User, error) {
	user, err := users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
