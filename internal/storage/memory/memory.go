// Package memory provides an in-memory implementation of the storage.Store interface.
// It is used by tests and by the server when STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mmynk/storefront/internal/models"
	"github.com/mmynk/storefront/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps every record in maps guarded by a single lock.
// Values are copied on the way in and out, so callers never share memory with the store.
type Store struct {
	sync.RWMutex
	users     map[string]models.User // by ID
	usernames map[string]string      // username -> user ID
	items     map[int64]models.Item
	carts     map[string]*models.Cart    // by user ID
	orders    map[string][]*models.Order // by user ID, in creation order
}

// New creates an empty store whose catalog holds the given items.
func New(items ...models.Item) *Store {
	s := &Store{
		users:     make(map[string]models.User),
		usernames: make(map[string]string),
		items:     make(map[int64]models.Item),
		carts:     make(map[string]*models.Cart),
		orders:    make(map[string][]*models.Order),
	}
	for _, item := range items {
		s.items[item.ID] = item
	}
	return s
}

// NewSeeded creates an empty store with the default catalog.
func NewSeeded() *Store {
	return New(models.SeedItems()...)
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// CreateUser stores the user and an empty cart for it.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.Lock()
	defer s.Unlock()

	if _, exists := s.usernames[user.Username]; exists {
		return fmt.Errorf("user %q: %w", user.Username, storage.ErrAlreadyExists)
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	s.users[user.ID] = *user
	s.usernames[user.Username] = user.ID
	s.carts[user.ID] = models.NewCart(user.ID)

	return nil
}

// GetUserByUsername retrieves a user by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.RLock()
	defer s.RUnlock()

	id, ok := s.usernames[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, storage.ErrNotFound)
	}
	user := s.users[id]
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.RLock()
	defer s.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	return &user, nil
}

// GetItem retrieves an item by ID.
func (s *Store) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	s.RLock()
	defer s.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("item %d: %w", id, storage.ErrNotFound)
	}
	return &item, nil
}

// FindItemsByName returns the items with exactly the given name.
func (s *Store) FindItemsByName(ctx context.Context, name string) ([]*models.Item, error) {
	all, err := s.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	var found []*models.Item
	for _, item := range all {
		if item.Name == name {
			found = append(found, item)
		}
	}
	return found, nil
}

// ListItems returns all items ordered by ID.
func (s *Store) ListItems(ctx context.Context) ([]*models.Item, error) {
	s.RLock()
	defer s.RUnlock()

	items := make([]*models.Item, 0, len(s.items))
	for _, item := range s.items {
		item := item
		items = append(items, &item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// GetCartByUserID returns a copy of the user's cart.
func (s *Store) GetCartByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	s.RLock()
	defer s.RUnlock()

	cart, ok := s.carts[userID]
	if !ok {
		return nil, fmt.Errorf("cart for user %s: %w", userID, storage.ErrNotFound)
	}
	return cart.Clone(), nil
}

// SaveCart replaces the stored cart.
func (s *Store) SaveCart(ctx context.Context, cart *models.Cart) error {
	s.Lock()
	defer s.Unlock()

	existing, ok := s.carts[cart.UserID]
	if !ok || existing.ID != cart.ID {
		return fmt.Errorf("cart %s: %w", cart.ID, storage.ErrNotFound)
	}

	saved := cart.Clone()
	saved.UpdatedAt = time.Now().Unix()
	s.carts[cart.UserID] = saved
	return nil
}

// CreateOrder appends the order to the user's history.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.users[order.UserID]; !ok {
		return fmt.Errorf("user %s: %w", order.UserID, storage.ErrNotFound)
	}

	stored := *order
	stored.Items = append([]models.Item(nil), order.Items...)
	s.orders[order.UserID] = append(s.orders[order.UserID], &stored)
	return nil
}

// ListOrdersByUserID returns copies of the user's orders, oldest first.
func (s *Store) ListOrdersByUserID(ctx context.Context, userID string) ([]*models.Order, error) {
	s.RLock()
	defer s.RUnlock()

	user := s.users[userID]
	stored := s.orders[userID]
	orders := make([]*models.Order, 0, len(stored))
	for _, o := range stored {
		order := *o
		order.Username = user.Username
		order.Items = append([]models.Item(nil), o.Items...)
		orders = append(orders, &order)
	}
	return orders, nil
}
