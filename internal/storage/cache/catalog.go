// Package cache wraps the read-only catalog with an in-process cache.
package cache

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/mmynk/storefront/internal/models"
	"github.com/mmynk/storefront/internal/storage"
)

// Ensure Catalog implements storage.Catalog
var _ storage.Catalog = (*Catalog)(nil)

// Catalog caches lookups of an underlying catalog. Items never change once
// created, so entries are kept for the life of the process. Errors, including
// storage.ErrNotFound, are not cached.
type Catalog struct {
	next storage.Catalog
	sf   singleflight.Group

	mu      sync.RWMutex
	byID    map[int64]models.Item
	byName  map[string][]models.Item
	all     []models.Item
	allDone bool
}

// NewCatalog returns a caching catalog in front of next.
func NewCatalog(next storage.Catalog) *Catalog {
	return &Catalog{
		next:   next,
		byID:   make(map[int64]models.Item),
		byName: make(map[string][]models.Item),
	}
}

// GetItem returns the item with the given ID.
func (c *Catalog) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	c.mu.RLock()
	item, ok := c.byID[id]
	c.mu.RUnlock()
	if ok {
		return &item, nil
	}

	v, err, _ := c.sf.Do("id:"+strconv.FormatInt(id, 10), func() (interface{}, error) {
		// A flight that finished just before this one may have filled the entry.
		c.mu.RLock()
		item, ok := c.byID[id]
		c.mu.RUnlock()
		if ok {
			return item, nil
		}

		found, err := c.next.GetItem(ctx, id)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.byID[id] = *found
		c.mu.Unlock()
		return *found, nil
	})
	if err != nil {
		return nil, err
	}

	item = v.(models.Item)
	return &item, nil
}

// FindItemsByName returns the items with exactly the given name.
func (c *Catalog) FindItemsByName(ctx context.Context, name string) ([]*models.Item, error) {
	c.mu.RLock()
	items, ok := c.byName[name]
	c.mu.RUnlock()
	if ok {
		return pointers(items), nil
	}

	v, err, _ := c.sf.Do("name:"+name, func() (interface{}, error) {
		c.mu.RLock()
		items, ok := c.byName[name]
		c.mu.RUnlock()
		if ok {
			return items, nil
		}

		found, err := c.next.FindItemsByName(ctx, name)
		if err != nil {
			return nil, err
		}
		cached := values(found)
		c.mu.Lock()
		c.byName[name] = cached
		c.mu.Unlock()
		return cached, nil
	})
	if err != nil {
		return nil, err
	}

	return pointers(v.([]models.Item)), nil
}

// ListItems returns the whole catalog ordered by ID.
func (c *Catalog) ListItems(ctx context.Context) ([]*models.Item, error) {
	c.mu.RLock()
	all, done := c.all, c.allDone
	c.mu.RUnlock()
	if done {
		return pointers(all), nil
	}

	v, err, _ := c.sf.Do("list", func() (interface{}, error) {
		c.mu.RLock()
		all, done := c.all, c.allDone
		c.mu.RUnlock()
		if done {
			return all, nil
		}

		found, err := c.next.ListItems(ctx)
		if err != nil {
			return nil, err
		}
		cached := values(found)
		c.mu.Lock()
		c.all, c.allDone = cached, true
		c.mu.Unlock()
		return cached, nil
	})
	if err != nil {
		return nil, err
	}

	return pointers(v.([]models.Item)), nil
}

func values(items []*models.Item) []models.Item {
	out := make([]models.Item, len(items))
	for i, item := range items {
		out[i] = *item
	}
	return out
}

// pointers hands out fresh copies so callers cannot modify cached entries.
func pointers(items []models.Item) []*models.Item {
	out := make([]*models.Item, len(items))
	for i := range items {
		item := items[i]
		out[i] = &item
	}
	return out
}
