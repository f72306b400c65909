package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/storefront/internal/models"
	"github.com/mmynk/storefront/internal/storage"
	"github.com/mmynk/storefront/internal/storage/memory"
)

// countingCatalog records how often each lookup reaches the backing store.
type countingCatalog struct {
	storage.Catalog
	gets, finds, lists atomic.Int32
}

func (c *countingCatalog) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	c.gets.Add(1)
	return c.Catalog.GetItem(ctx, id)
}

func (c *countingCatalog) FindItemsByName(ctx context.Context, name string) ([]*models.Item, error) {
	c.finds.Add(1)
	return c.Catalog.FindItemsByName(ctx, name)
}

func (c *countingCatalog) ListItems(ctx context.Context) ([]*models.Item, error) {
	c.lists.Add(1)
	return c.Catalog.ListItems(ctx)
}

func TestCatalog(t *testing.T) {
	c := context.TODO()

	t.Run("Get item is cached", func(t *testing.T) {
		backing := &countingCatalog{Catalog: memory.NewSeeded()}
		catalog := NewCatalog(backing)

		for i := 0; i < 3; i++ {
			item, err := catalog.GetItem(c, 1)
			require.NoError(t, err)
			assert.Equal(t, "Round Widget", item.Name)
		}
		assert.Equal(t, int32(1), backing.gets.Load())
	})

	t.Run("Not found is not cached", func(t *testing.T) {
		backing := &countingCatalog{Catalog: memory.NewSeeded()}
		catalog := NewCatalog(backing)

		_, err := catalog.GetItem(c, 42)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = catalog.GetItem(c, 42)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.Equal(t, int32(2), backing.gets.Load())
	})

	t.Run("Callers cannot modify cached items", func(t *testing.T) {
		catalog := NewCatalog(memory.NewSeeded())

		item, err := catalog.GetItem(c, 2)
		require.NoError(t, err)
		item.Name = "changed"

		again, err := catalog.GetItem(c, 2)
		require.NoError(t, err)
		assert.Equal(t, "Square Widget", again.Name)
	})

	t.Run("Find by name and list are cached", func(t *testing.T) {
		backing := &countingCatalog{Catalog: memory.NewSeeded()}
		catalog := NewCatalog(backing)

		for i := 0; i < 2; i++ {
			found, err := catalog.FindItemsByName(c, "Vanparys")
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, int64(4), found[0].ID)

			none, err := catalog.FindItemsByName(c, "unknown")
			require.NoError(t, err)
			assert.Empty(t, none)

			all, err := catalog.ListItems(c)
			require.NoError(t, err)
			assert.Len(t, all, 4)
		}
		assert.Equal(t, int32(2), backing.finds.Load())
		assert.Equal(t, int32(1), backing.lists.Load())
	})

	t.Run("Concurrent lookups reach the store once", func(t *testing.T) {
		backing := &countingCatalog{Catalog: memory.NewSeeded()}
		catalog := NewCatalog(backing)

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				item, err := catalog.GetItem(c, 3)
				assert.NoError(t, err)
				assert.Equal(t, "Cuberdon", item.Name)
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), backing.gets.Load())
	})
}
