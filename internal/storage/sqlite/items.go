package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/storefront/internal/models"
	"github.com/mmynk/storefront/internal/storage"
)

// GetItem retrieves an item by ID.
func (s *SQLiteStore) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	item := &models.Item{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, price, description FROM items WHERE id = ?",
		id,
	).Scan(&item.ID, &item.Name, &item.Price, &item.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

// FindItemsByName retrieves all items with exactly the given name.
func (s *SQLiteStore) FindItemsByName(ctx context.Context, name string) ([]*models.Item, error) {
	return s.queryItems(ctx,
		"SELECT id, name, price, description FROM items WHERE name = ? ORDER BY id",
		name,
	)
}

// ListItems retrieves the whole catalog ordered by ID.
func (s *SQLiteStore) ListItems(ctx context.Context) ([]*models.Item, error) {
	return s.queryItems(ctx, "SELECT id, name, price, description FROM items ORDER BY id")
}

func (s *SQLiteStore) queryItems(ctx context.Context, query string, args ...interface{}) ([]*models.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item := &models.Item{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Description); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}
