package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/storefront/internal/models"
	"github.com/mmynk/storefront/internal/storage"
)

// CreateOrder persists a new order and its item snapshot.
func (s *SQLiteStore) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.CreatedAt == 0 {
		order.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO orders (id, user_id, total, created_at) VALUES (?, ?, ?, ?)",
		order.ID, order.UserID, order.Total.String(), order.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("user %s: %w", order.UserID, storage.ErrNotFound)
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i, item := range order.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, position, item_id, name, price, description)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			order.ID, i, item.ID, item.Name, item.Price.String(), item.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListOrdersByUserID retrieves the user's orders, oldest first.
func (s *SQLiteStore) ListOrdersByUserID(ctx context.Context, userID string) ([]*models.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT o.id, o.user_id, u.username, o.total, o.created_at
		 FROM orders o
		 JOIN users u ON u.id = o.user_id
		 WHERE o.user_id = ?
		 ORDER BY o.created_at, o.rowid`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := []*models.Order{}
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.UserID, &order.Username, &order.Total, &order.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	for _, order := range orders {
		items, err := s.orderItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	return orders, nil
}

func (s *SQLiteStore) orderItems(ctx context.Context, orderID string) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT item_id, name, price, description FROM order_items WHERE order_id = ? ORDER BY position",
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Description); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order items: %w", err)
	}

	return items, nil
}
