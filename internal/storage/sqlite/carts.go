package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/storefront/internal/models"
	"github.com/mmynk/storefront/internal/storage"
)

// GetCartByUserID retrieves the user's cart with its items in insertion order.
func (s *SQLiteStore) GetCartByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	cart := &models.Cart{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, total, updated_at FROM carts WHERE user_id = ?",
		userID,
	).Scan(&cart.ID, &cart.UserID, &cart.Total, &cart.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cart for user %s: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT i.id, i.name, i.price, i.description
		 FROM cart_items ci
		 JOIN items i ON i.id = ci.item_id
		 WHERE ci.cart_id = ?
		 ORDER BY ci.position`,
		cart.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []models.Item{}
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Description); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cart items: %w", err)
	}

	return cart, nil
}

// SaveCart replaces the cart's items and total.
func (s *SQLiteStore) SaveCart(ctx context.Context, cart *models.Cart) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE carts SET total = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		cart.Total.String(), time.Now().Unix(), cart.ID, cart.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cart: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("cart %s: %w", cart.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE cart_id = ?", cart.ID); err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}

	for i, item := range cart.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO cart_items (cart_id, position, item_id) VALUES (?, ?, ?)",
			cart.ID, i, item.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert cart item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
