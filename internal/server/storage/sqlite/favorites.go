package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storeclient/internal/server/storage"
)

// ListFavorites returns product IDs marked as favorite by the user
func (s *Storage) ListFavorites(ctx context.Context, userID string) ([]int64, error) {
	query := `SELECT product_id FROM favorites WHERE user_id = ? ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorites: %w", err)
	}

	return ids, nil
}

// AddFavorite marks a product as favorite. Idempotent.
func (s *Storage) AddFavorite(ctx context.Context, userID string, productID int64) error {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM products WHERE id = ?`, productID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrProductNotFound
		}
		return fmt.Errorf("failed to check product: %w", err)
	}

	query := `
		INSERT INTO favorites (user_id, product_id)
		VALUES (?, ?)
		ON CONFLICT (user_id, product_id) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	return nil
}

// RemoveFavorite removes the favorite mark. Idempotent.
func (s *Storage) RemoveFavorite(ctx context.Context, userID string, productID int64) error {
	query := `DELETE FROM favorites WHERE user_id = ? AND product_id = ?`
	if _, err := s.db.ExecContext(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}
