package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"storeclient/internal/models"
	"storeclient/internal/server/storage"
)

const cartLineQuery = `
	SELECT c.product_id, p.name, p.unit_price, p.discount_price, p.is_on_sale, p.image_url, c.quantity
	FROM cart_items c
	JOIN products p ON p.id = c.product_id
	WHERE c.user_id = ?
`

// GetCartLines returns all cart lines of the user in insertion order
func (s *Storage) GetCartLines(ctx context.Context, userID string) ([]models.CartLine, error) {
	rows, err := s.db.QueryContext(ctx, cartLineQuery+" ORDER BY c.rowid", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		line, err := scanCartLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, *line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cart lines: %w", err)
	}

	return lines, nil
}

// UpsertCartLine adds quantity to an existing line or creates a new one
func (s *Storage) UpsertCartLine(ctx context.Context, userID string, productID, quantity int64) (*models.CartLine, error) {
	// Проверяем, что товар существует: внешний ключ отдал бы невнятную ошибку
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM products WHERE id = ?`, productID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to check product: %w", err)
	}

	query := `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = quantity + excluded.quantity
	`
	if _, err := s.db.ExecContext(ctx, query, userID, productID, quantity); err != nil {
		return nil, fmt.Errorf("failed to upsert cart line: %w", err)
	}

	return s.getCartLine(ctx, userID, productID)
}

// SetCartLineQuantity sets an absolute quantity on an existing line
func (s *Storage) SetCartLineQuantity(ctx context.Context, userID string, productID, quantity int64) (*models.CartLine, error) {
	query := `UPDATE cart_items SET quantity = ? WHERE user_id = ? AND product_id = ?`
	result, err := s.db.ExecContext(ctx, query, quantity, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart line: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return nil, storage.ErrCartLineNotFound
	}

	return s.getCartLine(ctx, userID, productID)
}

// DeleteCartLine removes a line from the cart
func (s *Storage) DeleteCartLine(ctx context.Context, userID string, productID int64) error {
	query := `DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`
	result, err := s.db.ExecContext(ctx, query, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to delete cart line: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrCartLineNotFound
	}

	return nil
}

// ClearCart removes all lines of the user
func (s *Storage) ClearCart(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *Storage) getCartLine(ctx context.Context, userID string, productID int64) (*models.CartLine, error) {
	row := s.db.QueryRowContext(ctx, cartLineQuery+" AND c.product_id = ?", userID, productID)
	line, err := scanCartLine(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrCartLineNotFound
		}
		return nil, fmt.Errorf("failed to get cart line: %w", err)
	}
	return line, nil
}

func scanCartLine(row rowScanner) (*models.CartLine, error) {
	line := &models.CartLine{}
	var unitPrice, discountPrice string

	err := row.Scan(
		&line.ProductID,
		&line.Name,
		&unitPrice,
		&discountPrice,
		&line.IsOnSale,
		&line.ImageURL,
		&line.Quantity,
	)
	if err != nil {
		return nil, err
	}

	if line.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
		return nil, fmt.Errorf("invalid unit price %q: %w", unitPrice, err)
	}
	if line.DiscountPrice, err = decimal.NewFromString(discountPrice); err != nil {
		return nil, fmt.Errorf("invalid discount price %q: %w", discountPrice, err)
	}

	return line, nil
}
