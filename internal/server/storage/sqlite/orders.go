package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"storeclient/internal/models"
	"storeclient/internal/server/storage"
)

// CreateOrderFromCart atomically snapshots the user's cart into an order
// and clears the cart. Итог считается по действующим ценам на момент
// оформления: скидочная цена берется, если товар на акции.
func (s *Storage) CreateOrderFromCart(ctx context.Context, orderID, userID string) (*models.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(ctx, cartLineQuery+" ORDER BY c.rowid", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}

	var lines []models.CartLine
	for rows.Next() {
		line, err := scanCartLine(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, *line)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate cart lines: %w", err)
	}
	rows.Close()

	if len(lines) == 0 {
		return nil, storage.ErrCartEmpty
	}

	order := &models.Order{
		ID:        orderID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
		order.ItemCount += line.Quantity
	}
	order.Total = total

	insertOrder := `INSERT INTO orders (id, user_id, total, item_count, created_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insertOrder,
		order.ID, order.UserID, order.Total.String(), order.ItemCount, order.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	insertItem := `INSERT INTO order_items (order_id, product_id, name, unit_price, quantity) VALUES (?, ?, ?, ?, ?)`
	for _, line := range lines {
		if _, err := tx.ExecContext(ctx, insertItem,
			order.ID, line.ProductID, line.Name, line.EffectivePrice().String(), line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	return order, nil
}
