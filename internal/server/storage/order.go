package storage

import (
	"context"

	"storeclient/internal/models"
)

// OrderStorage defines interface for order persistence
type OrderStorage interface {
	// CreateOrderFromCart atomically snapshots the user's cart into an order
	// and clears the cart. Returns ErrCartEmpty if there is nothing to order.
	CreateOrderFromCart(ctx context.Context, orderID, userID string) (*models.Order, error)
}
