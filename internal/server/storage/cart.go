package storage

import (
	"context"

	"storeclient/internal/models"
)

// CartStorage defines interface for cart persistence.
// Все позиции обогащены данными товара: имя и цены приходят из каталога,
// в корзине хранятся только количества.
type CartStorage interface {
	// GetCartLines returns all cart lines of the user in insertion order
	GetCartLines(ctx context.Context, userID string) ([]models.CartLine, error)

	// UpsertCartLine adds quantity to an existing line or creates a new one.
	// Returns ErrProductNotFound if the product doesn't exist.
	UpsertCartLine(ctx context.Context, userID string, productID, quantity int64) (*models.CartLine, error)

	// SetCartLineQuantity sets an absolute quantity on an existing line.
	// Returns ErrCartLineNotFound if the line doesn't exist.
	SetCartLineQuantity(ctx context.Context, userID string, productID, quantity int64) (*models.CartLine, error)

	// DeleteCartLine removes a line from the cart.
	// Returns ErrCartLineNotFound if the line doesn't exist.
	DeleteCartLine(ctx context.Context, userID string, productID int64) error

	// ClearCart removes all lines of the user
	ClearCart(ctx context.Context, userID string) error
}
