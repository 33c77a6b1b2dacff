package storage

import "context"

// FavoritesStorage defines interface for favorites persistence
type FavoritesStorage interface {
	// ListFavorites returns product IDs marked as favorite by the user
	ListFavorites(ctx context.Context, userID string) ([]int64, error)

	// AddFavorite marks a product as favorite. Idempotent.
	// Returns ErrProductNotFound if the product doesn't exist.
	AddFavorite(ctx context.Context, userID string, productID int64) error

	// RemoveFavorite removes the favorite mark. Idempotent.
	RemoveFavorite(ctx context.Context, userID string, productID int64) error
}
