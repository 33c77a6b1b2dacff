package storage

import (
	"context"

	"storeclient/internal/models"
)

// CatalogStorage defines interface for catalog reads
type CatalogStorage interface {
	// GetProduct retrieves product by ID
	// Returns ErrProductNotFound if product doesn't exist
	GetProduct(ctx context.Context, id int64) (*models.Product, error)

	// GetDeal retrieves deal by ID
	// Returns ErrDealNotFound if deal doesn't exist
	GetDeal(ctx context.Context, id int64) (*models.Deal, error)

	// GetSupplier retrieves supplier by ID
	// Returns ErrSupplierNotFound if supplier doesn't exist
	GetSupplier(ctx context.Context, id int64) (*models.Supplier, error)

	// SearchProducts performs a substring search over product names
	// and returns one page plus the total match count
	SearchProducts(ctx context.Context, term string, page, limit int) ([]models.Product, int, error)

	// SearchDeals returns deals whose title matches the term
	SearchDeals(ctx context.Context, term string) ([]models.Deal, error)

	// SearchSuppliers returns suppliers whose name matches the term
	SearchSuppliers(ctx context.Context, term string) ([]models.Supplier, error)
}
