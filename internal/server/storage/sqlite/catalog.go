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

// Цены хранятся как TEXT и парсятся в decimal при чтении:
// float-колонки внесли бы двоичную погрешность еще на уровне БД.

// GetProduct retrieves product by ID
func (s *Storage) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	query := `
		SELECT id, name, description, category, unit_price, discount_price, is_on_sale, image_url, supplier_id
		FROM products
		WHERE id = ?
	`

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return p, nil
}

// GetDeal retrieves deal by ID
func (s *Storage) GetDeal(ctx context.Context, id int64) (*models.Deal, error) {
	query := `
		SELECT id, title, description, product_id, price, discount_price, expires_at
		FROM deals
		WHERE id = ?
	`

	deal := &models.Deal{}
	var price, discountPrice string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&deal.ID,
		&deal.Title,
		&deal.Description,
		&deal.ProductID,
		&price,
		&discountPrice,
		&deal.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrDealNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	if deal.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("invalid deal price %q: %w", price, err)
	}
	if deal.DiscountPrice, err = decimal.NewFromString(discountPrice); err != nil {
		return nil, fmt.Errorf("invalid deal discount price %q: %w", discountPrice, err)
	}

	return deal, nil
}

// GetSupplier retrieves supplier by ID
func (s *Storage) GetSupplier(ctx context.Context, id int64) (*models.Supplier, error) {
	query := `
		SELECT id, name, location, description, rating
		FROM suppliers
		WHERE id = ?
	`

	supplier := &models.Supplier{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&supplier.ID,
		&supplier.Name,
		&supplier.Location,
		&supplier.Description,
		&supplier.Rating,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}

	return supplier, nil
}

// SearchProducts performs a case-insensitive substring search over product
// names and returns the requested page with the total match count
func (s *Storage) SearchProducts(ctx context.Context, term string, page, limit int) ([]models.Product, int, error) {
	pattern := "%" + term + "%"

	var total int
	countQuery := `SELECT COUNT(*) FROM products WHERE name LIKE ?`
	if err := s.db.QueryRowContext(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := `
		SELECT id, name, description, category, unit_price, discount_price, is_on_sale, image_url, supplier_id
		FROM products
		WHERE name LIKE ?
		ORDER BY id
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query, pattern, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, total, nil
}

// SearchDeals returns deals whose title matches the term
func (s *Storage) SearchDeals(ctx context.Context, term string) ([]models.Deal, error) {
	query := `
		SELECT id, title, description, product_id, price, discount_price, expires_at
		FROM deals
		WHERE title LIKE ?
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, "%"+term+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search deals: %w", err)
	}
	defer rows.Close()

	var deals []models.Deal
	for rows.Next() {
		var deal models.Deal
		var price, discountPrice string
		if err := rows.Scan(&deal.ID, &deal.Title, &deal.Description, &deal.ProductID,
			&price, &discountPrice, &deal.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan deal: %w", err)
		}
		if deal.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("invalid deal price %q: %w", price, err)
		}
		if deal.DiscountPrice, err = decimal.NewFromString(discountPrice); err != nil {
			return nil, fmt.Errorf("invalid deal discount price %q: %w", discountPrice, err)
		}
		deals = append(deals, deal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deals: %w", err)
	}

	return deals, nil
}

// SearchSuppliers returns suppliers whose name matches the term
func (s *Storage) SearchSuppliers(ctx context.Context, term string) ([]models.Supplier, error) {
	query := `
		SELECT id, name, location, description, rating
		FROM suppliers
		WHERE name LIKE ?
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, "%"+term+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []models.Supplier
	for rows.Next() {
		var supplier models.Supplier
		if err := rows.Scan(&supplier.ID, &supplier.Name, &supplier.Location,
			&supplier.Description, &supplier.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, supplier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate suppliers: %w", err)
	}

	return suppliers, nil
}

// rowScanner покрывает *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	p := &models.Product{}
	var unitPrice, discountPrice string

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Category,
		&unitPrice,
		&discountPrice,
		&p.IsOnSale,
		&p.ImageURL,
		&p.SupplierID,
	)
	if err != nil {
		return nil, err
	}

	if p.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
		return nil, fmt.Errorf("invalid unit price %q: %w", unitPrice, err)
	}
	if p.DiscountPrice, err = decimal.NewFromString(discountPrice); err != nil {
		return nil, fmt.Errorf("invalid discount price %q: %w", discountPrice, err)
	}

	return p, nil
}
