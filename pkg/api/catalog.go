package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product представляет товар каталога
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	DiscountPrice decimal.Decimal `json:"discount_price"`
	IsOnSale      bool            `json:"is_on_sale"`
	ImageURL      string          `json:"image_url"`
	SupplierID    int64           `json:"supplier_id"`
}

// Deal представляет акционное предложение
type Deal struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	ProductID     int64           `json:"product_id"`
	Price         decimal.Decimal `json:"price"`
	DiscountPrice decimal.Decimal `json:"discount_price"`
	ExpiresAt     time.Time       `json:"expires_at"`
}

// Supplier представляет поставщика
type Supplier struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Rating      int    `json:"rating"`
}

// FavoriteRequest представляет запрос POST /api/v1/favorites
type FavoriteRequest struct {
	UserID    string `json:"user_id"`
	ProductID int64  `json:"product_id"`
}
