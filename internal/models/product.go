package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product представляет товар каталога на стороне клиента.
// Метаданные товара нужны корзине для оптимистичной отрисовки
// новой позиции до подтверждения сервером.
type Product struct {
	ID            int64
	Name          string
	Description   string
	Category      string
	UnitPrice     decimal.Decimal
	DiscountPrice decimal.Decimal
	IsOnSale      bool
	ImageURL      string
	SupplierID    int64
}

// EffectivePrice возвращает цену, по которой товар реально продается:
// скидочную во время акции, иначе обычную.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.IsOnSale && p.DiscountPrice.IsPositive() {
		return p.DiscountPrice
	}
	return p.UnitPrice
}

// Deal представляет акционное предложение
type Deal struct {
	ID            int64
	Title         string
	Description   string
	ProductID     int64
	Price         decimal.Decimal
	DiscountPrice decimal.Decimal
	ExpiresAt     time.Time
}

// Supplier представляет поставщика
type Supplier struct {
	ID          int64
	Name        string
	Location    string
	Description string
	Rating      int
}
