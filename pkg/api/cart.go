package api

import "github.com/shopspring/decimal"

// CartLine представляет одну позицию корзины в API формате.
// Сервер возвращает позиции уже соединенными с метаданными товара,
// чтобы клиент мог отрисовать корзину без дополнительных запросов.
type CartLine struct {
	ProductID     int64           `json:"product_id"`
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	DiscountPrice decimal.Decimal `json:"discount_price"`
	IsOnSale      bool            `json:"is_on_sale"`
	ImageURL      string          `json:"image_url"`
	Quantity      int64           `json:"quantity"`
}

// UpsertCartLineRequest представляет запрос POST /api/v1/cart.
// Quantity трактуется как дельта: существующая позиция увеличивается,
// отсутствующая создается.
type UpsertCartLineRequest struct {
	UserID    string `json:"user_id"`
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// UpdateCartLineRequest представляет запрос PUT /api/v1/cart/{productID}.
// Quantity здесь абсолютное новое значение, не дельта.
type UpdateCartLineRequest struct {
	Quantity int64 `json:"quantity"`
}
