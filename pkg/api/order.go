package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest представляет запрос POST /api/v1/orders.
// Заказ собирается сервером из текущей корзины пользователя.
type CreateOrderRequest struct {
	UserID string `json:"user_id"`
}

// OrderResponse представляет созданный заказ
type OrderResponse struct {
	OrderID   string          `json:"order_id"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int64           `json:"item_count"`
	CreatedAt time.Time       `json:"created_at"`
}
