package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order представляет оформленный заказ
type Order struct {
	ID        string
	UserID    string
	Total     decimal.Decimal
	ItemCount int64
	CreatedAt time.Time
}

// OrderItem представляет позицию заказа. Цена фиксируется на момент
// оформления: последующие изменения каталога заказ не трогают.
type OrderItem struct {
	OrderID   string
	ProductID int64
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int64
}
