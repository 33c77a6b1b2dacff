package models

import "github.com/shopspring/decimal"

// CartLine представляет одну позицию локального зеркала корзины.
// Идентичность позиции — ProductID. Позиция с Quantity == 0 не существует:
// ноль означает отсутствие, такая строка удаляется из зеркала.
type CartLine struct {
	ProductID     int64
	Name          string
	UnitPrice     decimal.Decimal
	DiscountPrice decimal.Decimal
	IsOnSale      bool
	ImageURL      string
	Quantity      int64
}

// EffectivePrice возвращает цену позиции с учетом акции
func (l CartLine) EffectivePrice() decimal.Decimal {
	if l.IsOnSale && l.DiscountPrice.IsPositive() {
		return l.DiscountPrice
	}
	return l.UnitPrice
}

// Subtotal возвращает стоимость позиции (цена × количество)
func (l CartLine) Subtotal() decimal.Decimal {
	return l.EffectivePrice().Mul(decimal.NewFromInt(l.Quantity))
}

// CartLines набор позиций корзины
type CartLines []CartLine

// Total возвращает сумму корзины. Аккумулятор десятичный,
// округление до двух знаков выполняется только при отображении.
func (ls CartLines) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range ls {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ItemCount возвращает суммарное количество единиц товара (для бейджа корзины)
func (ls CartLines) ItemCount() int64 {
	var count int64
	for _, l := range ls {
		count += l.Quantity
	}
	return count
}
