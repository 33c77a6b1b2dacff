package state

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"storeclient/internal/models"
	"storeclient/pkg/api"
)

//go:generate moq -out cart_api_mock.go . CartAPI

// CartAPI описывает сетевые вызовы, которые нужны движку корзины
type CartAPI interface {
	FetchCart(ctx context.Context, userID string) ([]api.CartLine, error)
	UpsertCartLine(ctx context.Context, userID string, productID, quantity int64) (*api.CartLine, error)
	UpdateCartLine(ctx context.Context, userID string, productID, quantity int64) (*api.CartLine, error)
	RemoveCartLine(ctx context.Context, userID string, productID int64) error
}

// CartEngine поддерживает локальное зеркало корзины пользователя.
// Сервер — источник истины; зеркало — кэш, который заменяется целиком
// после каждой подтвержденной мутации. Любой отказ сетевого вызова
// приводит к повторной загрузке серверного состояния, а не к ручному
// обратному вычислению: лишний round trip в обмен на гарантию,
// что зеркало не разойдется с сервером.
type CartEngine struct {
	api       CartAPI
	mutations *MutationEngine
	logger    *slog.Logger
	userID    string

	mu       sync.RWMutex
	lines    map[int64]models.CartLine
	order    []int64 // стабильный порядок отображения позиций
	activeID int64   // товар для transient-подсветки в UI, 0 = нет

	// refreshMu сериализует согласующие перезагрузки: два отказа по разным
	// ключам могут одновременно запросить re-fetch, но сами загрузки идут
	// по очереди и каждая заменяет зеркало целиком.
	refreshMu sync.Mutex
}

// NewCartEngine создает движок корзины для пользователя userID
func NewCartEngine(cartAPI CartAPI, userID string, logger *slog.Logger) *CartEngine {
	return &CartEngine{
		api:       cartAPI,
		mutations: NewMutationEngine(logger),
		logger:    logger,
		userID:    userID,
		lines:     make(map[int64]models.CartLine),
	}
}

func cartKey(productID int64) string {
	return strconv.FormatInt(productID, 10)
}

// AddOrIncrease добавляет товар в корзину или увеличивает количество на 1.
// Оптимистичная позиция строится из метаданных товара, уже имеющихся
// на клиенте, поэтому UI может отрисовать ее до подтверждения сервером.
func (e *CartEngine) AddOrIncrease(ctx context.Context, p models.Product) error {
	if p.ID <= 0 {
		return fmt.Errorf("invalid product id: %d", p.ID)
	}

	var upserted *api.CartLine
	return e.mutations.Mutate(ctx, cartKey(p.ID), Mutation{
		Apply: func() {
			e.applyIncrease(p.ID, lineFromProduct(p))
		},
		Call: func(ctx context.Context) error {
			line, err := e.api.UpsertCartLine(ctx, e.userID, p.ID, 1)
			upserted = line
			return err
		},
		Reconcile: func(ctx context.Context) error {
			if err := e.Refresh(ctx); err != nil {
				return err
			}
			e.markActive(p, upserted)
			return nil
		},
		Rollback: e.Refresh,
	})
}

// Increase увеличивает количество позиции на 1. Если позиции нет,
// она защитно создается с количеством 1 — серверный upsert ведет себя
// так же, а последующий Refresh в любом случае выровняет зеркало.
func (e *CartEngine) Increase(ctx context.Context, productID int64) error {
	return e.mutations.Mutate(ctx, cartKey(productID), Mutation{
		Apply: func() {
			e.applyIncrease(productID, models.CartLine{ProductID: productID, Quantity: 0})
		},
		Call: func(ctx context.Context) error {
			_, err := e.api.UpsertCartLine(ctx, e.userID, productID, 1)
			return err
		},
		Reconcile: e.Refresh,
		Rollback:  e.Refresh,
	})
}

// Decrease уменьшает количество позиции на 1. Количество не может стать
// нулевым при живой позиции: ноль означает отсутствие, поэтому decrease
// на позиции с количеством 1 вырождается в Remove.
func (e *CartEngine) Decrease(ctx context.Context, productID int64) error {
	e.mu.RLock()
	line, ok := e.lines[productID]
	e.mu.RUnlock()

	if !ok {
		return fmt.Errorf("cart line for product %d not found", productID)
	}
	if line.Quantity <= 1 {
		return e.Remove(ctx, productID)
	}

	var newQuantity int64
	return e.mutations.Mutate(ctx, cartKey(productID), Mutation{
		Apply: func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			l, ok := e.lines[productID]
			if !ok {
				return
			}
			l.Quantity--
			newQuantity = l.Quantity
			e.lines[productID] = l
		},
		Call: func(ctx context.Context) error {
			// Сервер принимает абсолютное новое количество, не дельту
			_, err := e.api.UpdateCartLine(ctx, e.userID, productID, newQuantity)
			return err
		},
		Reconcile: e.Refresh,
		Rollback:  e.Refresh,
	})
}

// Remove удаляет позицию из корзины. После отказа сервера позиция могла
// как удалиться, так и остаться — узнать истину можно только повторной
// загрузкой, поэтому rollback здесь тоже Refresh.
func (e *CartEngine) Remove(ctx context.Context, productID int64) error {
	return e.mutations.Mutate(ctx, cartKey(productID), Mutation{
		Apply: func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			delete(e.lines, productID)
			e.order = removeID(e.order, productID)
			// Подсветка не должна ссылаться на удаленную позицию
			if e.activeID == productID {
				e.activeID = 0
			}
		},
		Call: func(ctx context.Context) error {
			return e.api.RemoveCartLine(ctx, e.userID, productID)
		},
		Reconcile: e.Refresh,
		Rollback:  e.Refresh,
	})
}

// Refresh заменяет локальное зеркало свежим серверным состоянием корзины
func (e *CartEngine) Refresh(ctx context.Context) error {
	e.refreshMu.Lock()
	defer e.refreshMu.Unlock()

	apiLines, err := e.api.FetchCart(ctx, e.userID)
	if err != nil {
		return fmt.Errorf("failed to refresh cart: %w", err)
	}

	lines := make(map[int64]models.CartLine, len(apiLines))
	order := make([]int64, 0, len(apiLines))
	for _, al := range apiLines {
		lines[al.ProductID] = lineFromAPI(al)
		order = append(order, al.ProductID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = lines
	e.order = order
	if _, ok := e.lines[e.activeID]; !ok {
		e.activeID = 0
	}
	return nil
}

// Lines возвращает снимок позиций корзины в порядке отображения
func (e *CartEngine) Lines() models.CartLines {
	e.mu.RLock()
	defer e.mu.RUnlock()

	result := make(models.CartLines, 0, len(e.order))
	for _, id := range e.order {
		if l, ok := e.lines[id]; ok {
			result = append(result, l)
		}
	}
	return result
}

// Total возвращает сумму корзины в точной десятичной арифметике
func (e *CartEngine) Total() decimal.Decimal {
	return e.Lines().Total()
}

// ItemCount возвращает суммарное количество единиц товара
func (e *CartEngine) ItemCount() int64 {
	return e.Lines().ItemCount()
}

// ActiveItem возвращает позицию, помеченную для transient-подсветки
func (e *CartEngine) ActiveItem() (models.CartLine, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	l, ok := e.lines[e.activeID]
	return l, ok
}

// applyIncrease применяет оптимистичное увеличение: существующая позиция
// получает +1, отсутствующая вставляется с количеством 1.
func (e *CartEngine) applyIncrease(productID int64, template models.CartLine) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if l, ok := e.lines[productID]; ok {
		l.Quantity++
		e.lines[productID] = l
		return
	}
	template.ProductID = productID
	template.Quantity = 1
	e.lines[productID] = template
	e.order = append(e.order, productID)
}

// markActive отмечает позицию товара p как "активную" после успешного
// добавления. Если согласованное зеркало неожиданно не содержит позицию,
// движок чинит разрыв синтетической строкой из исходных метаданных товара
// и серверного количества — это осознанный ремонт, а не отказ.
func (e *CartEngine) markActive(p models.Product, upserted *api.CartLine) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.lines[p.ID]; ok {
		e.activeID = p.ID
		return
	}

	quantity := int64(1)
	if upserted != nil {
		quantity = upserted.Quantity
	}
	synthetic := lineFromProduct(p)
	synthetic.Quantity = quantity

	e.logger.Warn("reconciled cart is missing just-added line, inserting synthetic line",
		"product_id", p.ID, "quantity", quantity)

	e.lines[p.ID] = synthetic
	e.order = append(e.order, p.ID)
	e.activeID = p.ID
}

func lineFromProduct(p models.Product) models.CartLine {
	return models.CartLine{
		ProductID:     p.ID,
		Name:          p.Name,
		UnitPrice:     p.UnitPrice,
		DiscountPrice: p.DiscountPrice,
		IsOnSale:      p.IsOnSale,
		ImageURL:      p.ImageURL,
		Quantity:      1,
	}
}

func lineFromAPI(l api.CartLine) models.CartLine {
	return models.CartLine{
		ProductID:     l.ProductID,
		Name:          l.Name,
		UnitPrice:     l.UnitPrice,
		DiscountPrice: l.DiscountPrice,
		IsOnSale:      l.IsOnSale,
		ImageURL:      l.ImageURL,
		Quantity:      l.Quantity,
	}
}

func removeID(ids []int64, id int64) []int64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
