package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeclient/internal/models"
	"storeclient/pkg/api"
)

// fakeCartAPI эмулирует серверную корзину: хранит позиции, применяет
// дельты и абсолютные обновления, умеет отказывать по флагам и
// блокировать upsert для проверки busy-гварда.
type fakeCartAPI struct {
	mu       sync.Mutex
	products map[int64]api.CartLine // каталог-шаблон для новых позиций
	lines    map[int64]api.CartLine
	order    []int64

	failUpsert bool
	failUpdate bool
	emptyFetch bool // fetch возвращает пустую корзину вне зависимости от lines

	fetchCalls  int
	upsertCalls int
	updateCalls int
	removeCalls int

	blockUpsert   chan struct{} // если не nil, upsert ждет закрытия канала
	upsertStarted chan struct{} // если не nil, закрывается при входе в upsert
}

func newFakeCartAPI() *fakeCartAPI {
	return &fakeCartAPI{
		products: make(map[int64]api.CartLine),
		lines:    make(map[int64]api.CartLine),
	}
}

func (f *fakeCartAPI) addProduct(id int64, name, price string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[id] = api.CartLine{
		ProductID: id,
		Name:      name,
		UnitPrice: decimal.RequireFromString(price),
	}
}

func (f *fakeCartAPI) FetchCart(ctx context.Context, userID string) ([]api.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.emptyFetch {
		return nil, nil
	}
	result := make([]api.CartLine, 0, len(f.order))
	for _, id := range f.order {
		result = append(result, f.lines[id])
	}
	return result, nil
}

func (f *fakeCartAPI) UpsertCartLine(ctx context.Context, userID string, productID, quantity int64) (*api.CartLine, error) {
	f.mu.Lock()
	f.upsertCalls++
	started := f.upsertStarted
	block := f.blockUpsert
	f.upsertStarted = nil
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpsert {
		return nil, errors.New("upsert rejected")
	}
	line, ok := f.lines[productID]
	if !ok {
		line = f.products[productID]
		line.ProductID = productID
		f.order = append(f.order, productID)
	}
	line.Quantity += quantity
	f.lines[productID] = line
	return &line, nil
}

func (f *fakeCartAPI) UpdateCartLine(ctx context.Context, userID string, productID, quantity int64) (*api.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.failUpdate {
		return nil, errors.New("update rejected")
	}
	line, ok := f.lines[productID]
	if !ok {
		return nil, errors.New("no such line")
	}
	line.Quantity = quantity
	f.lines[productID] = line
	return &line, nil
}

func (f *fakeCartAPI) RemoveCartLine(ctx context.Context, userID string, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeCalls++
	delete(f.lines, productID)
	for i, id := range f.order {
		if id == productID {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeCartAPI) serverLines() []api.CartLine {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]api.CartLine, 0, len(f.order))
	for _, id := range f.order {
		result = append(result, f.lines[id])
	}
	return result
}

func testProduct(id int64, price string) models.Product {
	return models.Product{
		ID:        id,
		Name:      "product",
		UnitPrice: decimal.RequireFromString(price),
	}
}

// TestCartEngine_Scenario прогоняет сквозной сценарий жизни корзины:
// добавление, рост количества, уменьшение и схлопывание в удаление.
func TestCartEngine_Scenario(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCartAPI()
	fake.addProduct(7, "product", "10.00")
	engine := NewCartEngine(fake, "user-123", testLogger())

	// Пустая корзина → добавляем товар 7 по цене 10
	require.NoError(t, engine.AddOrIncrease(ctx, testProduct(7, "10.00")))
	lines := engine.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(7), lines[0].ProductID)
	assert.Equal(t, int64(1), lines[0].Quantity)
	assert.Equal(t, "10.00", engine.Total().StringFixed(2))

	// Увеличение → количество 2
	require.NoError(t, engine.Increase(ctx, 7))
	lines = engine.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].Quantity)
	assert.Equal(t, "20.00", engine.Total().StringFixed(2))

	// Уменьшение → количество 1
	require.NoError(t, engine.Decrease(ctx, 7))
	lines = engine.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(1), lines[0].Quantity)

	// Уменьшение при количестве 1 → позиция исчезает, не остается с нулем
	require.NoError(t, engine.Decrease(ctx, 7))
	assert.Empty(t, engine.Lines())
	assert.Equal(t, "0.00", engine.Total().StringFixed(2))

	// Decrease при количестве 1 должен был уйти как DELETE, не как PUT
	assert.Equal(t, 1, fake.removeCalls)
	assert.Equal(t, 1, fake.updateCalls)
}

// TestCartEngine_BusyGuard: два increase подряд до завершения первого
// сетевого вызова дают ровно один запрос; второй отклоняется с ErrBusy.
func TestCartEngine_BusyGuard(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCartAPI()
	fake.addProduct(7, "product", "10.00")
	engine := NewCartEngine(fake, "user-123", testLogger())

	started := make(chan struct{})
	release := make(chan struct{})
	fake.mu.Lock()
	fake.upsertStarted = started
	fake.blockUpsert = release
	fake.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- engine.Increase(ctx, 7)
	}()

	<-started
	err := engine.Increase(ctx, 7)
	require.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, 1, fake.upsertCalls)
}

// TestCartEngine_IdempotentReconciliation: после череды мутаций и
// согласующего Refresh зеркало в точности равно серверному набору строк,
// без остатков оптимистичных артефактов.
func TestCartEngine_IdempotentReconciliation(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCartAPI()
	fake.addProduct(1, "one", "2.50")
	fake.addProduct(2, "two", "4.00")
	engine := NewCartEngine(fake, "user-123", testLogger())

	require.NoError(t, engine.AddOrIncrease(ctx, testProduct(1, "2.50")))
	require.NoError(t, engine.AddOrIncrease(ctx, testProduct(2, "4.00")))
	require.NoError(t, engine.Increase(ctx, 1))
	require.NoError(t, engine.Remove(ctx, 2))
	require.NoError(t, engine.Refresh(ctx))

	server := fake.serverLines()
	mirror := engine.Lines()
	require.Len(t, mirror, len(server))
	for i, sl := range server {
		assert.Equal(t, sl.ProductID, mirror[i].ProductID)
		assert.Equal(t, sl.Quantity, mirror[i].Quantity)
	}
	assert.Equal(t, "5.00", engine.Total().StringFixed(2))
}

// TestCartEngine_FailureRefetchesTruth: отказ мутации откатывает зеркало
// повторной загрузкой серверной истины, а не ручной инверсией.
func TestCartEngine_FailureRefetchesTruth(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCartAPI()
	fake.addProduct(7, "product", "10.00")
	engine := NewCartEngine(fake, "user-123", testLogger())

	require.NoError(t, engine.AddOrIncrease(ctx, testProduct(7, "10.00")))
	require.NoError(t, engine.Increase(ctx, 7)) // серверное количество 2

	fake.mu.Lock()
	fake.failUpdate = true
	fake.mu.Unlock()

	// Decrease упадет на сетевом вызове, оптимистичный минус откатится
	err := engine.Decrease(ctx, 7)
	require.Error(t, err)

	lines := engine.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].Quantity, "mirror must match server truth after failed mutation")
}

func TestCartEngine_FailedAddRollsBackOptimisticLine(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCartAPI()
	fake.failUpsert = true
	engine := NewCartEngine(fake, "user-123", testLogger())

	err := engine.AddOrIncrease(ctx, testProduct(7, "10.00"))
	require.Error(t, err)

	// Оптимистичная строка не должна пережить откат
	assert.Empty(t, engine.Lines())
	assert.Equal(t, "0.00", engine.Total().StringFixed(2))
}

func TestCartEngine_ActiveItem(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCartAPI()
	fake.addProduct(7, "product", "10.00")
	engine := NewCartEngine(fake, "user-123", testLogger())

	require.NoError(t, engine.AddOrIncrease(ctx, testProduct(7, "10.00")))

	active, ok := engine.ActiveItem()
	require.True(t, ok)
	assert.Equal(t, int64(7), active.ProductID)

	// Удаление активной позиции снимает подсветку
	require.NoError(t, engine.Remove(ctx, 7))
	_, ok = engine.ActiveItem()
	assert.False(t, ok)
}

// TestCartEngine_SyntheticLineRepair: если согласованное зеркало вдруг
// не содержит только что добавленный товар, движок вставляет синтетическую
// строку из исходных метаданных и серверного количества.
func TestCartEngine_SyntheticLineRepair(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCartAPI()
	fake.addProduct(7, "Arabica beans", "10.00")
	fake.emptyFetch = true // upsert удается, но перечитанная корзина "пуста"
	engine := NewCartEngine(fake, "user-123", testLogger())

	p := models.Product{
		ID:        7,
		Name:      "Arabica beans",
		UnitPrice: decimal.RequireFromString("10.00"),
	}
	require.NoError(t, engine.AddOrIncrease(ctx, p))

	active, ok := engine.ActiveItem()
	require.True(t, ok, "synthetic line must be inserted and marked active")
	assert.Equal(t, "Arabica beans", active.Name)
	assert.Equal(t, int64(7), active.ProductID)
	assert.Equal(t, int64(1), active.Quantity)
	assert.Equal(t, "10.00", engine.Total().StringFixed(2))
}

func TestCartEngine_DecreaseMissingLine(t *testing.T) {
	ctx := context.Background()
	engine := NewCartEngine(newFakeCartAPI(), "user-123", testLogger())

	err := engine.Decrease(ctx, 99)
	require.Error(t, err)
}

func TestCartEngine_AddInvalidProduct(t *testing.T) {
	ctx := context.Background()
	engine := NewCartEngine(newFakeCartAPI(), "user-123", testLogger())

	err := engine.AddOrIncrease(ctx, models.Product{ID: 0})
	require.Error(t, err)
}
