package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFavoritesAPI struct {
	mu  sync.Mutex
	ids map[int64]struct{}

	failAdd    bool
	failRemove bool

	addCalls    int
	removeCalls int

	blockAdd   chan struct{}
	addStarted chan struct{}
}

func newFakeFavoritesAPI() *fakeFavoritesAPI {
	return &fakeFavoritesAPI{ids: make(map[int64]struct{})}
}

func (f *fakeFavoritesAPI) ListFavorites(ctx context.Context, userID string) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int64, 0, len(f.ids))
	for id := range f.ids {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeFavoritesAPI) AddFavorite(ctx context.Context, userID string, productID int64) error {
	f.mu.Lock()
	f.addCalls++
	started := f.addStarted
	block := f.blockAdd
	f.addStarted = nil
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAdd {
		return errors.New("add rejected")
	}
	f.ids[productID] = struct{}{}
	return nil
}

func (f *fakeFavoritesAPI) RemoveFavorite(ctx context.Context, userID string, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeCalls++
	if f.failRemove {
		return errors.New("remove rejected")
	}
	delete(f.ids, productID)
	return nil
}

func TestFavoritesEngine_ToggleAddAndRemove(t *testing.T) {
	ctx := context.Background()
	fake := newFakeFavoritesAPI()
	engine := NewFavoritesEngine(fake, "user-123", testLogger())

	// Товара нет в избранном → toggle добавляет
	require.NoError(t, engine.Toggle(ctx, 7))
	assert.True(t, engine.IsFavorite(7))
	assert.Equal(t, 1, fake.addCalls)
	assert.Equal(t, 0, fake.removeCalls)

	// Товар в избранном → toggle удаляет
	require.NoError(t, engine.Toggle(ctx, 7))
	assert.False(t, engine.IsFavorite(7))
	assert.Equal(t, 1, fake.addCalls)
	assert.Equal(t, 1, fake.removeCalls)
}

// TestFavoritesEngine_RollbackRestoresExactSnapshot: при отказе сервера
// множество возвращается в точности к состоянию до переключения,
// включая не затронутые переключением элементы.
func TestFavoritesEngine_RollbackRestoresExactSnapshot(t *testing.T) {
	ctx := context.Background()
	fake := newFakeFavoritesAPI()
	engine := NewFavoritesEngine(fake, "user-123", testLogger())

	require.NoError(t, engine.Toggle(ctx, 1))
	require.NoError(t, engine.Toggle(ctx, 2))
	require.Equal(t, []int64{1, 2}, engine.IDs())

	fake.mu.Lock()
	fake.failAdd = true
	fake.mu.Unlock()

	err := engine.Toggle(ctx, 3)
	require.Error(t, err)

	assert.Equal(t, []int64{1, 2}, engine.IDs())
	assert.False(t, engine.IsFavorite(3))
}

func TestFavoritesEngine_FailedRemoveRestoresMembership(t *testing.T) {
	ctx := context.Background()
	fake := newFakeFavoritesAPI()
	engine := NewFavoritesEngine(fake, "user-123", testLogger())

	require.NoError(t, engine.Toggle(ctx, 7))

	fake.mu.Lock()
	fake.failRemove = true
	fake.mu.Unlock()

	err := engine.Toggle(ctx, 7)
	require.Error(t, err)

	// Оптимистичное удаление откатилось, товар снова в избранном
	assert.True(t, engine.IsFavorite(7))
}

// TestFavoritesEngine_BusyGuard: повторный toggle того же товара при
// незавершенном первом отклоняется, toggle другого товара проходит.
func TestFavoritesEngine_BusyGuard(t *testing.T) {
	ctx := context.Background()
	fake := newFakeFavoritesAPI()
	engine := NewFavoritesEngine(fake, "user-123", testLogger())

	started := make(chan struct{})
	release := make(chan struct{})
	fake.mu.Lock()
	fake.addStarted = started
	fake.blockAdd = release
	fake.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- engine.Toggle(ctx, 7)
	}()

	<-started
	err := engine.Toggle(ctx, 7)
	require.ErrorIs(t, err, ErrBusy)

	// Другой товар не заблокирован
	require.NoError(t, engine.Toggle(ctx, 8))

	close(release)
	require.NoError(t, <-done)

	assert.True(t, engine.IsFavorite(7))
	assert.True(t, engine.IsFavorite(8))
}

func TestFavoritesEngine_Refresh(t *testing.T) {
	ctx := context.Background()
	fake := newFakeFavoritesAPI()
	fake.ids[3] = struct{}{}
	fake.ids[5] = struct{}{}
	engine := NewFavoritesEngine(fake, "user-123", testLogger())

	require.NoError(t, engine.Refresh(ctx))

	assert.Equal(t, []int64{3, 5}, engine.IDs())
	assert.Equal(t, 2, engine.Count())
	assert.True(t, engine.IsFavorite(3))
	assert.False(t, engine.IsFavorite(4))
}
