package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeclient/internal/server/storage"
)

func TestStorage_CartLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	userID := createTestUser(t, store, "alice")

	// Пустая корзина
	lines, err := store.GetCartLines(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	// Добавляем товар 1 — строка создается с данными из каталога
	line, err := store.UpsertCartLine(ctx, userID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), line.ProductID)
	assert.Equal(t, int64(1), line.Quantity)
	assert.Equal(t, "Arabica beans 1kg", line.Name)
	assert.Equal(t, "18.50", line.UnitPrice.StringFixed(2))

	// Повторный upsert увеличивает количество
	line, err = store.UpsertCartLine(ctx, userID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), line.Quantity)

	// Абсолютное обновление
	line, err = store.SetCartLineQuantity(ctx, userID, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), line.Quantity)

	// Удаление
	require.NoError(t, store.DeleteCartLine(ctx, userID, 1))
	lines, err = store.GetCartLines(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestStorage_CartInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	userID := createTestUser(t, store, "alice")

	for _, id := range []int64{3, 1, 2} {
		_, err := store.UpsertCartLine(ctx, userID, id, 1)
		require.NoError(t, err)
	}

	lines, err := store.GetCartLines(ctx, userID)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, int64(3), lines[0].ProductID)
	assert.Equal(t, int64(1), lines[1].ProductID)
	assert.Equal(t, int64(2), lines[2].ProductID)
}

func TestStorage_CartErrors(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	userID := createTestUser(t, store, "alice")

	_, err := store.UpsertCartLine(ctx, userID, 9999, 1)
	assert.ErrorIs(t, err, storage.ErrProductNotFound)

	_, err = store.SetCartLineQuantity(ctx, userID, 1, 3)
	assert.ErrorIs(t, err, storage.ErrCartLineNotFound)

	err = store.DeleteCartLine(ctx, userID, 1)
	assert.ErrorIs(t, err, storage.ErrCartLineNotFound)
}

func TestStorage_CartIsolatedPerUser(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	alice := createTestUser(t, store, "alice")
	bob := createTestUser(t, store, "bob")

	_, err := store.UpsertCartLine(ctx, alice, 1, 2)
	require.NoError(t, err)

	lines, err := store.GetCartLines(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, lines)
}
