package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storeclient/internal/models"
)

// newTestStorage создает in-memory хранилище с примененными миграциями
func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	store, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

// createTestUser регистрирует пользователя и возвращает его ID
func createTestUser(t *testing.T, store *Storage, username string) string {
	t.Helper()

	user := &models.User{
		ID:           "user-" + username,
		Username:     username,
		PasswordHash: "$2a$10$fakehashfortesting",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user.ID
}
