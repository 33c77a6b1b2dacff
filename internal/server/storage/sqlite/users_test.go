package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeclient/internal/models"
	"storeclient/internal/server/storage"
)

func TestStorage_CreateAndGetUser(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	user := &models.User{
		ID:           "user-id-1",
		Username:     "alice",
		PasswordHash: "$2a$10$somehash",
		CreatedAt:    time.Now(),
	}

	require.NoError(t, store.CreateUser(ctx, user))

	got, err := store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Username, got.Username)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
}

func TestStorage_CreateUserDuplicate(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	createTestUser(t, store, "alice")

	err := store.CreateUser(ctx, &models.User{
		ID:           "other-id",
		Username:     "alice",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	})
	assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)
}

func TestStorage_GetUserNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	_, err := store.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}
