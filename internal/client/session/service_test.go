package session

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeclient/internal/client/storage"
	"storeclient/pkg/api"
)

type fakeAuthAPI struct {
	registerResp *api.TokenResponse
	loginResp    *api.TokenResponse
	err          error
}

func (f *fakeAuthAPI) Register(ctx context.Context, req api.RegisterRequest) (*api.TokenResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.registerResp, nil
}

func (f *fakeAuthAPI) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.loginResp, nil
}

type memSessionStore struct {
	session *storage.SessionData
	saveErr error
}

func (m *memSessionStore) SaveSession(ctx context.Context, s *storage.SessionData) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.session = s
	return nil
}

func (m *memSessionStore) GetSession(ctx context.Context) (*storage.SessionData, error) {
	if m.session == nil {
		return nil, storage.ErrSessionNotFound
	}
	return m.session, nil
}

func (m *memSessionStore) DeleteSession(ctx context.Context) error {
	if m.session == nil {
		return storage.ErrSessionNotFound
	}
	m.session = nil
	return nil
}

func newTestService(authAPI *fakeAuthAPI, store *memSessionStore) *Service {
	return NewService(authAPI, store, slog.New(slog.DiscardHandler))
}

func TestService_LoginSavesSession(t *testing.T) {
	ctx := context.Background()
	authAPI := &fakeAuthAPI{
		loginResp: &api.TokenResponse{
			AccessToken: "token-123",
			UserID:      "user-1",
			Username:    "alice",
			ExpiresIn:   3600,
		},
	}
	store := &memSessionStore{}
	svc := newTestService(authAPI, store)

	session, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, "alice", session.Username)
	assert.Equal(t, "token-123", session.AccessToken)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	// Сессия действительно сохранена в хранилище
	require.NotNil(t, store.session)
	assert.Equal(t, "token-123", store.session.AccessToken)
}

func TestService_RegisterSavesSession(t *testing.T) {
	ctx := context.Background()
	authAPI := &fakeAuthAPI{
		registerResp: &api.TokenResponse{
			AccessToken: "token-456",
			UserID:      "user-2",
			Username:    "bob",
			ExpiresIn:   3600,
		},
	}
	store := &memSessionStore{}
	svc := newTestService(authAPI, store)

	session, err := svc.Register(ctx, "bob", "password123")
	require.NoError(t, err)
	assert.Equal(t, "user-2", session.UserID)
	require.NotNil(t, store.session)
}

func TestService_ValidatesCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&fakeAuthAPI{}, &memSessionStore{})

	_, err := svc.Login(ctx, "", "password123")
	require.Error(t, err)

	_, err = svc.Login(ctx, "alice", "short")
	require.Error(t, err)

	_, err = svc.Register(ctx, "alice", "short")
	require.Error(t, err)
}

func TestService_LoginFailureDoesNotSave(t *testing.T) {
	ctx := context.Background()
	authAPI := &fakeAuthAPI{err: errors.New("invalid credentials")}
	store := &memSessionStore{}
	svc := newTestService(authAPI, store)

	_, err := svc.Login(ctx, "alice", "password123")
	require.Error(t, err)
	assert.Nil(t, store.session)
}

func TestService_Current(t *testing.T) {
	ctx := context.Background()
	store := &memSessionStore{}
	svc := newTestService(&fakeAuthAPI{}, store)

	// Сессии нет
	_, err := svc.Current(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	// Живая сессия
	store.session = &storage.SessionData{
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	session, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)

	// Истекшая сессия
	store.session.ExpiresAt = time.Now().Add(-time.Minute)
	_, err = svc.Current(ctx)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()
	store := &memSessionStore{session: &storage.SessionData{UserID: "user-1"}}
	svc := newTestService(&fakeAuthAPI{}, store)

	require.NoError(t, svc.Logout(ctx))
	assert.Nil(t, store.session)

	// Повторный logout без сессии не ошибка
	require.NoError(t, svc.Logout(ctx))
}
