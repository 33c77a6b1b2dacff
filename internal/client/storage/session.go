package storage

import (
	"context"
	"time"
)

// SessionStorage описывает локальное хранилище сессии клиента.
// Хранится ровно одна текущая сессия; повторный Login перезаписывает ее.
type SessionStorage interface {
	// SaveSession сохраняет данные сессии, затирая предыдущие
	SaveSession(ctx context.Context, session *SessionData) error

	// GetSession возвращает сохраненную сессию.
	// Возвращает ErrSessionNotFound, если сессии нет.
	GetSession(ctx context.Context) (*SessionData, error)

	// DeleteSession удаляет сохраненную сессию (logout)
	DeleteSession(ctx context.Context) error
}

// SessionData данные авторизованной сессии пользователя
type SessionData struct {
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired сообщает, истек ли токен сессии
func (s *SessionData) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
