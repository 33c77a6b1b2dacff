// Package session управляет локальной сессией пользователя: токен и
// идентификация сохраняются в клиентском хранилище между запусками.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"storeclient/internal/client/storage"
	"storeclient/pkg/api"
)

// ErrSessionExpired сообщает, что сохраненный токен истек и нужен повторный login
var ErrSessionExpired = errors.New("session expired")

// AuthAPI описывает вызовы сервера, нужные сервису сессии
type AuthAPI interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.TokenResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error)
}

// Service предоставляет функции авторизации
type Service struct {
	api    AuthAPI
	store  storage.SessionStorage
	logger *slog.Logger
}

// NewService создает новый сервис сессии
func NewService(authAPI AuthAPI, store storage.SessionStorage, logger *slog.Logger) *Service {
	return &Service{
		api:    authAPI,
		store:  store,
		logger: logger,
	}
}

// Register регистрирует нового пользователя и сохраняет полученную сессию
func (s *Service) Register(ctx context.Context, username, password string) (*storage.SessionData, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	resp, err := s.api.Register(ctx, api.RegisterRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	return s.saveSession(ctx, resp)
}

// Login выполняет аутентификацию пользователя и сохраняет сессию
func (s *Service) Login(ctx context.Context, username, password string) (*storage.SessionData, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	resp, err := s.api.Login(ctx, api.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	return s.saveSession(ctx, resp)
}

// Logout удаляет локальную сессию. Отсутствие сессии не считается ошибкой:
// результат в обоих случаях один — пользователь разлогинен.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.DeleteSession(ctx); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			s.logger.Debug("no session found during logout")
			return nil
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Current возвращает сохраненную сессию.
// Возвращает storage.ErrSessionNotFound, если сессии нет,
// и ErrSessionExpired, если токен истек.
func (s *Service) Current(ctx context.Context) (*storage.SessionData, error) {
	session, err := s.store.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if session.Expired() {
		return nil, ErrSessionExpired
	}
	return session, nil
}

func (s *Service) saveSession(ctx context.Context, resp *api.TokenResponse) (*storage.SessionData, error) {
	session := &storage.SessionData{
		UserID:      resp.UserID,
		Username:    resp.Username,
		AccessToken: resp.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}

	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

func validateCredentials(username, password string) error {
	if username == "" {
		return errors.New("username is required")
	}
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
