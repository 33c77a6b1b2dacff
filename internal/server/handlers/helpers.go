package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"storeclient/pkg/api"
)

// contextKey тип для ключей контекста
type contextKey string

const (
	// UserIDKey ключ для хранения user_id в контексте
	UserIDKey contextKey = "user_id"
	// UsernameKey ключ для хранения username в контексте
	UsernameKey contextKey = "username"
)

// GetUserID извлекает user_id из контекста запроса
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUsername извлекает username из контекста запроса
func GetUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}

// sendJSON отправляет JSON ответ
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func sendError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   message,
		Message: http.StatusText(statusCode),
	}
	sendJSON(logger, w, resp, statusCode)
}

// authorizeUser проверяет, что user_id из запроса совпадает с субъектом
// токена. Чужие корзины и избранное недоступны даже с валидным токеном.
func authorizeUser(logger *slog.Logger, w http.ResponseWriter, r *http.Request, requestUserID string) bool {
	if requestUserID == "" {
		sendError(logger, w, "user_id is required", http.StatusBadRequest)
		return false
	}

	claimsUserID, ok := GetUserID(r.Context())
	if !ok || claimsUserID != requestUserID {
		logger.Warn("user_id mismatch",
			slog.String("requested", requestUserID))
		sendError(logger, w, "forbidden", http.StatusForbidden)
		return false
	}

	return true
}

// pathID извлекает числовой идентификатор из path parameter (Go 1.22+)
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
