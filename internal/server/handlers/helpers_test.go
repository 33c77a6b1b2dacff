package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// testLogger направляет вывод логгера в журнал теста
func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, nil))
}

type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

// authenticate кладет claims в контекст запроса, как это делает auth middleware
func authenticate(r *http.Request, userID, username string) *http.Request {
	ctx := context.WithValue(r.Context(), UserIDKey, userID)
	ctx = context.WithValue(ctx, UsernameKey, username)
	return r.WithContext(ctx)
}

func TestAuthorizeUser(t *testing.T) {
	logger := testLogger(t)

	t.Run("matching user", func(t *testing.T) {
		req := authenticate(httptest.NewRequest(http.MethodGet, "/", nil), "user-1", "alice")
		rec := httptest.NewRecorder()

		assert.True(t, authorizeUser(logger, rec, req, "user-1"))
	})

	t.Run("empty user_id", func(t *testing.T) {
		req := authenticate(httptest.NewRequest(http.MethodGet, "/", nil), "user-1", "alice")
		rec := httptest.NewRecorder()

		assert.False(t, authorizeUser(logger, rec, req, ""))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("foreign user_id", func(t *testing.T) {
		req := authenticate(httptest.NewRequest(http.MethodGet, "/", nil), "user-1", "alice")
		rec := httptest.NewRecorder()

		assert.False(t, authorizeUser(logger, rec, req, "user-2"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no claims in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		assert.False(t, authorizeUser(logger, rec, req, "user-1"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestPathID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/42", nil)
	req.SetPathValue("id", "42")

	id, ok := pathID(req, "id")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	req.SetPathValue("id", "abc")
	_, ok = pathID(req, "id")
	assert.False(t, ok)

	req.SetPathValue("id", "0")
	_, ok = pathID(req, "id")
	assert.False(t, ok)

	req.SetPathValue("id", "-5")
	_, ok = pathID(req, "id")
	assert.False(t, ok)
}
