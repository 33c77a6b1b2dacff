package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"storeclient/internal/server/storage"
	"storeclient/pkg/api"
)

// FavoritesHandler обрабатывает запросы избранного
type FavoritesHandler struct {
	logger    *slog.Logger
	favorites storage.FavoritesStorage
}

// NewFavoritesHandler создает новый handler для избранного
func NewFavoritesHandler(logger *slog.Logger, favorites storage.FavoritesStorage) *FavoritesHandler {
	return &FavoritesHandler{
		logger:    logger,
		favorites: favorites,
	}
}

// List обрабатывает GET /api/v1/favorites?user_id=
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if !authorizeUser(h.logger, w, r, userID) {
		return
	}

	ids, err := h.favorites.ListFavorites(r.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list favorites", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if ids == nil {
		ids = []int64{}
	}
	sendJSON(h.logger, w, ids, http.StatusOK)
}

// Add обрабатывает POST /api/v1/favorites
func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req api.FavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !authorizeUser(h.logger, w, r, req.UserID) {
		return
	}
	if req.ProductID <= 0 {
		sendError(h.logger, w, "product_id is required", http.StatusBadRequest)
		return
	}

	if err := h.favorites.AddFavorite(r.Context(), req.UserID, req.ProductID); err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			sendError(h.logger, w, "product not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to add favorite", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Remove обрабатывает DELETE /api/v1/favorites/{id}?user_id=
func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r, "id")
	if !ok {
		sendError(h.logger, w, "invalid product id", http.StatusBadRequest)
		return
	}
	userID := r.URL.Query().Get("user_id")
	if !authorizeUser(h.logger, w, r, userID) {
		return
	}

	if err := h.favorites.RemoveFavorite(r.Context(), userID, productID); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to remove favorite", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
