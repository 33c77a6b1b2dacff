package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"storeclient/internal/models"
	"storeclient/internal/server/storage"
	"storeclient/pkg/api"
)

// CartHandler обрабатывает запросы корзины
type CartHandler struct {
	logger *slog.Logger
	carts  storage.CartStorage
}

// NewCartHandler создает новый handler для корзины
func NewCartHandler(logger *slog.Logger, carts storage.CartStorage) *CartHandler {
	return &CartHandler{
		logger: logger,
		carts:  carts,
	}
}

// GetCart обрабатывает GET /api/v1/cart?user_id=
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if !authorizeUser(h.logger, w, r, userID) {
		return
	}

	lines, err := h.carts.GetCartLines(r.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get cart", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	apiLines := make([]api.CartLine, 0, len(lines))
	for _, line := range lines {
		apiLines = append(apiLines, cartLineToAPI(line))
	}
	sendJSON(h.logger, w, apiLines, http.StatusOK)
}

// UpsertLine обрабатывает POST /api/v1/cart.
// Quantity в теле — положительная дельта, не абсолютное значение.
func (h *CartHandler) UpsertLine(w http.ResponseWriter, r *http.Request) {
	var req api.UpsertCartLineRequest
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
	if req.Quantity <= 0 {
		sendError(h.logger, w, "quantity must be positive", http.StatusBadRequest)
		return
	}

	line, err := h.carts.UpsertCartLine(r.Context(), req.UserID, req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			sendError(h.logger, w, "product not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to upsert cart line", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, cartLineToAPI(*line), http.StatusOK)
}

// UpdateLine обрабатывает PUT /api/v1/cart/{id}?user_id=.
// Quantity в теле — абсолютное новое количество, минимум 1:
// позиция с нулевым количеством не обновляется, а удаляется.
func (h *CartHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r, "id")
	if !ok {
		sendError(h.logger, w, "invalid product id", http.StatusBadRequest)
		return
	}
	userID := r.URL.Query().Get("user_id")
	if !authorizeUser(h.logger, w, r, userID) {
		return
	}

	var req api.UpdateCartLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Quantity < 1 {
		sendError(h.logger, w, "quantity must be at least 1", http.StatusBadRequest)
		return
	}

	line, err := h.carts.SetCartLineQuantity(r.Context(), userID, productID, req.Quantity)
	if err != nil {
		if errors.Is(err, storage.ErrCartLineNotFound) {
			sendError(h.logger, w, "cart line not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to update cart line", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, cartLineToAPI(*line), http.StatusOK)
}

// DeleteLine обрабатывает DELETE /api/v1/cart/{id}?user_id=
func (h *CartHandler) DeleteLine(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r, "id")
	if !ok {
		sendError(h.logger, w, "invalid product id", http.StatusBadRequest)
		return
	}
	userID := r.URL.Query().Get("user_id")
	if !authorizeUser(h.logger, w, r, userID) {
		return
	}

	if err := h.carts.DeleteCartLine(r.Context(), userID, productID); err != nil {
		if errors.Is(err, storage.ErrCartLineNotFound) {
			sendError(h.logger, w, "cart line not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to delete cart line", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func cartLineToAPI(line models.CartLine) api.CartLine {
	return api.CartLine{
		ProductID:     line.ProductID,
		Name:          line.Name,
		UnitPrice:     line.UnitPrice,
		DiscountPrice: line.DiscountPrice,
		IsOnSale:      line.IsOnSale,
		ImageURL:      line.ImageURL,
		Quantity:      line.Quantity,
	}
}
