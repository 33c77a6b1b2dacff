package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"storeclient/internal/server/storage"
	"storeclient/pkg/api"
)

// OrdersHandler обрабатывает оформление заказов
type OrdersHandler struct {
	logger *slog.Logger
	orders storage.OrderStorage
}

// NewOrdersHandler создает новый handler для заказов
func NewOrdersHandler(logger *slog.Logger, orders storage.OrderStorage) *OrdersHandler {
	return &OrdersHandler{
		logger: logger,
		orders: orders,
	}
}

// Create обрабатывает POST /api/v1/orders.
// Заказ собирается из текущей корзины пользователя; пустая корзина — конфликт.
func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !authorizeUser(h.logger, w, r, req.UserID) {
		return
	}

	order, err := h.orders.CreateOrderFromCart(r.Context(), uuid.New().String(), req.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrCartEmpty) {
			sendError(h.logger, w, "cart is empty", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to create order", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(r.Context(), "order created",
		slog.String("order_id", order.ID),
		slog.String("user_id", order.UserID),
		slog.String("total", order.Total.String()))

	resp := api.OrderResponse{
		OrderID:   order.ID,
		Total:     order.Total,
		ItemCount: order.ItemCount,
		CreatedAt: order.CreatedAt,
	}
	sendJSON(h.logger, w, resp, http.StatusCreated)
}
