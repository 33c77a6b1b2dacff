package server

import (
	"log/slog"
	"net/http"
	"time"

	"storeclient/internal/server/handlers"
	"storeclient/internal/server/middleware"
	"storeclient/internal/server/storage"
)

// Config содержит конфигурацию HTTP сервера
type Config struct {
	JWT handlers.JWTConfig

	// Лимиты для rate limiting, запросов за минуту
	AuthRateLimit int
	APIRateLimit  int
}

// Storage объединяет все хранилища, нужные handlers
type Storage interface {
	storage.UserStorage
	storage.CatalogStorage
	storage.CartStorage
	storage.FavoritesStorage
	storage.OrderStorage
}

// NewRouter собирает все маршруты и middleware сервера
func NewRouter(logger *slog.Logger, store Storage, cfg Config) http.Handler {
	authHandler := handlers.NewAuthHandler(logger, store, cfg.JWT)
	catalogHandler := handlers.NewCatalogHandler(logger, store)
	searchHandler := handlers.NewSearchHandler(logger, store)
	cartHandler := handlers.NewCartHandler(logger, store)
	favoritesHandler := handlers.NewFavoritesHandler(logger, store)
	ordersHandler := handlers.NewOrdersHandler(logger, store)
	healthHandler := handlers.NewHealthHandler(logger)

	authLimit := middleware.RateLimitMiddleware(cfg.AuthRateLimit, time.Minute, logger)
	apiLimit := middleware.RateLimitMiddleware(cfg.APIRateLimit, time.Minute, logger)
	requireAuth := middleware.AuthMiddleware(logger, cfg.JWT)

	mux := http.NewServeMux()

	// Публичные endpoints
	mux.Handle("GET /api/v1/health", http.HandlerFunc(healthHandler.Health))
	mux.Handle("POST /api/v1/auth/register", authLimit(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/v1/auth/login", authLimit(http.HandlerFunc(authHandler.Login)))

	// Endpoints, требующие JWT
	protected := func(h http.HandlerFunc) http.Handler {
		return apiLimit(requireAuth(h))
	}

	mux.Handle("GET /api/v1/search", protected(searchHandler.Search))
	mux.Handle("GET /api/v1/products/{id}", protected(catalogHandler.GetProduct))
	mux.Handle("GET /api/v1/deals/{id}", protected(catalogHandler.GetDeal))
	mux.Handle("GET /api/v1/suppliers/{id}", protected(catalogHandler.GetSupplier))

	mux.Handle("GET /api/v1/cart", protected(cartHandler.GetCart))
	mux.Handle("POST /api/v1/cart", protected(cartHandler.UpsertLine))
	mux.Handle("PUT /api/v1/cart/{id}", protected(cartHandler.UpdateLine))
	mux.Handle("DELETE /api/v1/cart/{id}", protected(cartHandler.DeleteLine))

	mux.Handle("GET /api/v1/favorites", protected(favoritesHandler.List))
	mux.Handle("POST /api/v1/favorites", protected(favoritesHandler.Add))
	mux.Handle("DELETE /api/v1/favorites/{id}", protected(favoritesHandler.Remove))

	mux.Handle("POST /api/v1/orders", protected(ordersHandler.Create))

	// Внешние middleware применяются ко всем маршрутам
	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(logger)(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	return handler
}
