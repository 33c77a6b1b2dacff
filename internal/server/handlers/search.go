package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"storeclient/internal/server/storage"
	"storeclient/pkg/api"
)

const (
	defaultSearchLimit = 12
	maxSearchLimit     = 100
)

// SearchHandler обрабатывает поисковые запросы
type SearchHandler struct {
	logger  *slog.Logger
	catalog storage.CatalogStorage
}

// NewSearchHandler создает новый handler для поиска
func NewSearchHandler(logger *slog.Logger, catalog storage.CatalogStorage) *SearchHandler {
	return &SearchHandler{
		logger:  logger,
		catalog: catalog,
	}
}

// Search обрабатывает GET /api/v1/search?q=&page=&limit=.
// Пагинация применяется только к товарам: акции и поставщики
// возвращаются целиком, их счет идет на единицы.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	term := r.URL.Query().Get("q")
	if term == "" {
		sendError(h.logger, w, "q is required", http.StatusBadRequest)
		return
	}

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(r, "limit", defaultSearchLimit)
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	products, total, err := h.catalog.SearchProducts(ctx, term, page, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "product search failed", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	deals, err := h.catalog.SearchDeals(ctx, term)
	if err != nil {
		h.logger.ErrorContext(ctx, "deal search failed", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	suppliers, err := h.catalog.SearchSuppliers(ctx, term)
	if err != nil {
		h.logger.ErrorContext(ctx, "supplier search failed", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	results := api.SearchResults{
		Products: api.ProductPage{
			Items:      make([]api.Product, 0, len(products)),
			Page:       page,
			TotalPages: (total + limit - 1) / limit,
			TotalItems: total,
		},
		Deals:     make([]api.Deal, 0, len(deals)),
		Suppliers: make([]api.Supplier, 0, len(suppliers)),
	}
	for _, p := range products {
		results.Products.Items = append(results.Products.Items, productToAPI(p))
	}
	for _, d := range deals {
		results.Deals = append(results.Deals, dealToAPI(d))
	}
	for _, s := range suppliers {
		results.Suppliers = append(results.Suppliers, supplierToAPI(s))
	}

	sendJSON(h.logger, w, api.SearchResponse{Results: results}, http.StatusOK)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
