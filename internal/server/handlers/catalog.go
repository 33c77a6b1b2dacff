package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"storeclient/internal/models"
	"storeclient/internal/server/storage"
	"storeclient/pkg/api"
)

// CatalogHandler обрабатывает запросы карточек каталога
type CatalogHandler struct {
	logger  *slog.Logger
	catalog storage.CatalogStorage
}

// NewCatalogHandler создает новый handler для каталога
func NewCatalogHandler(logger *slog.Logger, catalog storage.CatalogStorage) *CatalogHandler {
	return &CatalogHandler{
		logger:  logger,
		catalog: catalog,
	}
}

// GetProduct обрабатывает GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendError(h.logger, w, "invalid product id", http.StatusBadRequest)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			sendError(h.logger, w, "product not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to get product", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, productToAPI(*product), http.StatusOK)
}

// GetDeal обрабатывает GET /api/v1/deals/{id}
func (h *CatalogHandler) GetDeal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendError(h.logger, w, "invalid deal id", http.StatusBadRequest)
		return
	}

	deal, err := h.catalog.GetDeal(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrDealNotFound) {
			sendError(h.logger, w, "deal not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to get deal", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, dealToAPI(*deal), http.StatusOK)
}

// GetSupplier обрабатывает GET /api/v1/suppliers/{id}
func (h *CatalogHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendError(h.logger, w, "invalid supplier id", http.StatusBadRequest)
		return
	}

	supplier, err := h.catalog.GetSupplier(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrSupplierNotFound) {
			sendError(h.logger, w, "supplier not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to get supplier", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, supplierToAPI(*supplier), http.StatusOK)
}

func productToAPI(p models.Product) api.Product {
	return api.Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		UnitPrice:     p.UnitPrice,
		DiscountPrice: p.DiscountPrice,
		IsOnSale:      p.IsOnSale,
		ImageURL:      p.ImageURL,
		SupplierID:    p.SupplierID,
	}
}

func dealToAPI(d models.Deal) api.Deal {
	return api.Deal{
		ID:            d.ID,
		Title:         d.Title,
		Description:   d.Description,
		ProductID:     d.ProductID,
		Price:         d.Price,
		DiscountPrice: d.DiscountPrice,
		ExpiresAt:     d.ExpiresAt,
	}
}

func supplierToAPI(s models.Supplier) api.Supplier {
	return api.Supplier{
		ID:          s.ID,
		Name:        s.Name,
		Location:    s.Location,
		Description: s.Description,
		Rating:      s.Rating,
	}
}
