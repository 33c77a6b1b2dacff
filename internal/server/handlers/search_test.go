package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeclient/internal/models"
	"storeclient/internal/server/storage"
	"storeclient/pkg/api"
)

// fakeCatalogStorage реализует storage.CatalogStorage в памяти
type fakeCatalogStorage struct {
	products  []models.Product
	deals     []models.Deal
	suppliers []models.Supplier

	lastPage  int
	lastLimit int
}

func (s *fakeCatalogStorage) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, storage.ErrProductNotFound
}

func (s *fakeCatalogStorage) GetDeal(_ context.Context, id int64) (*models.Deal, error) {
	for _, d := range s.deals {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, storage.ErrDealNotFound
}

func (s *fakeCatalogStorage) GetSupplier(_ context.Context, id int64) (*models.Supplier, error) {
	for _, sup := range s.suppliers {
		if sup.ID == id {
			return &sup, nil
		}
	}
	return nil, storage.ErrSupplierNotFound
}

func (s *fakeCatalogStorage) SearchProducts(_ context.Context, term string, page, limit int) ([]models.Product, int, error) {
	s.lastPage = page
	s.lastLimit = limit

	var matched []models.Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(term)) {
			matched = append(matched, p)
		}
	}
	total := len(matched)

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *fakeCatalogStorage) SearchDeals(_ context.Context, term string) ([]models.Deal, error) {
	var matched []models.Deal
	for _, d := range s.deals {
		if strings.Contains(strings.ToLower(d.Title), strings.ToLower(term)) {
			matched = append(matched, d)
		}
	}
	return matched, nil
}

func (s *fakeCatalogStorage) SearchSuppliers(_ context.Context, term string) ([]models.Supplier, error) {
	var matched []models.Supplier
	for _, sup := range s.suppliers {
		if strings.Contains(strings.ToLower(sup.Name), strings.ToLower(term)) {
			matched = append(matched, sup)
		}
	}
	return matched, nil
}

func testCatalog() *fakeCatalogStorage {
	return &fakeCatalogStorage{
		products: []models.Product{
			{ID: 1, Name: "Arabica beans 1kg", UnitPrice: decimal.RequireFromString("18.50")},
			{ID: 2, Name: "Robusta beans 1kg", UnitPrice: decimal.RequireFromString("14.00")},
		},
		deals: []models.Deal{
			{ID: 1, Title: "Coffee beans week", ProductID: 2},
		},
		suppliers: []models.Supplier{
			{ID: 1, Name: "Highland Coffee Co", Rating: 5},
		},
	}
}

func TestSearchHandler_Search(t *testing.T) {
	catalog := testCatalog()
	handler := NewSearchHandler(testLogger(t), catalog)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=beans", nil)
	rec := httptest.NewRecorder()

	handler.Search(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.SearchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.Len(t, resp.Results.Products.Items, 2)
	assert.Equal(t, 1, resp.Results.Products.Page)
	assert.Equal(t, 1, resp.Results.Products.TotalPages)
	assert.Equal(t, 2, resp.Results.Products.TotalItems)
	require.Len(t, resp.Results.Deals, 1)
	assert.Equal(t, "Coffee beans week", resp.Results.Deals[0].Title)
	assert.Empty(t, resp.Results.Suppliers)

	// Значения по умолчанию
	assert.Equal(t, 1, catalog.lastPage)
	assert.Equal(t, defaultSearchLimit, catalog.lastLimit)
}

func TestSearchHandler_MissingTerm(t *testing.T) {
	handler := NewSearchHandler(testLogger(t), testCatalog())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	rec := httptest.NewRecorder()

	handler.Search(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "q is required")
}

func TestSearchHandler_Pagination(t *testing.T) {
	catalog := testCatalog()
	handler := NewSearchHandler(testLogger(t), catalog)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=beans&page=2&limit=1", nil)
	rec := httptest.NewRecorder()

	handler.Search(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.SearchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	require.Len(t, resp.Results.Products.Items, 1)
	assert.Equal(t, "Robusta beans 1kg", resp.Results.Products.Items[0].Name)
	assert.Equal(t, 2, resp.Results.Products.Page)
	assert.Equal(t, 2, resp.Results.Products.TotalPages)
	assert.Equal(t, 2, resp.Results.Products.TotalItems)
}

func TestSearchHandler_ParamClamping(t *testing.T) {
	catalog := testCatalog()
	handler := NewSearchHandler(testLogger(t), catalog)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=beans&page=-1&limit=100000", nil)
	rec := httptest.NewRecorder()

	handler.Search(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, catalog.lastPage)
	assert.Equal(t, maxSearchLimit, catalog.lastLimit)
}

func TestSearchHandler_NoMatches(t *testing.T) {
	handler := NewSearchHandler(testLogger(t), testCatalog())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=zzzzz", nil)
	rec := httptest.NewRecorder()

	handler.Search(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.SearchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	// Пустой результат это валидный settled-ответ, не ошибка
	assert.NotNil(t, resp.Results.Products.Items)
	assert.Empty(t, resp.Results.Products.Items)
	assert.Equal(t, 0, resp.Results.Products.TotalItems)
	assert.Empty(t, resp.Results.Deals)
	assert.Empty(t, resp.Results.Suppliers)
}
