package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"storeclient/pkg/api"
)

//go:generate moq -out client_mock.go . ClientAPI

// ClientAPI определяет интерфейс HTTP клиента витрины.
// Интерфейс нужен движкам состояния для подмены клиента в тестах.
type ClientAPI interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.TokenResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error)

	FetchCart(ctx context.Context, userID string) ([]api.CartLine, error)
	UpsertCartLine(ctx context.Context, userID string, productID, quantity int64) (*api.CartLine, error)
	UpdateCartLine(ctx context.Context, userID string, productID, quantity int64) (*api.CartLine, error)
	RemoveCartLine(ctx context.Context, userID string, productID int64) error

	ListFavorites(ctx context.Context, userID string) ([]int64, error)
	AddFavorite(ctx context.Context, userID string, productID int64) error
	RemoveFavorite(ctx context.Context, userID string, productID int64) error

	Search(ctx context.Context, term string, page, limit int) (*api.SearchResults, error)

	GetProduct(ctx context.Context, id int64) (*api.Product, error)
	GetDeal(ctx context.Context, id int64) (*api.Deal, error)
	GetSupplier(ctx context.Context, id int64) (*api.Supplier, error)

	CreateOrder(ctx context.Context, userID string) (*api.OrderResponse, error)
}

// Client представляет HTTP клиент для взаимодействия с API витрины.
// Клиент чистый I/O: выполняет запросы, разбирает JSON и нормализует ошибки,
// никакого состояния кроме токена авторизации не хранит.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authToken  string
}

var _ ClientAPI = (*Client)(nil)

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken устанавливает токен, который будет добавляться
// в заголовок Authorization всех последующих запросов
func (c *Client) SetToken(token string) {
	c.authToken = token
}

// Register регистрирует нового пользователя и возвращает токен сессии
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// FetchCart возвращает все позиции корзины пользователя
func (c *Client) FetchCart(ctx context.Context, userID string) ([]api.CartLine, error) {
	var lines []api.CartLine
	path := "/api/v1/cart?" + userQuery(userID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &lines); err != nil {
		return nil, fmt.Errorf("fetch cart failed: %w", err)
	}
	return lines, nil
}

// UpsertCartLine добавляет товар в корзину. Quantity — дельта:
// существующая позиция увеличивается, отсутствующая создается.
func (c *Client) UpsertCartLine(ctx context.Context, userID string, productID, quantity int64) (*api.CartLine, error) {
	req := api.UpsertCartLineRequest{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	var line api.CartLine
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/cart", req, &line); err != nil {
		return nil, fmt.Errorf("upsert cart line failed: %w", err)
	}
	return &line, nil
}

// UpdateCartLine устанавливает абсолютное количество для позиции корзины
func (c *Client) UpdateCartLine(ctx context.Context, userID string, productID, quantity int64) (*api.CartLine, error) {
	req := api.UpdateCartLineRequest{Quantity: quantity}
	path := fmt.Sprintf("/api/v1/cart/%d?%s", productID, userQuery(userID))
	var line api.CartLine
	if err := c.doRequest(ctx, http.MethodPut, path, req, &line); err != nil {
		return nil, fmt.Errorf("update cart line failed: %w", err)
	}
	return &line, nil
}

// RemoveCartLine удаляет позицию из корзины
func (c *Client) RemoveCartLine(ctx context.Context, userID string, productID int64) error {
	path := fmt.Sprintf("/api/v1/cart/%d?%s", productID, userQuery(userID))
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("remove cart line failed: %w", err)
	}
	return nil
}

// ListFavorites возвращает идентификаторы избранных товаров пользователя
func (c *Client) ListFavorites(ctx context.Context, userID string) ([]int64, error) {
	var ids []int64
	path := "/api/v1/favorites?" + userQuery(userID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &ids); err != nil {
		return nil, fmt.Errorf("list favorites failed: %w", err)
	}
	return ids, nil
}

// AddFavorite добавляет товар в избранное
func (c *Client) AddFavorite(ctx context.Context, userID string, productID int64) error {
	req := api.FavoriteRequest{UserID: userID, ProductID: productID}
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/favorites", req, nil); err != nil {
		return fmt.Errorf("add favorite failed: %w", err)
	}
	return nil
}

// RemoveFavorite удаляет товар из избранного
func (c *Client) RemoveFavorite(ctx context.Context, userID string, productID int64) error {
	path := fmt.Sprintf("/api/v1/favorites/%d?%s", productID, userQuery(userID))
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("remove favorite failed: %w", err)
	}
	return nil
}

// Search выполняет поиск по каталогу
func (c *Client) Search(ctx context.Context, term string, page, limit int) (*api.SearchResults, error) {
	q := url.Values{}
	q.Set("q", term)
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var resp api.SearchResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/search?"+q.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	return &resp.Results, nil
}

// GetProduct возвращает товар по идентификатору
func (c *Client) GetProduct(ctx context.Context, id int64) (*api.Product, error) {
	var p api.Product
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", id), nil, &p); err != nil {
		return nil, fmt.Errorf("get product failed: %w", err)
	}
	return &p, nil
}

// GetDeal возвращает акцию по идентификатору
func (c *Client) GetDeal(ctx context.Context, id int64) (*api.Deal, error) {
	var d api.Deal
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/v1/deals/%d", id), nil, &d); err != nil {
		return nil, fmt.Errorf("get deal failed: %w", err)
	}
	return &d, nil
}

// GetSupplier возвращает поставщика по идентификатору
func (c *Client) GetSupplier(ctx context.Context, id int64) (*api.Supplier, error) {
	var s api.Supplier
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/v1/suppliers/%d", id), nil, &s); err != nil {
		return nil, fmt.Errorf("get supplier failed: %w", err)
	}
	return &s, nil
}

// CreateOrder создает заказ из текущей корзины пользователя
func (c *Client) CreateOrder(ctx context.Context, userID string) (*api.OrderResponse, error) {
	req := api.CreateOrderRequest{UserID: userID}
	var resp api.OrderResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/orders", req, &resp); err != nil {
		return nil, fmt.Errorf("create order failed: %w", err)
	}
	return &resp, nil
}

func userQuery(userID string) string {
	q := url.Values{}
	q.Set("user_id", userID)
	return q.Encode()
}

// doRequest выполняет HTTP запрос и нормализует ошибки:
// транспортные сбои оборачиваются как есть, 404 превращается в ErrNotFound,
// прочие не-2xx статусы — в *ServerError с сообщением сервера.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	reqURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := http.StatusText(resp.StatusCode)
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			message = errResp.Error
		}

		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%s: %w", message, ErrNotFound)
		}
		return &ServerError{StatusCode: resp.StatusCode, Message: message}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
