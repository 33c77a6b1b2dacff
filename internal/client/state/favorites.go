package state

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

//go:generate moq -out favorites_api_mock.go . FavoritesAPI

// FavoritesAPI описывает сетевые вызовы движка избранного
type FavoritesAPI interface {
	ListFavorites(ctx context.Context, userID string) ([]int64, error)
	AddFavorite(ctx context.Context, userID string, productID int64) error
	RemoveFavorite(ctx context.Context, userID string, productID int64) error
}

// FavoritesEngine поддерживает локальное множество избранных товаров.
// Множество мутируется оптимистично; сервер авторитетен, но не
// перечитывается после каждого переключения — в отличие от корзины,
// здесь нечему разойтись кроме самого членства, поэтому при отказе
// достаточно восстановить снимок множества, снятый до переключения.
type FavoritesEngine struct {
	api       FavoritesAPI
	mutations *MutationEngine
	logger    *slog.Logger
	userID    string

	mu  sync.RWMutex
	set map[int64]struct{}
}

// NewFavoritesEngine создает движок избранного для пользователя userID
func NewFavoritesEngine(favAPI FavoritesAPI, userID string, logger *slog.Logger) *FavoritesEngine {
	return &FavoritesEngine{
		api:       favAPI,
		mutations: NewMutationEngine(logger),
		logger:    logger,
		userID:    userID,
		set:       make(map[int64]struct{}),
	}
}

// Refresh заменяет локальное множество серверным списком избранного
func (e *FavoritesEngine) Refresh(ctx context.Context) error {
	ids, err := e.api.ListFavorites(ctx, e.userID)
	if err != nil {
		return err
	}

	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	e.mu.Lock()
	e.set = set
	e.mu.Unlock()
	return nil
}

// Toggle переключает членство товара в избранном. Локальный флип
// применяется немедленно, чтобы сердечко обновилось во всех местах
// отрисовки сразу; выбор между POST и DELETE делается по состоянию
// членства, зафиксированному до флипа.
func (e *FavoritesEngine) Toggle(ctx context.Context, productID int64) error {
	var (
		wasFavorite bool
		snapshot    map[int64]struct{}
	)

	return e.mutations.Mutate(ctx, cartKey(productID), Mutation{
		Apply: func() {
			e.mu.Lock()
			defer e.mu.Unlock()

			snapshot = copySet(e.set)
			_, wasFavorite = e.set[productID]
			if wasFavorite {
				delete(e.set, productID)
			} else {
				e.set[productID] = struct{}{}
			}
		},
		Call: func(ctx context.Context) error {
			if wasFavorite {
				return e.api.RemoveFavorite(ctx, e.userID, productID)
			}
			return e.api.AddFavorite(ctx, e.userID, productID)
		},
		// Оптимистичное состояние финально: сервер не перечитывается
		Reconcile: nil,
		Rollback: func(ctx context.Context) error {
			e.mu.Lock()
			e.set = snapshot
			e.mu.Unlock()
			e.logger.Warn("favorite toggle failed, restored previous set",
				"product_id", productID)
			return nil
		},
	})
}

// IsFavorite проверяет членство товара в избранном
func (e *FavoritesEngine) IsFavorite(productID int64) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.set[productID]
	return ok
}

// IDs возвращает отсортированный снимок идентификаторов избранного
func (e *FavoritesEngine) IDs() []int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := make([]int64, 0, len(e.set))
	for id := range e.set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Count возвращает размер множества избранного
func (e *FavoritesEngine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.set)
}

func copySet(src map[int64]struct{}) map[int64]struct{} {
	dst := make(map[int64]struct{}, len(src))
	for id := range src {
		dst[id] = struct{}{}
	}
	return dst
}
