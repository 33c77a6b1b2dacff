// Package state содержит движки синхронизации локального состояния витрины
// с удаленным API: корзина, избранное, поиск и карточки деталей.
// Общий принцип: локальное изменение применяется немедленно (optimistic
// update), затем подтверждается сервером; при отказе состояние приводится
// обратно к серверной истине.
package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrBusy возвращается, когда для ключа уже выполняется мутация.
// Это не ошибка для пользователя: повторное действие по тому же ресурсу
// во время незавершенного запроса просто игнорируется.
var ErrBusy = errors.New("mutation already in flight for this key")

// Mutation описывает один оптимистичный шаг синхронизации.
type Mutation struct {
	// Apply синхронно применяет оптимистичное изменение к локальному
	// состоянию. Выполняется до сетевого вызова.
	Apply func()

	// Call выполняет сетевой вызов, подтверждающий изменение.
	Call func(ctx context.Context) error

	// Reconcile вызывается после успешного Call и приводит локальное
	// состояние к серверной истине. Может быть nil, если оптимистичное
	// состояние считается финальным.
	Reconcile func(ctx context.Context) error

	// Rollback вызывается после неудачного Call и откатывает
	// оптимистичное изменение. Может быть nil.
	Rollback func(ctx context.Context) error
}

// MutationEngine сериализует конфликтующие мутации по ключу ресурса.
// Инвариант: в любой момент на ключ приходится не более одной
// незавершенной мутации; вторая попытка отклоняется с ErrBusy.
type MutationEngine struct {
	pending map[string]struct{}
	logger  *slog.Logger
	mu      sync.Mutex
}

// NewMutationEngine создает новый движок мутаций
func NewMutationEngine(logger *slog.Logger) *MutationEngine {
	return &MutationEngine{
		pending: make(map[string]struct{}),
		logger:  logger,
	}
}

// Mutate выполняет мутацию для ключа key.
//
// Порядок: (1) занять ключ, (2) применить Apply, (3) выполнить Call,
// (4) Reconcile при успехе либо Rollback при отказе, (5) освободить ключ.
// Ключ освобождается в defer при любом исходе, включая панику в callback —
// иначе ресурс навсегда остался бы заблокированным для будущих мутаций.
func (e *MutationEngine) Mutate(ctx context.Context, key string, m Mutation) error {
	if !e.acquire(key) {
		e.logger.Debug("mutation rejected, key is busy", "key", key)
		return ErrBusy
	}
	defer e.release(key)

	if m.Apply != nil {
		m.Apply()
	}

	if err := m.Call(ctx); err != nil {
		if m.Rollback != nil {
			if rbErr := m.Rollback(ctx); rbErr != nil {
				e.logger.Warn("rollback after failed mutation also failed",
					"key", key, "error", rbErr)
			}
		}
		return fmt.Errorf("mutation call failed: %w", err)
	}

	if m.Reconcile != nil {
		if err := m.Reconcile(ctx); err != nil {
			return fmt.Errorf("reconcile after mutation failed: %w", err)
		}
	}

	return nil
}

// Pending сообщает, выполняется ли сейчас мутация для ключа
func (e *MutationEngine) Pending(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.pending[key]
	return ok
}

func (e *MutationEngine) acquire(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.pending[key]; ok {
		return false
	}
	e.pending[key] = struct{}{}
	return true
}

func (e *MutationEngine) release(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.pending, key)
}
