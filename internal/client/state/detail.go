package state

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	clientapi "storeclient/internal/client/api"
)

// DetailStatus статус слота деталей
type DetailStatus int

const (
	// DetailIdle — модалка закрыта, данных нет
	DetailIdle DetailStatus = iota
	// DetailLoading — модалка открыта, данные еще загружаются
	DetailLoading
	// DetailLoaded — данные получены
	DetailLoaded
	// DetailError — загрузка завершилась ошибкой
	DetailError
)

func (s DetailStatus) String() string {
	switch s {
	case DetailIdle:
		return "idle"
	case DetailLoading:
		return "loading"
	case DetailLoaded:
		return "loaded"
	case DetailError:
		return "error"
	default:
		return "unknown"
	}
}

// FetchFunc загружает сущность по идентификатору
type FetchFunc[T any] func(ctx context.Context, id int64) (*T, error)

// DetailSnapshot снимок слота деталей для отрисовки
type DetailSnapshot[T any] struct {
	Payload *T
	Err     string
	ID      int64
	Status  DetailStatus
}

// DetailFetcher реализует паттерн "открыть модалку, догрузить по требованию":
// Open немедленно делает слот видимым в состоянии loading, а данные
// догоняют его позже. Один и тот же механизм обслуживает карточки товара,
// акции и поставщика — меняется только функция загрузки.
//
// Политика last-open-wins: каждый Open получает новый номер
// последовательности, и применяется только ответ с актуальным номером,
// причем лишь если слот все еще открыт на том же идентификаторе.
// Поздний ответ для другой сущности отбрасывается, чтобы под заголовком
// одной карточки не оказались данные другой.
type DetailFetcher[T any] struct {
	fetch    FetchFunc[T]
	logger   *slog.Logger
	onUpdate func(DetailSnapshot[T])

	mu      sync.Mutex
	seq     uint64
	id      int64
	status  DetailStatus
	payload *T
	errMsg  string
}

// NewDetailFetcher создает слот деталей с функцией загрузки fetch
func NewDetailFetcher[T any](fetch FetchFunc[T], logger *slog.Logger) *DetailFetcher[T] {
	return &DetailFetcher[T]{
		fetch:  fetch,
		logger: logger,
		status: DetailIdle,
	}
}

// SetOnUpdate регистрирует callback переходов состояния (вне лока)
func (f *DetailFetcher[T]) SetOnUpdate(fn func(DetailSnapshot[T])) {
	f.mu.Lock()
	f.onUpdate = fn
	f.mu.Unlock()
}

// Open открывает слот для сущности id: статус loading выставляется сразу,
// прежние данные и ошибка очищаются, загрузка уходит в фон.
func (f *DetailFetcher[T]) Open(ctx context.Context, id int64) {
	f.mu.Lock()
	f.seq++
	seq := f.seq
	f.id = id
	f.status = DetailLoading
	f.payload = nil
	f.errMsg = ""
	f.notifyLocked()

	go f.load(ctx, seq, id)
}

// Close закрывает слот и сбрасывает его в Idle. Ответ любой еще не
// завершившейся загрузки после этого устареет и будет отброшен.
func (f *DetailFetcher[T]) Close() {
	f.mu.Lock()
	f.seq++
	f.id = 0
	f.status = DetailIdle
	f.payload = nil
	f.errMsg = ""
	f.notifyLocked()
}

// Snapshot возвращает текущий снимок слота
func (f *DetailFetcher[T]) Snapshot() DetailSnapshot[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *DetailFetcher[T]) load(ctx context.Context, seq uint64, id int64) {
	payload, err := f.fetch(ctx, id)

	f.mu.Lock()
	if seq != f.seq || f.id != id {
		f.logger.Debug("discarding stale detail response",
			"seq", seq, "latest", f.seq, "id", id)
		f.mu.Unlock()
		return
	}

	if err != nil {
		f.status = DetailError
		f.payload = nil
		if errors.Is(err, clientapi.ErrNotFound) {
			f.errMsg = "not found"
		} else {
			f.errMsg = "failed to load details: " + err.Error()
		}
		f.logger.Warn("detail fetch failed", "id", id, "error", err)
		f.notifyLocked()
		return
	}

	f.status = DetailLoaded
	f.payload = payload
	f.errMsg = ""
	f.notifyLocked()
}

func (f *DetailFetcher[T]) snapshotLocked() DetailSnapshot[T] {
	return DetailSnapshot[T]{
		Status:  f.status,
		ID:      f.id,
		Payload: f.payload,
		Err:     f.errMsg,
	}
}

// notifyLocked строит снимок, освобождает лок и зовет callback
func (f *DetailFetcher[T]) notifyLocked() {
	snap := f.snapshotLocked()
	fn := f.onUpdate
	f.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
}
