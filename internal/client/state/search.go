package state

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"storeclient/pkg/api"
)

// SearchState состояние оркестратора поиска
type SearchState int

const (
	// SearchIdle — поиск неактивен, результатов нет
	SearchIdle SearchState = iota
	// SearchDebouncing — ввод продолжается, таймер тишины еще не истек
	SearchDebouncing
	// SearchInFlight — запрос отправлен, ответ не получен
	SearchInFlight
	// SearchSettled — показаны результаты или ошибка последнего запроса
	SearchSettled
)

func (s SearchState) String() string {
	switch s {
	case SearchIdle:
		return "idle"
	case SearchDebouncing:
		return "debouncing"
	case SearchInFlight:
		return "in-flight"
	case SearchSettled:
		return "settled"
	default:
		return "unknown"
	}
}

const (
	// MinTermLength — минимальная длина нормализованного запроса.
	// Более короткий ввод переводит оркестратор в Idle без сетевого вызова.
	MinTermLength = 3

	// DefaultDebounce — окно тишины trailing-edge дебаунса
	DefaultDebounce = 300 * time.Millisecond

	// DefaultPageLimit — размер страницы товаров в результатах
	DefaultPageLimit = 12
)

//go:generate moq -out search_api_mock.go . SearchAPI

// SearchAPI описывает сетевой вызов поиска
type SearchAPI interface {
	Search(ctx context.Context, term string, page, limit int) (*api.SearchResults, error)
}

// SearchSnapshot снимок состояния поиска для отрисовки.
// Results принадлежит оркестратору и read-only для получателя.
type SearchSnapshot struct {
	Results *api.SearchResults
	Term    string
	Err     string
	State   SearchState
}

// SearchOrchestrator сериализует поисковые запросы, порожденные вводом:
// из пачки нажатий за окно тишины уходит не более одного запроса,
// а устаревшие ответы отбрасываются по номеру последовательности.
// Отмена логическая: сетевой запрос не прерывается, его ответ просто
// перестает быть самым свежим и игнорируется.
type SearchOrchestrator struct {
	api      SearchAPI
	logger   *slog.Logger
	debounce time.Duration
	limit    int
	onUpdate func(SearchSnapshot)

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64 // монотонный номер последнего выданного запроса
	state   SearchState
	term    string
	page    int
	results *api.SearchResults
	errMsg  string
}

// NewSearchOrchestrator создает оркестратор поиска.
// debounce <= 0 означает окно по умолчанию.
func NewSearchOrchestrator(searchAPI SearchAPI, debounce time.Duration, logger *slog.Logger) *SearchOrchestrator {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &SearchOrchestrator{
		api:      searchAPI,
		logger:   logger,
		debounce: debounce,
		limit:    DefaultPageLimit,
		state:    SearchIdle,
		page:     1,
	}
}

// SetOnUpdate регистрирует callback, получающий снимок после каждого
// перехода состояния. Вызывается вне внутреннего лока.
func (o *SearchOrchestrator) SetOnUpdate(fn func(SearchSnapshot)) {
	o.mu.Lock()
	o.onUpdate = fn
	o.mu.Unlock()
}

// NormalizeTerm приводит пользовательский ввод к форме запроса
func NormalizeTerm(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// SetTerm обрабатывает изменение поискового запроса (путь нажатий клавиш).
// Короткий запрос немедленно переводит оркестратор в Idle и гасит таймер;
// достаточный — перезапускает окно тишины, так что запрос уйдет только
// после паузы во вводе.
func (o *SearchOrchestrator) SetTerm(ctx context.Context, raw string) {
	term := NormalizeTerm(raw)

	o.mu.Lock()
	if utf8.RuneCountInString(term) < MinTermLength {
		o.stopTimerLocked()
		// Инвалидируем возможный in-flight запрос: его ответ устареет
		o.seq++
		o.state = SearchIdle
		o.term = term
		o.page = 1
		o.results = nil
		o.errMsg = ""
		o.notifyLocked()
		return
	}

	o.term = term
	o.page = 1
	o.state = SearchDebouncing
	o.stopTimerLocked()
	o.timer = time.AfterFunc(o.debounce, func() { o.fire(ctx) })
	o.notifyLocked()
}

// Submit немедленно выполняет запрос, минуя дебаунс. Через этот же путь
// идут выбор имени поставщика и ссылки "показать все" — выдача запросов
// централизована, чтобы нумерация оставалась единой.
func (o *SearchOrchestrator) Submit(ctx context.Context, raw string) {
	term := NormalizeTerm(raw)
	if utf8.RuneCountInString(term) < MinTermLength {
		o.SetTerm(ctx, raw)
		return
	}

	o.mu.Lock()
	o.stopTimerLocked()
	o.term = term
	o.page = 1
	o.issueLocked(ctx)
	o.notifyLocked()
}

// SetPage запрашивает другую страницу текущего запроса
func (o *SearchOrchestrator) SetPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}

	o.mu.Lock()
	if utf8.RuneCountInString(o.term) < MinTermLength {
		o.mu.Unlock()
		return
	}
	o.stopTimerLocked()
	o.page = page
	o.issueLocked(ctx)
	o.notifyLocked()
}

// Clear сбрасывает поиск в Idle
func (o *SearchOrchestrator) Clear(ctx context.Context) {
	o.SetTerm(ctx, "")
}

// Snapshot возвращает текущий снимок состояния
func (o *SearchOrchestrator) Snapshot() SearchSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// fire вызывается таймером дебаунса
func (o *SearchOrchestrator) fire(ctx context.Context) {
	o.mu.Lock()
	if o.state != SearchDebouncing {
		// Запрос очистили или уже выдали другим путем, пока таймер ждал
		o.mu.Unlock()
		return
	}
	o.issueLocked(ctx)
	o.notifyLocked()
}

// issueLocked выдает один сетевой запрос под новым номером последовательности.
// Вызывается с захваченным o.mu.
func (o *SearchOrchestrator) issueLocked(ctx context.Context) {
	o.seq++
	seq := o.seq
	term := o.term
	page := o.page
	o.state = SearchInFlight

	go o.request(ctx, seq, term, page)
}

// request выполняет сетевой вызов и применяет ответ, только если он
// все еще самый свежий. Ответ под устаревшим номером отбрасывается молча:
// медленный ранний ответ не должен затереть более свежие результаты.
func (o *SearchOrchestrator) request(ctx context.Context, seq uint64, term string, page int) {
	results, err := o.api.Search(ctx, term, page, o.limit)

	o.mu.Lock()
	if seq != o.seq {
		o.logger.Debug("discarding stale search response",
			"seq", seq, "latest", o.seq, "term", term)
		o.mu.Unlock()
		return
	}

	if err != nil {
		o.state = SearchSettled
		o.results = nil
		o.errMsg = "search failed: " + err.Error()
		o.logger.Warn("search request failed", "term", term, "error", err)
		o.notifyLocked()
		return
	}

	// Набор результатов заменяется целиком, даже пустой
	o.state = SearchSettled
	o.results = results
	o.errMsg = ""
	o.notifyLocked()
}

func (o *SearchOrchestrator) stopTimerLocked() {
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}

func (o *SearchOrchestrator) snapshotLocked() SearchSnapshot {
	return SearchSnapshot{
		State:   o.state,
		Term:    o.term,
		Results: o.results,
		Err:     o.errMsg,
	}
}

// notifyLocked строит снимок под локом, освобождает лок и зовет callback.
// Принимает захваченный o.mu и всегда освобождает его.
func (o *SearchOrchestrator) notifyLocked() {
	snap := o.snapshotLocked()
	fn := o.onUpdate
	o.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
}
