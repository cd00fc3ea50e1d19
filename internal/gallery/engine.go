package gallery

import (
	"errors"
	"fmt"

	"gallery-be/internal/catalog"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

var ErrUnknownAction = errors.New("unknown action")

// Status is the fetch lifecycle state of the engine.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
)

// Engine owns the gallery state and applies every transition. It is not
// safe for concurrent use: callers serialize Dispatch calls, one event at a
// time.
type Engine struct {
	deriver *Deriver
	window  *Window
	log     *zap.Logger

	store      catalog.Store
	criteria   Criteria
	view       []catalog.Item
	status     Status
	errMsg     string
	generation uint64
}

type Option func(*Engine)

func WithPageSize(size int) Option {
	return func(e *Engine) { e.window = NewWindow(size) }
}

func WithLocale(tag language.Tag) Option {
	return func(e *Engine) { e.deriver = NewDeriver(NewComparator(tag)) }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithCriteria sets the starting criteria, for example ones restored from a
// URL query string.
func WithCriteria(c Criteria) Option {
	return func(e *Engine) { e.criteria = c.Normalize() }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		window:   NewWindow(DefaultPageSize),
		log:      zap.NewNop(),
		criteria: DefaultCriteria(),
		view:     []catalog.Item{},
		status:   StatusIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.deriver == nil {
		e.deriver = NewDeriver(nil)
	}
	e.rederive()
	return e
}

// Dispatch applies one action. Every known action is total; only an
// unrecognized action type returns an error.
func (e *Engine) Dispatch(action Action) error {
	switch a := action.(type) {

	// ===== FETCH =====

	case FetchStartedAction:
		e.generation++
		e.status = StatusLoading
		e.errMsg = ""
		e.log.Debug("fetch started", zap.Uint64("generation", e.generation))

	case FetchSucceededAction:
		if !e.current(a.Generation) {
			e.log.Debug("stale fetch result ignored",
				zap.Uint64("generation", a.Generation),
				zap.Uint64("current", e.generation),
				zap.String("status", string(e.status)),
			)
			return nil
		}
		e.store = catalog.NewStore(a.Items)
		e.status = StatusIdle
		e.errMsg = ""
		e.rederive()
		e.log.Debug("fetch succeeded",
			zap.Int("items", e.store.Len()),
			zap.Int("view", len(e.view)),
		)

	case FetchFailedAction:
		if !e.current(a.Generation) {
			e.log.Debug("stale fetch failure ignored", zap.Uint64("generation", a.Generation))
			return nil
		}
		e.status = StatusError
		e.errMsg = a.Message
		if e.errMsg == "" {
			e.errMsg = catalog.DefaultFailureMessage
		}
		e.log.Debug("fetch failed", zap.String("message", e.errMsg))

	// ===== FILTERS =====

	case SetTierFilterAction:
		e.criteria.Tiers = a.Tiers
		e.filterChanged()

	case SetKeywordAction:
		e.criteria.Keyword = a.Keyword
		e.filterChanged()

	case SetPriceRangeAction:
		e.criteria.Range = NewPriceRange(a.Min, a.Max)
		e.filterChanged()

	case SetSortAction:
		e.criteria.Sort = a.Sort
		e.filterChanged()

	case ResetFiltersAction:
		e.criteria = DefaultCriteria()
		e.filterChanged()

	// ===== PAGINATION =====

	case LoadMoreAction:
		if e.status == StatusLoading {
			return nil
		}
		if e.window.Extend(e.view) {
			e.log.Debug("window extended",
				zap.Int("page", e.window.Pages()),
				zap.Int("exposed", e.window.Len()),
			)
		}

	default:
		return fmt.Errorf("%w: %T", ErrUnknownAction, action)
	}

	return nil
}

// current reports whether a fetch result belongs to the in-flight fetch.
func (e *Engine) current(generation uint64) bool {
	return e.status == StatusLoading && generation == e.generation
}

func (e *Engine) filterChanged() {
	e.criteria = e.criteria.Normalize()
	e.rederive()
	e.log.Debug("filters changed",
		zap.Strings("tiers", tierCodes(e.criteria.Tiers)),
		zap.String("keyword", e.criteria.Keyword),
		zap.String("min", e.criteria.Range.Min.String()),
		zap.String("max", e.criteria.Range.Max.String()),
		zap.String("sort", string(e.criteria.Sort)),
		zap.Int("view", len(e.view)),
	)
}

// rederive recomputes the view and resets the window to its first page.
func (e *Engine) rederive() {
	e.view = e.deriver.Derive(e.store.Items(), e.criteria)
	e.window.Reset(e.view)
}

func (e *Engine) Status() Status     { return e.status }
func (e *Engine) Criteria() Criteria { return e.criteria }
func (e *Engine) Generation() uint64 { return e.generation }
func (e *Engine) HasMore() bool      { return e.window.HasMore(e.view) }

// View is the full derived view. Callers must not modify it.
func (e *Engine) View() []catalog.Item { return e.view }

// Visible is the exposed prefix of the view.
func (e *Engine) Visible() []catalog.Item { return e.window.Visible(e.view) }
