package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"gallery-be/internal/catalog"
	"gallery-be/internal/gallery"
	"gallery-be/internal/logger"
	"gallery-be/internal/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

var ErrClosed = errors.New("session closed")

// Config holds the per-session engine settings.
type Config struct {
	PageSize         int
	Locale           language.Tag
	LoadMoreCooldown time.Duration
	Metrics          *metrics.Gallery
}

// Session owns one gallery engine. Every engine transition runs on the
// session's event loop goroutine; callers block until their event has been
// applied and receive the resulting snapshot.
type Session struct {
	id      string
	source  catalog.Source
	engine  *gallery.Engine
	guard   *gallery.LoadMoreGuard
	log     *zap.Logger
	metrics *metrics.Gallery

	requests chan request
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	closeOnce sync.Once
	lastSeen  atomic.Int64
}

type request struct {
	run   func() error
	reply chan reply
}

type reply struct {
	snapshot gallery.Snapshot
	err      error
}

// New starts a session and its event loop. The loop stops when parent is
// cancelled or Close is called.
func New(parent context.Context, id string, source catalog.Source, cfg Config, criteria gallery.Criteria) *Session {
	ctx, cancel := context.WithCancel(logger.WithSessionID(parent, id))
	log := logger.FromCtx(ctx).With(zap.String("layer", "session"))

	m := cfg.Metrics
	if m == nil {
		m = metrics.NewGallery()
	}

	s := &Session{
		id:     id,
		source: source,
		engine: gallery.NewEngine(
			gallery.WithPageSize(cfg.PageSize),
			gallery.WithLocale(cfg.Locale),
			gallery.WithLogger(log),
			gallery.WithCriteria(criteria),
		),
		guard:    gallery.NewLoadMoreGuard(cfg.LoadMoreCooldown),
		log:      log,
		metrics:  m,
		requests: make(chan request),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.touch()

	s.wg.Add(1)
	go s.loop()
	return s
}

func (s *Session) ID() string { return s.id }

// LastSeen is the time of the most recent caller event.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

// Close stops the event loop and any in-flight fetch, then waits for both.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.wg.Wait()
		s.log.Debug("session closed")
	})
}

func (s *Session) loop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case req := <-s.requests:
			err := req.run()
			if err != nil {
				s.log.Warn("event rejected", zap.Error(err))
			}
			if req.reply != nil {
				req.reply <- reply{snapshot: s.engine.Snapshot(), err: err}
			}
		}
	}
}

// submit runs fn on the event loop and waits for the snapshot.
func (s *Session) submit(ctx context.Context, fn func() error) (gallery.Snapshot, error) {
	s.touch()
	req := request{run: fn, reply: make(chan reply, 1)}

	select {
	case s.requests <- req:
	case <-s.ctx.Done():
		return gallery.Snapshot{}, ErrClosed
	case <-ctx.Done():
		return gallery.Snapshot{}, ctx.Err()
	}

	select {
	case r := <-req.reply:
		return r.snapshot, r.err
	case <-s.ctx.Done():
		return gallery.Snapshot{}, ErrClosed
	case <-ctx.Done():
		return gallery.Snapshot{}, ctx.Err()
	}
}

// post delivers an event without waiting for it, dropping it if the session
// is shutting down.
func (s *Session) post(action gallery.Action) {
	req := request{run: func() error { return s.engine.Dispatch(action) }}
	select {
	case s.requests <- req:
	case <-s.ctx.Done():
	}
}

func (s *Session) dispatch(ctx context.Context, action gallery.Action) (gallery.Snapshot, error) {
	return s.submit(ctx, func() error { return s.engine.Dispatch(action) })
}

// ===== EVENTS =====

func (s *Session) Snapshot(ctx context.Context) (gallery.Snapshot, error) {
	return s.submit(ctx, func() error { return nil })
}

// RequestFetch starts a catalog fetch. The returned snapshot is in the
// loading state; the result is applied to the engine when it arrives.
func (s *Session) RequestFetch(ctx context.Context) (gallery.Snapshot, error) {
	return s.submit(ctx, func() error {
		if err := s.engine.Dispatch(gallery.FetchStartedAction{}); err != nil {
			return err
		}
		generation := s.engine.Generation()
		s.metrics.FetchesStarted.Inc()

		s.wg.Add(1)
		go s.fetch(generation)
		return nil
	})
}

func (s *Session) fetch(generation uint64) {
	defer s.wg.Done()

	timer := metrics.StartTimer()
	items, err := s.source.Fetch(s.ctx)
	if s.ctx.Err() != nil {
		return
	}
	s.metrics.ObserveFetch(timer, err)

	if err != nil {
		s.log.Warn("catalog fetch failed",
			zap.Uint64("generation", generation),
			zap.Error(err),
		)
		s.post(gallery.FetchFailedAction{
			Generation: generation,
			Message:    catalog.FailureMessage(err),
		})
		return
	}

	s.post(gallery.FetchSucceededAction{Generation: generation, Items: items})
}

func (s *Session) SetTierFilter(ctx context.Context, tiers gallery.TierSet) (gallery.Snapshot, error) {
	return s.dispatch(ctx, gallery.SetTierFilterAction{Tiers: tiers})
}

func (s *Session) SetKeyword(ctx context.Context, keyword string) (gallery.Snapshot, error) {
	return s.dispatch(ctx, gallery.SetKeywordAction{Keyword: keyword})
}

func (s *Session) SetPriceRange(ctx context.Context, min, max decimal.Decimal) (gallery.Snapshot, error) {
	return s.dispatch(ctx, gallery.SetPriceRangeAction{Min: min, Max: max})
}

func (s *Session) SetSort(ctx context.Context, sort gallery.SortKey) (gallery.Snapshot, error) {
	return s.dispatch(ctx, gallery.SetSortAction{Sort: sort})
}

func (s *Session) ResetFilters(ctx context.Context) (gallery.Snapshot, error) {
	return s.dispatch(ctx, gallery.ResetFiltersAction{})
}

// RequestLoadMore extends the window by one page. Events are dropped while
// loading, at the end of the view, or inside the cooldown after the last
// accepted one.
func (s *Session) RequestLoadMore(ctx context.Context) (gallery.Snapshot, error) {
	return s.submit(ctx, func() error {
		if !s.engine.HasMore() || s.engine.Status() == gallery.StatusLoading {
			return nil
		}
		if !s.guard.Allow() {
			s.metrics.LoadMoreDropped.Inc()
			s.log.Debug("load more debounced")
			return nil
		}
		s.metrics.LoadMoreAccepted.Inc()
		return s.engine.Dispatch(gallery.LoadMoreAction{})
	})
}
