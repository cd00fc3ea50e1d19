package session

import (
	"context"
	"sync"
	"time"

	"gallery-be/internal/catalog"
	"gallery-be/internal/gallery"
	"gallery-be/internal/logger"
	"gallery-be/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultTTL      = 30 * time.Minute
	janitorInterval = time.Minute
)

// Manager tracks live sessions and closes the ones idle for longer than
// the TTL.
type Manager struct {
	source catalog.Source
	cfg    Config
	ttl    time.Duration
	base   context.Context
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

func NewManager(source catalog.Source, cfg Config, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewGallery()
	}
	return &Manager{
		source:   source,
		cfg:      cfg,
		ttl:      ttl,
		base:     context.Background(),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session with the given starting criteria. After Close
// it returns an already closed session, so every event on it fails with
// ErrClosed.
func (m *Manager) Create(criteria gallery.Criteria) *Session {
	id := uuid.New().String()
	s := New(m.base, id, m.source, m.cfg, criteria)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		s.Close()
		return s
	}
	m.sessions[id] = s
	count := len(m.sessions)
	m.mu.Unlock()
	m.cfg.Metrics.SessionsCreated.Inc()

	logger.L().Debug("session created",
		zap.String("session_id", id),
		zap.Int("active", count),
	)
	return s
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Metrics is shared by every session of the manager.
func (m *Manager) Metrics() *metrics.Gallery {
	return m.cfg.Metrics
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Remove closes and forgets one session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Close()
	}
}

// Expire closes every session idle for longer than the TTL and returns how
// many were removed.
func (m *Manager) Expire() int {
	cutoff := m.now().Add(-m.ttl)

	var stale []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	m.cfg.Metrics.SessionsExpired.Add(uint64(len(stale)))
	if len(stale) > 0 {
		logger.L().Info("expired idle sessions", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// Run expires idle sessions every minute until ctx is done, then closes
// all remaining sessions.
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Close()
			return nil
		case <-ticker.C:
			m.Expire()
		}
	}
}

// Close shuts down every session and refuses new ones.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	sessions := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		sessions = append(sessions, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, s := range sessions {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			s.Close()
		}(s)
	}
	wg.Wait()
}
