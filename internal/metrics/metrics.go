package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Gallery counts session, fetch and pagination events for the whole process.
type Gallery struct {
	SessionsCreated  Counter
	SessionsExpired  Counter
	FetchesStarted   Counter
	FetchesSucceeded Counter
	FetchesFailed    Counter
	LoadMoreAccepted Counter
	LoadMoreDropped  Counter

	fetchMillis Counter
}

func NewGallery() *Gallery {
	return &Gallery{}
}

// ObserveFetch records the outcome and duration of one catalog fetch.
func (g *Gallery) ObserveFetch(t *Timer, err error) {
	g.fetchMillis.Add(uint64(t.Duration().Milliseconds()))
	if err != nil {
		g.FetchesFailed.Inc()
		return
	}
	g.FetchesSucceeded.Inc()
}

// Snapshot returns the current values keyed by metric name.
func (g *Gallery) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"sessions_created":   g.SessionsCreated.Load(),
		"sessions_expired":   g.SessionsExpired.Load(),
		"fetches_started":    g.FetchesStarted.Load(),
		"fetches_succeeded":  g.FetchesSucceeded.Load(),
		"fetches_failed":     g.FetchesFailed.Load(),
		"fetch_millis_total": g.fetchMillis.Load(),
		"load_more_accepted": g.LoadMoreAccepted.Load(),
		"load_more_dropped":  g.LoadMoreDropped.Load(),
	}
}
