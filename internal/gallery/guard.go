package gallery

import (
	"time"

	"golang.org/x/time/rate"
)

const DefaultLoadMoreCooldown = time.Second

// LoadMoreGuard debounces the "reached the end" signal: after an accepted
// event, further events are rejected until the cooldown has elapsed.
type LoadMoreGuard struct {
	limiter *rate.Limiter
	now     func() time.Time
}

func NewLoadMoreGuard(cooldown time.Duration) *LoadMoreGuard {
	if cooldown <= 0 {
		cooldown = DefaultLoadMoreCooldown
	}
	return &LoadMoreGuard{
		limiter: rate.NewLimiter(rate.Every(cooldown), 1),
		now:     time.Now,
	}
}

// Allow reports whether an event arriving now is accepted.
func (g *LoadMoreGuard) Allow() bool {
	return g.AllowAt(g.now())
}

func (g *LoadMoreGuard) AllowAt(t time.Time) bool {
	return g.limiter.AllowN(t, 1)
}
