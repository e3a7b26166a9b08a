package provider

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// QuotaGuard rejects calls that would exceed a per-key request budget.
// It never waits: a call without a token fails immediately as RateLimited
// and no request is sent. A nil guard allows everything.
type QuotaGuard struct {
	mu       sync.Mutex
	every    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// NewQuotaGuard allows perMinute calls per key per minute, with the full
// minute's budget available as a burst. perMinute <= 0 returns nil.
func NewQuotaGuard(perMinute int) *QuotaGuard {
	if perMinute <= 0 {
		return nil
	}
	return &QuotaGuard{
		every:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow consumes one token for key if available.
func (g *QuotaGuard) Allow(key string) bool {
	if g == nil {
		return true
	}
	return g.limiter(key).Allow()
}

func (g *QuotaGuard) limiter(key string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()

	l, ok := g.limiters[key]
	if !ok {
		l = rate.NewLimiter(g.every, g.burst)
		g.limiters[key] = l
	}
	return l
}
