package rate

import (
	"sync"
	"time"
)

// Limiter is a fixed-window request counter kept in process memory.
// One window per key; keys are whatever the caller composes (route + IP).
// Counters for windows that have rolled over are dropped lazily.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	windowStart time.Time
	count       int
}

func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow counts one request against the key and reports whether it fits
// the current window's budget.
func (l *Limiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || now.Sub(b.windowStart) >= l.window {
		l.buckets[key] = &bucket{windowStart: now, count: 1}
		if len(l.buckets) > 10000 {
			l.evictStale(now)
		}
		return l.limit >= 1
	}

	b.count++
	return b.count <= l.limit
}

func (l *Limiter) evictStale(now time.Time) {
	for k, b := range l.buckets {
		if now.Sub(b.windowStart) >= l.window {
			delete(l.buckets, k)
		}
	}
}
