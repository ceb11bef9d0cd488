// Package ratelimit provides fixed-window limiters for public submissions.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/wadjakorntonsri/go-job-board/pkg/ports"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter counts actions per key in process memory. Counts are lost on
// restart and are not shared between instances.
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	period  time.Duration
	windows map[string]*window
	now     func() time.Time
}

func NewMemoryLimiter(limit int, period time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		period:  period,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		l.windows[key] = &window{count: 1, resetAt: now.Add(l.period)}
		l.evict(now)
		return true, nil
	}

	if w.count >= l.limit {
		return false, nil
	}
	w.count++
	return true, nil
}

// evict drops closed windows so the map does not grow with every client seen.
func (l *MemoryLimiter) evict(now time.Time) {
	for key, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, key)
		}
	}
}

// Ensure interface compliance
var _ ports.RateLimiter = (*MemoryLimiter)(nil)
