package quota

import (
	"context"
	"sync"
	"time"
)

type counter struct {
	count   int64
	resetAt time.Time
}

// MemoryLimiter is the single process Limiter used when no redis is configured.
type MemoryLimiter struct {
	mu       sync.Mutex
	counters map[string]*counter
	now      func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{counters: make(map[string]*counter), now: time.Now}
}

func (m *MemoryLimiter) Take(_ context.Context, key string, limit int64, resetAt time.Time) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.counters[key]
	if !ok || !m.now().Before(c.resetAt) {
		c = &counter{resetAt: resetAt}
		m.counters[key] = c
	}
	if c.count >= limit {
		return Result{Allowed: false, Count: c.count, Limit: limit, ResetAt: c.resetAt}, nil
	}
	c.count++
	return Result{Allowed: true, Count: c.count, Limit: limit, ResetAt: c.resetAt}, nil
}

func (m *MemoryLimiter) Give(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.counters[key]
	if ok && m.now().Before(c.resetAt) && c.count > 0 {
		c.count--
	}
	return nil
}
