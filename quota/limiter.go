//go:generate go run go.uber.org/mock/mockgen -source=limiter.go -destination=../mocks/mock_limiter.go -package=mocks
package quota

import (
	"context"
	"time"
)

// Result of one attempt to take a unit from a daily counter.
type Result struct {
	Allowed bool
	Count   int64
	Limit   int64
	ResetAt time.Time
}

// Limiter counts units per key until resetAt. Take never increments past limit.
// Give hands one unit back and never goes below zero or revives an expired key.
type Limiter interface {
	Take(ctx context.Context, key string, limit int64, resetAt time.Time) (Result, error)
	Give(ctx context.Context, key string) error
}
