package ratelimit

import (
	"context"
	"time"

	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Limiter wraps an in-process fixed-window limiter. The quote API holds no
// external state, so the in-memory store is sufficient; a multi-instance
// deployment would swap in a shared store behind the same interface.
type Limiter struct {
	instance *limiter.Limiter
}

// New builds a limiter allowing max requests per window.
func New(window time.Duration, max int) Limiter {
	rate := limiter.Rate{Period: window, Limit: int64(max)}
	return Limiter{instance: limiter.New(memory.NewStore(), rate)}
}

// Allow records a hit for key and reports whether it is within the limit,
// along with the configured ceiling, remaining allowance, and window reset time.
func (l Limiter) Allow(ctx context.Context, key string) (allowed bool, limit, remaining int, resetAt time.Time, err error) {
	if l.instance == nil {
		return true, 0, 0, time.Time{}, nil
	}
	lctx, err := l.instance.Get(ctx, key)
	if err != nil {
		return false, 0, 0, time.Time{}, err
	}
	return !lctx.Reached, int(lctx.Limit), int(lctx.Remaining), time.Unix(lctx.Reset, 0), nil
}
