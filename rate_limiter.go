// rate_limiter.go
// ----------------
// RateLimiter paces outbound attempts so a burst of screens loading at once
// cannot hammer the API. It wraps a sliding-window limiter and adds context
// awareness: a waiting attempt gives up as soon as its context is done.
//
// Refresh calls and replays go through the same limiter as ordinary requests.
package kichwabridge

import (
	"context"
	"time"

	"github.com/beefsack/go-rate"
)

type RateLimiter struct {
	limiter *rate.RateLimiter
}

// NewRateLimiter allows at most limit attempts per window. It returns nil when
// limit is not positive, and a nil *RateLimiter never blocks.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		return nil
	}
	if window <= 0 {
		window = time.Second
	}
	return &RateLimiter{limiter: rate.New(limit, window)}
}

// Wait blocks until an attempt may proceed or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil {
		return nil
	}
	for {
		ok, remaining := r.limiter.Try()
		if ok {
			return nil
		}
		timer := time.NewTimer(remaining)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
