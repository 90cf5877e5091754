package market

import (
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter caps market data calls per minute against an injected clock.
// A limit of zero or less disables limiting.
type RateLimiter struct {
	limiter *rate.Limiter
	now     func() time.Time
}

// NewRateLimiter allows callsPerMinute calls per minute, refilling evenly.
// now defaults to time.Now when nil.
func NewRateLimiter(callsPerMinute int, now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}

	limit, burst := rate.Inf, 0
	if callsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(callsPerMinute))
		burst = callsPerMinute
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(limit, burst),
		now:     now,
	}
}

// Allow reports whether a call may be made now and consumes one call if so.
func (l *RateLimiter) Allow() bool {
	return l.limiter.AllowN(l.now(), 1)
}
