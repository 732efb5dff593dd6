// Package ratelimiter throttles calls to external collaborators such as the model server.
package ratelimiter

import (
	"log/slog"
	"sync"
	"time"
)

// RateLimiterInterface throttles outbound calls.
type RateLimiterInterface interface {
	WaitIfNeeded()
}

// RateLimiter allows at most limit calls per interval and blocks the caller once the budget is spent.
// A limit of zero or less disables throttling.
type RateLimiter struct {
	mu        sync.Mutex
	limit     int           // calls allowed per interval
	interval  time.Duration // window after which the count resets
	count     int
	lastReset time.Time
	sleep     func(time.Duration)
}

// NewRateLimiter allows limit calls per interval.
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		sleep:     time.Sleep,
	}
}

// WaitIfNeeded blocks until the current window has budget left.
func (rl *RateLimiter) WaitIfNeeded() {
	if rl.limit <= 0 {
		return
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	// new window
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count > rl.limit {
		wait := rl.interval - now.Sub(rl.lastReset)
		if wait > 0 {
			slog.Warn("rate limit reached, waiting", "limit", rl.limit, "wait", wait)
			rl.sleep(wait)
		}
		rl.count = 1
		rl.lastReset = time.Now()
	}
}
