package parser

import (
	"time"
)

// RateLimiter spaces out sequential network operations by a fixed interval.
type RateLimiter struct {
	ticker   *time.Ticker
	interval time.Duration
}

// NewRateLimiter creates a rate limiter ticking at the given interval.
// Call Wait before each rate-limited operation and Stop when done.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{
		ticker:   time.NewTicker(interval),
		interval: interval,
	}
}

// Wait blocks until the next tick.
func (rl *RateLimiter) Wait() {
	<-rl.ticker.C
}

// Stop releases the underlying ticker.
func (rl *RateLimiter) Stop() {
	rl.ticker.Stop()
}
