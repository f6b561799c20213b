package parser

import (
	"time"
)

// RateLimiter spaces out sequential page fetches by a fixed interval so the
// remote service is not hammered.
//
// Example usage:
//
//	limiter := parser.NewRateLimiter(1500 * time.Millisecond)
//	defer limiter.Stop()
//
//	for it.HasNext() {
//	    limiter.Wait()
//	    // ... fetch the next page ...
//	}
type RateLimiter struct {
	ticker   *time.Ticker
	interval time.Duration
}

// NewRateLimiter creates a rate limiter that allows one operation per
// interval.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{
		ticker:   time.NewTicker(interval),
		interval: interval,
	}
}

// Wait blocks until the next tick occurs. Call this before each
// rate-limited operation.
func (rl *RateLimiter) Wait() {
	<-rl.ticker.C
}

// Stop stops the rate limiter and releases resources.
func (rl *RateLimiter) Stop() {
	rl.ticker.Stop()
}

// GetInterval returns the configured interval for this rate limiter.
func (rl *RateLimiter) GetInterval() time.Duration {
	return rl.interval
}
