// Package ratelimit paces actors so a round sustains its target request
// rate.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter gates request starts at a requests-per-second rate. The rate
// is adjusted between rounds via SetRate; a zero rate disables pacing.
type Limiter struct {
	mu      sync.RWMutex
	limiter *rate.Limiter
}

// New creates a Limiter at the given requests-per-second rate.
func New(rps int) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst(rps)),
	}
}

// Wait blocks until the next request may start or the context ends.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.RLock()
	limiter := l.limiter
	limit := limiter.Limit()
	l.mu.RUnlock()

	if limit == 0 {
		return nil
	}
	return limiter.Wait(ctx)
}

// SetRate changes the sustained rate. Safe to call between rounds while
// actors are blocked in Wait.
func (l *Limiter) SetRate(rps int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiter.SetLimit(rate.Limit(rps))
	l.limiter.SetBurst(burst(rps))
}

// Rate returns the current requests-per-second rate.
func (l *Limiter) Rate() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return int(l.limiter.Limit())
}

// burst keeps the token bucket small relative to the rate so a round
// ramps to its target without an initial spike.
func burst(rps int) int {
	if rps < 1 {
		return 1
	}
	b := rps / 10
	if b < 1 {
		b = 1
	}
	return b
}
