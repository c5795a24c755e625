package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// API represents the different external sources we interact with
type API string

const (
	// APIYahoo represents the market-data provider
	APIYahoo API = "yahoo"
	// APIScreener represents the fundamentals site
	APIScreener API = "screener"
)

// Limiter paces requests per source. Sources without a configured limit
// are not limited.
type Limiter struct {
	limiters map[API]*rate.Limiter
	mu       sync.RWMutex
}

// New creates a limiter from requests-per-second values. A value of zero or
// less leaves that source unlimited.
func New(perSecond map[API]float64) *Limiter {
	l := &Limiter{
		limiters: make(map[API]*rate.Limiter),
	}
	for api, rps := range perSecond {
		l.Set(api, rps)
	}
	return l
}

// Unlimited returns a limiter that never blocks.
func Unlimited() *Limiter {
	return New(nil)
}

// Set replaces the limit for one source.
func (l *Limiter) Set(api API, perSecond float64) {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}

	l.mu.Lock()
	l.limiters[api] = rate.NewLimiter(limit, 1)
	l.mu.Unlock()
}

// Wait blocks until the rate limiter permits a request to the given source.
// It returns an error if the context is canceled before the request can proceed.
func (l *Limiter) Wait(ctx context.Context, api API) error {
	if l == nil {
		return nil
	}

	l.mu.RLock()
	limiter, exists := l.limiters[api]
	l.mu.RUnlock()

	if !exists {
		return nil
	}

	return limiter.Wait(ctx)
}

// Allow reports whether a request to the given source may happen now
func (l *Limiter) Allow(api API) bool {
	if l == nil {
		return true
	}

	l.mu.RLock()
	limiter, exists := l.limiters[api]
	l.mu.RUnlock()

	if !exists {
		return true
	}

	return limiter.Allow()
}
