package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// API represents the different external APIs we interact with
type API string

const (
	// APIYahoo represents the Yahoo Finance API
	APIYahoo API = "yahoo"
	// APIAlphaVantage represents the AlphaVantage API
	APIAlphaVantage API = "alphavantage"
)

// AlphaVantageFreeTierPerMinute is the documented free tier allowance.
const AlphaVantageFreeTierPerMinute = 5

// Limiter manages caller-configured rate limits for different APIs.
// APIs without a configured limit are never throttled.
type Limiter struct {
	limiters map[API]*rate.Limiter
	mu       sync.RWMutex
}

// New returns a limiter with no limits installed
func New() *Limiter {
	return &Limiter{
		limiters: make(map[API]*rate.Limiter),
	}
}

// SetPerMinute installs a limit of perMinute requests for api. A non-positive
// perMinute removes the limit.
func (l *Limiter) SetPerMinute(api API, perMinute float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if perMinute <= 0 {
		delete(l.limiters, api)
		return
	}
	if burst < 1 {
		burst = 1
	}
	l.limiters[api] = rate.NewLimiter(rate.Limit(perMinute/60.0), burst)
}

// Wait blocks until the rate limiter permits an event for the given API
// It returns an error if the context is canceled before the event can proceed
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

// Allow reports whether an event for the given API may happen now
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
