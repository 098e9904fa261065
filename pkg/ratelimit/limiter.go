package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces outgoing backend requests
type Limiter interface {
	// Allow reports whether a request may proceed right now
	Allow() bool
	// Wait blocks until a request may proceed or ctx is done
	Wait(ctx context.Context) error
}

// Pacer is a token bucket limiter backed by golang.org/x/time/rate
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer allows requestsPerMinute requests per minute with the given burst.
// A non-positive rate disables pacing.
func NewPacer(requestsPerMinute, burst int) *Pacer {
	if burst < 1 {
		burst = 1
	}

	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}

	return &Pacer{limiter: rate.NewLimiter(limit, burst)}
}

// Allow reports whether a request may proceed right now
func (p *Pacer) Allow() bool {
	return p.limiter.Allow()
}

// Wait blocks until a request may proceed or ctx is done
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Limit returns the configured events per second
func (p *Pacer) Limit() rate.Limit {
	return p.limiter.Limit()
}

// Unlimited never blocks
type Unlimited struct{}

func (Unlimited) Allow() bool                    { return true }
func (Unlimited) Wait(ctx context.Context) error { return ctx.Err() }
