package retry

import (
	"context"
	"math/rand"
	"sync"
	"time"

	errs "tweetsearch/pkg/errors"
	"tweetsearch/pkg/ratelimit"
)

// BackoffStrategy decides how long to wait before the next attempt
type BackoffStrategy interface {
	// NextDelay returns the delay after the given failed attempt
	NextDelay(attempt int, err error) time.Duration
}

// BackoffFunc adapts a plain function to BackoffStrategy
type BackoffFunc func(attempt int, err error) time.Duration

// NextDelay calls f
func (f BackoffFunc) NextDelay(attempt int, err error) time.Duration {
	return f(attempt, err)
}

// ConstantBackoff implements constant delay backoff
type ConstantBackoff struct {
	Delay time.Duration
}

// NextDelay returns a constant delay
func (cb *ConstantBackoff) NextDelay(attempt int, err error) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return cb.Delay
}

// JitterBackoff picks a uniformly random delay in [Min, Max]
type JitterBackoff struct {
	Min time.Duration
	Max time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewJitterBackoff creates a jitter backoff. A nil rng uses the global source.
func NewJitterBackoff(min, max time.Duration, rng *rand.Rand) *JitterBackoff {
	if max < min {
		min, max = max, min
	}
	return &JitterBackoff{Min: min, Max: max, rng: rng}
}

// NextDelay returns a random delay between Min and Max inclusive
func (jb *JitterBackoff) NextDelay(attempt int, err error) time.Duration {
	span := int64(jb.Max - jb.Min)
	if span <= 0 {
		return jb.Min
	}

	if jb.rng == nil {
		return jb.Min + time.Duration(rand.Int63n(span+1))
	}

	jb.mu.Lock()
	defer jb.mu.Unlock()
	return jb.Min + time.Duration(jb.rng.Int63n(span+1))
}

// RateLimitBackoff waits according to a rate limit policy, using the reset
// time carried by the error when there is one
type RateLimitBackoff struct {
	Policy ratelimit.Policy
	// Now defaults to time.Now
	Now func() time.Time
}

// NextDelay returns the policy wait for err's reset time
func (rb *RateLimitBackoff) NextDelay(attempt int, err error) time.Duration {
	now := time.Now
	if rb.Now != nil {
		now = rb.Now
	}
	return rb.Policy.WaitFor(errs.ResetTime(err), now())
}

// ErrorTypeBackoff provides different backoff strategies based on error types
type ErrorTypeBackoff struct {
	// SessionBackoff applies when no session could be obtained
	SessionBackoff BackoffStrategy
	// RateLimitBackoff applies when the backend reported a rate limit
	RateLimitBackoff BackoffStrategy
	// DefaultBackoff covers not-found, transient and unknown errors
	DefaultBackoff BackoffStrategy
}

// NextDelay delegates to the strategy registered for err's type
func (etb *ErrorTypeBackoff) NextDelay(attempt int, err error) time.Duration {
	strategy := etb.GetBackoffForError(errs.TypeOf(err))
	if strategy == nil {
		return 0
	}
	return strategy.NextDelay(attempt, err)
}

// GetBackoffForError returns the appropriate backoff strategy for the error type
func (etb *ErrorTypeBackoff) GetBackoffForError(errorType errs.ErrorType) BackoffStrategy {
	switch errorType {
	case errs.ErrorTypeSession:
		if etb.SessionBackoff != nil {
			return etb.SessionBackoff
		}
	case errs.ErrorTypeRateLimit:
		if etb.RateLimitBackoff != nil {
			return etb.RateLimitBackoff
		}
	}
	return etb.DefaultBackoff
}

// Wait waits for the specified duration or until context is cancelled
func Wait(ctx context.Context, delay time.Duration) error {
	if err := ctx.Err(); err != nil || delay <= 0 {
		return err
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
