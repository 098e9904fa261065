package ratelimit

import "time"

// Policy decides how long to back off after the backend reports a rate limit
type Policy struct {
	// DefaultWait applies when the backend gave no reset time
	DefaultWait time.Duration
	// MinWait is the floor for waits computed from a reset time
	MinWait time.Duration
	// Padding is added on top of the time remaining until reset
	Padding time.Duration
}

// DefaultPolicy returns the standard back-off: reset+5s with a 60s floor,
// or 120s when no reset time is known
func DefaultPolicy() Policy {
	return Policy{
		DefaultWait: 120 * time.Second,
		MinWait:     60 * time.Second,
		Padding:     5 * time.Second,
	}
}

// WaitFor returns the back-off for a rate limit that resets at resetAt
func (p Policy) WaitFor(resetAt *time.Time, now time.Time) time.Duration {
	if resetAt == nil || resetAt.IsZero() {
		return p.DefaultWait
	}

	wait := resetAt.Sub(now) + p.Padding
	if wait < p.MinWait {
		wait = p.MinWait
	}
	return wait
}
