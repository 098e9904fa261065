// Package ratelimit holds the rate limit handling for backend requests.
//
// Two concerns live here:
//
// Policy computes how long to back off once the backend has rejected a
// request with a rate limit. If the backend reported when the limit resets,
// the wait is the time until reset plus Padding, never less than MinWait.
// Otherwise DefaultWait applies.
//
// Pacer proactively spaces requests so fewer of them get rejected at all.
// It is a token bucket from golang.org/x/time/rate configured in requests
// per minute.
//
// Usage:
//
//	policy := ratelimit.DefaultPolicy()
//	wait := policy.WaitFor(errs.ResetTime(err), time.Now())
//
//	pacer := ratelimit.NewPacer(30, 1)
//	if err := pacer.Wait(ctx); err != nil {
//	    return err
//	}
package ratelimit
