// Package retry provides the retry loop and backoff strategies used by the
// search driver and the paginator.
//
// Do runs an operation until it succeeds, its error is not retryable, the
// attempt budget is spent or the context ends. Between attempts it sleeps for
// whatever the configured BackoffStrategy returns for the failed attempt's
// error. The sleep is pluggable so callers can record waits in tests instead
// of blocking.
//
// Strategies:
//   - ConstantBackoff: fixed delay
//   - JitterBackoff: uniform random delay in [Min, Max]
//   - RateLimitBackoff: delay derived from the error's reset time via a
//     ratelimit.Policy
//   - ErrorTypeBackoff: picks one of the above from the error's type
//
// Basic usage:
//
//	err := retry.Do(ctx, func(ctx context.Context, attempt int) error {
//		return fetch(ctx)
//	}, &retry.Config{
//		MaxAttempts: 3,
//		Backoff: &retry.ErrorTypeBackoff{
//			SessionBackoff:   &retry.ConstantBackoff{Delay: 5 * time.Second},
//			RateLimitBackoff: &retry.RateLimitBackoff{Policy: ratelimit.DefaultPolicy()},
//			DefaultBackoff:   &retry.ConstantBackoff{Delay: 10 * time.Second},
//		},
//	})
package retry
