package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	errs "tweetsearch/pkg/errors"
	"tweetsearch/pkg/logger"
)

// ErrAttemptsExhausted wraps the last error once MaxAttempts is reached
var ErrAttemptsExhausted = errors.New("max retry attempts exceeded")

// Operation performs one attempt. attempt starts at 1.
type Operation func(ctx context.Context, attempt int) error

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Config holds retry configuration
type Config struct {
	// MaxAttempts is the maximum number of attempts (0 means unlimited)
	MaxAttempts int
	// Backoff strategy to use
	Backoff BackoffStrategy
	// RetryIf determines if an error should be retried; nil retries everything
	RetryIf func(error) bool
	// OnRetry is called before each retry delay
	OnRetry func(attempt int, err error, delay time.Duration)
	// WaitAfterLast applies the backoff after the final failed attempt too,
	// before ErrAttemptsExhausted is returned
	WaitAfterLast bool
	// Sleep defaults to Wait
	Sleep SleepFunc
	// Logger for retry attempts
	Logger logger.Logger
}

// DefaultRetryIf retries everything except not-found and context errors
func DefaultRetryIf(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return !errs.IsNotFound(err)
}

// Do runs op until it succeeds, RetryIf rejects its error, MaxAttempts is
// reached or ctx is done. No delay follows the final attempt unless
// WaitAfterLast is set.
func Do(ctx context.Context, op Operation, cfg *Config) error {
	if cfg == nil {
		cfg = &Config{MaxAttempts: 1}
	}

	sleep := cfg.Sleep
	if sleep == nil {
		sleep = Wait
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}

	for attempt := 1; ; attempt++ {
		err := op(ctx, attempt)
		if err == nil {
			if attempt > 1 {
				log.DebugWithFields("operation succeeded after retry", map[string]interface{}{
					"attempt": attempt,
				})
			}
			return nil
		}

		if cfg.RetryIf != nil && !cfg.RetryIf(err) {
			log.DebugWithFields("error is not retryable", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}

		var exhausted error
		if cfg.MaxAttempts > 0 && attempt >= cfg.MaxAttempts {
			log.WarnWithFields("max retry attempts exceeded", map[string]interface{}{
				"attempts":   attempt,
				"last_error": err.Error(),
			})
			exhausted = fmt.Errorf("%w (%d): %w", ErrAttemptsExhausted, cfg.MaxAttempts, err)
			if !cfg.WaitAfterLast {
				return exhausted
			}
		}

		var delay time.Duration
		if cfg.Backoff != nil {
			delay = cfg.Backoff.NextDelay(attempt, err)
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, delay)
		}

		log.DebugWithFields("retrying operation", map[string]interface{}{
			"attempt":      attempt,
			"error":        err.Error(),
			"delay":        delay,
			"max_attempts": cfg.MaxAttempts,
		})

		if err := sleep(ctx, delay); err != nil {
			return fmt.Errorf("retry cancelled: %w", err)
		}
		if exhausted != nil {
			return exhausted
		}
	}
}

// DoWithResult executes an operation that returns a result with retry logic
func DoWithResult[T any](ctx context.Context, op func(ctx context.Context, attempt int) (T, error), cfg *Config) (T, error) {
	var result T

	err := Do(ctx, func(ctx context.Context, attempt int) error {
		var opErr error
		result, opErr = op(ctx, attempt)
		return opErr
	}, cfg)

	return result, err
}
