package search

import (
	"context"
	"errors"
	"time"

	errs "tweetsearch/pkg/errors"
	"tweetsearch/pkg/logger"
	"tweetsearch/pkg/metrics"
	"tweetsearch/pkg/retry"
)

// attemptState is reset at the start of every outer attempt. Items from a
// failed attempt are discarded, never carried into the next session.
type attemptState struct {
	retries int
	items   []RawItem
}

// Driver wraps session acquisition, the initial fetch and pagination in a
// bounded retry loop
type Driver struct {
	provider  SessionProvider
	paginator *Paginator
	pageSize  int
	backoff   retry.BackoffStrategy
	sleep     retry.SleepFunc
	log       logger.Logger
}

// NewDriver creates a driver that obtains sessions from provider
func NewDriver(provider SessionProvider, opts Options) *Driver {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultOptions().PageSize
	}

	return &Driver{
		provider:  provider,
		paginator: NewPaginator(opts),
		pageSize:  pageSize,
		backoff: &retry.ErrorTypeBackoff{
			SessionBackoff:   &retry.ConstantBackoff{Delay: opts.SessionRetryDelay},
			RateLimitBackoff: opts.rateLimitBackoff(),
			DefaultBackoff:   &retry.ConstantBackoff{Delay: opts.ErrorRetryDelay},
		},
		sleep: opts.sleep(),
		log:   opts.logger().WithField("component", "driver"),
	}
}

// Run makes up to maxRetries attempts. Each attempt gets a fresh session and
// an empty accumulator. Once the initial fetch succeeds the attempt's result
// is returned, however short. Every failed attempt is followed by a wait,
// the last one included. When every attempt fails the last attempt's
// accumulator is returned.
func (d *Driver) Run(ctx context.Context, req Request, maxRetries int) []RawItem {
	var state attemptState
	if maxRetries <= 0 {
		return state.items
	}

	err := retry.Do(ctx, func(ctx context.Context, attempt int) error {
		state = attemptState{retries: attempt - 1}
		return d.attempt(ctx, req, &state)
	}, &retry.Config{
		MaxAttempts:   maxRetries,
		Backoff:       d.backoff,
		RetryIf:       retryUnlessCancelled,
		WaitAfterLast: true,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			d.onRetry(attempt, maxRetries, err, delay)
		},
		Sleep:  d.sleep,
		Logger: d.log,
	})
	if err != nil {
		d.log.WithError(err).WarnWithFields("Search attempts exhausted", map[string]interface{}{
			"query":   req.Query,
			"retries": state.retries,
		})
	}

	return state.items
}

func (d *Driver) attempt(ctx context.Context, req Request, state *attemptState) error {
	session, err := d.provider.Session(ctx)
	if err != nil {
		metrics.AttemptsTotal.WithLabelValues(metrics.OutcomeSessionFailure).Inc()
		if errs.TypeOf(err) != errs.ErrorTypeSession {
			err = errs.SessionFailure(err)
		}
		return err
	}

	cursor, err := session.Search(ctx, req.Query, req.Mode, d.pageSize)
	if err != nil {
		if errs.IsRateLimited(err) {
			metrics.RateLimitedTotal.WithLabelValues("initial").Inc()
			metrics.AttemptsTotal.WithLabelValues(metrics.OutcomeRateLimited).Inc()
		} else {
			metrics.AttemptsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		}
		// The session wait only follows a failed acquisition. An auth error
		// from the search itself waits like any other failure.
		if errs.TypeOf(err) == errs.ErrorTypeSession {
			err = errs.Transient(err)
		}
		return err
	}

	state.items = d.paginator.Accumulate(ctx, cursor, req.MinimumItems)
	metrics.AttemptsTotal.WithLabelValues(metrics.OutcomeCompleted).Inc()
	logger.LogSearchProgress(d.log, req.Query, req.Mode.String(), len(state.items), req.MinimumItems)
	return nil
}

func (d *Driver) onRetry(attempt, maxRetries int, err error, delay time.Duration) {
	switch errs.TypeOf(err) {
	case errs.ErrorTypeSession:
		metrics.ObserveWait(metrics.ReasonSession, delay)
	case errs.ErrorTypeRateLimit:
		metrics.ObserveWait(metrics.ReasonRateLimit, delay)
		logger.LogRateLimit(d.log, "initial", delay, errs.ResetTime(err))
	default:
		metrics.ObserveWait(metrics.ReasonError, delay)
	}
	logger.LogAttemptFailed(d.log, attempt, maxRetries, err, delay)
}

func retryUnlessCancelled(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
