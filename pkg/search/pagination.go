package search

import (
	"context"
	"time"

	errs "tweetsearch/pkg/errors"
	"tweetsearch/pkg/logger"
	"tweetsearch/pkg/metrics"
	"tweetsearch/pkg/retry"
)

// Paginator grows a result set page by page until a target count is met
type Paginator struct {
	jitter         retry.BackoffStrategy
	backoff        retry.BackoffStrategy
	maxPageRetries int
	sleep          retry.SleepFunc
	log            logger.Logger
}

// NewPaginator creates a paginator from opts
func NewPaginator(opts Options) *Paginator {
	return &Paginator{
		jitter: retry.NewJitterBackoff(opts.JitterMin, opts.JitterMax, opts.Rand),
		backoff: &retry.ErrorTypeBackoff{
			RateLimitBackoff: opts.rateLimitBackoff(),
			DefaultBackoff:   &retry.ConstantBackoff{Delay: opts.PageErrorDelay},
		},
		maxPageRetries: opts.MaxPageRetries,
		sleep:          opts.sleep(),
		log:            opts.logger().WithField("component", "paginator"),
	}
}

// Accumulate returns the initial page's items followed by subsequent pages
// until at least target items are held, the results run out, the backend
// reports not-found or ctx is done. Page errors never escape: rate limits and
// other failures are waited out and the same page is fetched again.
func (p *Paginator) Accumulate(ctx context.Context, initial Cursor, target int) []RawItem {
	if initial == nil {
		return []RawItem{}
	}

	items := append([]RawItem{}, initial.Items()...)
	cursor := initial

	for len(items) < target {
		next, err := p.fetchNext(ctx, cursor)
		if err != nil {
			p.log.WithError(err).InfoWithFields("Stopping pagination", map[string]interface{}{
				"collected": len(items),
				"target":    target,
			})
			break
		}
		if next == nil || len(next.Items()) == 0 {
			p.log.DebugWithFields("No more pages", map[string]interface{}{
				"collected": len(items),
			})
			break
		}

		items = append(items, next.Items()...)
		cursor = next
		metrics.PagesTotal.Inc()

		p.log.DebugWithFields("Fetched page", map[string]interface{}{
			"page_items": len(next.Items()),
			"collected":  len(items),
			"target":     target,
		})
	}

	return items
}

// fetchNext requests the page after cursor, pausing a jittered interval
// before every try
func (p *Paginator) fetchNext(ctx context.Context, cursor Cursor) (Cursor, error) {
	maxAttempts := p.maxPageRetries
	if maxAttempts > 0 {
		maxAttempts++
	}

	return retry.DoWithResult(ctx, func(ctx context.Context, attempt int) (Cursor, error) {
		pause := p.jitter.NextDelay(attempt, nil)
		metrics.ObserveWait(metrics.ReasonJitter, pause)
		if err := p.sleep(ctx, pause); err != nil {
			return nil, err
		}

		next, err := cursor.Next(ctx)
		if err != nil {
			if errs.IsRateLimited(err) {
				metrics.RateLimitedTotal.WithLabelValues("pagination").Inc()
			}
			return nil, err
		}
		return next, nil
	}, &retry.Config{
		MaxAttempts: maxAttempts,
		Backoff:     p.backoff,
		RetryIf:     retry.DefaultRetryIf,
		OnRetry:     p.onRetry,
		Sleep:       p.sleep,
		Logger:      p.log,
	})
}

func (p *Paginator) onRetry(attempt int, err error, delay time.Duration) {
	if errs.IsRateLimited(err) {
		metrics.ObserveWait(metrics.ReasonRateLimit, delay)
		logger.LogRateLimit(p.log, "pagination", delay, errs.ResetTime(err))
		return
	}

	metrics.ObserveWait(metrics.ReasonError, delay)
	p.log.WithError(err).WarnWithFields("Page fetch failed, retrying", map[string]interface{}{
		"attempt": attempt,
		"delay":   delay,
	})
}
