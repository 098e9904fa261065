package search

import (
	"math/rand"
	"time"

	"tweetsearch/pkg/config"
	"tweetsearch/pkg/logger"
	"tweetsearch/pkg/ratelimit"
	"tweetsearch/pkg/retry"
)

// Options holds the timings and collaborators for the driver and paginator
type Options struct {
	// MaxRetries is the number of outer attempts per search
	MaxRetries int
	// PageSize is the page size of the initial fetch
	PageSize int

	// SessionRetryDelay follows a failed session acquisition
	SessionRetryDelay time.Duration
	// ErrorRetryDelay follows a failed initial fetch that was not rate limited
	ErrorRetryDelay time.Duration

	// JitterMin and JitterMax bound the pause before each next-page fetch
	JitterMin time.Duration
	JitterMax time.Duration
	// PageErrorDelay follows a failed next-page fetch that was not rate limited
	PageErrorDelay time.Duration
	// MaxPageRetries caps the retries of one page after its first failed fetch
	// (0 means unlimited)
	MaxPageRetries int

	RateLimit ratelimit.Policy

	// Sleep, Rand and Now default to retry.Wait, the global source and time.Now
	Sleep retry.SleepFunc
	Rand  *rand.Rand
	Now   func() time.Time

	Logger logger.Logger
}

// DefaultOptions returns the stock timings
func DefaultOptions() Options {
	return Options{
		MaxRetries:        3,
		PageSize:          20,
		SessionRetryDelay: 5 * time.Second,
		ErrorRetryDelay:   10 * time.Second,
		JitterMin:         5 * time.Second,
		JitterMax:         10 * time.Second,
		PageErrorDelay:    10 * time.Second,
		RateLimit:         ratelimit.DefaultPolicy(),
	}
}

// OptionsFromConfig builds Options from the loaded configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxRetries:        cfg.Retry.MaxRetries,
		PageSize:          cfg.Search.PageSize,
		SessionRetryDelay: cfg.Retry.SessionRetryDelay,
		ErrorRetryDelay:   cfg.Retry.ErrorRetryDelay,
		JitterMin:         cfg.Pagination.JitterMin,
		JitterMax:         cfg.Pagination.JitterMax,
		PageErrorDelay:    cfg.Pagination.ErrorRetryDelay,
		MaxPageRetries:    cfg.Pagination.MaxPageRetries,
		RateLimit: ratelimit.Policy{
			DefaultWait: cfg.Pagination.RateLimitDefaultWait,
			MinWait:     cfg.Pagination.RateLimitMinWait,
			Padding:     cfg.Pagination.RateLimitPadding,
		},
	}
}

func (o Options) sleep() retry.SleepFunc {
	if o.Sleep != nil {
		return o.Sleep
	}
	return retry.Wait
}

func (o Options) logger() logger.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logger.GetLogger()
}

func (o Options) rateLimitBackoff() retry.BackoffStrategy {
	return &retry.RateLimitBackoff{Policy: o.RateLimit, Now: o.Now}
}
