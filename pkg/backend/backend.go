// Package backend selects the platform client behind search sessions and
// wraps it with the cookie cache and request pacing.
package backend

import (
	"fmt"
	"strings"

	"tweetsearch/pkg/auth"
	"tweetsearch/pkg/backend/mock"
	"tweetsearch/pkg/config"
	"tweetsearch/pkg/logger"
	"tweetsearch/pkg/ratelimit"
	"tweetsearch/pkg/search"
	"tweetsearch/pkg/session"
)

// Kinds accepted in backend.kind
const (
	KindMock = "mock"
)

// NewClientFactory returns the client constructor for cfg.Backend.Kind
func NewClientFactory(cfg config.BackendConfig) (session.ClientFactory, error) {
	switch strings.ToLower(cfg.Kind) {
	case KindMock:
		opts := mock.DefaultOptions()
		opts.Pages = cfg.Pages
		opts.FailEvery = cfg.FailEvery
		opts.Seed = cfg.Seed
		return func() session.Client { return mock.New(opts) }, nil
	default:
		return nil, fmt.Errorf("unknown backend: %q (use %q)", cfg.Kind, KindMock)
	}
}

// NewProvider builds the session provider described by cfg. Sessions come
// from the cookie cache or a login with creds, and are paced when
// rate_limit.requests_per_minute is set.
func NewProvider(cfg *config.Config, creds auth.Source, log logger.Logger) (search.SessionProvider, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	factory, err := NewClientFactory(cfg.Backend)
	if err != nil {
		return nil, err
	}

	cookies := session.NewCookieStore(cfg.Session.CookiesFile, log)
	var provider search.SessionProvider = session.NewCachedProvider(factory, cookies, creds, log)

	if cfg.RateLimit.RequestsPerMinute > 0 {
		pacer := ratelimit.NewPacer(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize)
		provider = session.NewPacedProvider(provider, pacer)
		log.DebugWithFields("Request pacing enabled", map[string]interface{}{
			"requests_per_minute": cfg.RateLimit.RequestsPerMinute,
			"burst":               cfg.RateLimit.BurstSize,
		})
	}

	return provider, nil
}
