package session

import (
	"context"
	"errors"
	"fmt"

	"tweetsearch/pkg/auth"
	errs "tweetsearch/pkg/errors"
	"tweetsearch/pkg/logger"
	"tweetsearch/pkg/search"
)

// Client is a platform client: a search session that can log in and carry
// cookies
type Client interface {
	search.Session
	SetCookies(cookies map[string]string)
	Cookies() map[string]string
	Login(ctx context.Context, account *auth.Account) error
}

// ClientFactory builds a new, unauthenticated client
type ClientFactory func() Client

// CachedProvider hands out a fresh client per call, authenticated from the
// cookie cache when it has cookies and by logging in otherwise
type CachedProvider struct {
	newClient ClientFactory
	cookies   *CookieStore
	creds     auth.Source
	logger    logger.Logger
}

// NewCachedProvider creates a provider
func NewCachedProvider(newClient ClientFactory, cookies *CookieStore, creds auth.Source, log logger.Logger) *CachedProvider {
	if log == nil {
		log = logger.GetLogger()
	}
	return &CachedProvider{
		newClient: newClient,
		cookies:   cookies,
		creds:     creds,
		logger:    log.WithField("component", "session"),
	}
}

// Session returns an authenticated client. Every failure is a session failure.
func (p *CachedProvider) Session(ctx context.Context) (search.Session, error) {
	client, err := p.authenticate(ctx)
	if err != nil {
		p.logger.WithError(err).Warn("Could not establish session")
		return nil, errs.SessionFailure(err)
	}
	return client, nil
}

func (p *CachedProvider) authenticate(ctx context.Context) (Client, error) {
	client := p.newClient()

	cookies, err := p.cookies.Load()
	if err != nil {
		return nil, err
	}
	if len(cookies) > 0 {
		client.SetCookies(cookies)
		p.logger.DebugWithFields("Using cached cookies", map[string]interface{}{
			"path": p.cookies.Path(),
		})
		return client, nil
	}

	if p.creds == nil {
		return nil, errors.New("no cached cookies and no credentials configured")
	}
	account, err := p.creds.Credentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("no cached cookies and no credentials: %w", err)
	}

	if err := client.Login(ctx, account); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	p.logger.InfoWithFields("Logged in", map[string]interface{}{
		"username": account.Username,
	})

	if err := p.cookies.Save(client.Cookies()); err != nil {
		return nil, err
	}
	return client, nil
}

// Reset drops the cookie cache so the next session logs in again
func (p *CachedProvider) Reset() error {
	return p.cookies.Delete()
}
