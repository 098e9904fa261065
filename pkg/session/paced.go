package session

import (
	"context"
	"time"

	"tweetsearch/pkg/metrics"
	"tweetsearch/pkg/ratelimit"
	"tweetsearch/pkg/search"
)

// PacedProvider wraps every session it hands out in a PacedSession
type PacedProvider struct {
	provider search.SessionProvider
	limiter  ratelimit.Limiter
}

// NewPacedProvider paces all sessions from provider through limiter
func NewPacedProvider(provider search.SessionProvider, limiter ratelimit.Limiter) *PacedProvider {
	return &PacedProvider{provider: provider, limiter: limiter}
}

func (p *PacedProvider) Session(ctx context.Context) (search.Session, error) {
	s, err := p.provider.Session(ctx)
	if err != nil {
		return nil, err
	}
	return &PacedSession{session: s, limiter: p.limiter}, nil
}

// PacedSession waits for the limiter before the initial search and before
// every next-page fetch
type PacedSession struct {
	session search.Session
	limiter ratelimit.Limiter
}

// NewPacedSession wraps s
func NewPacedSession(s search.Session, limiter ratelimit.Limiter) *PacedSession {
	return &PacedSession{session: s, limiter: limiter}
}

func (s *PacedSession) Search(ctx context.Context, query string, mode search.Mode, count int) (search.Cursor, error) {
	if err := wait(ctx, s.limiter); err != nil {
		return nil, err
	}
	cursor, err := s.session.Search(ctx, query, mode, count)
	if err != nil || cursor == nil {
		return cursor, err
	}
	return &pacedCursor{cursor: cursor, limiter: s.limiter}, nil
}

type pacedCursor struct {
	cursor  search.Cursor
	limiter ratelimit.Limiter
}

func (c *pacedCursor) Items() []search.RawItem {
	return c.cursor.Items()
}

func (c *pacedCursor) Next(ctx context.Context) (search.Cursor, error) {
	if err := wait(ctx, c.limiter); err != nil {
		return nil, err
	}
	next, err := c.cursor.Next(ctx)
	if err != nil || next == nil {
		return next, err
	}
	return &pacedCursor{cursor: next, limiter: c.limiter}, nil
}

func wait(ctx context.Context, limiter ratelimit.Limiter) error {
	start := time.Now()
	if err := limiter.Wait(ctx); err != nil {
		return err
	}
	if waited := time.Since(start); waited > time.Millisecond {
		metrics.ObserveWait(metrics.ReasonPacing, waited)
	}
	return nil
}
