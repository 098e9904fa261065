package search

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"tweetsearch/pkg/logger"
)

type fakeItem struct {
	author    string
	text      string
	createdAt time.Time
	retweets  int
	favorites int
}

func (f fakeItem) Author() string       { return f.author }
func (f fakeItem) Text() string         { return f.text }
func (f fakeItem) CreatedAt() time.Time { return f.createdAt }
func (f fakeItem) Retweets() int        { return f.retweets }
func (f fakeItem) Favorites() int       { return f.favorites }

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// makeItems builds n items whose text carries the page and position
func makeItems(page, n int) []RawItem {
	items := make([]RawItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, fakeItem{
			author:    fmt.Sprintf("user%d", i%7),
			text:      fmt.Sprintf("page %d item %d", page, i),
			createdAt: baseTime.Add(-time.Duration(page*100+i) * time.Minute),
			retweets:  i,
			favorites: i * 2,
		})
	}
	return items
}

// step scripts the response to one Next call
type step struct {
	items   []RawItem
	nilPage bool
	err     error
}

// fakeBackend replays scripted Next responses in order and records which page
// index each Next call was made from
type fakeBackend struct {
	mu        sync.Mutex
	steps     []step
	nextCalls []int
}

func (b *fakeBackend) cursor(items []RawItem) *fakeCursor {
	return &fakeCursor{backend: b, items: items, page: 1}
}

func (b *fakeBackend) calls() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.nextCalls...)
}

type fakeCursor struct {
	backend *fakeBackend
	items   []RawItem
	page    int
}

func (c *fakeCursor) Items() []RawItem { return c.items }

func (c *fakeCursor) Next(ctx context.Context) (Cursor, error) {
	b := c.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := len(b.nextCalls)
	b.nextCalls = append(b.nextCalls, c.page)
	if idx >= len(b.steps) {
		return nil, nil
	}

	s := b.steps[idx]
	if s.err != nil {
		return nil, s.err
	}
	if s.nilPage {
		return nil, nil
	}
	return &fakeCursor{backend: b, items: s.items, page: c.page + 1}, nil
}

// fakeSession returns initial results or scripted errors per Search call
type fakeSession struct {
	provider *fakeProvider
}

func (s *fakeSession) Search(ctx context.Context, query string, mode Mode, count int) (Cursor, error) {
	p := s.provider
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := len(p.searches)
	p.searches = append(p.searches, searchCall{query: query, mode: mode, count: count})
	if idx < len(p.searchErrs) && p.searchErrs[idx] != nil {
		return nil, p.searchErrs[idx]
	}
	return p.backend.cursor(p.initial), nil
}

type searchCall struct {
	query string
	mode  Mode
	count int
}

// fakeProvider hands out a new session per call, failing while sessionErrs
// has an entry for the call
type fakeProvider struct {
	mu          sync.Mutex
	backend     *fakeBackend
	initial     []RawItem
	sessionErrs []error
	searchErrs  []error

	sessions int
	searches []searchCall
}

func (p *fakeProvider) Session(ctx context.Context) (Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.sessions
	p.sessions++
	if idx < len(p.sessionErrs) && p.sessionErrs[idx] != nil {
		return nil, p.sessionErrs[idx]
	}
	return &fakeSession{provider: p}, nil
}

// recordingSleeper records waits instead of sleeping. cancelAt cancels the
// context on the given 1-based wait.
type recordingSleeper struct {
	mu       sync.Mutex
	waits    []time.Duration
	cancelAt int
	cancel   context.CancelFunc
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.waits = append(r.waits, d)
	n := len(r.waits)
	r.mu.Unlock()

	if r.cancelAt > 0 && n == r.cancelAt && r.cancel != nil {
		r.cancel()
	}
	return ctx.Err()
}

func (r *recordingSleeper) recorded() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.waits...)
}

func testOptions(sleeper *recordingSleeper, now time.Time) Options {
	opts := DefaultOptions()
	opts.Sleep = sleeper.Sleep
	opts.Rand = rand.New(rand.NewSource(7))
	opts.Now = func() time.Time { return now }
	opts.Logger = logger.NewNopLogger()
	return opts
}
