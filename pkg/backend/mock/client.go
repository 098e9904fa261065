// Package mock is an in-process search backend that serves deterministic
// synthetic posts. It needs a login (or cached cookies) like a real
// platform client and can inject rate limit and server failures.
package mock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"tweetsearch/pkg/auth"
	errs "tweetsearch/pkg/errors"
	"tweetsearch/pkg/search"
)

// Options shapes the generated results
type Options struct {
	// Pages is the number of pages a query yields, the initial one included
	Pages int
	// FailEvery makes every Nth request fail (0 disables)
	FailEvery int
	// FailStatuses cycles through the statuses used for injected failures
	FailStatuses []int
	// RateLimitReset is how far in the future an injected 429 resets
	RateLimitReset time.Duration
	Seed           int64
	Now            func() time.Time
}

// DefaultOptions returns five pages and no failures
func DefaultOptions() Options {
	return Options{
		Pages:          5,
		FailStatuses:   []int{429, 503},
		RateLimitReset: 30 * time.Second,
		Seed:           1,
	}
}

// Client is a fake platform client
type Client struct {
	opts Options

	mu       sync.Mutex
	cookies  map[string]string
	requests int
	failures int
}

// New creates a client
func New(opts Options) *Client {
	if opts.Pages <= 0 {
		opts.Pages = 1
	}
	if len(opts.FailStatuses) == 0 {
		opts.FailStatuses = DefaultOptions().FailStatuses
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Client{opts: opts}
}

// Login accepts any account with a username and password
func (c *Client) Login(ctx context.Context, account *auth.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if account == nil || account.Username == "" || account.Password == "" {
		return errs.FromStatus(401, "invalid username or password", nil)
	}

	sum := sha256.Sum256([]byte(account.Username + ":" + account.Password))
	c.SetCookies(map[string]string{
		"auth_token": hex.EncodeToString(sum[:16]),
		"ct0":        hex.EncodeToString(sum[16:]),
		"twid":       "u=" + account.Username,
	})
	return nil
}

// SetCookies replaces the session cookies
func (c *Client) SetCookies(cookies map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cookies = make(map[string]string, len(cookies))
	for k, v := range cookies {
		c.cookies[k] = v
	}
}

// Cookies returns a copy of the session cookies
func (c *Client) Cookies() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.cookies))
	for k, v := range c.cookies {
		out[k] = v
	}
	return out
}

// Requests returns how many search and next-page requests were made
func (c *Client) Requests() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests
}

// Search returns the first page for query
func (c *Client) Search(ctx context.Context, query string, mode search.Mode, count int) (search.Cursor, error) {
	if err := c.request(ctx); err != nil {
		return nil, err
	}
	if count <= 0 {
		count = 20
	}
	return c.page(query, mode, count, 1), nil
}

// request counts a request and decides whether it fails
func (c *Client) request(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cookies["auth_token"] == "" {
		return errs.FromStatus(401, "not authenticated", nil)
	}

	c.requests++
	if c.opts.FailEvery > 0 && c.requests%c.opts.FailEvery == 0 {
		status := c.opts.FailStatuses[c.failures%len(c.opts.FailStatuses)]
		c.failures++
		reset := c.opts.Now().Add(c.opts.RateLimitReset)
		return errs.FromStatus(status, fmt.Sprintf("injected failure %d", c.failures), &reset)
	}
	return nil
}

func (c *Client) page(query string, mode search.Mode, count, number int) *cursor {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%d", query, mode, number)
	rng := rand.New(rand.NewSource(c.opts.Seed ^ int64(h.Sum64())))

	now := c.opts.Now()
	items := make([]search.RawItem, 0, count)
	for i := 0; i < count; i++ {
		position := (number-1)*count + i
		items = append(items, generate(rng, query, mode, now, position))
	}

	return &cursor{client: c, query: query, mode: mode, count: count, number: number, items: items}
}

type cursor struct {
	client *Client
	query  string
	mode   search.Mode
	count  int
	number int
	items  []search.RawItem
}

func (cur *cursor) Items() []search.RawItem {
	return cur.items
}

// Next returns the following page, or nil after the last one
func (cur *cursor) Next(ctx context.Context) (search.Cursor, error) {
	if err := cur.client.request(ctx); err != nil {
		return nil, err
	}
	if cur.number >= cur.client.opts.Pages {
		return nil, nil
	}
	return cur.client.page(cur.query, cur.mode, cur.count, cur.number+1), nil
}
