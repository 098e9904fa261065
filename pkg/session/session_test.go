package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tweetsearch/pkg/auth"
	errs "tweetsearch/pkg/errors"
	"tweetsearch/pkg/logger"
	"tweetsearch/pkg/search"
)

type fakeClient struct {
	cookies  map[string]string
	loggedIn *auth.Account
	loginErr error
}

func (c *fakeClient) Search(ctx context.Context, query string, mode search.Mode, count int) (search.Cursor, error) {
	return nil, nil
}

func (c *fakeClient) SetCookies(cookies map[string]string) { c.cookies = cookies }
func (c *fakeClient) Cookies() map[string]string           { return c.cookies }

func (c *fakeClient) Login(ctx context.Context, account *auth.Account) error {
	if c.loginErr != nil {
		return c.loginErr
	}
	c.loggedIn = account
	c.cookies = map[string]string{"auth_token": "token-for-" + account.Username, "ct0": "csrf"}
	return nil
}

type clientRecorder struct {
	mu       sync.Mutex
	clients  []*fakeClient
	loginErr error
}

func (r *clientRecorder) factory() Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := &fakeClient{loginErr: r.loginErr}
	r.clients = append(r.clients, c)
	return c
}

func staticCreds(account *auth.Account) auth.Source {
	return auth.SourceFunc(func(ctx context.Context) (*auth.Account, error) {
		return account, nil
	})
}

func TestCookieStoreLoadMissingOrEmpty(t *testing.T) {
	dir := t.TempDir()
	store := NewCookieStore(filepath.Join(dir, "cookies.json"), logger.NewNopLogger())

	cookies, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, cookies)
	assert.False(t, store.Exists())

	require.NoError(t, os.WriteFile(store.Path(), nil, 0600))
	cookies, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, cookies)

	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"cookies":{}}`), 0600))
	cookies, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, cookies)
}

func TestCookieStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cookies.json")
	store := NewCookieStore(path, logger.NewNopLogger())

	require.NoError(t, store.Save(map[string]string{"auth_token": "abc", "ct0": "def"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	cookies, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"auth_token": "abc", "ct0": "def"}, cookies)

	require.NoError(t, store.Delete())
	assert.False(t, store.Exists())
	require.NoError(t, store.Delete())
}

func TestCookieStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewCookieStore(path, logger.NewNopLogger()).Load()
	assert.Error(t, err)
}

func TestCachedProviderUsesCookies(t *testing.T) {
	store := NewCookieStore(filepath.Join(t.TempDir(), "cookies.json"), logger.NewNopLogger())
	require.NoError(t, store.Save(map[string]string{"auth_token": "cached"}))

	rec := &clientRecorder{}
	provider := NewCachedProvider(rec.factory, store, nil, logger.NewNopLogger())

	s, err := provider.Session(context.Background())
	require.NoError(t, err)
	require.Len(t, rec.clients, 1)
	assert.Same(t, rec.clients[0], s)
	assert.Nil(t, rec.clients[0].loggedIn)
	assert.Equal(t, "cached", rec.clients[0].cookies["auth_token"])
}

func TestCachedProviderLogsInAndCaches(t *testing.T) {
	store := NewCookieStore(filepath.Join(t.TempDir(), "cookies.json"), logger.NewNopLogger())
	rec := &clientRecorder{}
	account := &auth.Account{Username: "gopher", Password: "pw"}
	provider := NewCachedProvider(rec.factory, store, staticCreds(account), logger.NewNopLogger())

	_, err := provider.Session(context.Background())
	require.NoError(t, err)
	assert.Same(t, account, rec.clients[0].loggedIn)

	cookies, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "token-for-gopher", cookies["auth_token"])

	// second call gets a new client that reuses the cache
	_, err = provider.Session(context.Background())
	require.NoError(t, err)
	require.Len(t, rec.clients, 2)
	assert.Nil(t, rec.clients[1].loggedIn)

	require.NoError(t, provider.Reset())
	assert.False(t, store.Exists())
}

func TestCachedProviderFailures(t *testing.T) {
	tests := []struct {
		name     string
		creds    auth.Source
		loginErr error
	}{
		{"no credentials source", nil, nil},
		{"credentials missing", auth.NewManagerWithStores(auth.NewMockStore()), nil},
		{"login rejected", staticCreds(&auth.Account{Username: "gopher", Password: "bad"}), errors.New("401 unauthorized")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewCookieStore(filepath.Join(t.TempDir(), "cookies.json"), logger.NewNopLogger())
			rec := &clientRecorder{loginErr: tt.loginErr}
			provider := NewCachedProvider(rec.factory, store, tt.creds, logger.NewNopLogger())

			s, err := provider.Session(context.Background())
			assert.Nil(t, s)
			require.Error(t, err)
			assert.Equal(t, errs.ErrorTypeSession, errs.TypeOf(err))
			assert.False(t, store.Exists())
		})
	}
}

type countingLimiter struct {
	mu    sync.Mutex
	waits int
	err   error
}

func (l *countingLimiter) Allow() bool { return true }

func (l *countingLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.waits++
	return l.err
}

type pageCursor struct {
	items []search.RawItem
	left  int
}

func (c *pageCursor) Items() []search.RawItem { return c.items }

func (c *pageCursor) Next(ctx context.Context) (search.Cursor, error) {
	if c.left == 0 {
		return nil, nil
	}
	return &pageCursor{items: c.items, left: c.left - 1}, nil
}

type cursorSession struct{ pages int }

func (s cursorSession) Search(ctx context.Context, query string, mode search.Mode, count int) (search.Cursor, error) {
	return &pageCursor{left: s.pages}, nil
}

type sessionFunc func(ctx context.Context) (search.Session, error)

func (f sessionFunc) Session(ctx context.Context) (search.Session, error) { return f(ctx) }

func TestPacedSession(t *testing.T) {
	limiter := &countingLimiter{}
	s := NewPacedSession(cursorSession{pages: 2}, limiter)

	cursor, err := s.Search(context.Background(), "#go", search.ModeTop, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, limiter.waits)

	for cursor != nil {
		cursor, err = cursor.Next(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 4, limiter.waits, "one wait for the search and one per next-page call")
}

func TestPacedProviderPropagatesErrors(t *testing.T) {
	limiter := &countingLimiter{err: context.DeadlineExceeded}
	provider := NewPacedProvider(sessionFunc(func(ctx context.Context) (search.Session, error) {
		return cursorSession{pages: 1}, nil
	}), limiter)

	s, err := provider.Session(context.Background())
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "#go", search.ModeTop, 20)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	failing := NewPacedProvider(sessionFunc(func(ctx context.Context) (search.Session, error) {
		return nil, errs.SessionFailure(errors.New("down"))
	}), limiter)
	_, err = failing.Session(context.Background())
	assert.Equal(t, errs.ErrorTypeSession, errs.TypeOf(err))
}

func TestCookieStoreSavedAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, NewCookieStore(path, logger.NewNopLogger()).Save(map[string]string{"a": "b"}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"saved_at"`)
	assert.Contains(t, string(content), `"version": 1`)
}
