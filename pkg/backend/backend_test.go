package backend

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tweetsearch/pkg/auth"
	"tweetsearch/pkg/config"
	errs "tweetsearch/pkg/errors"
	"tweetsearch/pkg/logger"
	"tweetsearch/pkg/search"
	"tweetsearch/pkg/session"
)

type waitRecorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (w *waitRecorder) Sleep(ctx context.Context, d time.Duration) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.waits = append(w.waits, d)
	return ctx.Err()
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Session.CookiesFile = filepath.Join(t.TempDir(), "cookies.json")
	return cfg
}

func creds() auth.Source {
	return auth.FromConfig(config.CredentialsConfig{Username: "gopher", Password: "pw"})
}

func TestNewClientFactory(t *testing.T) {
	factory, err := NewClientFactory(config.BackendConfig{Kind: "MOCK", Pages: 2, Seed: 3})
	require.NoError(t, err)
	assert.NotNil(t, factory())

	_, err = NewClientFactory(config.BackendConfig{Kind: "graphql"})
	assert.ErrorContains(t, err, "unknown backend")
}

func TestNewProviderLogsInOnce(t *testing.T) {
	cfg := testConfig(t)
	provider, err := NewProvider(cfg, creds(), logger.NewNopLogger())
	require.NoError(t, err)
	assert.IsType(t, &session.CachedProvider{}, provider)

	_, err = provider.Session(context.Background())
	require.NoError(t, err)

	store := session.NewCookieStore(cfg.Session.CookiesFile, logger.NewNopLogger())
	cookies, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "u=gopher", cookies["twid"])

	// cached cookies work without credentials
	cached, err := NewProvider(cfg, nil, logger.NewNopLogger())
	require.NoError(t, err)
	s, err := cached.Session(context.Background())
	require.NoError(t, err)
	_, err = s.Search(context.Background(), "#go", search.ModeTop, 20)
	assert.NoError(t, err)
}

func TestNewProviderWithoutCredentials(t *testing.T) {
	provider, err := NewProvider(testConfig(t), nil, logger.NewNopLogger())
	require.NoError(t, err)

	_, err = provider.Session(context.Background())
	assert.Equal(t, errs.ErrorTypeSession, errs.TypeOf(err))
}

func TestNewProviderPaced(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.RequestsPerMinute = 600
	cfg.RateLimit.BurstSize = 10

	provider, err := NewProvider(cfg, creds(), logger.NewNopLogger())
	require.NoError(t, err)
	assert.IsType(t, &session.PacedProvider{}, provider)

	s, err := provider.Session(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &session.PacedSession{}, s)
}

func TestSearchAgainstMockBackend(t *testing.T) {
	cfg := testConfig(t)
	provider, err := NewProvider(cfg, creds(), logger.NewNopLogger())
	require.NoError(t, err)

	sleeper := &waitRecorder{}
	opts := search.OptionsFromConfig(cfg)
	opts.Sleep = sleeper.Sleep
	opts.Logger = logger.NewNopLogger()

	items := search.NewSearcher(provider, opts).Search(context.Background(), search.DefaultRequest("#golang"))

	require.Len(t, items, 40)
	for i, it := range items {
		assert.Equal(t, i+1, it.Sequence)
		assert.NotEmpty(t, it.Author)
		assert.Contains(t, it.Text, "#golang")
	}
	assert.Len(t, sleeper.waits, 1, "one jittered pause before the second page")
}

func TestSearchSurvivesInjectedFailures(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend.FailEvery = 2
	provider, err := NewProvider(cfg, creds(), logger.NewNopLogger())
	require.NoError(t, err)

	sleeper := &waitRecorder{}
	opts := search.OptionsFromConfig(cfg)
	opts.Sleep = sleeper.Sleep
	opts.Logger = logger.NewNopLogger()

	items := search.NewSearcher(provider, opts).Search(context.Background(), search.DefaultRequest("#golang"))

	// page 2 is rate limited once (reset in 30s, so the 60s floor applies)
	require.Len(t, items, 40)
	require.Len(t, sleeper.waits, 3)
	assert.Equal(t, 60*time.Second, sleeper.waits[1])
}
