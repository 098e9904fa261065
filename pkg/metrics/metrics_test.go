package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptsTotal(t *testing.T) {
	before := testutil.ToFloat64(AttemptsTotal.WithLabelValues(OutcomeCompleted))
	AttemptsTotal.WithLabelValues(OutcomeCompleted).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(AttemptsTotal.WithLabelValues(OutcomeCompleted)))
}

func TestObserveWait(t *testing.T) {
	ObserveWait(ReasonRateLimit, 90*time.Second)

	require.Equal(t, 1, testutil.CollectAndCount(WaitSeconds, "tweetsearch_wait_seconds"))
	problems, err := testutil.CollectAndLint(WaitSeconds)
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestMetricNames(t *testing.T) {
	PagesTotal.Inc()
	RateLimitedTotal.WithLabelValues("pagination").Inc()
	ItemsCollected.Observe(30)

	assert.Equal(t, 1, testutil.CollectAndCount(PagesTotal, "tweetsearch_pages_total"))
	assert.GreaterOrEqual(t, testutil.CollectAndCount(RateLimitedTotal, "tweetsearch_rate_limited_total"), 1)
	assert.Equal(t, 1, testutil.CollectAndCount(ItemsCollected, "tweetsearch_items_collected"))
}
