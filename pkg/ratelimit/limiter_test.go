package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestPolicyWaitFor(t *testing.T) {
	now := time.Unix(1700000000, 0)
	at := func(d time.Duration) *time.Time {
		ts := now.Add(d)
		return &ts
	}

	tests := []struct {
		name     string
		resetAt  *time.Time
		expected time.Duration
	}{
		{"no reset time", nil, 120 * time.Second},
		{"zero reset time", &time.Time{}, 120 * time.Second},
		{"reset soon uses floor", at(50 * time.Second), 60 * time.Second},
		{"reset exactly at floor", at(55 * time.Second), 60 * time.Second},
		{"reset far away", at(200 * time.Second), 205 * time.Second},
		{"reset in the past", at(-30 * time.Second), 60 * time.Second},
	}

	policy := DefaultPolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, policy.WaitFor(tt.resetAt, now))
		})
	}
}

func TestPacerBurst(t *testing.T) {
	p := NewPacer(1, 2)

	assert.True(t, p.Allow())
	assert.True(t, p.Allow())
	assert.False(t, p.Allow(), "third request within the same minute should be held back")
	assert.InDelta(t, 1.0/60.0, float64(p.Limit()), 1e-9)
}

func TestPacerUnlimited(t *testing.T) {
	p := NewPacer(0, 0)
	assert.Equal(t, rate.Inf, p.Limit())

	for i := 0; i < 100; i++ {
		require.True(t, p.Allow())
	}
	assert.NoError(t, p.Wait(context.Background()))
}

func TestPacerWaitHonoursContext(t *testing.T) {
	p := NewPacer(1, 1)
	require.True(t, p.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, p.Wait(ctx))
}

func TestUnlimited(t *testing.T) {
	var l Limiter = Unlimited{}
	assert.True(t, l.Allow())
	assert.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.Wait(ctx), context.Canceled)
}
