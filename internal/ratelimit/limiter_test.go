package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_NoLimitConfigured(t *testing.T) {
	l := New()

	for i := 0; i < 100; i++ {
		require.True(t, l.Allow(APIAlphaVantage))
	}
	require.NoError(t, l.Wait(context.Background(), APIYahoo))
}

func TestLimiter_NilIsUnlimited(t *testing.T) {
	var l *Limiter

	assert.True(t, l.Allow(APIAlphaVantage))
	assert.NoError(t, l.Wait(context.Background(), APIAlphaVantage))
}

func TestLimiter_SetPerMinute(t *testing.T) {
	l := New()
	l.SetPerMinute(APIAlphaVantage, AlphaVantageFreeTierPerMinute, 1)

	// Burst of one: the first call passes, the next one must wait ~12s.
	assert.True(t, l.Allow(APIAlphaVantage))
	assert.False(t, l.Allow(APIAlphaVantage))

	// Other APIs are unaffected
	assert.True(t, l.Allow(APIYahoo))
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := New()
	l.SetPerMinute(APIAlphaVantage, 1, 1)
	require.True(t, l.Allow(APIAlphaVantage))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx, APIAlphaVantage)
	require.Error(t, err)
}

func TestLimiter_RemoveLimit(t *testing.T) {
	l := New()
	l.SetPerMinute(APIAlphaVantage, 1, 1)
	require.True(t, l.Allow(APIAlphaVantage))
	require.False(t, l.Allow(APIAlphaVantage))

	l.SetPerMinute(APIAlphaVantage, 0, 0)
	assert.True(t, l.Allow(APIAlphaVantage))
}
