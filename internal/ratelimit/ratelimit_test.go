package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	l := NewMemoryLimiter(2, time.Minute)
	base := time.Date(2024, 1, 1, 10, 0, 15, 0, time.UTC)
	l.now = func() time.Time { return base }
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		res, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, int64(i), res.CurrentHits)
	}

	res, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, int64(0), res.Remaining)
	assert.Equal(t, 45*time.Second, res.RetryAfter)

	// other keys have their own counters
	res, err = l.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	// next window starts fresh
	l.now = func() time.Time { return base.Add(time.Minute) }
	res, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(1), res.CurrentHits)
}

func TestMemoryLimiter_CanceledContext(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Allow(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewResult_RetryAfterFallsBackToWindow(t *testing.T) {
	res := newResult(5, 3, -1, time.Minute)
	assert.False(t, res.Allowed)
	assert.Equal(t, time.Minute, res.RetryAfter)
}

func TestRedisLimiter_ReportsConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLimiter(client, "", 5, time.Minute)
	assert.Equal(t, "rl:", l.Prefix)

	_, err := l.Allow(context.Background(), "1.2.3.4")
	assert.Error(t, err)
}
