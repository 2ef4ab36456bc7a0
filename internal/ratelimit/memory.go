package ratelimit

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter is the single-process counterpart of RedisLimiter.
type MemoryLimiter struct {
	cache  *gocache.Cache
	max    int64
	window time.Duration
	now    func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		cache:  gocache.New(window, time.Minute),
		max:    int64(max),
		window: window,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	now := l.now()
	winStart := now.Truncate(l.window)
	k := fmt.Sprintf("%s:%d", key, winStart.UnixNano())
	ttl := winStart.Add(l.window).Sub(now)

	var hits int64
	var err error
	// the entry can expire between Add and IncrementInt64; one retry recreates it
	for attempt := 0; attempt < 2; attempt++ {
		_ = l.cache.Add(k, int64(0), ttl)
		if hits, err = l.cache.IncrementInt64(k, 1); err == nil {
			break
		}
	}
	if err != nil {
		return Result{}, fmt.Errorf("rate limit counter: %w", err)
	}
	return newResult(hits, l.max, ttl, l.window), nil
}
