// Package ratelimit implements fixed-window request limiting, backed either by Redis
// (shared between server instances) or by a process-local cache.
package ratelimit

import (
	"context"
	"time"
)

// Result describes the outcome of one Allow call.
type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	WindowTTL   time.Duration
	CurrentHits int64
}

// Limiter counts hits per key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

func newResult(hits, max int64, ttl, window time.Duration) Result {
	remaining := max - hits
	if remaining < 0 {
		remaining = 0
	}
	res := Result{
		Allowed:     hits <= max,
		Remaining:   remaining,
		CurrentHits: hits,
		WindowTTL:   ttl,
	}
	if !res.Allowed {
		res.RetryAfter = ttl
		if res.RetryAfter <= 0 {
			res.RetryAfter = window
		}
	}
	return res
}
