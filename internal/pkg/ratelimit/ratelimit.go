// Package ratelimit provides a Redis-backed fixed-window rate limiter.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter tracks how many times a key has been used within a window.
type Limiter interface {
	// Allow consumes one unit for key; the returned Result reports whether the
	// caller may proceed and when the window resets.
	Allow(ctx context.Context, key string) (Result, error)
}

// Result describes the outcome of a limiter check.
type Result struct {
	// Allowed is true when the request fits in the current window.
	Allowed bool
	// Remaining is how many units are left in the window.
	Remaining int64
	// RetryAfter is how long until the window resets; zero when allowed.
	RetryAfter time.Duration
}

// FixedWindow implements Limiter with an INCR + EXPIRE counter per key.
//
// The counter is created with the window TTL on first increment, so a key's
// window starts at its first use rather than on wall-clock boundaries.
type FixedWindow struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

// NewFixedWindow constructs a limiter allowing limit uses per window.
func NewFixedWindow(client *redis.Client, prefix string, limit int64, window time.Duration) *FixedWindow {
	return &FixedWindow{
		client: client,
		prefix: "ratelimit:" + prefix + ":",
		limit:  limit,
		window: window,
	}
}

func (f *FixedWindow) Allow(ctx context.Context, key string) (Result, error) {
	fk := f.prefix + key

	count, err := f.client.Incr(ctx, fk).Result()
	if err != nil {
		return Result{}, err
	}

	if count == 1 {
		if err := f.client.Expire(ctx, fk, f.window).Err(); err != nil {
			return Result{}, err
		}
	}

	if count > f.limit {
		ttl, err := f.client.TTL(ctx, fk).Result()
		if err != nil {
			return Result{}, err
		}
		if ttl < 0 {
			// Counter lost its TTL (e.g. expire failed mid-crash); re-arm it so
			// the key does not block forever.
			if err := f.client.Expire(ctx, fk, f.window).Err(); err != nil {
				return Result{}, err
			}
			ttl = f.window
		}
		return Result{Allowed: false, Remaining: 0, RetryAfter: ttl}, nil
	}

	return Result{Allowed: true, Remaining: f.limit - count}, nil
}
