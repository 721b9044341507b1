package ratelimit

import (
	"sync"
	"time"
)

// Limiter decides if a request from key should be allowed.
// Allow returns (allowed, retryAfterSeconds). When allowed is false, retryAfterSeconds
// may be set for the Retry-After response header (0 = omit).
type Limiter interface {
	Allow(key string) (allowed bool, retryAfterSec int)
}

// Noop allows all requests.
type Noop struct{}

func (Noop) Allow(key string) (bool, int) { return true, 0 }

// PerMinute returns an in-memory limiter for n requests per minute per key, or Noop when n <= 0.
func PerMinute(n int) Limiter {
	if n <= 0 {
		return Noop{}
	}
	return NewInMemory(n, time.Minute)
}

// InMemory is a sliding-window rate limiter per key (single-instance only).
// Keys are lobby clients by IP and websocket players by "game:player".
type InMemory struct {
	mu      sync.Mutex
	entries map[string][]time.Time
	limit   int
	window  time.Duration
	nowFunc func() time.Time
}

// NewInMemory allows up to limit requests per key per window.
func NewInMemory(limit int, window time.Duration) *InMemory {
	return &InMemory{
		entries: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		nowFunc: time.Now,
	}
}

func (r *InMemory) Allow(key string) (allowed bool, retryAfterSec int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.nowFunc()
	times := prune(r.entries[key], now.Add(-r.window))
	if len(times) >= r.limit {
		r.entries[key] = times
		retryAfter := times[0].Add(r.window).Sub(now)
		if retryAfter > 0 {
			retryAfterSec = int(retryAfter.Seconds())
			if retryAfterSec < 1 {
				retryAfterSec = 1
			}
		}
		return false, retryAfterSec
	}
	r.entries[key] = append(times, now)
	return true, 0
}

// Sweep drops keys with no request inside the window and returns how many were removed.
func (r *InMemory) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.nowFunc().Add(-r.window)
	removed := 0
	for key, times := range r.entries {
		if times = prune(times, cutoff); len(times) == 0 {
			delete(r.entries, key)
			removed++
		} else {
			r.entries[key] = times
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (r *InMemory) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func prune(times []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for _, t := range times {
		if t.After(cutoff) {
			times[i] = t
			i++
		}
	}
	return times[:i]
}
