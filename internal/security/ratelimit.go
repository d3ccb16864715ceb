package security

import (
	"sync"
	"time"
)

// RateLimiter enforces a sliding-window request quota per client key.
type RateLimiter struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	requests    map[string][]time.Time
	now         func() time.Time
}

// NewRateLimiter creates a limiter allowing maxRequests per window per key.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		requests:    map[string][]time.Time{},
		now:         time.Now,
	}
}

// Allow records a request for the key and reports whether it fits in the
// window. Rejected requests are not recorded.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	// Timestamps are appended in order, so a key whose newest entry has
	// aged out holds no live requests and can be dropped.
	for k, times := range rl.requests {
		if k == key {
			continue
		}
		if len(times) == 0 || !times[len(times)-1].After(cutoff) {
			delete(rl.requests, k)
		}
	}

	recent := rl.requests[key][:0]
	for _, ts := range rl.requests[key] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= rl.maxRequests {
		rl.requests[key] = recent
		return false
	}

	rl.requests[key] = append(recent, now)
	return true
}
