package memory

import (
	"context"
	"sync"
	"time"

	"github.com/snakegame/snake-api/internal/core/ports"
)

// RateLimiter is a per-process sliding-window counter store. Counters are
// lost on restart and not shared between instances; use the Redis limiter
// when running more than one server.
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

var _ ports.RateLimiter = (*RateLimiter)(nil)

func (l *RateLimiter) Allow(_ context.Context, key string) (ports.RateDecision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	hits := prune(l.hits[key], now.Add(-l.window))

	if len(hits) >= l.limit {
		l.hits[key] = hits
		return ports.RateDecision{
			Allowed:    false,
			Limit:      l.limit,
			Remaining:  0,
			RetryAfter: hits[0].Add(l.window).Sub(now),
		}, nil
	}

	hits = append(hits, now)
	l.hits[key] = hits
	return ports.RateDecision{
		Allowed:   true,
		Limit:     l.limit,
		Remaining: l.limit - len(hits),
	}, nil
}

// Sweep drops keys whose every hit has left the window.
func (l *RateLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	dropped := 0
	for key, hits := range l.hits {
		hits = prune(hits, cutoff)
		if len(hits) == 0 {
			delete(l.hits, key)
			dropped++
			continue
		}
		l.hits[key] = hits
	}
	return dropped
}

// prune drops timestamps at or before cutoff. hits is ordered oldest first.
func prune(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}
