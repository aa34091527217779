package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/snakegame/snake-api/internal/core/ports"
)

// RateLimiter is a sliding-window limiter shared by every server instance.
// Each key is a sorted set of request timestamps (unix millis).
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

var _ ports.RateLimiter = (*RateLimiter)(nil)

// Allow records the request, then undoes the record when it exceeds the limit
// so rejected requests do not extend the block.
func (l *RateLimiter) Allow(ctx context.Context, key string) (ports.RateDecision, error) {
	now := l.now()
	k := rateLimitKey(key)
	member := uuid.NewString()
	nowMs := now.UnixMilli()
	cutoff := now.Add(-l.window).UnixMilli()

	var card *redis.IntCmd
	var oldest *redis.ZSliceCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, k, "-inf", strconv.FormatInt(cutoff, 10))
		pipe.ZAdd(ctx, k, redis.Z{Score: float64(nowMs), Member: member})
		card = pipe.ZCard(ctx, k)
		oldest = pipe.ZRangeWithScores(ctx, k, 0, 0)
		pipe.PExpire(ctx, k, l.window)
		return nil
	})
	if err != nil {
		return ports.RateDecision{}, fmt.Errorf("rate limiter: %w", err)
	}

	count := int(card.Val())
	if count <= l.limit {
		return ports.RateDecision{
			Allowed:   true,
			Limit:     l.limit,
			Remaining: l.limit - count,
		}, nil
	}

	if err := l.client.ZRem(ctx, k, member).Err(); err != nil {
		return ports.RateDecision{}, fmt.Errorf("rate limiter: undo: %w", err)
	}

	retryAfter := l.window
	if zs := oldest.Val(); len(zs) > 0 {
		retryAfter = time.UnixMilli(int64(zs[0].Score)).Add(l.window).Sub(now)
	}
	return ports.RateDecision{
		Allowed:    false,
		Limit:      l.limit,
		RetryAfter: retryAfter,
	}, nil
}
