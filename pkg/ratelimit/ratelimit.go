package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Limiter gates repeated actions per user.
type Limiter interface {
	// Allow returns false while the user is still inside the window of a previous call.
	Allow(ctx context.Context, userID uuid.UUID, action string) (bool, error)
	TTL(ctx context.Context, userID uuid.UUID, action string) (time.Duration, error)
	Clear(ctx context.Context, userID uuid.UUID, action string) error
}

type redisLimiter struct {
	rdb    *redis.Client
	window time.Duration
}

// New returns a redis backed limiter. A nil client allows everything.
func New(rdb *redis.Client, window time.Duration) Limiter {
	return &redisLimiter{rdb: rdb, window: window}
}

func key(userID uuid.UUID, action string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
}

func (l *redisLimiter) Allow(ctx context.Context, userID uuid.UUID, action string) (bool, error) {
	if l.rdb == nil || l.window <= 0 {
		return true, nil
	}

	wasSet, err := l.rdb.SetNX(ctx, key(userID, action), "locked", l.window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func (l *redisLimiter) TTL(ctx context.Context, userID uuid.UUID, action string) (time.Duration, error) {
	if l.rdb == nil {
		return 0, nil
	}
	return l.rdb.TTL(ctx, key(userID, action)).Result()
}

func (l *redisLimiter) Clear(ctx context.Context, userID uuid.UUID, action string) error {
	if l.rdb == nil {
		return nil
	}
	_, err := l.rdb.Del(ctx, key(userID, action)).Result()
	return err
}
