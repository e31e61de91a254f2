package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis dials the redis URL and checks it answers. An empty URL
// returns a nil client, which every redis consumer treats as disabled.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		slog.Warn("REDIS_URL not set, rate limiting and live push disabled")
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.ConnMaxIdleTime = 5 * time.Minute

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}

	slog.Info("redis connected", "addr", opts.Addr)
	return rdb, nil
}
