package service

//go:generate mockgen -destination=mock/mock_broadcaster.go -package=notificationmock anoa.com/fatetable/internal/modules/notification/service Broadcaster

import (
	"context"
	"encoding/json"
	"fmt"

	"anoa.com/fatetable/internal/entity"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Broadcaster pushes stored notifications to live listeners.
type Broadcaster interface {
	Publish(ctx context.Context, n entity.Notification) error
}

// Channel is the redis pubsub channel carrying a user's notifications.
func Channel(userID uuid.UUID) string {
	return fmt.Sprintf("user_notifications:%s", userID.String())
}

type redisBroadcaster struct {
	rdb *redis.Client
}

// NewRedisBroadcaster publishes on Channel. A nil client drops everything.
func NewRedisBroadcaster(rdb *redis.Client) Broadcaster {
	return &redisBroadcaster{rdb: rdb}
}

func (b *redisBroadcaster) Publish(ctx context.Context, n entity.Notification) error {
	if b.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	return b.rdb.Publish(ctx, Channel(n.UserID), payload).Err()
}
