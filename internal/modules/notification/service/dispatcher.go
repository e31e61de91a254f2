package service

import (
	"context"
	"fmt"
	"log/slog"

	"anoa.com/fatetable/internal/entity"
	notifRepo "anoa.com/fatetable/internal/modules/notification/repository"
)

// Dispatcher delivers the notices returned by state-machine operations.
type Dispatcher interface {
	// Dispatch stores notices. Inside a transaction the rows commit or roll
	// back with the caller's writes.
	Dispatch(ctx context.Context, notices []Notice) ([]entity.Notification, error)
	// Broadcast pushes stored rows to live listeners. Call after commit.
	Broadcast(ctx context.Context, rows []entity.Notification)
}

type dispatcher struct {
	repo        notifRepo.NotificationRepository
	broadcaster Broadcaster
}

func NewDispatcher(repo notifRepo.NotificationRepository, broadcaster Broadcaster) Dispatcher {
	return &dispatcher{repo: repo, broadcaster: broadcaster}
}

func (d *dispatcher) Dispatch(ctx context.Context, notices []Notice) ([]entity.Notification, error) {
	if len(notices) == 0 {
		return nil, nil
	}

	rows := make([]*entity.Notification, 0, len(notices))
	for _, n := range notices {
		rows = append(rows, n.toEntity())
	}
	if err := d.repo.CreateBatch(ctx, rows); err != nil {
		return nil, fmt.Errorf("store notifications: %w", err)
	}

	out := make([]entity.Notification, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out, nil
}

func (d *dispatcher) Broadcast(ctx context.Context, rows []entity.Notification) {
	for _, n := range rows {
		// The row is already stored; a failed push only delays delivery to the next poll.
		if err := d.broadcaster.Publish(ctx, n); err != nil {
			slog.Warn("notification push failed", "notification_id", n.ID, "user_id", n.UserID, "error", err)
		}
	}
}
