package service

import (
	"context"
	"time"

	"anoa.com/fatetable/internal/actor"
	"anoa.com/fatetable/internal/entity"
	notifRepo "anoa.com/fatetable/internal/modules/notification/repository"
	"anoa.com/fatetable/pkg/apperror"
	"github.com/google/uuid"
)

const defaultPageSize = 20

type NotificationService interface {
	GetNotifications(ctx context.Context, a actor.Actor, campaignID *uuid.UUID, limit, offset int) ([]entity.Notification, error)
	UnreadSince(ctx context.Context, a actor.Actor, campaignID uuid.UUID, since time.Time) ([]entity.Notification, error)
	MarkAsRead(ctx context.Context, a actor.Actor, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, a actor.Actor, campaignID *uuid.UUID) error
	UnreadCount(ctx context.Context, a actor.Actor) (int64, error)
}

type notificationService struct {
	repo notifRepo.NotificationRepository
}

func NewNotificationService(repo notifRepo.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) GetNotifications(ctx context.Context, a actor.Actor, campaignID *uuid.UUID, limit, offset int) ([]entity.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.GetByUserID(ctx, a.UserID, campaignID, limit, offset)
}

func (s *notificationService) UnreadSince(ctx context.Context, a actor.Actor, campaignID uuid.UUID, since time.Time) ([]entity.Notification, error) {
	return s.repo.ListUnreadSince(ctx, campaignID, a.UserID, since)
}

func (s *notificationService) MarkAsRead(ctx context.Context, a actor.Actor, id uuid.UUID) error {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	// Someone else's notification is reported as missing.
	if n.UserID != a.UserID {
		return apperror.NotFound(apperror.ReasonNotificationNotFound, "notification not found")
	}
	if n.IsRead {
		return nil
	}
	return s.repo.MarkAsRead(ctx, id)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, a actor.Actor, campaignID *uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, a.UserID, campaignID)
}

func (s *notificationService) UnreadCount(ctx context.Context, a actor.Actor) (int64, error) {
	return s.repo.CountUnread(ctx, a.UserID)
}
