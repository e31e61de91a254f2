package repository

import (
	"context"
	"errors"
	"time"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/pkg/apperror"
	"anoa.com/fatetable/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []*entity.Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error)
	// GetByUserID lists a recipient's notifications, newest first. A nil
	// campaignID spans every campaign.
	GetByUserID(ctx context.Context, userID uuid.UUID, campaignID *uuid.UUID, limit, offset int) ([]entity.Notification, error)
	// ListUnreadSince is the poll query keyed on (campaign, recipient, created_at).
	ListUnreadSince(ctx context.Context, campaignID, userID uuid.UUID, since time.Time) ([]entity.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID, campaignID *uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*entity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return database.Conn(ctx, r.db).Create(notifications).Error
}

func (r *notificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	var n entity.Notification
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(apperror.ReasonNotificationNotFound, "notification not found")
		}
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) GetByUserID(ctx context.Context, userID uuid.UUID, campaignID *uuid.UUID, limit, offset int) ([]entity.Notification, error) {
	var notifications []entity.Notification
	query := database.Conn(ctx, r.db).Where("user_id = ?", userID)
	if campaignID != nil {
		query = query.Where("campaign_id = ?", *campaignID)
	}
	err := query.
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) ListUnreadSince(ctx context.Context, campaignID, userID uuid.UUID, since time.Time) ([]entity.Notification, error) {
	var notifications []entity.Notification
	err := database.Conn(ctx, r.db).
		Where("campaign_id = ? AND user_id = ? AND created_at >= ? AND is_read = ?", campaignID, userID, since, false).
		Order("created_at asc").
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return database.Conn(ctx, r.db).Model(&entity.Notification{}).Where("id = ?", id).Update("is_read", true).Error
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID, campaignID *uuid.UUID) error {
	query := database.Conn(ctx, r.db).Model(&entity.Notification{}).Where("user_id = ? AND is_read = ?", userID, false)
	if campaignID != nil {
		query = query.Where("campaign_id = ?", *campaignID)
	}
	return query.Update("is_read", true).Error
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&entity.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&count).Error
	return count, err
}
