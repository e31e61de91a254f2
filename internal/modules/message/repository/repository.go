package repository

import (
	"context"
	"time"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListFilter struct {
	CampaignID uuid.UUID
	// UserID keeps messages the user sent or received.
	UserID uuid.UUID
	// WithUserID narrows to the conversation with one counterpart.
	WithUserID *uuid.UUID
	Since      *time.Time
}

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	// List returns messages oldest first.
	List(ctx context.Context, filter ListFilter) ([]entity.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *entity.Message) error {
	return database.Conn(ctx, r.db).Omit("Campaign", "Sender", "Recipient").Create(message).Error
}

func (r *messageRepository) List(ctx context.Context, filter ListFilter) ([]entity.Message, error) {
	var messages []entity.Message

	query := database.Conn(ctx, r.db).
		Preload("Sender").
		Preload("Recipient").
		Where("campaign_id = ?", filter.CampaignID)

	if filter.WithUserID != nil {
		query = query.Where(
			"(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			filter.UserID, *filter.WithUserID, *filter.WithUserID, filter.UserID,
		)
	} else {
		query = query.Where("(sender_id = ? OR recipient_id = ?)", filter.UserID, filter.UserID)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}

	err := query.Order("created_at ASC").Order("id ASC").Find(&messages).Error
	return messages, err
}
