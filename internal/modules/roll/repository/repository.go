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

type ListFilter struct {
	CampaignID uuid.UUID
	// OwnerID keeps only rolls of characters owned by this user.
	OwnerID *uuid.UUID
	Since   *time.Time
	Limit   int
}

type RollRepository interface {
	Create(ctx context.Context, roll *entity.DiceRoll) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.DiceRoll, error)
	// ListByCampaign returns rolls newest first.
	ListByCampaign(ctx context.Context, filter ListFilter) ([]entity.DiceRoll, error)
	MarkSeen(ctx context.Context, id uuid.UUID) error
}

type rollRepository struct {
	db *gorm.DB
}

func NewRollRepository(db *gorm.DB) RollRepository {
	return &rollRepository{db: db}
}

func (r *rollRepository) Create(ctx context.Context, roll *entity.DiceRoll) error {
	return database.Conn(ctx, r.db).Create(roll).Error
}

func (r *rollRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.DiceRoll, error) {
	var roll entity.DiceRoll
	if err := database.Conn(ctx, r.db).
		Preload("SkillUsed").
		Preload("Character").
		Where("id = ?", id).
		First(&roll).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(apperror.ReasonRollNotFound, "roll not found")
		}
		return nil, err
	}
	return &roll, nil
}

func (r *rollRepository) ListByCampaign(ctx context.Context, filter ListFilter) ([]entity.DiceRoll, error) {
	var rolls []entity.DiceRoll

	query := database.Conn(ctx, r.db).
		Model(&entity.DiceRoll{}).
		Preload("SkillUsed").
		Preload("Character").
		Where("dice_rolls.campaign_id = ?", filter.CampaignID)

	if filter.OwnerID != nil {
		query = query.
			Joins("JOIN characters ON characters.id = dice_rolls.character_id").
			Where("characters.owner_id = ?", *filter.OwnerID)
	}
	if filter.Since != nil {
		query = query.Where("dice_rolls.created_at >= ?", *filter.Since)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	err := query.Order("dice_rolls.created_at DESC").Find(&rolls).Error
	return rolls, err
}

func (r *rollRepository) MarkSeen(ctx context.Context, id uuid.UUID) error {
	return database.Conn(ctx, r.db).Model(&entity.DiceRoll{}).Where("id = ?", id).Update("seen_by_master", true).Error
}
