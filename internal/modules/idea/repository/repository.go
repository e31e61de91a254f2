package repository

import (
	"context"
	"errors"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/pkg/apperror"
	"anoa.com/fatetable/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListFilter struct {
	CampaignID    uuid.UUID
	SubmittedByID *uuid.UUID
	Status        *entity.IdeaStatus
}

type IdeaRepository interface {
	CreatePowerIdea(ctx context.Context, idea *entity.PowerIdea) error
	FindPowerIdea(ctx context.Context, id uuid.UUID) (*entity.PowerIdea, error)
	FindPowerIdeaForUpdate(ctx context.Context, id uuid.UUID) (*entity.PowerIdea, error)
	SavePowerIdea(ctx context.Context, idea *entity.PowerIdea) error
	CountPendingPower(ctx context.Context, characterID uuid.UUID, powerType entity.PowerType) (int64, error)
	ListPowerIdeas(ctx context.Context, filter ListFilter) ([]entity.PowerIdea, error)

	CreateSkillIdea(ctx context.Context, idea *entity.SkillIdea) error
	FindSkillIdeaForUpdate(ctx context.Context, id uuid.UUID) (*entity.SkillIdea, error)
	SaveSkillIdea(ctx context.Context, idea *entity.SkillIdea) error
	ListSkillIdeas(ctx context.Context, filter ListFilter) ([]entity.SkillIdea, error)
}

type ideaRepository struct {
	db *gorm.DB
}

func NewIdeaRepository(db *gorm.DB) IdeaRepository {
	return &ideaRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(apperror.ReasonIdeaNotFound, "idea not found")
	}
	return err
}

func (r *ideaRepository) CreatePowerIdea(ctx context.Context, idea *entity.PowerIdea) error {
	return database.Conn(ctx, r.db).Create(idea).Error
}

func (r *ideaRepository) FindPowerIdea(ctx context.Context, id uuid.UUID) (*entity.PowerIdea, error) {
	var idea entity.PowerIdea
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&idea).Error; err != nil {
		return nil, notFound(err)
	}
	return &idea, nil
}

func (r *ideaRepository) FindPowerIdeaForUpdate(ctx context.Context, id uuid.UUID) (*entity.PowerIdea, error) {
	var idea entity.PowerIdea
	if err := database.ForUpdate(ctx, r.db).Where("id = ?", id).First(&idea).Error; err != nil {
		return nil, notFound(err)
	}
	return &idea, nil
}

func (r *ideaRepository) SavePowerIdea(ctx context.Context, idea *entity.PowerIdea) error {
	return database.Conn(ctx, r.db).Save(idea).Error
}

func (r *ideaRepository) CountPendingPower(ctx context.Context, characterID uuid.UUID, powerType entity.PowerType) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&entity.PowerIdea{}).
		Where("character_id = ? AND idea_type = ? AND status = ?", characterID, powerType, entity.IdeaPending).
		Count(&count).Error
	return count, err
}

func (r *ideaRepository) ListPowerIdeas(ctx context.Context, filter ListFilter) ([]entity.PowerIdea, error) {
	var ideas []entity.PowerIdea
	err := applyFilter(database.Conn(ctx, r.db), filter).Order("created_at DESC").Find(&ideas).Error
	return ideas, err
}

func (r *ideaRepository) CreateSkillIdea(ctx context.Context, idea *entity.SkillIdea) error {
	return database.Conn(ctx, r.db).Create(idea).Error
}

func (r *ideaRepository) FindSkillIdeaForUpdate(ctx context.Context, id uuid.UUID) (*entity.SkillIdea, error) {
	var idea entity.SkillIdea
	if err := database.ForUpdate(ctx, r.db).Where("id = ?", id).First(&idea).Error; err != nil {
		return nil, notFound(err)
	}
	return &idea, nil
}

func (r *ideaRepository) SaveSkillIdea(ctx context.Context, idea *entity.SkillIdea) error {
	return database.Conn(ctx, r.db).Save(idea).Error
}

func (r *ideaRepository) ListSkillIdeas(ctx context.Context, filter ListFilter) ([]entity.SkillIdea, error) {
	var ideas []entity.SkillIdea
	err := applyFilter(database.Conn(ctx, r.db), filter).Order("created_at DESC").Find(&ideas).Error
	return ideas, err
}

func applyFilter(query *gorm.DB, filter ListFilter) *gorm.DB {
	query = query.Where("campaign_id = ?", filter.CampaignID)
	if filter.SubmittedByID != nil {
		query = query.Where("submitted_by_id = ?", *filter.SubmittedByID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}
