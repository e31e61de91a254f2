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

type CatalogRepository interface {
	CreateSkill(ctx context.Context, skill *entity.Skill) error
	FindSkillByID(ctx context.Context, id uuid.UUID) (*entity.Skill, error)
	FindSkillsByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Skill, error)
	// ListSkills returns global skills plus, when campaignID is set, that campaign's.
	ListSkills(ctx context.Context, campaignID *uuid.UUID) ([]entity.Skill, error)

	CreateTrait(ctx context.Context, trait *entity.PersonalityTrait) error
	FindTraitsByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.PersonalityTrait, error)
	ListTraits(ctx context.Context, campaignID *uuid.UUID) ([]entity.PersonalityTrait, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) CreateSkill(ctx context.Context, skill *entity.Skill) error {
	return database.Conn(ctx, r.db).Create(skill).Error
}

func (r *catalogRepository) FindSkillByID(ctx context.Context, id uuid.UUID) (*entity.Skill, error) {
	var skill entity.Skill
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&skill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(apperror.ReasonSkillNotFound, "skill not found")
		}
		return nil, err
	}
	return &skill, nil
}

func (r *catalogRepository) FindSkillsByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Skill, error) {
	var skills []entity.Skill
	if len(ids) == 0 {
		return skills, nil
	}
	err := database.Conn(ctx, r.db).Where("id IN ?", ids).Find(&skills).Error
	return skills, err
}

func (r *catalogRepository) ListSkills(ctx context.Context, campaignID *uuid.UUID) ([]entity.Skill, error) {
	var skills []entity.Skill
	query := database.Conn(ctx, r.db)
	if campaignID != nil {
		query = query.Where("campaign_id IS NULL OR campaign_id = ?", *campaignID)
	} else {
		query = query.Where("campaign_id IS NULL")
	}
	err := query.Order("name ASC").Find(&skills).Error
	return skills, err
}

func (r *catalogRepository) CreateTrait(ctx context.Context, trait *entity.PersonalityTrait) error {
	return database.Conn(ctx, r.db).Create(trait).Error
}

func (r *catalogRepository) FindTraitsByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.PersonalityTrait, error) {
	var traits []entity.PersonalityTrait
	if len(ids) == 0 {
		return traits, nil
	}
	err := database.Conn(ctx, r.db).Where("id IN ?", ids).Find(&traits).Error
	return traits, err
}

func (r *catalogRepository) ListTraits(ctx context.Context, campaignID *uuid.UUID) ([]entity.PersonalityTrait, error) {
	var traits []entity.PersonalityTrait
	query := database.Conn(ctx, r.db)
	if campaignID != nil {
		query = query.Where("campaign_id IS NULL OR campaign_id = ?", *campaignID)
	} else {
		query = query.Where("campaign_id IS NULL")
	}
	err := query.Order("name ASC").Find(&traits).Error
	return traits, err
}
