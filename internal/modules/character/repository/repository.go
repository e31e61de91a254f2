package repository

import (
	"context"
	"errors"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/pkg/apperror"
	"anoa.com/fatetable/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CharacterRepository interface {
	Create(ctx context.Context, character *entity.Character) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Character, error)
	// FindByIDForUpdate locks the row when ctx carries a transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Character, error)
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]entity.Character, error)
	// Save writes the scalar columns only; associations are left alone.
	Save(ctx context.Context, character *entity.Character) error
	ReplaceTraits(ctx context.Context, character *entity.Character, traits []entity.PersonalityTrait) error
	AppendSkills(ctx context.Context, character *entity.Character, skills []entity.Skill) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type characterRepository struct {
	db *gorm.DB
}

func NewCharacterRepository(db *gorm.DB) CharacterRepository {
	return &characterRepository{db: db}
}

func (r *characterRepository) Create(ctx context.Context, character *entity.Character) error {
	return database.Conn(ctx, r.db).
		Omit("Skills.*", "PersonalityTraits.*").
		Create(character).Error
}

func (r *characterRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Character, error) {
	return r.find(database.Conn(ctx, r.db), id)
}

func (r *characterRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Character, error) {
	return r.find(database.ForUpdate(ctx, r.db), id)
}

func (r *characterRepository) find(db *gorm.DB, id uuid.UUID) (*entity.Character, error) {
	var character entity.Character
	if err := db.
		Preload("Skills").
		Preload("PersonalityTraits").
		Where("id = ?", id).
		First(&character).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(apperror.ReasonCharacterNotFound, "character not found")
		}
		return nil, err
	}
	return &character, nil
}

func (r *characterRepository) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]entity.Character, error) {
	var characters []entity.Character
	err := database.Conn(ctx, r.db).
		Preload("Skills").
		Preload("PersonalityTraits").
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Find(&characters).Error
	return characters, err
}

func (r *characterRepository) Save(ctx context.Context, character *entity.Character) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Save(character).Error
}

func (r *characterRepository) ReplaceTraits(ctx context.Context, character *entity.Character, traits []entity.PersonalityTrait) error {
	if err := database.Conn(ctx, r.db).Model(character).Association("PersonalityTraits").Replace(traits); err != nil {
		return err
	}
	character.PersonalityTraits = traits
	return nil
}

func (r *characterRepository) AppendSkills(ctx context.Context, character *entity.Character, skills []entity.Skill) error {
	if len(skills) == 0 {
		return nil
	}
	return database.Conn(ctx, r.db).Model(character).Association("Skills").Append(skills)
}

func (r *characterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := database.Conn(ctx, r.db).Select(clause.Associations).Delete(&entity.Character{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(apperror.ReasonCharacterNotFound, "character not found")
	}
	return nil
}
