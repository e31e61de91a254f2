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

type SpellFilter struct {
	Tier      *int
	SpellType *entity.KidouType
}

type KidouRepository interface {
	ListSpells(ctx context.Context, filter SpellFilter) ([]entity.KidouSpell, error)
	// ListKnown returns the spells a character learned, newest first.
	ListKnown(ctx context.Context, characterID uuid.UUID) ([]entity.CharacterKidou, error)
	Learn(ctx context.Context, link *entity.CharacterKidou) error

	// CreateOffer stores the offer and its option links.
	CreateOffer(ctx context.Context, offer *entity.KidouOffer) error
	// FindOfferForUpdate locks the offer row and loads its options.
	FindOfferForUpdate(ctx context.Context, id uuid.UUID) (*entity.KidouOffer, error)
	HasOpenOffer(ctx context.Context, characterID uuid.UUID) (bool, error)
	ListOpenOffers(ctx context.Context, characterID uuid.UUID) ([]entity.KidouOffer, error)
	// CloseOffer records the choice only while the offer is still open and
	// reports whether it did.
	CloseOffer(ctx context.Context, id, spellID uuid.UUID, at time.Time) (bool, error)
}

type kidouRepository struct {
	db *gorm.DB
}

func NewKidouRepository(db *gorm.DB) KidouRepository {
	return &kidouRepository{db: db}
}

func (r *kidouRepository) ListSpells(ctx context.Context, filter SpellFilter) ([]entity.KidouSpell, error) {
	q := database.Conn(ctx, r.db).Model(&entity.KidouSpell{})
	if filter.Tier != nil {
		q = q.Where("tier = ?", *filter.Tier)
	}
	if filter.SpellType != nil {
		q = q.Where("spell_type = ?", *filter.SpellType)
	}

	var spells []entity.KidouSpell
	err := q.Order("spell_type").Order("number").Order("name").Find(&spells).Error
	return spells, err
}

func (r *kidouRepository) ListKnown(ctx context.Context, characterID uuid.UUID) ([]entity.CharacterKidou, error) {
	var links []entity.CharacterKidou
	err := database.Conn(ctx, r.db).
		Preload("Spell").
		Where("character_id = ?", characterID).
		Order("acquired_at DESC").
		Find(&links).Error
	return links, err
}

func (r *kidouRepository) Learn(ctx context.Context, link *entity.CharacterKidou) error {
	return database.Conn(ctx, r.db).Omit("Character", "Spell").Create(link).Error
}

func (r *kidouRepository) CreateOffer(ctx context.Context, offer *entity.KidouOffer) error {
	return database.Conn(ctx, r.db).Omit("Character", "ChosenSpell", "Options.*").Create(offer).Error
}

func (r *kidouRepository) FindOfferForUpdate(ctx context.Context, id uuid.UUID) (*entity.KidouOffer, error) {
	var offer entity.KidouOffer
	if err := database.ForUpdate(ctx, r.db).Where("id = ?", id).First(&offer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(apperror.ReasonOfferNotFound, "kidou offer not found")
		}
		return nil, err
	}
	if err := database.Conn(ctx, r.db).Model(&offer).Association("Options").Find(&offer.Options); err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *kidouRepository) HasOpenOffer(ctx context.Context, characterID uuid.UUID) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&entity.KidouOffer{}).
		Where("character_id = ? AND is_open = ?", characterID, true).
		Count(&count).Error
	return count > 0, err
}

func (r *kidouRepository) ListOpenOffers(ctx context.Context, characterID uuid.UUID) ([]entity.KidouOffer, error) {
	var offers []entity.KidouOffer
	err := database.Conn(ctx, r.db).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("kidou_spells.number").Order("kidou_spells.name")
		}).
		Where("character_id = ? AND is_open = ?", characterID, true).
		Order("created_at DESC").
		Find(&offers).Error
	return offers, err
}

func (r *kidouRepository) CloseOffer(ctx context.Context, id, spellID uuid.UUID, at time.Time) (bool, error) {
	res := database.Conn(ctx, r.db).Model(&entity.KidouOffer{}).
		Where("id = ? AND is_open = ?", id, true).
		Updates(map[string]any{
			"is_open":         false,
			"chosen_spell_id": spellID,
			"chosen_at":       at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
