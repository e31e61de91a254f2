package repository

import (
	"context"
	"fmt"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Owned groups every power a character holds.
type Owned struct {
	Stands           []entity.Stand           `json:"stands"`
	Zanpakutos       []entity.Zanpakuto       `json:"zanpakutos"`
	CursedTechniques []entity.CursedTechnique `json:"cursed_techniques"`
}

type PowerRepository interface {
	CountOwned(ctx context.Context, characterID uuid.UUID, powerType entity.PowerType) (int64, error)
	ListOwned(ctx context.Context, characterID uuid.UUID) (*Owned, error)
	CreateStand(ctx context.Context, stand *entity.Stand) error
	CreateZanpakuto(ctx context.Context, zanpakuto *entity.Zanpakuto) error
	CreateCursedTechnique(ctx context.Context, technique *entity.CursedTechnique) error
}

type powerRepository struct {
	db *gorm.DB
}

func NewPowerRepository(db *gorm.DB) PowerRepository {
	return &powerRepository{db: db}
}

func modelFor(powerType entity.PowerType) (any, error) {
	switch powerType {
	case entity.PowerStand:
		return &entity.Stand{}, nil
	case entity.PowerZanpakuto:
		return &entity.Zanpakuto{}, nil
	case entity.PowerCursed:
		return &entity.CursedTechnique{}, nil
	}
	return nil, fmt.Errorf("unknown power type %q", powerType)
}

func (r *powerRepository) CountOwned(ctx context.Context, characterID uuid.UUID, powerType entity.PowerType) (int64, error) {
	model, err := modelFor(powerType)
	if err != nil {
		return 0, err
	}
	var count int64
	err = database.Conn(ctx, r.db).Model(model).Where("character_id = ?", characterID).Count(&count).Error
	return count, err
}

func (r *powerRepository) ListOwned(ctx context.Context, characterID uuid.UUID) (*Owned, error) {
	db := database.Conn(ctx, r.db)
	owned := &Owned{}
	if err := db.Where("character_id = ?", characterID).Order("created_at").Find(&owned.Stands).Error; err != nil {
		return nil, err
	}
	if err := db.Where("character_id = ?", characterID).Order("created_at").Find(&owned.Zanpakutos).Error; err != nil {
		return nil, err
	}
	if err := db.Where("character_id = ?", characterID).Order("created_at").Find(&owned.CursedTechniques).Error; err != nil {
		return nil, err
	}
	return owned, nil
}

func (r *powerRepository) CreateStand(ctx context.Context, stand *entity.Stand) error {
	return database.Conn(ctx, r.db).Create(stand).Error
}

func (r *powerRepository) CreateZanpakuto(ctx context.Context, zanpakuto *entity.Zanpakuto) error {
	return database.Conn(ctx, r.db).Create(zanpakuto).Error
}

func (r *powerRepository) CreateCursedTechnique(ctx context.Context, technique *entity.CursedTechnique) error {
	return database.Conn(ctx, r.db).Create(technique).Error
}
