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

type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Item, error)
	Save(ctx context.Context, item *entity.Item) error
	ListByCharacter(ctx context.Context, characterID uuid.UUID) ([]entity.Item, error)
	CreateTrade(ctx context.Context, trade *entity.ItemTrade) error
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	return database.Conn(ctx, r.db).Create(item).Error
}

func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	return r.find(database.Conn(ctx, r.db), id)
}

func (r *itemRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	return r.find(database.ForUpdate(ctx, r.db), id)
}

func (r *itemRepository) find(db *gorm.DB, id uuid.UUID) (*entity.Item, error) {
	var item entity.Item
	if err := db.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(apperror.ReasonItemNotFound, "item not found")
		}
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) Save(ctx context.Context, item *entity.Item) error {
	return database.Conn(ctx, r.db).Omit("OwnerCharacter").Save(item).Error
}

func (r *itemRepository) ListByCharacter(ctx context.Context, characterID uuid.UUID) ([]entity.Item, error) {
	var items []entity.Item
	err := database.Conn(ctx, r.db).
		Where("owner_character_id = ?", characterID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *itemRepository) CreateTrade(ctx context.Context, trade *entity.ItemTrade) error {
	return database.Conn(ctx, r.db).Create(trade).Error
}
