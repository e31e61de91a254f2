package repository

import (
	"context"
	"errors"
	"time"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/pkg/apperror"
	"anoa.com/fatetable/pkg/database"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CampaignRepository interface {
	Create(ctx context.Context, campaign *entity.Campaign) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Campaign, error)
	// ListForUser returns campaigns the user owns or has a character in.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.Campaign, error)
	ListAll(ctx context.Context) ([]entity.Campaign, error)
	UpdateMap(ctx context.Context, id uuid.UUID, data datatypes.JSON, at time.Time) error
	IsBanned(ctx context.Context, campaignID, userID uuid.UUID) (bool, error)
	CreateBan(ctx context.Context, ban *entity.CampaignBan) error
	// ParticipantIDs returns the distinct owners of the campaign's player
	// characters, leaving out banned users.
	ParticipantIDs(ctx context.Context, campaignID uuid.UUID) ([]uuid.UUID, error)
}

type campaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) Create(ctx context.Context, campaign *entity.Campaign) error {
	return database.Conn(ctx, r.db).Create(campaign).Error
}

func (r *campaignRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Campaign, error) {
	var campaign entity.Campaign
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(apperror.ReasonCampaignNotFound, "campaign not found")
		}
		return nil, err
	}
	return &campaign, nil
}

func (r *campaignRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.Campaign, error) {
	var campaigns []entity.Campaign
	err := database.Conn(ctx, r.db).
		Where("owner_id = ?", userID).
		Or("id IN (?)", r.db.Model(&entity.Character{}).Select("campaign_id").Where("owner_id = ?", userID)).
		Order("created_at DESC").
		Find(&campaigns).Error
	return campaigns, err
}

func (r *campaignRepository) ListAll(ctx context.Context) ([]entity.Campaign, error) {
	var campaigns []entity.Campaign
	err := database.Conn(ctx, r.db).Order("created_at DESC").Find(&campaigns).Error
	return campaigns, err
}

func (r *campaignRepository) UpdateMap(ctx context.Context, id uuid.UUID, data datatypes.JSON, at time.Time) error {
	res := database.Conn(ctx, r.db).Model(&entity.Campaign{}).
		Where("id = ?", id).
		Updates(map[string]any{"map_data": data, "map_updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(apperror.ReasonCampaignNotFound, "campaign not found")
	}
	return nil
}

func (r *campaignRepository) IsBanned(ctx context.Context, campaignID, userID uuid.UUID) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&entity.CampaignBan{}).
		Where("campaign_id = ? AND user_id = ?", campaignID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *campaignRepository) CreateBan(ctx context.Context, ban *entity.CampaignBan) error {
	// Banning twice keeps the first record.
	return database.Conn(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(ban).Error
}

func (r *campaignRepository) ParticipantIDs(ctx context.Context, campaignID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := database.Conn(ctx, r.db).Model(&entity.Character{}).
		Distinct("owner_id").
		Where("campaign_id = ? AND is_npc = ?", campaignID, false).
		Where("owner_id NOT IN (?)", r.db.Model(&entity.CampaignBan{}).Select("user_id").Where("campaign_id = ?", campaignID)).
		Pluck("owner_id", &ids).Error
	return ids, err
}
