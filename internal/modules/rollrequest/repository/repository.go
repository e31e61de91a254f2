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

type RollRequestRepository interface {
	Create(ctx context.Context, request *entity.RollRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RollRequest, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.RollRequest, error)
	// MarkFulfilled closes an open request. It reports false when the request
	// was no longer open, leaving it untouched.
	MarkFulfilled(ctx context.Context, id, rollID, fulfilledBy uuid.UUID, at time.Time) (bool, error)
	ListOpenForOwner(ctx context.Context, campaignID, ownerID uuid.UUID) ([]entity.RollRequest, error)
}

type rollRequestRepository struct {
	db *gorm.DB
}

func NewRollRequestRepository(db *gorm.DB) RollRequestRepository {
	return &rollRequestRepository{db: db}
}

func (r *rollRequestRepository) Create(ctx context.Context, request *entity.RollRequest) error {
	return database.Conn(ctx, r.db).Create(request).Error
}

func (r *rollRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RollRequest, error) {
	return r.find(database.Conn(ctx, r.db), id)
}

func (r *rollRequestRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.RollRequest, error) {
	return r.find(database.ForUpdate(ctx, r.db), id)
}

func (r *rollRequestRepository) find(db *gorm.DB, id uuid.UUID) (*entity.RollRequest, error) {
	var request entity.RollRequest
	if err := db.Where("id = ?", id).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(apperror.ReasonRequestNotFound, "roll request not found")
		}
		return nil, err
	}
	return &request, nil
}

func (r *rollRequestRepository) MarkFulfilled(ctx context.Context, id, rollID, fulfilledBy uuid.UUID, at time.Time) (bool, error) {
	res := database.Conn(ctx, r.db).Model(&entity.RollRequest{}).
		Where("id = ? AND is_open = ?", id, true).
		Updates(map[string]any{
			"is_open":         false,
			"roll_id":         rollID,
			"fulfilled_by_id": fulfilledBy,
			"fulfilled_at":    at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *rollRequestRepository) ListOpenForOwner(ctx context.Context, campaignID, ownerID uuid.UUID) ([]entity.RollRequest, error) {
	var requests []entity.RollRequest
	err := database.Conn(ctx, r.db).
		Joins("JOIN characters ON characters.id = roll_requests.character_id").
		Where("roll_requests.campaign_id = ? AND roll_requests.is_open = ? AND characters.owner_id = ?", campaignID, true, ownerID).
		Order("roll_requests.created_at ASC").
		Find(&requests).Error
	return requests, err
}
