package dto

import (
	"time"

	"anoa.com/fatetable/internal/entity"
	rollDto "anoa.com/fatetable/internal/modules/roll/dto"
	"github.com/google/uuid"
)

type CreateRollRequestRequest struct {
	CharacterID uuid.UUID  `json:"character_id" binding:"required"`
	SkillID     *uuid.UUID `json:"skill_id"`
	Description string     `json:"description" binding:"max=500"`
}

type CompleteRollRequest struct {
	RequestID    uuid.UUID `json:"request_id" binding:"required"`
	UseFatePoint bool      `json:"use_fate_point"`
}

type RollRequestResponse struct {
	ID            uuid.UUID  `json:"id"`
	CampaignID    uuid.UUID  `json:"campaign_id"`
	CharacterID   uuid.UUID  `json:"character_id"`
	RequestedByID uuid.UUID  `json:"requested_by_id"`
	SkillID       *uuid.UUID `json:"skill_id"`
	Description   string     `json:"description"`
	IsOpen        bool       `json:"is_open"`
	FulfilledAt   *time.Time `json:"fulfilled_at"`
	RollID        *uuid.UUID `json:"roll_id"`
	CreatedAt     time.Time  `json:"created_at"`
}

func NewRollRequestResponse(r *entity.RollRequest) RollRequestResponse {
	return RollRequestResponse{
		ID:            r.ID,
		CampaignID:    r.CampaignID,
		CharacterID:   r.CharacterID,
		RequestedByID: r.RequestedByID,
		SkillID:       r.SkillID,
		Description:   r.Description,
		IsOpen:        r.IsOpen,
		FulfilledAt:   r.FulfilledAt,
		RollID:        r.RollID,
		CreatedAt:     r.CreatedAt,
	}
}

func NewRollRequestList(rows []entity.RollRequest) []RollRequestResponse {
	out := make([]RollRequestResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewRollRequestResponse(&rows[i]))
	}
	return out
}

type CompleteResponse struct {
	Request RollRequestResponse `json:"request"`
	Roll    rollDto.RollView    `json:"roll"`
}
