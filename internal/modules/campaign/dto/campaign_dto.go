package dto

import (
	"encoding/json"
	"time"

	"anoa.com/fatetable/internal/actor"
	"anoa.com/fatetable/internal/entity"
	messageDto "anoa.com/fatetable/internal/modules/message/dto"
	rollDto "anoa.com/fatetable/internal/modules/roll/dto"
	requestDto "anoa.com/fatetable/internal/modules/rollrequest/dto"
	"github.com/google/uuid"
)

type CreateCampaignRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Description  string `json:"description" binding:"max=5000"`
	CampaignType string `json:"campaign_type" binding:"omitempty,oneof=fate jojo jjk bleach"`
}

type BanRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Reason string    `json:"reason" binding:"max=1000"`
}

type PollQuery struct {
	Since *time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
}

type CampaignResponse struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	CampaignType entity.CampaignType `json:"campaign_type"`
	OwnerID      uuid.UUID           `json:"owner_id"`
	MapData      json.RawMessage     `json:"map_data,omitempty"`
	MapUpdatedAt *time.Time          `json:"map_updated_at,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	// Role is the caller's role in the campaign.
	Role actor.Role `json:"role"`
}

func NewCampaignResponse(c *entity.Campaign, a actor.Actor) CampaignResponse {
	return CampaignResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		CampaignType: c.CampaignType,
		OwnerID:      c.OwnerID,
		MapData:      json.RawMessage(c.MapData),
		MapUpdatedAt: c.MapUpdatedAt,
		CreatedAt:    c.CreatedAt,
		Role:         a.RoleIn(c),
	}
}

// PollResponse is what a table client refreshes from. Everyone gets their
// unread notifications and private messages. Players get their open roll
// requests; the game master gets the rolls made since.
type PollResponse struct {
	ServerTime    time.Time                        `json:"server_time"`
	Since         time.Time                        `json:"since"`
	Notifications []entity.Notification            `json:"notifications"`
	Messages      []messageDto.MessageResponse     `json:"messages"`
	RollRequests  []requestDto.RollRequestResponse `json:"roll_requests,omitempty"`
	RecentRolls   []rollDto.RollView               `json:"recent_rolls,omitempty"`
}
