package dto

import (
	"time"

	"anoa.com/fatetable/internal/entity"
	"github.com/google/uuid"
)

type CreateRollRequest struct {
	CharacterID  uuid.UUID  `json:"character_id" binding:"required"`
	SkillID      *uuid.UUID `json:"skill_id"`
	Description  string     `json:"description" binding:"max=500"`
	UseFatePoint bool       `json:"use_fate_point"`
}

// ListRollsQuery holds the optional filters of GET /rolls. The campaign id
// is read with response.RequiredQueryUUID.
type ListRollsQuery struct {
	Since *time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
}

// RollView is a PublicRoll or a MasterRoll.
type RollView interface {
	rollID() uuid.UUID
}

// PublicRoll is what players see. It never carries the hidden bonus.
type PublicRoll struct {
	ID            uuid.UUID  `json:"id"`
	CharacterID   uuid.UUID  `json:"character_id"`
	CampaignID    uuid.UUID  `json:"campaign_id"`
	Dice1         int        `json:"dice1"`
	Dice2         int        `json:"dice2"`
	Dice3         int        `json:"dice3"`
	Dice4         int        `json:"dice4"`
	DiceTotal     int        `json:"dice_total"`
	UsedFatePoint bool       `json:"used_fate_point"`
	FinalTotal    int        `json:"final_total"`
	SkillUsedID   *uuid.UUID `json:"skill_used_id"`
	SkillName     *string    `json:"skill_name"`
	CharacterName string     `json:"character_name"`
	Description   string     `json:"description"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (p PublicRoll) rollID() uuid.UUID { return p.ID }

// MasterRoll adds the hidden bonus for the campaign's game master.
type MasterRoll struct {
	PublicRoll
	HiddenBonus  int  `json:"hidden_bonus"`
	HiddenTotal  int  `json:"hidden_total"`
	SeenByMaster bool `json:"seen_by_master"`
}

// NewPublicRoll reads the skill and character names from the loaded
// associations. They stay empty when the roll was fetched without them.
func NewPublicRoll(r *entity.DiceRoll) PublicRoll {
	p := PublicRoll{
		ID:            r.ID,
		CharacterID:   r.CharacterID,
		CampaignID:    r.CampaignID,
		Dice1:         r.Dice1,
		Dice2:         r.Dice2,
		Dice3:         r.Dice3,
		Dice4:         r.Dice4,
		DiceTotal:     r.DiceTotal,
		UsedFatePoint: r.UsedFatePoint,
		FinalTotal:    r.FinalTotal,
		SkillUsedID:   r.SkillUsedID,
		Description:   r.Description,
		CreatedAt:     r.CreatedAt,
	}
	if r.SkillUsed != nil {
		name := r.SkillUsed.Name
		p.SkillName = &name
	}
	if r.Character != nil {
		p.CharacterName = r.Character.Name
	}
	return p
}

func NewMasterRoll(r *entity.DiceRoll) MasterRoll {
	return MasterRoll{
		PublicRoll:   NewPublicRoll(r),
		HiddenBonus:  r.HiddenBonus,
		HiddenTotal:  r.HiddenTotal,
		SeenByMaster: r.SeenByMaster,
	}
}

// NewRollView picks the view for the caller. isGameMaster must come from
// actor.IsGameMasterOf for the roll's campaign.
func NewRollView(r *entity.DiceRoll, isGameMaster bool) RollView {
	if isGameMaster {
		return NewMasterRoll(r)
	}
	return NewPublicRoll(r)
}
