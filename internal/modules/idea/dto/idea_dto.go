package dto

import (
	"github.com/google/uuid"
)

type SubmitPowerIdeaRequest struct {
	CampaignID  uuid.UUID `json:"campaign_id" binding:"required"`
	CharacterID uuid.UUID `json:"character_id" binding:"required"`
	IdeaType    string    `json:"idea_type" binding:"required,powertype"`
	Name        string    `json:"name" binding:"required,max=100"`
	Description string    `json:"description" binding:"max=5000"`

	StandType     string `json:"stand_type" binding:"max=50"`
	SpiritName    string `json:"spirit_name" binding:"max=100"`
	TechniqueType string `json:"technique_type" binding:"max=100"`
}

// ApprovePowerIdeaRequest carries every type-specific approval field; the
// service reads the ones matching the idea.
type ApprovePowerIdeaRequest struct {
	ResponseMessage string `json:"response_message" binding:"max=2000"`

	StandType            string `json:"stand_type" binding:"max=50"`
	DestructivePower     string `json:"destructive_power"`
	Speed                string `json:"speed"`
	RangeStat            string `json:"range_stat"`
	Stamina              string `json:"stamina"`
	Precision            string `json:"precision"`
	DevelopmentPotential string `json:"development_potential"`

	ShikaiCommand string `json:"shikai_command" binding:"max=200"`
	ShikaiName    string `json:"shikai_name" binding:"max=100"`
	BankaiCommand string `json:"bankai_command" binding:"max=200"`
	BankaiName    string `json:"bankai_name" binding:"max=100"`

	TechniqueType string `json:"technique_type" binding:"max=100"`
}

type RejectIdeaRequest struct {
	Reason string `json:"reason" binding:"max=2000"`
}

type SubmitSkillIdeaRequest struct {
	CampaignID  uuid.UUID `json:"campaign_id" binding:"required"`
	CharacterID uuid.UUID `json:"character_id" binding:"required"`
	Name        string    `json:"name" binding:"required,max=100"`
	Description string    `json:"description" binding:"max=5000"`
	UseStatus   string    `json:"use_status" binding:"max=100"`
}

// ApproveSkillIdeaRequest leaves mastery validation to the service so a
// missing value reports MissingApprovalField.
type ApproveSkillIdeaRequest struct {
	Mastery         *int   `json:"mastery"`
	ResponseMessage string `json:"response_message" binding:"max=2000"`
}

// ListIdeasQuery holds the optional filters of the idea lists; the campaign
// id is read separately.
type ListIdeasQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}
