package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type IdeaStatus string

const (
	IdeaPending  IdeaStatus = "pending"
	IdeaApproved IdeaStatus = "approved"
	IdeaRejected IdeaStatus = "rejected"
)

// PowerIdea is a player proposal for a new power. Payload holds the
// type-specific fields; IdeaType says how to decode it.
type PowerIdea struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CampaignID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"campaign_id"`
	Campaign        *Campaign      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CharacterID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_power_ideas_pending,priority:1" json:"character_id"`
	Character       *Character     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SubmittedByID   uuid.UUID      `gorm:"type:uuid;not null" json:"submitted_by_id"`
	IdeaType        PowerType      `gorm:"size:20;not null;index:idx_power_ideas_pending,priority:2" json:"idea_type"`
	Name            string         `gorm:"size:100;not null" json:"name"`
	Description     string         `gorm:"type:text" json:"description"`
	Payload         datatypes.JSON `json:"payload"`
	Status          IdeaStatus     `gorm:"size:20;not null;default:pending;index:idx_power_ideas_pending,priority:3" json:"status"`
	ResponseMessage string         `gorm:"type:text" json:"response_message"`
	ReviewedByID    *uuid.UUID     `gorm:"type:uuid" json:"reviewed_by_id"`
	ReviewedAt      *time.Time     `json:"reviewed_at"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (i *PowerIdea) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID, err = uuid.NewV7()
	}
	return
}

type SkillIdea struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CampaignID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"campaign_id"`
	Campaign        *Campaign  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CharacterID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"character_id"`
	Character       *Character `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SubmittedByID   uuid.UUID  `gorm:"type:uuid;not null" json:"submitted_by_id"`
	Name            string     `gorm:"size:100;not null" json:"name"`
	Description     string     `gorm:"type:text" json:"description"`
	UseStatus       string     `gorm:"size:100" json:"use_status"`
	Mastery         *int       `json:"mastery"`
	Status          IdeaStatus `gorm:"size:20;not null;default:pending" json:"status"`
	ResponseMessage string     `gorm:"type:text" json:"response_message"`
	ReviewedByID    *uuid.UUID `gorm:"type:uuid" json:"reviewed_by_id"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (i *SkillIdea) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID, err = uuid.NewV7()
	}
	return
}
