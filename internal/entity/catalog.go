package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Skill belongs to a campaign, or is global when CampaignID is nil.
type Skill struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	UseStatus   string     `gorm:"size:100" json:"use_status"`
	Bonus       int        `gorm:"default:0" json:"bonus"`
	CampaignID  *uuid.UUID `gorm:"type:uuid;index" json:"campaign_id"`
}

func (s *Skill) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID, err = uuid.NewV7()
	}
	return
}

// UsableIn reports whether the skill may be used by a character of campaignID.
func (s *Skill) UsableIn(campaignID uuid.UUID) bool {
	return s.CampaignID == nil || *s.CampaignID == campaignID
}

type PersonalityTrait struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	UseStatus   string     `gorm:"size:100" json:"use_status"`
	Bonus       int        `gorm:"default:0" json:"bonus"`
	CampaignID  *uuid.UUID `gorm:"type:uuid;index" json:"campaign_id"`
}

func (t *PersonalityTrait) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	return
}

func (t *PersonalityTrait) UsableIn(campaignID uuid.UUID) bool {
	return t.CampaignID == nil || *t.CampaignID == campaignID
}
