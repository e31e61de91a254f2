package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PowerType string

const (
	PowerStand     PowerType = "stand"
	PowerZanpakuto PowerType = "zanpakuto"
	PowerCursed    PowerType = "cursed"
)

func (t PowerType) Valid() bool {
	switch t {
	case PowerStand, PowerZanpakuto, PowerCursed:
		return true
	}
	return false
}

// CampaignType returns the only campaign type in which the power exists.
func (t PowerType) CampaignType() CampaignType {
	switch t {
	case PowerStand:
		return CampaignJojo
	case PowerZanpakuto:
		return CampaignBleach
	case PowerCursed:
		return CampaignJJK
	}
	return ""
}

type Stand struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CharacterID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"character_id"`
	Character            *Character `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name                 string     `gorm:"size:100;not null" json:"name"`
	Description          string     `gorm:"type:text" json:"description"`
	StandType            string     `gorm:"size:50" json:"stand_type"`
	DestructivePower     string     `gorm:"size:1" json:"destructive_power"`
	Speed                string     `gorm:"size:1" json:"speed"`
	RangeStat            string     `gorm:"column:range_stat;size:1" json:"range_stat"`
	Stamina              string     `gorm:"size:1" json:"stamina"`
	Precision            string     `gorm:"size:1" json:"precision"`
	DevelopmentPotential string     `gorm:"size:1" json:"development_potential"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (s *Stand) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID, err = uuid.NewV7()
	}
	return
}

type Zanpakuto struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CharacterID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"character_id"`
	Character     *Character `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name          string     `gorm:"size:100;not null" json:"name"`
	Description   string     `gorm:"type:text" json:"description"`
	SpiritName    string     `gorm:"size:100" json:"spirit_name"`
	ShikaiCommand string     `gorm:"size:255" json:"shikai_command"`
	ShikaiName    string     `gorm:"size:100" json:"shikai_name"`
	BankaiCommand string     `gorm:"size:255" json:"bankai_command"`
	BankaiName    string     `gorm:"size:100" json:"bankai_name"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (z *Zanpakuto) BeforeCreate(tx *gorm.DB) (err error) {
	if z.ID == uuid.Nil {
		z.ID, err = uuid.NewV7()
	}
	return
}

type CursedTechnique struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CharacterID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"character_id"`
	Character     *Character `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name          string     `gorm:"size:100;not null" json:"name"`
	Description   string     `gorm:"type:text" json:"description"`
	TechniqueType string     `gorm:"size:50;not null" json:"technique_type"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (c *CursedTechnique) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}
