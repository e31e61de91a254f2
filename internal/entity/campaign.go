package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CampaignType string

const (
	CampaignFate   CampaignType = "fate"
	CampaignJojo   CampaignType = "jojo"
	CampaignJJK    CampaignType = "jjk"
	CampaignBleach CampaignType = "bleach"
)

func (t CampaignType) Valid() bool {
	switch t {
	case CampaignFate, CampaignJojo, CampaignJJK, CampaignBleach:
		return true
	}
	return false
}

type Campaign struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string         `gorm:"size:100;not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	CampaignType CampaignType   `gorm:"size:20;not null;default:fate" json:"campaign_type"`
	OwnerID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner        *User          `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	MapData      datatypes.JSON `json:"map_data,omitempty"`
	MapUpdatedAt *time.Time     `json:"map_updated_at,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Campaign) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

type CampaignBan struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CampaignID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_campaign_bans_unique,priority:1" json:"campaign_id"`
	Campaign   *Campaign `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_campaign_bans_unique,priority:2" json:"user_id"`
	Reason     string    `gorm:"type:text" json:"reason"`
	BannedByID uuid.UUID `gorm:"type:uuid;not null" json:"banned_by_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (b *CampaignBan) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID, err = uuid.NewV7()
	}
	return
}
