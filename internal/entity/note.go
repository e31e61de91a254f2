package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CharacterNote is free text attached to a character. Master notes are
// written by the game master and hidden from the character's owner.
type CharacterNote struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CharacterID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"character_id"`
	Character    *Character `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AuthorID     uuid.UUID  `gorm:"type:uuid;not null" json:"author_id"`
	Author       *User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Content      string     `gorm:"type:text" json:"content"`
	IsMasterNote bool       `gorm:"default:false" json:"is_master_note"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (n *CharacterNote) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}

// Message is a private line between a player and the campaign's game master.
type Message struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CampaignID  uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_campaign_created,priority:1" json:"campaign_id"`
	Campaign    *Campaign `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SenderID    uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	Sender      *User     `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Recipient   *User     `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"-"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_messages_campaign_created,priority:2" json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID, err = uuid.NewV7()
	}
	return
}
