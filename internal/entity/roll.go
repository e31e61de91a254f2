package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiceRoll is one resolved roll of four ternary dice. HiddenBonus and
// HiddenTotal are only ever shown to the campaign's game master.
type DiceRoll struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CharacterID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"character_id"`
	Character     *Character `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CampaignID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_dice_rolls_campaign_created,priority:1" json:"campaign_id"`
	RollerID      uuid.UUID  `gorm:"type:uuid;not null" json:"roller_id"`
	Dice1         int        `json:"dice1"`
	Dice2         int        `json:"dice2"`
	Dice3         int        `json:"dice3"`
	Dice4         int        `json:"dice4"`
	DiceTotal     int        `json:"dice_total"`
	UsedFatePoint bool       `gorm:"default:false" json:"used_fate_point"`
	FinalTotal    int        `json:"final_total"`
	SkillUsedID   *uuid.UUID `gorm:"type:uuid" json:"skill_used_id"`
	SkillUsed     *Skill     `gorm:"foreignKey:SkillUsedID;constraint:OnDelete:SET NULL" json:"-"`
	HiddenBonus   int        `json:"-"`
	HiddenTotal   int        `json:"-"`
	SeenByMaster  bool       `gorm:"default:false" json:"seen_by_master"`
	Description   string     `gorm:"type:text" json:"description"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;index:idx_dice_rolls_campaign_created,priority:2" json:"created_at"`
}

func (r *DiceRoll) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}

// Dice returns the four faces in order.
func (r *DiceRoll) Dice() [4]int {
	return [4]int{r.Dice1, r.Dice2, r.Dice3, r.Dice4}
}

type RollRequest struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CampaignID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"campaign_id"`
	Campaign      *Campaign  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CharacterID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"character_id"`
	Character     *Character `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	RequestedByID uuid.UUID  `gorm:"type:uuid;not null" json:"requested_by_id"`
	SkillID       *uuid.UUID `gorm:"type:uuid" json:"skill_id"`
	Description   string     `gorm:"type:text" json:"description"`
	IsOpen        bool       `gorm:"not null;default:true;index" json:"is_open"`
	FulfilledAt   *time.Time `json:"fulfilled_at"`
	FulfilledByID *uuid.UUID `gorm:"type:uuid" json:"fulfilled_by_id"`
	RollID        *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"roll_id"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (r *RollRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}
