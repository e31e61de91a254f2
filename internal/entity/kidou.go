package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type KidouType string

const (
	KidouHadou     KidouType = "hadou"
	KidouBakudou   KidouType = "bakudou"
	KidouForbidden KidouType = "forbidden"
)

func (t KidouType) Valid() bool {
	switch t {
	case KidouHadou, KidouBakudou, KidouForbidden:
		return true
	}
	return false
}

// MaxKidouTier is the highest tier a spell can have. Forbidden spells sit
// at tier 0.
const MaxKidouTier = 5

// KidouSpell is one entry of the global Kidou catalog.
type KidouSpell struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:150;not null;uniqueIndex" json:"name"`
	Number      *int      `json:"number"`
	SpellType   KidouType `gorm:"size:20;not null;index:idx_kidou_spells_type_tier,priority:1" json:"spell_type"`
	Tier        int       `gorm:"not null;default:0;index:idx_kidou_spells_type_tier,priority:2" json:"tier"`
	PACost      int       `gorm:"column:pa_cost;default:0" json:"pa_cost"`
	Effect      string    `gorm:"type:text" json:"effect"`
	Incantation string    `gorm:"type:text" json:"incantation"`
}

func (k *KidouSpell) BeforeCreate(tx *gorm.DB) (err error) {
	if k.ID == uuid.Nil {
		k.ID, err = uuid.NewV7()
	}
	return
}

// CharacterKidou is a spell a character has learned.
type CharacterKidou struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	CharacterID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_character_kidou_unique,priority:1" json:"character_id"`
	Character   *Character  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SpellID     uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_character_kidou_unique,priority:2" json:"spell_id"`
	Spell       *KidouSpell `gorm:"constraint:OnDelete:CASCADE" json:"spell,omitempty"`
	Mastery     int         `gorm:"not null;default:1" json:"mastery"`
	AcquiredAt  time.Time   `gorm:"autoCreateTime" json:"acquired_at"`
}

func (k *CharacterKidou) BeforeCreate(tx *gorm.DB) (err error) {
	if k.ID == uuid.Nil {
		k.ID, err = uuid.NewV7()
	}
	return
}

// KidouOffer lets the owner pick one spell of a tier from the options the
// game master put forward. It closes once a spell is chosen.
type KidouOffer struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	CharacterID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"character_id"`
	Character     *Character   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CampaignID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"campaign_id"`
	Tier          int          `gorm:"not null;default:0" json:"tier"`
	IsOpen        bool         `gorm:"not null;default:true;index" json:"is_open"`
	CreatedByID   uuid.UUID    `gorm:"type:uuid;not null" json:"created_by_id"`
	Options       []KidouSpell `gorm:"many2many:kidou_offer_options;" json:"options"`
	ChosenSpellID *uuid.UUID   `gorm:"type:uuid" json:"chosen_spell_id"`
	ChosenSpell   *KidouSpell  `gorm:"foreignKey:ChosenSpellID;constraint:OnDelete:SET NULL" json:"chosen_spell,omitempty"`
	ChosenAt      *time.Time   `json:"chosen_at"`
	CreatedAt     time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (o *KidouOffer) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID, err = uuid.NewV7()
	}
	return
}

// HasOption reports whether spellID is one of the offered spells.
func (o *KidouOffer) HasOption(spellID uuid.UUID) bool {
	for _, sp := range o.Options {
		if sp.ID == spellID {
			return true
		}
	}
	return false
}
