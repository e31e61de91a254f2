package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Item struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string     `gorm:"size:100;not null" json:"name"`
	Description      string     `gorm:"type:text" json:"description"`
	ItemType         string     `gorm:"size:50" json:"item_type"`
	Quantity         int        `gorm:"not null;default:1" json:"quantity"`
	Durability       *int       `json:"durability"`
	IsEquipped       bool       `gorm:"default:false" json:"is_equipped"`
	OwnerCharacterID uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_character_id"`
	OwnerCharacter   *Character `gorm:"foreignKey:OwnerCharacterID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID, err = uuid.NewV7()
	}
	return
}

type ItemTrade struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID          uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	FromCharacterID uuid.UUID `gorm:"type:uuid;not null" json:"from_character_id"`
	ToCharacterID   uuid.UUID `gorm:"type:uuid;not null" json:"to_character_id"`
	Quantity        int       `gorm:"not null" json:"quantity"`
	MovedByID       uuid.UUID `gorm:"type:uuid;not null" json:"moved_by_id"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (t *ItemTrade) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	return
}

// Models lists every table for AutoMigrate, parents first.
func Models() []any {
	return []any{
		&User{}, &Profile{},
		&Campaign{}, &CampaignBan{},
		&Skill{}, &PersonalityTrait{},
		&Character{},
		&DiceRoll{}, &RollRequest{},
		&Stand{}, &Zanpakuto{}, &CursedTechnique{},
		&PowerIdea{}, &SkillIdea{},
		&Notification{},
		&Item{}, &ItemTrade{},
		&CharacterNote{}, &Message{},
		&KidouSpell{}, &CharacterKidou{}, &KidouOffer{},
	}
}
