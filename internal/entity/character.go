package entity

import (
	"time"

	"anoa.com/fatetable/pkg/textutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attribute names one of the six hidden character statistics.
type Attribute string

const (
	AttrForca        Attribute = "forca"
	AttrDestreza     Attribute = "destreza"
	AttrVigor        Attribute = "vigor"
	AttrInteligencia Attribute = "inteligencia"
	AttrSabedoria    Attribute = "sabedoria"
	AttrCarisma      Attribute = "carisma"
)

var Attributes = []Attribute{AttrForca, AttrDestreza, AttrVigor, AttrInteligencia, AttrSabedoria, AttrCarisma}

// ParseAttribute maps a free-form use_status ("Força", "FORCA") to an attribute.
func ParseAttribute(useStatus string) (Attribute, bool) {
	folded := textutil.Fold(useStatus)
	for _, a := range Attributes {
		if folded == string(a) {
			return a, true
		}
	}
	return "", false
}

const (
	DefaultFatePoints = 3
	MinTraits         = 5
	MaxTraits         = 10
)

type Character struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Hierarchy   string    `gorm:"size:100" json:"hierarchy"`
	Role        string    `gorm:"size:100" json:"role"`
	Status      string    `gorm:"size:100" json:"status"`
	FatePoints  int       `gorm:"not null;default:3" json:"fate_points"`
	IsNPC       bool      `gorm:"default:false" json:"is_npc"`

	Forca        int `json:"forca"`
	Destreza     int `json:"destreza"`
	Vigor        int `json:"vigor"`
	Inteligencia int `json:"inteligencia"`
	Sabedoria    int `json:"sabedoria"`
	Carisma      int `json:"carisma"`

	StandUnlocked        bool `gorm:"default:false" json:"stand_unlocked"`
	ExtraStandSlots      int  `gorm:"default:0" json:"extra_stand_slots"`
	CursedEnergyUnlocked bool `gorm:"default:false" json:"cursed_energy_unlocked"`
	CursedEnergy         int  `gorm:"default:0" json:"cursed_energy"`
	ExtraCursedSlots     int  `gorm:"column:extra_cursed_technique_slots;default:0" json:"extra_cursed_technique_slots"`
	ZanpakutoUnlocked    bool `gorm:"default:false" json:"zanpakuto_unlocked"`
	ExtraZanpakutoSlots  int  `gorm:"default:0" json:"extra_zanpakuto_slots"`
	ShikaiUnlocked       bool `gorm:"default:false" json:"shikai_unlocked"`
	BankaiUnlocked       bool `gorm:"default:false" json:"bankai_unlocked"`
	ShikaiActive         bool `gorm:"default:false" json:"shikai_active"`
	BankaiActive         bool `gorm:"default:false" json:"bankai_active"`
	// KidouTier is the highest Kidou tier the character has learned from.
	KidouTier int `gorm:"column:bleach_kidou_tier;default:0" json:"bleach_kidou_tier"`

	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner      *User     `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	CampaignID uuid.UUID `gorm:"type:uuid;not null;index" json:"campaign_id"`
	Campaign   *Campaign `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Skills            []Skill            `gorm:"many2many:character_skills;" json:"skills,omitempty"`
	PersonalityTraits []PersonalityTrait `gorm:"many2many:character_traits;" json:"personality_traits,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Character) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

// AttributeValue returns the character's value for a.
func (c *Character) AttributeValue(a Attribute) int {
	switch a {
	case AttrForca:
		return c.Forca
	case AttrDestreza:
		return c.Destreza
	case AttrVigor:
		return c.Vigor
	case AttrInteligencia:
		return c.Inteligencia
	case AttrSabedoria:
		return c.Sabedoria
	case AttrCarisma:
		return c.Carisma
	}
	return 0
}
