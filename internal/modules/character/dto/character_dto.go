package dto

import (
	"time"

	"anoa.com/fatetable/internal/entity"
	"github.com/google/uuid"
)

type CreateCharacterRequest struct {
	CampaignID          uuid.UUID   `json:"campaign_id" binding:"required"`
	Name                string      `json:"name" binding:"required,max=100"`
	Description         string      `json:"description" binding:"max=5000"`
	IsNPC               bool        `json:"is_npc"`
	PersonalityTraitIDs []uuid.UUID `json:"personality_trait_ids" binding:"required"`
}

type ReplaceTraitsRequest struct {
	PersonalityTraitIDs []uuid.UUID `json:"personality_trait_ids" binding:"required"`
}

type AttachSkillsRequest struct {
	SkillIDs []uuid.UUID `json:"skill_ids" binding:"required,min=1"`
}

// CharacterView is a PublicCharacter or a MasterCharacter.
type CharacterView interface {
	characterID() uuid.UUID
}

type PublicSkill struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Bonus       int        `json:"bonus"`
	CampaignID  *uuid.UUID `json:"campaign_id"`
}

type PublicTrait struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CampaignID  *uuid.UUID `json:"campaign_id"`
}

// PublicCharacter hides the attributes, the status and what each trait
// and skill feeds into.
type PublicCharacter struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Hierarchy   string    `json:"hierarchy"`
	Role        string    `json:"role"`
	FatePoints  int       `json:"fate_points"`
	IsNPC       bool      `json:"is_npc"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CampaignID  uuid.UUID `json:"campaign_id"`
	CreatedAt   time.Time `json:"created_at"`

	StandUnlocked        bool `json:"stand_unlocked"`
	ExtraStandSlots      int  `json:"extra_stand_slots"`
	CursedEnergyUnlocked bool `json:"cursed_energy_unlocked"`
	ExtraCursedSlots     int  `json:"extra_cursed_technique_slots"`
	ZanpakutoUnlocked    bool `json:"zanpakuto_unlocked"`
	ExtraZanpakutoSlots  int  `json:"extra_zanpakuto_slots"`
	ShikaiUnlocked       bool `json:"shikai_unlocked"`
	BankaiUnlocked       bool `json:"bankai_unlocked"`
	ShikaiActive         bool `json:"shikai_active"`
	BankaiActive         bool `json:"bankai_active"`
	KidouTier            int  `json:"bleach_kidou_tier"`

	Skills            []PublicSkill `json:"skills"`
	PersonalityTraits []PublicTrait `json:"personality_traits"`
}

func (p PublicCharacter) characterID() uuid.UUID { return p.ID }

type MasterCharacter struct {
	PublicCharacter

	Status       string `json:"status"`
	CursedEnergy int    `json:"cursed_energy"`
	Forca        int    `json:"forca"`
	Destreza     int    `json:"destreza"`
	Vigor        int    `json:"vigor"`
	Inteligencia int    `json:"inteligencia"`
	Sabedoria    int    `json:"sabedoria"`
	Carisma      int    `json:"carisma"`

	// Shadow the public lists with the full rows.
	Skills            []entity.Skill            `json:"skills"`
	PersonalityTraits []entity.PersonalityTrait `json:"personality_traits"`
}

func NewPublicCharacter(ch *entity.Character) PublicCharacter {
	skills := make([]PublicSkill, 0, len(ch.Skills))
	for _, s := range ch.Skills {
		skills = append(skills, PublicSkill{ID: s.ID, Name: s.Name, Description: s.Description, Bonus: s.Bonus, CampaignID: s.CampaignID})
	}
	traits := make([]PublicTrait, 0, len(ch.PersonalityTraits))
	for _, t := range ch.PersonalityTraits {
		traits = append(traits, PublicTrait{ID: t.ID, Name: t.Name, Description: t.Description, CampaignID: t.CampaignID})
	}

	return PublicCharacter{
		ID:                   ch.ID,
		Name:                 ch.Name,
		Description:          ch.Description,
		Hierarchy:            ch.Hierarchy,
		Role:                 ch.Role,
		FatePoints:           ch.FatePoints,
		IsNPC:                ch.IsNPC,
		OwnerID:              ch.OwnerID,
		CampaignID:           ch.CampaignID,
		CreatedAt:            ch.CreatedAt,
		StandUnlocked:        ch.StandUnlocked,
		ExtraStandSlots:      ch.ExtraStandSlots,
		CursedEnergyUnlocked: ch.CursedEnergyUnlocked,
		ExtraCursedSlots:     ch.ExtraCursedSlots,
		ZanpakutoUnlocked:    ch.ZanpakutoUnlocked,
		ExtraZanpakutoSlots:  ch.ExtraZanpakutoSlots,
		ShikaiUnlocked:       ch.ShikaiUnlocked,
		BankaiUnlocked:       ch.BankaiUnlocked,
		ShikaiActive:         ch.ShikaiActive,
		BankaiActive:         ch.BankaiActive,
		KidouTier:            ch.KidouTier,
		Skills:               skills,
		PersonalityTraits:    traits,
	}
}

func NewMasterCharacter(ch *entity.Character) MasterCharacter {
	skills := ch.Skills
	if skills == nil {
		skills = []entity.Skill{}
	}
	traits := ch.PersonalityTraits
	if traits == nil {
		traits = []entity.PersonalityTrait{}
	}
	return MasterCharacter{
		PublicCharacter:   NewPublicCharacter(ch),
		Status:            ch.Status,
		CursedEnergy:      ch.CursedEnergy,
		Forca:             ch.Forca,
		Destreza:          ch.Destreza,
		Vigor:             ch.Vigor,
		Inteligencia:      ch.Inteligencia,
		Sabedoria:         ch.Sabedoria,
		Carisma:           ch.Carisma,
		Skills:            skills,
		PersonalityTraits: traits,
	}
}

func NewCharacterView(ch *entity.Character, isGameMaster bool) CharacterView {
	if isGameMaster {
		return NewMasterCharacter(ch)
	}
	return NewPublicCharacter(ch)
}
