package dto

import (
	"anoa.com/fatetable/internal/entity"
	"github.com/google/uuid"
)

// UpdateStatsRequest is a partial update; nil fields are left alone.
type UpdateStatsRequest struct {
	Forca        *int `json:"forca"`
	Destreza     *int `json:"destreza"`
	Vigor        *int `json:"vigor"`
	Inteligencia *int `json:"inteligencia"`
	Sabedoria    *int `json:"sabedoria"`
	Carisma      *int `json:"carisma"`

	FatePoints *int    `json:"fate_points"`
	Status     *string `json:"status"`
	Hierarchy  *string `json:"hierarchy"`
	Role       *string `json:"role"`

	StandUnlocked   *bool `json:"stand_unlocked"`
	ExtraStandSlots *int  `json:"extra_stand_slots"`

	CursedEnergyUnlocked *bool `json:"cursed_energy_unlocked"`
	CursedEnergy         *int  `json:"cursed_energy"`
	ExtraCursedSlots     *int  `json:"extra_cursed_technique_slots"`

	ZanpakutoUnlocked   *bool `json:"zanpakuto_unlocked"`
	ExtraZanpakutoSlots *int  `json:"extra_zanpakuto_slots"`
	ShikaiUnlocked      *bool `json:"shikai_unlocked"`
	BankaiUnlocked      *bool `json:"bankai_unlocked"`
}

type SetReleaseRequest struct {
	ShikaiActive *bool `json:"shikai_active"`
	BankaiActive *bool `json:"bankai_active"`
}

type AddFatePointsRequest struct {
	Amount int `json:"amount" binding:"required,min=1,max=10"`
}

type SlotResponse struct {
	Type     entity.PowerType `json:"type"`
	Existing int              `json:"existing"`
	Pending  int              `json:"pending"`
	Capacity int              `json:"capacity"`
}

// CharacterStateResponse is the game master's view of the power and unlock state.
type CharacterStateResponse struct {
	ID           uuid.UUID `json:"id"`
	FatePoints   int       `json:"fate_points"`
	Status       string    `json:"status"`
	Forca        int       `json:"forca"`
	Destreza     int       `json:"destreza"`
	Vigor        int       `json:"vigor"`
	Inteligencia int       `json:"inteligencia"`
	Sabedoria    int       `json:"sabedoria"`
	Carisma      int       `json:"carisma"`

	StandUnlocked        bool `json:"stand_unlocked"`
	ExtraStandSlots      int  `json:"extra_stand_slots"`
	CursedEnergyUnlocked bool `json:"cursed_energy_unlocked"`
	CursedEnergy         int  `json:"cursed_energy"`
	ExtraCursedSlots     int  `json:"extra_cursed_technique_slots"`
	ZanpakutoUnlocked    bool `json:"zanpakuto_unlocked"`
	ExtraZanpakutoSlots  int  `json:"extra_zanpakuto_slots"`
	ShikaiUnlocked       bool `json:"shikai_unlocked"`
	BankaiUnlocked       bool `json:"bankai_unlocked"`
	ShikaiActive         bool `json:"shikai_active"`
	BankaiActive         bool `json:"bankai_active"`
}

func NewCharacterState(ch *entity.Character) CharacterStateResponse {
	return CharacterStateResponse{
		ID:                   ch.ID,
		FatePoints:           ch.FatePoints,
		Status:               ch.Status,
		Forca:                ch.Forca,
		Destreza:             ch.Destreza,
		Vigor:                ch.Vigor,
		Inteligencia:         ch.Inteligencia,
		Sabedoria:            ch.Sabedoria,
		Carisma:              ch.Carisma,
		StandUnlocked:        ch.StandUnlocked,
		ExtraStandSlots:      ch.ExtraStandSlots,
		CursedEnergyUnlocked: ch.CursedEnergyUnlocked,
		CursedEnergy:         ch.CursedEnergy,
		ExtraCursedSlots:     ch.ExtraCursedSlots,
		ZanpakutoUnlocked:    ch.ZanpakutoUnlocked,
		ExtraZanpakutoSlots:  ch.ExtraZanpakutoSlots,
		ShikaiUnlocked:       ch.ShikaiUnlocked,
		BankaiUnlocked:       ch.BankaiUnlocked,
		ShikaiActive:         ch.ShikaiActive,
		BankaiActive:         ch.BankaiActive,
	}
}
