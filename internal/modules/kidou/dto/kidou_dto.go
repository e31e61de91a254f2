package dto

import (
	"anoa.com/fatetable/internal/entity"
	"github.com/google/uuid"
)

type ListSpellsQuery struct {
	Tier      *int   `form:"tier" binding:"omitempty,min=0,max=5"`
	SpellType string `form:"type" binding:"omitempty,oneof=hadou bakudou forbidden"`
}

type OfferRequest struct {
	Tier     *int        `json:"tier" binding:"required,min=0,max=5"`
	SpellIDs []uuid.UUID `json:"spell_ids" binding:"omitempty,max=50"`
}

type ChooseRequest struct {
	SpellID uuid.UUID `json:"spell_id" binding:"required"`
}

// OfferResponse is what the game master gets back after making an offer.
type OfferResponse struct {
	ID          uuid.UUID           `json:"id"`
	CharacterID uuid.UUID           `json:"character_id"`
	Tier        int                 `json:"tier"`
	IsOpen      bool                `json:"is_open"`
	Options     []entity.KidouSpell `json:"options"`
}

func NewOfferResponse(o *entity.KidouOffer) OfferResponse {
	options := o.Options
	if options == nil {
		options = []entity.KidouSpell{}
	}
	return OfferResponse{
		ID:          o.ID,
		CharacterID: o.CharacterID,
		Tier:        o.Tier,
		IsOpen:      o.IsOpen,
		Options:     options,
	}
}
