package dto

import "github.com/google/uuid"

type CreateItemRequest struct {
	CharacterID uuid.UUID `json:"character_id" binding:"required"`
	Name        string    `json:"name" binding:"required,max=100"`
	Description string    `json:"description" binding:"max=2000"`
	ItemType    string    `json:"item_type" binding:"max=50"`
	Quantity    int       `json:"quantity" binding:"omitempty,min=1"`
	Durability  *int      `json:"durability" binding:"omitempty,min=0"`
}

type TransferItemRequest struct {
	ToCharacterID uuid.UUID `json:"to_character_id" binding:"required"`
	Quantity      int       `json:"quantity" binding:"required"`
}
