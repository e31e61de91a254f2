package dto

import "github.com/google/uuid"

// CreateEntryRequest creates a skill or a personality trait. A nil
// campaign_id makes the entry global.
type CreateEntryRequest struct {
	Name        string     `json:"name" binding:"required,max=100"`
	Description string     `json:"description" binding:"max=2000"`
	UseStatus   string     `json:"use_status" binding:"max=100"`
	Bonus       int        `json:"bonus" binding:"min=-10,max=10"`
	CampaignID  *uuid.UUID `json:"campaign_id"`
}
