package service

import (
	"anoa.com/fatetable/internal/entity"
	"github.com/google/uuid"
)

// Notice is a notification an operation wants delivered. Operations return
// notices; the Dispatcher persists and pushes them.
type Notice struct {
	CampaignID  uuid.UUID
	RecipientID uuid.UUID
	Type        entity.NotificationType
	Title       string
	Message     string

	CharacterID *uuid.UUID
	RollID      *uuid.UUID
	RequestID   *uuid.UUID
	IdeaID      *uuid.UUID
	ItemID      *uuid.UUID
}

func (n Notice) toEntity() *entity.Notification {
	return &entity.Notification{
		CampaignID:         n.CampaignID,
		UserID:             n.RecipientID,
		Type:               n.Type,
		Title:              n.Title,
		Message:            n.Message,
		RelatedCharacterID: n.CharacterID,
		RelatedRollID:      n.RollID,
		RelatedRequestID:   n.RequestID,
		RelatedIdeaID:      n.IdeaID,
		RelatedItemID:      n.ItemID,
	}
}

// Ref returns a pointer to a copy of id, for the Related fields.
func Ref(id uuid.UUID) *uuid.UUID {
	return &id
}
