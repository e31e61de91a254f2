package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotifyRollRequested NotificationType = "roll_requested"
	NotifyRollResult    NotificationType = "roll_result"
	NotifyRollShared    NotificationType = "roll_shared"
	NotifyIdeaSubmitted NotificationType = "idea_submitted"
	NotifyIdeaApproved  NotificationType = "idea_approved"
	NotifyIdeaRejected  NotificationType = "idea_rejected"
	NotifyUnlockStand   NotificationType = "unlock_stand"
	NotifyUnlockCursed  NotificationType = "unlock_cursed"
	NotifyUnlockZanpak  NotificationType = "unlock_zanpakuto"
	NotifyUnlockShikai  NotificationType = "unlock_shikai"
	NotifyUnlockBankai  NotificationType = "unlock_bankai"
	NotifyFatePoint     NotificationType = "fate_point"
	NotifyItemTransfer  NotificationType = "item_transfer"
	NotifyBanned        NotificationType = "banned"
	NotifyMessage       NotificationType = "message"
	NotifyKidouOffer    NotificationType = "kidou_offer"
	NotifyKidouLearned  NotificationType = "kidou_learned"
)

type Notification struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CampaignID         uuid.UUID        `gorm:"type:uuid;not null;index:idx_notifications_poll,priority:1" json:"campaign_id"`
	UserID             uuid.UUID        `gorm:"type:uuid;not null;index:idx_notifications_poll,priority:2" json:"user_id"` // recipient
	Type               NotificationType `gorm:"type:varchar(50);not null" json:"type"`
	Title              string           `gorm:"size:255" json:"title"`
	Message            string           `gorm:"type:text" json:"message"`
	IsRead             bool             `gorm:"default:false" json:"is_read"`
	RelatedCharacterID *uuid.UUID       `gorm:"type:uuid" json:"related_character_id,omitempty"`
	RelatedRollID      *uuid.UUID       `gorm:"type:uuid" json:"related_roll_id,omitempty"`
	RelatedRequestID   *uuid.UUID       `gorm:"type:uuid" json:"related_request_id,omitempty"`
	RelatedIdeaID      *uuid.UUID       `gorm:"type:uuid" json:"related_idea_id,omitempty"`
	RelatedItemID      *uuid.UUID       `gorm:"type:uuid" json:"related_item_id,omitempty"`
	CreatedAt          time.Time        `gorm:"autoCreateTime;index:idx_notifications_poll,priority:3" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}
