package dto

import (
	"time"

	"anoa.com/fatetable/internal/entity"
	"github.com/google/uuid"
)

type SendMessageRequest struct {
	CampaignID  uuid.UUID `json:"campaign" binding:"required"`
	RecipientID uuid.UUID `json:"recipient" binding:"required"`
	Content     string    `json:"content" binding:"required,max=2000"`
}

// ListMessagesQuery carries the since filter; campaign and with are uuid
// query parameters read by the handler.
type ListMessagesQuery struct {
	Since *time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
}

type MessageResponse struct {
	ID                uuid.UUID `json:"id"`
	CampaignID        uuid.UUID `json:"campaign"`
	SenderID          uuid.UUID `json:"sender"`
	SenderUsername    string    `json:"sender_username"`
	RecipientID       uuid.UUID `json:"recipient"`
	RecipientUsername string    `json:"recipient_username"`
	Content           string    `json:"content"`
	CreatedAt         time.Time `json:"created_at"`
}

func NewMessageResponse(m *entity.Message) MessageResponse {
	out := MessageResponse{
		ID:          m.ID,
		CampaignID:  m.CampaignID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt,
	}
	if m.Sender != nil {
		out.SenderUsername = m.Sender.Username
	}
	if m.Recipient != nil {
		out.RecipientUsername = m.Recipient.Username
	}
	return out
}

func NewMessageList(messages []entity.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, NewMessageResponse(&messages[i]))
	}
	return out
}
