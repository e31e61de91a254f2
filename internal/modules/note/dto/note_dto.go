package dto

import (
	"time"

	"anoa.com/fatetable/internal/entity"
	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	CharacterID uuid.UUID `json:"character" binding:"required"`
	Content     string    `json:"content" binding:"required,max=10000"`
}

type UpdateNoteRequest struct {
	Content string `json:"content" binding:"required,max=10000"`
}

type NoteResponse struct {
	ID             uuid.UUID `json:"id"`
	CharacterID    uuid.UUID `json:"character"`
	AuthorID       uuid.UUID `json:"author"`
	AuthorUsername string    `json:"author_username"`
	Content        string    `json:"content"`
	IsMasterNote   bool      `json:"is_master_note"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewNoteResponse(n *entity.CharacterNote) NoteResponse {
	out := NoteResponse{
		ID:           n.ID,
		CharacterID:  n.CharacterID,
		AuthorID:     n.AuthorID,
		Content:      n.Content,
		IsMasterNote: n.IsMasterNote,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
	if n.Author != nil {
		out.AuthorUsername = n.Author.Username
	}
	return out
}

func NewNoteList(notes []entity.CharacterNote) []NoteResponse {
	out := make([]NoteResponse, 0, len(notes))
	for i := range notes {
		out = append(out, NewNoteResponse(&notes[i]))
	}
	return out
}
