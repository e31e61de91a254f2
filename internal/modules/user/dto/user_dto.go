package dto

import (
	"time"

	"anoa.com/fatetable/internal/entity"
	"github.com/google/uuid"
)

type MeResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	IsGameMaster bool      `json:"is_game_master"`
}

// CreateUserRequest is posted by staff to open an account.
type CreateUserRequest struct {
	Username     string `json:"username" binding:"required,min=3,max=50"`
	Email        string `json:"email" binding:"required,email"`
	IsGameMaster bool   `json:"is_game_master"`
	Bio          string `json:"bio" binding:"max=2000"`
}

type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	IsStaff      bool      `json:"is_staff"`
	IsGameMaster bool      `json:"is_game_master"`
	Bio          string    `json:"bio,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewUserResponse(u *entity.User) UserResponse {
	out := UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		IsStaff:      u.IsStaff,
		IsGameMaster: u.IsGameMaster(),
		CreatedAt:    u.CreatedAt,
	}
	if u.Profile != nil {
		out.Bio = u.Profile.Bio
	}
	return out
}
