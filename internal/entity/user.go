package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	IsStaff   bool      `gorm:"default:false" json:"is_staff"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	Profile   *Profile  `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsGameMaster mirrors the global game-master flag: staff or a flagged profile.
func (u *User) IsGameMaster() bool {
	if u.IsStaff {
		return true
	}
	return u.Profile != nil && u.Profile.IsGameMaster
}

type Profile struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	IsGameMaster bool      `gorm:"default:false" json:"is_game_master"`
	Bio          string    `gorm:"type:text" json:"bio"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
