// Package actor carries the identity of whoever performs an operation.
package actor

import (
	"anoa.com/fatetable/internal/entity"
	"github.com/google/uuid"
)

type Role string

const (
	RoleGameMaster Role = "game_master"
	RolePlayer     Role = "player"
)

// Actor is resolved once per request and passed into every service call.
type Actor struct {
	UserID   uuid.UUID
	Username string
	// IsStaff is the global game master flag. Staff act as game master in
	// every campaign.
	IsStaff bool
}

func FromUser(u *entity.User) Actor {
	return Actor{UserID: u.ID, Username: u.Username, IsStaff: u.IsGameMaster()}
}

func (a Actor) RoleIn(c *entity.Campaign) Role {
	if a.IsGameMasterOf(c) {
		return RoleGameMaster
	}
	return RolePlayer
}

func (a Actor) IsGameMasterOf(c *entity.Campaign) bool {
	if a.IsStaff {
		return true
	}
	return c != nil && c.OwnerID == a.UserID
}

// CanActFor reports whether the actor may operate the character: its owner
// or the campaign's game master.
func (a Actor) CanActFor(ch *entity.Character, c *entity.Campaign) bool {
	if ch != nil && ch.OwnerID == a.UserID {
		return true
	}
	return a.IsGameMasterOf(c)
}
