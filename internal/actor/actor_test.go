package actor

import (
	"testing"

	"anoa.com/fatetable/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRoleIn(t *testing.T) {
	owner := uuid.New()
	campaign := &entity.Campaign{ID: uuid.New(), OwnerID: owner}

	assert.Equal(t, RoleGameMaster, Actor{UserID: owner}.RoleIn(campaign))
	assert.Equal(t, RoleGameMaster, Actor{UserID: uuid.New(), IsStaff: true}.RoleIn(campaign))
	assert.Equal(t, RolePlayer, Actor{UserID: uuid.New()}.RoleIn(campaign))
}

func TestCanActFor(t *testing.T) {
	gm := uuid.New()
	player := uuid.New()
	campaign := &entity.Campaign{ID: uuid.New(), OwnerID: gm}
	ch := &entity.Character{ID: uuid.New(), OwnerID: player, CampaignID: campaign.ID}

	assert.True(t, Actor{UserID: player}.CanActFor(ch, campaign))
	assert.True(t, Actor{UserID: gm}.CanActFor(ch, campaign))
	assert.False(t, Actor{UserID: uuid.New()}.CanActFor(ch, campaign))
}

func TestFromUserUsesProfileFlag(t *testing.T) {
	u := &entity.User{ID: uuid.New(), Username: "mestre", Profile: &entity.Profile{IsGameMaster: true}}
	a := FromUser(u)
	assert.True(t, a.IsStaff)
	assert.Equal(t, "mestre", a.Username)
}
