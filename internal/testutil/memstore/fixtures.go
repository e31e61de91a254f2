package memstore

import (
	"context"
	"testing"

	"anoa.com/fatetable/internal/actor"
	"anoa.com/fatetable/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// World is a campaign run by GM with one player character owned by Player.
type World struct {
	GM        actor.Actor
	Player    actor.Actor
	Campaign  *entity.Campaign
	Character *entity.Character
}

func (s *Store) AddUser(t testing.TB, username string, staff bool) actor.Actor {
	t.Helper()
	u := &entity.User{Username: username, Email: username + "@example.com", IsStaff: staff}
	require.NoError(t, s.Users().Create(context.Background(), u))
	return actor.FromUser(u)
}

func (s *Store) AddCampaign(t testing.TB, owner actor.Actor, ct entity.CampaignType) *entity.Campaign {
	t.Helper()
	c := &entity.Campaign{Name: string(ct) + " campaign", CampaignType: ct, OwnerID: owner.UserID}
	require.NoError(t, s.Campaigns().Create(context.Background(), c))
	return c
}

// AddCharacter stores a character with default fate points; mutate may
// adjust it before it is saved.
func (s *Store) AddCharacter(t testing.TB, campaign *entity.Campaign, owner actor.Actor, mutate func(*entity.Character)) *entity.Character {
	t.Helper()
	ch := &entity.Character{
		Name:       owner.Username + "'s character",
		CampaignID: campaign.ID,
		OwnerID:    owner.UserID,
		FatePoints: entity.DefaultFatePoints,
	}
	if mutate != nil {
		mutate(ch)
	}
	require.NoError(t, s.Characters().Create(context.Background(), ch))
	loaded, err := s.Characters().FindByID(context.Background(), ch.ID)
	require.NoError(t, err)
	return loaded
}

func (s *Store) AddSkill(t testing.TB, campaignID *uuid.UUID, useStatus string, bonus int) *entity.Skill {
	t.Helper()
	sk := &entity.Skill{Name: "skill " + useStatus, UseStatus: useStatus, Bonus: bonus, CampaignID: campaignID}
	require.NoError(t, s.Catalog().CreateSkill(context.Background(), sk))
	return sk
}

func (s *Store) AddTrait(t testing.TB, campaignID *uuid.UUID, useStatus string, bonus int) entity.PersonalityTrait {
	t.Helper()
	tr := &entity.PersonalityTrait{Name: "trait " + useStatus, UseStatus: useStatus, Bonus: bonus, CampaignID: campaignID}
	require.NoError(t, s.Catalog().CreateTrait(context.Background(), tr))
	return *tr
}

func (s *Store) NewWorld(t testing.TB, ct entity.CampaignType) *World {
	t.Helper()
	gm := s.AddUser(t, "mestre-"+uuid.NewString()[:8], false)
	player := s.AddUser(t, "jogador-"+uuid.NewString()[:8], false)
	campaign := s.AddCampaign(t, gm, ct)
	return &World{
		GM:        gm,
		Player:    player,
		Campaign:  campaign,
		Character: s.AddCharacter(t, campaign, player, nil),
	}
}
