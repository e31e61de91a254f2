package repository

import (
	"context"
	"testing"
	"time"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/internal/testutil/sqlitedb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListByCampaignFiltersByOwner(t *testing.T) {
	db := sqlitedb.Open(t)
	fx := sqlitedb.NewFixtures(t, db)
	gm := fx.User("mestre", false)
	player := fx.User("jogador", false)
	rival := fx.User("rival", false)
	c := fx.Campaign(gm, entity.CampaignFate)
	other := fx.Campaign(gm, entity.CampaignFate)
	mine := fx.Character(c, player, nil)
	theirs := fx.Character(c, rival, nil)
	skill := fx.Skill(c, "Atletismo")

	base := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	older := fx.Roll(mine, nil, base)
	newer := fx.Roll(mine, skill, base.Add(time.Minute))
	fx.Roll(theirs, nil, base.Add(2*time.Minute))
	fx.Roll(fx.Character(other, player, nil), nil, base)

	repo := NewRollRepository(db)
	ctx := context.Background()

	owned, err := repo.ListByCampaign(ctx, ListFilter{CampaignID: c.ID, OwnerID: &player.ID})
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, newer.ID, owned[0].ID)
	assert.Equal(t, older.ID, owned[1].ID)
	require.NotNil(t, owned[0].SkillUsed)
	assert.Equal(t, "Atletismo", owned[0].SkillUsed.Name)
	require.NotNil(t, owned[0].Character)
	assert.Equal(t, mine.Name, owned[0].Character.Name)
	assert.Nil(t, owned[1].SkillUsed)

	all, err := repo.ListByCampaign(ctx, ListFilter{CampaignID: c.ID})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	since := base.Add(30 * time.Second)
	recent, err := repo.ListByCampaign(ctx, ListFilter{CampaignID: c.ID, Since: &since, Limit: 1})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, theirs.ID, recent[0].CharacterID)
}

func TestFindByIDLoadsNamesAndMarkSeen(t *testing.T) {
	db := sqlitedb.Open(t)
	fx := sqlitedb.NewFixtures(t, db)
	gm := fx.User("mestre", false)
	c := fx.Campaign(gm, entity.CampaignFate)
	ch := fx.Character(c, fx.User("jogador", false), nil)
	r := fx.Roll(ch, fx.Skill(nil, "Furtividade"), time.Now().UTC())

	repo := NewRollRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.MarkSeen(ctx, r.ID))

	got, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, got.SeenByMaster)
	assert.Equal(t, "Furtividade", got.SkillUsed.Name)
	assert.Equal(t, ch.Name, got.Character.Name)
}
