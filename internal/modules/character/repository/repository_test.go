package repository

import (
	"context"
	"testing"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/internal/testutil/sqlitedb"
	"anoa.com/fatetable/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAppliesDefaults(t *testing.T) {
	db := sqlitedb.Open(t)
	fx := sqlitedb.NewFixtures(t, db)
	player := fx.User("jogador", false)
	c := fx.Campaign(fx.User("mestre", false), entity.CampaignFate)

	repo := NewCharacterRepository(db)
	ctx := context.Background()
	ch := &entity.Character{Name: "Kaede", OwnerID: player.ID, CampaignID: c.ID}
	require.NoError(t, repo.Create(ctx, ch))

	got, err := repo.FindByID(ctx, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultFatePoints, got.FatePoints)
	assert.False(t, got.IsNPC)
	assert.False(t, got.StandUnlocked)
}

func TestSaveLeavesAssociationsAlone(t *testing.T) {
	db := sqlitedb.Open(t)
	fx := sqlitedb.NewFixtures(t, db)
	player := fx.User("jogador", false)
	c := fx.Campaign(fx.User("mestre", false), entity.CampaignFate)
	skill := fx.Skill(c, "Atletismo")

	repo := NewCharacterRepository(db)
	ctx := context.Background()
	ch := fx.Character(c, player, nil)
	require.NoError(t, repo.AppendSkills(ctx, ch, []entity.Skill{*skill}))

	loaded, err := repo.FindByID(ctx, ch.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Skills, 1)

	// A renamed skill on the loaded character must not be written back.
	loaded.Skills[0].Name = "renamed"
	loaded.Skills = append(loaded.Skills, entity.Skill{Name: "ghost"})
	loaded.FatePoints = 0
	require.NoError(t, repo.Save(ctx, loaded))

	got, err := repo.FindByID(ctx, ch.ID)
	require.NoError(t, err)
	assert.Zero(t, got.FatePoints)
	require.Len(t, got.Skills, 1)
	assert.Equal(t, "Atletismo", got.Skills[0].Name)

	var skills int64
	require.NoError(t, db.Model(&entity.Skill{}).Count(&skills).Error)
	assert.EqualValues(t, 1, skills)
}

func TestDeleteRemovesCharacter(t *testing.T) {
	db := sqlitedb.Open(t)
	fx := sqlitedb.NewFixtures(t, db)
	player := fx.User("jogador", false)
	c := fx.Campaign(fx.User("mestre", false), entity.CampaignFate)
	ch := fx.Character(c, player, nil)

	repo := NewCharacterRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Delete(ctx, ch.ID))

	_, err := repo.FindByID(ctx, ch.ID)
	assert.Equal(t, apperror.ReasonCharacterNotFound, apperror.ReasonOf(err))
	assert.Equal(t, apperror.ReasonCharacterNotFound, apperror.ReasonOf(repo.Delete(ctx, ch.ID)))
}
