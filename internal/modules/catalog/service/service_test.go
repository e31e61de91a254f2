package catalog

import (
	"context"
	"testing"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/internal/testutil/memstore"
	"anoa.com/fatetable/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSkillPermissions(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	svc := NewService(store.Catalog(), store.Campaigns())
	w := store.NewWorld(t, entity.CampaignFate)
	staff := store.AddUser(t, "admin", true)

	_, err := svc.CreateSkill(ctx, w.GM, EntryInput{Name: "Luta"})
	assert.Equal(t, apperror.ReasonNotGameMaster, apperror.ReasonOf(err), "global entries are staff only")

	_, err = svc.CreateSkill(ctx, w.Player, EntryInput{Name: "Luta", CampaignID: &w.Campaign.ID})
	assert.Equal(t, apperror.ReasonNotGameMaster, apperror.ReasonOf(err))

	missing := uuid.New()
	_, err = svc.CreateSkill(ctx, w.GM, EntryInput{Name: "Luta", CampaignID: &missing})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.CreateSkill(ctx, staff, EntryInput{Name: "Atletismo", UseStatus: "vigor", Bonus: 1})
	require.NoError(t, err)
	_, err = svc.CreateSkill(ctx, w.GM, EntryInput{Name: "Luta", UseStatus: "forca", Bonus: 2, CampaignID: &w.Campaign.ID})
	require.NoError(t, err)

	global, err := svc.ListSkills(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, global, 1)

	scoped, err := svc.ListSkills(ctx, &w.Campaign.ID)
	require.NoError(t, err)
	assert.Len(t, scoped, 2)
}

func TestCreateTrait(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	svc := NewService(store.Catalog(), store.Campaigns())
	w := store.NewWorld(t, entity.CampaignFate)

	trait, err := svc.CreateTrait(ctx, w.GM, EntryInput{Name: "Teimoso", UseStatus: "sabedoria", Bonus: -1, CampaignID: &w.Campaign.ID})
	require.NoError(t, err)
	assert.Equal(t, -1, trait.Bonus)

	traits, err := svc.ListTraits(ctx, &w.Campaign.ID)
	require.NoError(t, err)
	assert.Len(t, traits, 1)
}
