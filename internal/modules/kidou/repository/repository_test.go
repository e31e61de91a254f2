package repository

import (
	"context"
	"testing"
	"time"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/internal/testutil/sqlitedb"
	"anoa.com/fatetable/pkg/apperror"
	"anoa.com/fatetable/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func spell(t *testing.T, db *gorm.DB, name string, kind entity.KidouType, tier, number int) entity.KidouSpell {
	t.Helper()
	sp := entity.KidouSpell{Name: name, SpellType: kind, Tier: tier, Number: &number}
	require.NoError(t, db.Create(&sp).Error)
	return sp
}

func TestListSpellsFilters(t *testing.T) {
	db := sqlitedb.Open(t)
	spell(t, db, "Shakkahou", entity.KidouHadou, 2, 31)
	spell(t, db, "Byakurai", entity.KidouHadou, 1, 4)
	spell(t, db, "Sai", entity.KidouBakudou, 1, 1)

	repo := NewKidouRepository(db)
	ctx := context.Background()

	all, err := repo.ListSpells(ctx, SpellFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Sai", all[0].Name, "bakudou sorts before hadou")
	assert.Equal(t, "Byakurai", all[1].Name)

	tier := 1
	hadou := entity.KidouHadou
	got, err := repo.ListSpells(ctx, SpellFilter{Tier: &tier, SpellType: &hadou})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Byakurai", got[0].Name)
}

func TestOfferLifecycle(t *testing.T) {
	db := sqlitedb.Open(t)
	fx := sqlitedb.NewFixtures(t, db)
	gm := fx.User("mestre", false)
	c := fx.Campaign(gm, entity.CampaignBleach)
	ch := fx.Character(c, fx.User("jogador", false), nil)
	first := spell(t, db, "Byakurai", entity.KidouHadou, 1, 4)
	second := spell(t, db, "Sai", entity.KidouBakudou, 1, 1)

	repo := NewKidouRepository(db)
	ctx := context.Background()

	offer := &entity.KidouOffer{CharacterID: ch.ID, CampaignID: c.ID, Tier: 1, IsOpen: true, CreatedByID: gm.ID,
		Options: []entity.KidouSpell{first, second}}
	require.NoError(t, repo.CreateOffer(ctx, offer))

	var spells int64
	require.NoError(t, db.Model(&entity.KidouSpell{}).Count(&spells).Error)
	assert.EqualValues(t, 2, spells, "options link existing spells")

	open, err := repo.HasOpenOffer(ctx, ch.ID)
	require.NoError(t, err)
	assert.True(t, open)

	listed, err := repo.ListOpenOffers(ctx, ch.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Len(t, listed[0].Options, 2)

	at := time.Date(2026, 7, 4, 21, 0, 0, 0, time.UTC)
	err = database.NewTransactor(db).Transaction(ctx, func(ctx context.Context) error {
		locked, err := repo.FindOfferForUpdate(ctx, offer.ID)
		require.NoError(t, err)
		require.True(t, locked.HasOption(second.ID))
		ok, err := repo.CloseOffer(ctx, locked.ID, second.ID, at)
		require.NoError(t, err)
		require.True(t, ok)
		return nil
	})
	require.NoError(t, err)

	ok, err := repo.CloseOffer(ctx, offer.ID, first.ID, at)
	require.NoError(t, err)
	assert.False(t, ok, "a closed offer keeps its first choice")

	closed, err := repo.FindOfferForUpdate(ctx, offer.ID)
	require.NoError(t, err)
	assert.False(t, closed.IsOpen)
	assert.Equal(t, &second.ID, closed.ChosenSpellID)
	assert.True(t, at.Equal(*closed.ChosenAt))

	open, err = repo.HasOpenOffer(ctx, ch.ID)
	require.NoError(t, err)
	assert.False(t, open)
	listed, err = repo.ListOpenOffers(ctx, ch.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestLearnIsUniquePerCharacter(t *testing.T) {
	db := sqlitedb.Open(t)
	fx := sqlitedb.NewFixtures(t, db)
	c := fx.Campaign(fx.User("mestre", false), entity.CampaignBleach)
	ch := fx.Character(c, fx.User("jogador", false), nil)
	sp := spell(t, db, "Byakurai", entity.KidouHadou, 1, 4)

	repo := NewKidouRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Learn(ctx, &entity.CharacterKidou{CharacterID: ch.ID, SpellID: sp.ID, Mastery: 1}))
	assert.Error(t, repo.Learn(ctx, &entity.CharacterKidou{CharacterID: ch.ID, SpellID: sp.ID, Mastery: 1}))

	known, err := repo.ListKnown(ctx, ch.ID)
	require.NoError(t, err)
	require.Len(t, known, 1)
	require.NotNil(t, known[0].Spell)
	assert.Equal(t, "Byakurai", known[0].Spell.Name)
}

func TestFindMissingOffer(t *testing.T) {
	_, err := NewKidouRepository(sqlitedb.Open(t)).FindOfferForUpdate(context.Background(), uuid.New())
	assert.Equal(t, apperror.ReasonOfferNotFound, apperror.ReasonOf(err))
}
