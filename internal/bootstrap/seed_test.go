package bootstrap

import (
	"context"
	"testing"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/internal/testutil/sqlitedb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedKidouIsIdempotent(t *testing.T) {
	db := sqlitedb.Open(t)
	ctx := context.Background()

	require.NoError(t, SeedKidou(ctx, db))
	require.NoError(t, SeedKidou(ctx, db))

	var count int64
	require.NoError(t, db.Model(&entity.KidouSpell{}).Count(&count).Error)
	assert.EqualValues(t, len(DefaultKidou), count)

	var forbidden []entity.KidouSpell
	require.NoError(t, db.Where("spell_type = ?", entity.KidouForbidden).Find(&forbidden).Error)
	require.NotEmpty(t, forbidden)
	for _, sp := range forbidden {
		assert.Zero(t, sp.Tier)
		assert.Zero(t, sp.PACost)
		assert.Nil(t, sp.Number)
	}
}

func TestDefaultKidouCosts(t *testing.T) {
	names := map[string]bool{}
	for _, sp := range DefaultKidou {
		assert.False(t, names[sp.Name], "duplicate spell %s", sp.Name)
		names[sp.Name] = true
		assert.True(t, sp.SpellType.Valid())
		assert.LessOrEqual(t, sp.Tier, entity.MaxKidouTier)
		if sp.Tier > 0 {
			assert.Equal(t, kidouCost[sp.Tier], sp.PACost, sp.Name)
		}
	}
}

func TestSeedCatalogAndStaffUser(t *testing.T) {
	db := sqlitedb.Open(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, SeedCatalog(ctx, db))
		require.NoError(t, SeedStaffUser(ctx, db, "mestre", "mestre@example.com"))
	}

	var skills, users int64
	require.NoError(t, db.Model(&entity.Skill{}).Count(&skills).Error)
	require.NoError(t, db.Model(&entity.User{}).Count(&users).Error)
	assert.EqualValues(t, len(DefaultSkills), skills)
	assert.EqualValues(t, 1, users)
}
