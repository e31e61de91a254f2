package memstore

import (
	"context"
	"errors"
	"testing"

	"anoa.com/fatetable/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRollsBack(t *testing.T) {
	s := New()
	ctx := context.Background()
	ch := &entity.Character{Name: "Jotaro", FatePoints: 3, CampaignID: uuid.New(), OwnerID: uuid.New()}
	require.NoError(t, s.Characters().Create(ctx, ch))

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(ctx context.Context) error {
		loaded, err := s.Characters().FindByIDForUpdate(ctx, ch.ID)
		require.NoError(t, err)
		loaded.FatePoints = 0
		require.NoError(t, s.Characters().Save(ctx, loaded))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Characters().FindByID(ctx, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.FatePoints)
}

func TestNestedTransactionJoinsOuter(t *testing.T) {
	s := New()
	ctx := context.Background()
	err := s.Transaction(ctx, func(ctx context.Context) error {
		return s.Transaction(ctx, func(ctx context.Context) error {
			return s.Rolls().Create(ctx, &entity.DiceRoll{CampaignID: uuid.New()})
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Rolls().Count())
}

func TestFailOn(t *testing.T) {
	s := New()
	boom := errors.New("boom")
	s.FailOn("rolls.Create", boom)
	assert.ErrorIs(t, s.Rolls().Create(context.Background(), &entity.DiceRoll{}), boom)

	s.FailOn("rolls.Create", nil)
	assert.NoError(t, s.Rolls().Create(context.Background(), &entity.DiceRoll{}))
}
