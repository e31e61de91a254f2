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
)

func TestMarkFulfilledOnlyOnce(t *testing.T) {
	db := sqlitedb.Open(t)
	fx := sqlitedb.NewFixtures(t, db)
	gm := fx.User("mestre", false)
	player := fx.User("jogador", false)
	c := fx.Campaign(gm, entity.CampaignFate)
	ch := fx.Character(c, player, nil)
	first := fx.Roll(ch, nil, time.Now().UTC())
	second := fx.Roll(ch, nil, time.Now().UTC())

	repo := NewRollRequestRepository(db)
	ctx := context.Background()
	req := &entity.RollRequest{CampaignID: c.ID, CharacterID: ch.ID, RequestedByID: gm.ID}
	require.NoError(t, repo.Create(ctx, req))
	assert.True(t, req.IsOpen)

	at := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	ok, err := repo.MarkFulfilled(ctx, req.ID, first.ID, player.ID, at)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkFulfilled(ctx, req.ID, second.ID, player.ID, at.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, ok, "a closed request must not be fulfilled again")

	got, err := repo.FindByID(ctx, req.ID)
	require.NoError(t, err)
	assert.False(t, got.IsOpen)
	assert.Equal(t, &first.ID, got.RollID)
	assert.Equal(t, &player.ID, got.FulfilledByID)
	assert.True(t, at.Equal(*got.FulfilledAt))
}

func TestMarkFulfilledInsideTransaction(t *testing.T) {
	db := sqlitedb.Open(t)
	fx := sqlitedb.NewFixtures(t, db)
	gm := fx.User("mestre", false)
	c := fx.Campaign(gm, entity.CampaignFate)
	ch := fx.Character(c, fx.User("jogador", false), nil)
	r := fx.Roll(ch, nil, time.Now().UTC())

	repo := NewRollRequestRepository(db)
	ctx := context.Background()
	req := &entity.RollRequest{CampaignID: c.ID, CharacterID: ch.ID, RequestedByID: gm.ID}
	require.NoError(t, repo.Create(ctx, req))

	err := database.NewTransactor(db).Transaction(ctx, func(ctx context.Context) error {
		locked, err := repo.FindByIDForUpdate(ctx, req.ID)
		require.NoError(t, err)
		require.True(t, locked.IsOpen)
		ok, err := repo.MarkFulfilled(ctx, req.ID, r.ID, gm.ID, time.Now().UTC())
		require.NoError(t, err)
		require.True(t, ok)
		return nil
	})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, req.ID)
	require.NoError(t, err)
	assert.False(t, got.IsOpen)
}

func TestListOpenForOwner(t *testing.T) {
	db := sqlitedb.Open(t)
	fx := sqlitedb.NewFixtures(t, db)
	gm := fx.User("mestre", false)
	player := fx.User("jogador", false)
	rival := fx.User("rival", false)
	c := fx.Campaign(gm, entity.CampaignFate)
	other := fx.Campaign(gm, entity.CampaignFate)
	mine := fx.Character(c, player, nil)
	theirs := fx.Character(c, rival, nil)
	elsewhere := fx.Character(other, player, nil)

	repo := NewRollRequestRepository(db)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	create := func(ch *entity.Character, at time.Time) *entity.RollRequest {
		req := &entity.RollRequest{CampaignID: ch.CampaignID, CharacterID: ch.ID, RequestedByID: gm.ID, CreatedAt: at}
		require.NoError(t, repo.Create(ctx, req))
		return req
	}
	later := create(mine, base.Add(time.Minute))
	earlier := create(mine, base)
	closed := create(mine, base.Add(2*time.Minute))
	create(theirs, base)
	create(elsewhere, base)

	r := fx.Roll(mine, nil, base)
	ok, err := repo.MarkFulfilled(ctx, closed.ID, r.ID, player.ID, base)
	require.NoError(t, err)
	require.True(t, ok)

	open, err := repo.ListOpenForOwner(ctx, c.ID, player.ID)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, earlier.ID, open[0].ID)
	assert.Equal(t, later.ID, open[1].ID)
}

func TestFindMissingRequest(t *testing.T) {
	repo := NewRollRequestRepository(sqlitedb.Open(t))
	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, apperror.ReasonRequestNotFound, apperror.ReasonOf(err))
}
