package user

import (
	"context"
	"testing"

	"anoa.com/fatetable/internal/testutil/memstore"
	"anoa.com/fatetable/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	store := memstore.New()
	svc := NewService(store.Users())
	ctx := context.Background()
	staff := store.AddUser(t, "admin", true)
	player := store.AddUser(t, "jogador", false)

	_, err := svc.CreateUser(ctx, player, CreateInput{Username: "novo", Email: "novo@example.com"})
	assert.Equal(t, apperror.ReasonNotGameMaster, apperror.ReasonOf(err))

	u, err := svc.CreateUser(ctx, staff, CreateInput{Username: " mestra ", Email: "Mestra@Example.com", IsGameMaster: true})
	require.NoError(t, err)
	assert.Equal(t, "mestra", u.Username)
	assert.Equal(t, "mestra@example.com", u.Email)
	assert.True(t, u.IsGameMaster())
	assert.False(t, u.IsStaff)

	_, err = svc.CreateUser(ctx, staff, CreateInput{Username: "outra", Email: "jogador@example.com"})
	assert.Equal(t, apperror.ReasonInvalidValue, apperror.ReasonOf(err))

	me, err := svc.Me(ctx, player)
	require.NoError(t, err)
	assert.Equal(t, "jogador", me.Username)
	assert.False(t, me.IsGameMaster)

	users, err := svc.List(ctx, staff)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "admin", users[0].Username)

	_, err = svc.List(ctx, player)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}
