package database

import (
	"context"
	"errors"
	"testing"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/internal/testutil/sqlitedb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSNDefaultsSSLMode(t *testing.T) {
	opts := Options{Host: "db", User: "gm", Password: "pw", Name: "fate", Port: "5432"}
	assert.Equal(t, "host=db user=gm password=pw dbname=fate port=5432 sslmode=disable", opts.DSN())

	opts.SSLMode = "require"
	assert.Contains(t, opts.DSN(), "sslmode=require")
}

func TestInTransactionWithoutTx(t *testing.T) {
	assert.False(t, InTransaction(context.Background()))
}

func TestTransactionRollsBackAndNests(t *testing.T) {
	db := sqlitedb.Open(t)
	tx := NewTransactor(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := tx.Transaction(ctx, func(ctx context.Context) error {
		require.True(t, InTransaction(ctx))
		require.NoError(t, Conn(ctx, db).Create(&entity.User{Username: "kept", Email: "kept@example.com"}).Error)
		return tx.Transaction(ctx, func(inner context.Context) error {
			// The nested call sees the outer transaction.
			assert.Same(t, Conn(ctx, db), Conn(inner, db))
			return nil
		})
	})
	require.NoError(t, err)

	err = tx.Transaction(ctx, func(ctx context.Context) error {
		require.NoError(t, Conn(ctx, db).Create(&entity.User{Username: "lost", Email: "lost@example.com"}).Error)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var names []string
	require.NoError(t, db.Model(&entity.User{}).Order("username").Pluck("username", &names).Error)
	assert.Equal(t, []string{"kept"}, names)
}
