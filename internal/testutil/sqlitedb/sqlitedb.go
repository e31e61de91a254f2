// Package sqlitedb opens a migrated SQLite database for repository tests.
// It runs the gorm repositories against a real SQL engine without a
// postgres server.
package sqlitedb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"anoa.com/fatetable/internal/entity"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a fresh database file under t.TempDir with every entity
// migrated. WAL mode lets reads outside a transaction run while one is open.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "fatetable.db") +
		"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Discard,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(entity.Models()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Fixtures inserts rows straight through gorm.
type Fixtures struct {
	t  testing.TB
	db *gorm.DB
}

func NewFixtures(t testing.TB, db *gorm.DB) Fixtures {
	return Fixtures{t: t, db: db}
}

func (f Fixtures) create(v any) {
	f.t.Helper()
	require.NoError(f.t, f.db.WithContext(context.Background()).Create(v).Error)
}

func (f Fixtures) User(username string, staff bool) *entity.User {
	f.t.Helper()
	u := &entity.User{Username: username, Email: username + "@example.com", IsStaff: staff}
	f.create(u)
	return u
}

func (f Fixtures) Campaign(owner *entity.User, ct entity.CampaignType) *entity.Campaign {
	f.t.Helper()
	c := &entity.Campaign{Name: string(ct) + " campaign", CampaignType: ct, OwnerID: owner.ID}
	f.create(c)
	return c
}

func (f Fixtures) Character(c *entity.Campaign, owner *entity.User, mutate func(*entity.Character)) *entity.Character {
	f.t.Helper()
	ch := &entity.Character{
		Name:       owner.Username + "'s character",
		FatePoints: entity.DefaultFatePoints,
		OwnerID:    owner.ID,
		CampaignID: c.ID,
	}
	if mutate != nil {
		mutate(ch)
	}
	f.create(ch)
	return ch
}

func (f Fixtures) Skill(c *entity.Campaign, name string) *entity.Skill {
	f.t.Helper()
	sk := &entity.Skill{Name: name, UseStatus: "forca", Bonus: 1}
	if c != nil {
		sk.CampaignID = &c.ID
	}
	f.create(sk)
	return sk
}

func (f Fixtures) Ban(c *entity.Campaign, user *entity.User) {
	f.t.Helper()
	f.create(&entity.CampaignBan{CampaignID: c.ID, UserID: user.ID, BannedByID: c.OwnerID})
}

func (f Fixtures) Roll(ch *entity.Character, skill *entity.Skill, at time.Time) *entity.DiceRoll {
	f.t.Helper()
	r := &entity.DiceRoll{
		CharacterID: ch.ID,
		CampaignID:  ch.CampaignID,
		RollerID:    ch.OwnerID,
		CreatedAt:   at,
	}
	if skill != nil {
		r.SkillUsedID = &skill.ID
	}
	f.create(r)
	return r
}
