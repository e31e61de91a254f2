// Package memstore keeps every repository in memory for service tests.
// Transactions are serialised and roll back by restoring a snapshot.
package memstore

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/pkg/clock"
	"github.com/google/uuid"
)

type Store struct {
	mu    sync.Mutex
	txMu  sync.Mutex
	d     *data
	clock clock.Clock
	fails map[string]error
}

type data struct {
	users         map[uuid.UUID]entity.User
	campaigns     map[uuid.UUID]entity.Campaign
	bans          []entity.CampaignBan
	characters    map[uuid.UUID]entity.Character
	charSkills    map[uuid.UUID][]uuid.UUID
	charTraits    map[uuid.UUID][]uuid.UUID
	skills        map[uuid.UUID]entity.Skill
	traits        map[uuid.UUID]entity.PersonalityTrait
	rolls         map[uuid.UUID]entity.DiceRoll
	requests      map[uuid.UUID]entity.RollRequest
	stands        []entity.Stand
	zanpakutos    []entity.Zanpakuto
	cursed        []entity.CursedTechnique
	powerIdeas    map[uuid.UUID]entity.PowerIdea
	skillIdeas    map[uuid.UUID]entity.SkillIdea
	notifications []entity.Notification
	items         map[uuid.UUID]entity.Item
	trades        []entity.ItemTrade
	messages      []entity.Message
}

func New() *Store {
	return &Store{
		d: &data{
			users:      map[uuid.UUID]entity.User{},
			campaigns:  map[uuid.UUID]entity.Campaign{},
			characters: map[uuid.UUID]entity.Character{},
			charSkills: map[uuid.UUID][]uuid.UUID{},
			charTraits: map[uuid.UUID][]uuid.UUID{},
			skills:     map[uuid.UUID]entity.Skill{},
			traits:     map[uuid.UUID]entity.PersonalityTrait{},
			rolls:      map[uuid.UUID]entity.DiceRoll{},
			requests:   map[uuid.UUID]entity.RollRequest{},
			powerIdeas: map[uuid.UUID]entity.PowerIdea{},
			skillIdeas: map[uuid.UUID]entity.SkillIdea{},
			items:      map[uuid.UUID]entity.Item{},
		},
		clock: clock.New(),
		fails: map[string]error{},
	}
}

// SetClock controls the CreatedAt stamped on new rows.
func (s *Store) SetClock(c clock.Clock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = c
}

// FailOn makes the named operation, e.g. "notifications.CreateBatch",
// return err until cleared with a nil err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fails, op)
		return
	}
	s.fails[op] = err
}

// fail must be called with mu held.
func (s *Store) fail(op string) error {
	return s.fails[op]
}

type txKey struct{}

// Transaction implements database.Transactor.
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.d.clone()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.d = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) stamp(id *uuid.UUID, createdAt *time.Time) {
	if *id == uuid.Nil {
		*id = uuid.Must(uuid.NewV7())
	}
	if createdAt.IsZero() {
		*createdAt = s.clock.Now()
	}
}

func (d *data) clone() *data {
	return &data{
		users:         cloneMap(d.users),
		campaigns:     cloneMap(d.campaigns),
		bans:          append([]entity.CampaignBan(nil), d.bans...),
		characters:    cloneMap(d.characters),
		charSkills:    cloneIDLists(d.charSkills),
		charTraits:    cloneIDLists(d.charTraits),
		skills:        cloneMap(d.skills),
		traits:        cloneMap(d.traits),
		rolls:         cloneMap(d.rolls),
		requests:      cloneMap(d.requests),
		stands:        append([]entity.Stand(nil), d.stands...),
		zanpakutos:    append([]entity.Zanpakuto(nil), d.zanpakutos...),
		cursed:        append([]entity.CursedTechnique(nil), d.cursed...),
		powerIdeas:    cloneMap(d.powerIdeas),
		skillIdeas:    cloneMap(d.skillIdeas),
		notifications: append([]entity.Notification(nil), d.notifications...),
		items:         cloneMap(d.items),
		trades:        append([]entity.ItemTrade(nil), d.trades...),
		messages:      append([]entity.Message(nil), d.messages...),
	}
}

func cloneMap[V any](m map[uuid.UUID]V) map[uuid.UUID]V {
	out := make(map[uuid.UUID]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneIDLists(m map[uuid.UUID][]uuid.UUID) map[uuid.UUID][]uuid.UUID {
	out := make(map[uuid.UUID][]uuid.UUID, len(m))
	for k, v := range m {
		out[k] = append([]uuid.UUID(nil), v...)
	}
	return out
}

// sortNewest orders rows by created_at descending, newest id first on ties.
func sortNewest[T any](rows []T, key func(T) (time.Time, uuid.UUID)) {
	sort.SliceStable(rows, func(i, j int) bool {
		ti, ii := key(rows[i])
		tj, ij := key(rows[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return bytes.Compare(ii[:], ij[:]) > 0
	})
}

func sortOldest[T any](rows []T, key func(T) (time.Time, uuid.UUID)) {
	sort.SliceStable(rows, func(i, j int) bool {
		ti, ii := key(rows[i])
		tj, ij := key(rows[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return bytes.Compare(ii[:], ij[:]) < 0
	})
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
