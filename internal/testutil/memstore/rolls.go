package memstore

import (
	"context"
	"time"

	"anoa.com/fatetable/internal/entity"
	rollRepo "anoa.com/fatetable/internal/modules/roll/repository"
	rollRequestRepo "anoa.com/fatetable/internal/modules/rollrequest/repository"
	"anoa.com/fatetable/pkg/apperror"
	"github.com/google/uuid"
)

type Rolls struct{ s *Store }

var _ rollRepo.RollRepository = Rolls{}

func (s *Store) Rolls() Rolls { return Rolls{s} }

func (r Rolls) Create(_ context.Context, roll *entity.DiceRoll) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("rolls.Create"); err != nil {
		return err
	}
	r.s.stamp(&roll.ID, &roll.CreatedAt)
	stored := *roll
	stored.Character, stored.SkillUsed = nil, nil
	r.s.d.rolls[roll.ID] = stored
	return nil
}

// withAssociations fills Character and SkillUsed the way the gorm
// repository preloads them.
func (r Rolls) withAssociations(roll entity.DiceRoll) entity.DiceRoll {
	if ch, ok := r.s.d.characters[roll.CharacterID]; ok {
		roll.Character = &ch
	}
	if roll.SkillUsedID != nil {
		if sk, ok := r.s.d.skills[*roll.SkillUsedID]; ok {
			roll.SkillUsed = &sk
		}
	}
	return roll
}

func (r Rolls) FindByID(_ context.Context, id uuid.UUID) (*entity.DiceRoll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	roll, ok := r.s.d.rolls[id]
	if !ok {
		return nil, apperror.NotFound(apperror.ReasonRollNotFound, "roll not found")
	}
	roll = r.withAssociations(roll)
	return &roll, nil
}

func (r Rolls) ListByCampaign(_ context.Context, filter rollRepo.ListFilter) ([]entity.DiceRoll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.DiceRoll
	for _, roll := range r.s.d.rolls {
		if roll.CampaignID != filter.CampaignID {
			continue
		}
		if filter.OwnerID != nil {
			ch, ok := r.s.d.characters[roll.CharacterID]
			if !ok || ch.OwnerID != *filter.OwnerID {
				continue
			}
		}
		if filter.Since != nil && roll.CreatedAt.Before(*filter.Since) {
			continue
		}
		out = append(out, r.withAssociations(roll))
	}
	sortNewest(out, func(d entity.DiceRoll) (time.Time, uuid.UUID) { return d.CreatedAt, d.ID })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r Rolls) MarkSeen(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	roll, ok := r.s.d.rolls[id]
	if !ok {
		return nil
	}
	roll.SeenByMaster = true
	r.s.d.rolls[id] = roll
	return nil
}

// Count returns the number of stored rolls.
func (r Rolls) Count() int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.d.rolls)
}

type RollRequests struct{ s *Store }

var _ rollRequestRepo.RollRequestRepository = RollRequests{}

func (s *Store) RollRequests() RollRequests { return RollRequests{s} }

func (r RollRequests) Create(_ context.Context, req *entity.RollRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&req.ID, &req.CreatedAt)
	r.s.d.requests[req.ID] = *req
	return nil
}

func (r RollRequests) FindByID(_ context.Context, id uuid.UUID) (*entity.RollRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.d.requests[id]
	if !ok {
		return nil, apperror.NotFound(apperror.ReasonRequestNotFound, "roll request not found")
	}
	return &req, nil
}

func (r RollRequests) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.RollRequest, error) {
	return r.FindByID(ctx, id)
}

func (r RollRequests) MarkFulfilled(_ context.Context, id, rollID, fulfilledBy uuid.UUID, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.d.requests[id]
	if !ok || !req.IsOpen {
		return false, nil
	}
	req.IsOpen = false
	req.RollID = &rollID
	req.FulfilledByID = &fulfilledBy
	req.FulfilledAt = &at
	r.s.d.requests[id] = req
	return true, nil
}

func (r RollRequests) ListOpenForOwner(_ context.Context, campaignID, ownerID uuid.UUID) ([]entity.RollRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.RollRequest
	for _, req := range r.s.d.requests {
		if req.CampaignID != campaignID || !req.IsOpen {
			continue
		}
		ch, ok := r.s.d.characters[req.CharacterID]
		if !ok || ch.OwnerID != ownerID {
			continue
		}
		out = append(out, req)
	}
	sortOldest(out, func(q entity.RollRequest) (time.Time, uuid.UUID) { return q.CreatedAt, q.ID })
	return out, nil
}
