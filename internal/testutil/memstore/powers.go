package memstore

import (
	"context"
	"fmt"
	"time"

	"anoa.com/fatetable/internal/entity"
	ideaRepo "anoa.com/fatetable/internal/modules/idea/repository"
	powerRepo "anoa.com/fatetable/internal/modules/power/repository"
	"anoa.com/fatetable/pkg/apperror"
	"github.com/google/uuid"
)

type Powers struct{ s *Store }

var _ powerRepo.PowerRepository = Powers{}

func (s *Store) Powers() Powers { return Powers{s} }

func (r Powers) CountOwned(_ context.Context, characterID uuid.UUID, powerType entity.PowerType) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	switch powerType {
	case entity.PowerStand:
		for _, p := range r.s.d.stands {
			if p.CharacterID == characterID {
				n++
			}
		}
	case entity.PowerZanpakuto:
		for _, p := range r.s.d.zanpakutos {
			if p.CharacterID == characterID {
				n++
			}
		}
	case entity.PowerCursed:
		for _, p := range r.s.d.cursed {
			if p.CharacterID == characterID {
				n++
			}
		}
	default:
		return 0, fmt.Errorf("unknown power type %q", powerType)
	}
	return n, nil
}

func (r Powers) ListOwned(_ context.Context, characterID uuid.UUID) (*powerRepo.Owned, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	owned := &powerRepo.Owned{}
	for _, p := range r.s.d.stands {
		if p.CharacterID == characterID {
			owned.Stands = append(owned.Stands, p)
		}
	}
	for _, p := range r.s.d.zanpakutos {
		if p.CharacterID == characterID {
			owned.Zanpakutos = append(owned.Zanpakutos, p)
		}
	}
	for _, p := range r.s.d.cursed {
		if p.CharacterID == characterID {
			owned.CursedTechniques = append(owned.CursedTechniques, p)
		}
	}
	return owned, nil
}

func (r Powers) CreateStand(_ context.Context, p *entity.Stand) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("powers.Create"); err != nil {
		return err
	}
	r.s.stamp(&p.ID, &p.CreatedAt)
	r.s.d.stands = append(r.s.d.stands, *p)
	return nil
}

func (r Powers) CreateZanpakuto(_ context.Context, p *entity.Zanpakuto) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("powers.Create"); err != nil {
		return err
	}
	r.s.stamp(&p.ID, &p.CreatedAt)
	r.s.d.zanpakutos = append(r.s.d.zanpakutos, *p)
	return nil
}

func (r Powers) CreateCursedTechnique(_ context.Context, p *entity.CursedTechnique) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("powers.Create"); err != nil {
		return err
	}
	r.s.stamp(&p.ID, &p.CreatedAt)
	r.s.d.cursed = append(r.s.d.cursed, *p)
	return nil
}

type Ideas struct{ s *Store }

var _ ideaRepo.IdeaRepository = Ideas{}

func (s *Store) Ideas() Ideas { return Ideas{s} }

func (r Ideas) CreatePowerIdea(_ context.Context, idea *entity.PowerIdea) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&idea.ID, &idea.CreatedAt)
	if idea.Status == "" {
		idea.Status = entity.IdeaPending
	}
	r.s.d.powerIdeas[idea.ID] = *idea
	return nil
}

func (r Ideas) FindPowerIdea(_ context.Context, id uuid.UUID) (*entity.PowerIdea, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	idea, ok := r.s.d.powerIdeas[id]
	if !ok {
		return nil, apperror.NotFound(apperror.ReasonIdeaNotFound, "idea not found")
	}
	return &idea, nil
}

func (r Ideas) FindPowerIdeaForUpdate(ctx context.Context, id uuid.UUID) (*entity.PowerIdea, error) {
	return r.FindPowerIdea(ctx, id)
}

func (r Ideas) SavePowerIdea(_ context.Context, idea *entity.PowerIdea) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.powerIdeas[idea.ID] = *idea
	return nil
}

func (r Ideas) CountPendingPower(_ context.Context, characterID uuid.UUID, powerType entity.PowerType) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, idea := range r.s.d.powerIdeas {
		if idea.CharacterID == characterID && idea.IdeaType == powerType && idea.Status == entity.IdeaPending {
			n++
		}
	}
	return n, nil
}

func matches(filter ideaRepo.ListFilter, campaignID, submittedBy uuid.UUID, status entity.IdeaStatus) bool {
	if campaignID != filter.CampaignID {
		return false
	}
	if filter.SubmittedByID != nil && *filter.SubmittedByID != submittedBy {
		return false
	}
	if filter.Status != nil && *filter.Status != status {
		return false
	}
	return true
}

func (r Ideas) ListPowerIdeas(_ context.Context, filter ideaRepo.ListFilter) ([]entity.PowerIdea, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.PowerIdea
	for _, idea := range r.s.d.powerIdeas {
		if matches(filter, idea.CampaignID, idea.SubmittedByID, idea.Status) {
			out = append(out, idea)
		}
	}
	sortNewest(out, func(i entity.PowerIdea) (time.Time, uuid.UUID) { return i.CreatedAt, i.ID })
	return out, nil
}

func (r Ideas) CreateSkillIdea(_ context.Context, idea *entity.SkillIdea) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&idea.ID, &idea.CreatedAt)
	if idea.Status == "" {
		idea.Status = entity.IdeaPending
	}
	r.s.d.skillIdeas[idea.ID] = *idea
	return nil
}

func (r Ideas) FindSkillIdeaForUpdate(_ context.Context, id uuid.UUID) (*entity.SkillIdea, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	idea, ok := r.s.d.skillIdeas[id]
	if !ok {
		return nil, apperror.NotFound(apperror.ReasonIdeaNotFound, "idea not found")
	}
	return &idea, nil
}

func (r Ideas) SaveSkillIdea(_ context.Context, idea *entity.SkillIdea) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.skillIdeas[idea.ID] = *idea
	return nil
}

func (r Ideas) ListSkillIdeas(_ context.Context, filter ideaRepo.ListFilter) ([]entity.SkillIdea, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.SkillIdea
	for _, idea := range r.s.d.skillIdeas {
		if matches(filter, idea.CampaignID, idea.SubmittedByID, idea.Status) {
			out = append(out, idea)
		}
	}
	sortNewest(out, func(i entity.SkillIdea) (time.Time, uuid.UUID) { return i.CreatedAt, i.ID })
	return out, nil
}
