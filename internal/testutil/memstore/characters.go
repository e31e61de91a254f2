package memstore

import (
	"context"
	"time"

	"anoa.com/fatetable/internal/entity"
	catalogRepo "anoa.com/fatetable/internal/modules/catalog/repository"
	characterRepo "anoa.com/fatetable/internal/modules/character/repository"
	"anoa.com/fatetable/pkg/apperror"
	"github.com/google/uuid"
)

type Characters struct{ s *Store }

var _ characterRepo.CharacterRepository = Characters{}

func (s *Store) Characters() Characters { return Characters{s} }

func (r Characters) Create(_ context.Context, ch *entity.Character) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("characters.Create"); err != nil {
		return err
	}
	r.s.stamp(&ch.ID, &ch.CreatedAt)

	var skillIDs, traitIDs []uuid.UUID
	for _, sk := range ch.Skills {
		skillIDs = append(skillIDs, sk.ID)
	}
	for _, t := range ch.PersonalityTraits {
		traitIDs = append(traitIDs, t.ID)
	}
	row := *ch
	row.Skills, row.PersonalityTraits = nil, nil
	r.s.d.characters[ch.ID] = row
	r.s.d.charSkills[ch.ID] = skillIDs
	r.s.d.charTraits[ch.ID] = traitIDs
	return nil
}

// load must be called with mu held.
func (r Characters) load(id uuid.UUID) (*entity.Character, error) {
	ch, ok := r.s.d.characters[id]
	if !ok {
		return nil, apperror.NotFound(apperror.ReasonCharacterNotFound, "character not found")
	}
	for _, sid := range r.s.d.charSkills[id] {
		if sk, ok := r.s.d.skills[sid]; ok {
			ch.Skills = append(ch.Skills, sk)
		}
	}
	for _, tid := range r.s.d.charTraits[id] {
		if t, ok := r.s.d.traits[tid]; ok {
			ch.PersonalityTraits = append(ch.PersonalityTraits, t)
		}
	}
	return &ch, nil
}

func (r Characters) FindByID(_ context.Context, id uuid.UUID) (*entity.Character, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.load(id)
}

func (r Characters) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Character, error) {
	return r.FindByID(ctx, id)
}

func (r Characters) ListByCampaign(_ context.Context, campaignID uuid.UUID) ([]entity.Character, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Character
	for id, ch := range r.s.d.characters {
		if ch.CampaignID != campaignID {
			continue
		}
		full, _ := r.load(id)
		out = append(out, *full)
	}
	sortNewest(out, func(c entity.Character) (time.Time, uuid.UUID) { return c.CreatedAt, c.ID })
	return out, nil
}

func (r Characters) Save(_ context.Context, ch *entity.Character) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("characters.Save"); err != nil {
		return err
	}
	if _, ok := r.s.d.characters[ch.ID]; !ok {
		return apperror.NotFound(apperror.ReasonCharacterNotFound, "character not found")
	}
	row := *ch
	row.Skills, row.PersonalityTraits = nil, nil
	r.s.d.characters[ch.ID] = row
	return nil
}

func (r Characters) ReplaceTraits(_ context.Context, ch *entity.Character, traits []entity.PersonalityTrait) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(traits))
	for _, t := range traits {
		ids = append(ids, t.ID)
	}
	r.s.d.charTraits[ch.ID] = ids
	ch.PersonalityTraits = traits
	return nil
}

func (r Characters) AppendSkills(_ context.Context, ch *entity.Character, skills []entity.Skill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := r.s.d.charSkills[ch.ID]
	for _, sk := range skills {
		if !containsID(ids, sk.ID) {
			ids = append(ids, sk.ID)
			ch.Skills = append(ch.Skills, sk)
		}
	}
	r.s.d.charSkills[ch.ID] = ids
	return nil
}

func (r Characters) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.characters[id]; !ok {
		return apperror.NotFound(apperror.ReasonCharacterNotFound, "character not found")
	}
	delete(r.s.d.characters, id)
	delete(r.s.d.charSkills, id)
	delete(r.s.d.charTraits, id)
	for itemID, it := range r.s.d.items {
		if it.OwnerCharacterID == id {
			delete(r.s.d.items, itemID)
		}
	}
	return nil
}

type Catalog struct{ s *Store }

var _ catalogRepo.CatalogRepository = Catalog{}

func (s *Store) Catalog() Catalog { return Catalog{s} }

func (r Catalog) CreateSkill(_ context.Context, sk *entity.Skill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sk.ID == uuid.Nil {
		sk.ID = uuid.Must(uuid.NewV7())
	}
	r.s.d.skills[sk.ID] = *sk
	return nil
}

func (r Catalog) FindSkillByID(_ context.Context, id uuid.UUID) (*entity.Skill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sk, ok := r.s.d.skills[id]
	if !ok {
		return nil, apperror.NotFound(apperror.ReasonSkillNotFound, "skill not found")
	}
	return &sk, nil
}

func (r Catalog) FindSkillsByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Skill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Skill
	for _, id := range ids {
		if sk, ok := r.s.d.skills[id]; ok {
			out = append(out, sk)
		}
	}
	return out, nil
}

func (r Catalog) ListSkills(_ context.Context, campaignID *uuid.UUID) ([]entity.Skill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Skill
	for _, sk := range r.s.d.skills {
		if sk.CampaignID == nil || (campaignID != nil && *sk.CampaignID == *campaignID) {
			out = append(out, sk)
		}
	}
	sortOldest(out, func(s entity.Skill) (time.Time, uuid.UUID) { return time.Time{}, s.ID })
	return out, nil
}

func (r Catalog) CreateTrait(_ context.Context, t *entity.PersonalityTrait) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.Must(uuid.NewV7())
	}
	r.s.d.traits[t.ID] = *t
	return nil
}

func (r Catalog) FindTraitsByIDs(_ context.Context, ids []uuid.UUID) ([]entity.PersonalityTrait, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.PersonalityTrait
	for _, id := range ids {
		if t, ok := r.s.d.traits[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r Catalog) ListTraits(_ context.Context, campaignID *uuid.UUID) ([]entity.PersonalityTrait, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.PersonalityTrait
	for _, t := range r.s.d.traits {
		if t.CampaignID == nil || (campaignID != nil && *t.CampaignID == *campaignID) {
			out = append(out, t)
		}
	}
	sortOldest(out, func(t entity.PersonalityTrait) (time.Time, uuid.UUID) { return time.Time{}, t.ID })
	return out, nil
}
