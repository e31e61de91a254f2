package character

import (
	"context"
	"fmt"

	"anoa.com/fatetable/internal/actor"
	"anoa.com/fatetable/internal/entity"
	campaignRepo "anoa.com/fatetable/internal/modules/campaign/repository"
	catalogRepo "anoa.com/fatetable/internal/modules/catalog/repository"
	"anoa.com/fatetable/internal/modules/character/dto"
	characterRepo "anoa.com/fatetable/internal/modules/character/repository"
	"anoa.com/fatetable/pkg/apperror"
	"anoa.com/fatetable/pkg/database"
	"github.com/google/uuid"
)

type CreateInput struct {
	CampaignID  uuid.UUID
	Name        string
	Description string
	// IsNPC is honoured only for the campaign's game master.
	IsNPC    bool
	TraitIDs []uuid.UUID
}

type Service interface {
	Create(ctx context.Context, a actor.Actor, in CreateInput) (dto.CharacterView, error)
	Get(ctx context.Context, a actor.Actor, id uuid.UUID) (dto.CharacterView, error)
	ListByCampaign(ctx context.Context, a actor.Actor, campaignID uuid.UUID) ([]dto.CharacterView, error)
	// ReplaceTraits swaps the whole trait set; it is all or nothing.
	ReplaceTraits(ctx context.Context, a actor.Actor, id uuid.UUID, traitIDs []uuid.UUID) (dto.CharacterView, error)
	AttachSkills(ctx context.Context, a actor.Actor, id uuid.UUID, skillIDs []uuid.UUID) (dto.CharacterView, error)
	Delete(ctx context.Context, a actor.Actor, id uuid.UUID) error
}

type service struct {
	tx         database.Transactor
	characters characterRepo.CharacterRepository
	campaigns  campaignRepo.CampaignRepository
	catalog    catalogRepo.CatalogRepository
}

func NewService(
	tx database.Transactor,
	characters characterRepo.CharacterRepository,
	campaigns campaignRepo.CampaignRepository,
	catalog catalogRepo.CatalogRepository,
) Service {
	return &service{tx: tx, characters: characters, campaigns: campaigns, catalog: catalog}
}

func unique(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// traitsFor resolves a trait selection for a campaign: between MinTraits and
// MaxTraits distinct traits, each global or owned by the campaign.
func (s *service) traitsFor(ctx context.Context, campaignID uuid.UUID, ids []uuid.UUID) ([]entity.PersonalityTrait, error) {
	ids = unique(ids)
	if len(ids) < entity.MinTraits || len(ids) > entity.MaxTraits {
		return nil, apperror.Validation(apperror.ReasonTraitCount,
			fmt.Sprintf("a character needs between %d and %d personality traits", entity.MinTraits, entity.MaxTraits))
	}

	traits, err := s.catalog.FindTraitsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(traits) != len(ids) {
		return nil, apperror.Validation(apperror.ReasonInvalidTraitForCampaign, "unknown personality trait")
	}
	for _, t := range traits {
		if !t.UsableIn(campaignID) {
			return nil, apperror.Validation(apperror.ReasonInvalidTraitForCampaign,
				fmt.Sprintf("trait %q does not belong to this campaign", t.Name))
		}
	}
	return traits, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*entity.Character, *entity.Campaign, error) {
	ch, err := s.characters.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	campaign, err := s.campaigns.FindByID(ctx, ch.CampaignID)
	if err != nil {
		return nil, nil, err
	}
	return ch, campaign, nil
}

func (s *service) Create(ctx context.Context, a actor.Actor, in CreateInput) (dto.CharacterView, error) {
	campaign, err := s.campaigns.FindByID(ctx, in.CampaignID)
	if err != nil {
		return nil, err
	}
	banned, err := s.campaigns.IsBanned(ctx, campaign.ID, a.UserID)
	if err != nil {
		return nil, err
	}
	if banned {
		return nil, apperror.Permission(apperror.ReasonBanned, "you are banned from this campaign")
	}

	traits, err := s.traitsFor(ctx, campaign.ID, in.TraitIDs)
	if err != nil {
		return nil, err
	}

	gm := a.IsGameMasterOf(campaign)
	ch := &entity.Character{
		Name:              in.Name,
		Description:       in.Description,
		FatePoints:        entity.DefaultFatePoints,
		IsNPC:             in.IsNPC && gm,
		OwnerID:           a.UserID,
		CampaignID:        campaign.ID,
		PersonalityTraits: traits,
	}
	if err := s.characters.Create(ctx, ch); err != nil {
		return nil, fmt.Errorf("create character: %w", err)
	}

	created, err := s.characters.FindByID(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewCharacterView(created, gm), nil
}

func (s *service) Get(ctx context.Context, a actor.Actor, id uuid.UUID) (dto.CharacterView, error) {
	ch, campaign, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewCharacterView(ch, a.IsGameMasterOf(campaign)), nil
}

func (s *service) ListByCampaign(ctx context.Context, a actor.Actor, campaignID uuid.UUID) ([]dto.CharacterView, error) {
	campaign, err := s.campaigns.FindByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	chars, err := s.characters.ListByCampaign(ctx, campaign.ID)
	if err != nil {
		return nil, err
	}

	gm := a.IsGameMasterOf(campaign)
	views := make([]dto.CharacterView, 0, len(chars))
	for i := range chars {
		views = append(views, dto.NewCharacterView(&chars[i], gm))
	}
	return views, nil
}

func (s *service) ReplaceTraits(ctx context.Context, a actor.Actor, id uuid.UUID, traitIDs []uuid.UUID) (dto.CharacterView, error) {
	ch, campaign, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.CanActFor(ch, campaign) {
		return nil, apperror.Permission(apperror.ReasonNotOwner, "only the owner or the game master can change traits")
	}
	traits, err := s.traitsFor(ctx, campaign.ID, traitIDs)
	if err != nil {
		return nil, err
	}

	var updated *entity.Character
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		locked, err := s.characters.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := s.characters.ReplaceTraits(ctx, locked, traits); err != nil {
			return fmt.Errorf("replace traits: %w", err)
		}
		updated, err = s.characters.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.NewCharacterView(updated, a.IsGameMasterOf(campaign)), nil
}

func (s *service) AttachSkills(ctx context.Context, a actor.Actor, id uuid.UUID, skillIDs []uuid.UUID) (dto.CharacterView, error) {
	ch, campaign, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.IsGameMasterOf(campaign) {
		return nil, apperror.Permission(apperror.ReasonNotGameMaster, "only the game master can grant skills")
	}

	ids := unique(skillIDs)
	skills, err := s.catalog.FindSkillsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(skills) != len(ids) {
		return nil, apperror.NotFound(apperror.ReasonSkillNotFound, "skill not found")
	}
	owned := make(map[uuid.UUID]bool, len(ch.Skills))
	for _, sk := range ch.Skills {
		owned[sk.ID] = true
	}
	fresh := make([]entity.Skill, 0, len(skills))
	for _, sk := range skills {
		if !sk.UsableIn(campaign.ID) {
			return nil, apperror.Validation(apperror.ReasonInvalidSkillForCampaign,
				fmt.Sprintf("skill %q does not belong to this campaign", sk.Name))
		}
		if !owned[sk.ID] {
			fresh = append(fresh, sk)
		}
	}

	var updated *entity.Character
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		locked, err := s.characters.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if len(fresh) > 0 {
			if err := s.characters.AppendSkills(ctx, locked, fresh); err != nil {
				return fmt.Errorf("attach skills: %w", err)
			}
		}
		updated, err = s.characters.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.NewMasterCharacter(updated), nil
}

func (s *service) Delete(ctx context.Context, a actor.Actor, id uuid.UUID) error {
	ch, campaign, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !a.CanActFor(ch, campaign) {
		return apperror.Permission(apperror.ReasonNotOwner, "only the owner or the game master can delete a character")
	}
	return s.characters.Delete(ctx, id)
}
