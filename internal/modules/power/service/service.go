package power

import (
	"context"
	"fmt"

	"anoa.com/fatetable/internal/actor"
	"anoa.com/fatetable/internal/entity"
	campaignRepo "anoa.com/fatetable/internal/modules/campaign/repository"
	characterRepo "anoa.com/fatetable/internal/modules/character/repository"
	ideaRepo "anoa.com/fatetable/internal/modules/idea/repository"
	notification "anoa.com/fatetable/internal/modules/notification/service"
	"anoa.com/fatetable/internal/modules/power/dto"
	powerRepo "anoa.com/fatetable/internal/modules/power/repository"
	"anoa.com/fatetable/pkg/apperror"
	"anoa.com/fatetable/pkg/database"
	"github.com/google/uuid"
)

type Service interface {
	UpdateStats(ctx context.Context, a actor.Actor, characterID uuid.UUID, patch dto.UpdateStatsRequest) (*entity.Character, error)
	SetRelease(ctx context.Context, a actor.Actor, characterID uuid.UUID, patch dto.SetReleaseRequest) (*entity.Character, error)
	AddFatePoints(ctx context.Context, a actor.Actor, characterID uuid.UUID, amount int) (*entity.Character, error)
	// Usage counts owned powers and pending ideas of type t against capacity.
	Usage(ctx context.Context, ch *entity.Character, t entity.PowerType) (SlotUsage, error)
	Owned(ctx context.Context, a actor.Actor, characterID uuid.UUID) (*powerRepo.Owned, error)
}

type service struct {
	tx         database.Transactor
	characters characterRepo.CharacterRepository
	campaigns  campaignRepo.CampaignRepository
	powers     powerRepo.PowerRepository
	ideas      ideaRepo.IdeaRepository
	dispatcher notification.Dispatcher
}

func NewService(
	tx database.Transactor,
	characters characterRepo.CharacterRepository,
	campaigns campaignRepo.CampaignRepository,
	powers powerRepo.PowerRepository,
	ideas ideaRepo.IdeaRepository,
	dispatcher notification.Dispatcher,
) Service {
	return &service{
		tx:         tx,
		characters: characters,
		campaigns:  campaigns,
		powers:     powers,
		ideas:      ideas,
		dispatcher: dispatcher,
	}
}

func (s *service) load(ctx context.Context, characterID uuid.UUID) (*entity.Character, *entity.Campaign, error) {
	ch, err := s.characters.FindByID(ctx, characterID)
	if err != nil {
		return nil, nil, err
	}
	campaign, err := s.campaigns.FindByID(ctx, ch.CampaignID)
	if err != nil {
		return nil, nil, err
	}
	return ch, campaign, nil
}

func (s *service) UpdateStats(ctx context.Context, a actor.Actor, characterID uuid.UUID, patch dto.UpdateStatsRequest) (*entity.Character, error) {
	_, campaign, err := s.load(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if !a.IsGameMasterOf(campaign) {
		return nil, apperror.Permission(apperror.ReasonNotGameMaster, "only the game master can change stats")
	}

	var (
		updated *entity.Character
		rows    []entity.Notification
	)
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		ch, err := s.characters.FindByIDForUpdate(ctx, characterID)
		if err != nil {
			return err
		}

		flags, transitions, err := ApplyStatsPatch(campaign.CampaignType, FlagsOf(ch), patch)
		if err != nil {
			return err
		}
		if err := ApplySheetPatch(ch, patch); err != nil {
			return err
		}
		flags.ApplyTo(ch)

		if err := s.characters.Save(ctx, ch); err != nil {
			return fmt.Errorf("save character: %w", err)
		}

		notices := make([]notification.Notice, 0, len(transitions))
		for _, t := range transitions {
			notices = append(notices, notification.Notice{
				CampaignID:  campaign.ID,
				RecipientID: ch.OwnerID,
				Type:        t.Type,
				Title:       t.Title,
				Message:     fmt.Sprintf("%s: %s", ch.Name, t.Title),
				CharacterID: notification.Ref(ch.ID),
			})
		}
		rows, err = s.dispatcher.Dispatch(ctx, notices)
		if err != nil {
			return err
		}
		updated = ch
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Broadcast(ctx, rows)
	return updated, nil
}

func (s *service) SetRelease(ctx context.Context, a actor.Actor, characterID uuid.UUID, patch dto.SetReleaseRequest) (*entity.Character, error) {
	ch, campaign, err := s.load(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if !a.CanActFor(ch, campaign) {
		return nil, apperror.Permission(apperror.ReasonNotOwner, "only the owner or the game master can release")
	}
	if campaign.CampaignType != entity.CampaignBleach {
		return nil, apperror.Validation(apperror.ReasonWrongCampaignType, "releases only exist in bleach campaigns")
	}

	var updated *entity.Character
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		ch, err := s.characters.FindByIDForUpdate(ctx, characterID)
		if err != nil {
			return err
		}
		flags, err := ApplyRelease(FlagsOf(ch), patch)
		if err != nil {
			return err
		}
		flags.ApplyTo(ch)
		if err := s.characters.Save(ctx, ch); err != nil {
			return fmt.Errorf("save character: %w", err)
		}
		updated = ch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) AddFatePoints(ctx context.Context, a actor.Actor, characterID uuid.UUID, amount int) (*entity.Character, error) {
	if amount < 1 {
		return nil, apperror.Validation(apperror.ReasonInvalidValue, "amount must be at least 1")
	}
	_, campaign, err := s.load(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if !a.IsGameMasterOf(campaign) {
		return nil, apperror.Permission(apperror.ReasonNotGameMaster, "only the game master can grant fate points")
	}

	var (
		updated *entity.Character
		rows    []entity.Notification
	)
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		ch, err := s.characters.FindByIDForUpdate(ctx, characterID)
		if err != nil {
			return err
		}
		ch.FatePoints += amount
		if err := s.characters.Save(ctx, ch); err != nil {
			return fmt.Errorf("save character: %w", err)
		}
		rows, err = s.dispatcher.Dispatch(ctx, []notification.Notice{{
			CampaignID:  campaign.ID,
			RecipientID: ch.OwnerID,
			Type:        entity.NotifyFatePoint,
			Title:       "Fate points received",
			Message:     fmt.Sprintf("%s received %d fate point(s), now %d", ch.Name, amount, ch.FatePoints),
			CharacterID: notification.Ref(ch.ID),
		}})
		if err != nil {
			return err
		}
		updated = ch
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Broadcast(ctx, rows)
	return updated, nil
}

func (s *service) Usage(ctx context.Context, ch *entity.Character, t entity.PowerType) (SlotUsage, error) {
	existing, err := s.powers.CountOwned(ctx, ch.ID, t)
	if err != nil {
		return SlotUsage{}, err
	}
	pending, err := s.ideas.CountPendingPower(ctx, ch.ID, t)
	if err != nil {
		return SlotUsage{}, err
	}
	return SlotUsage{
		Type:     t,
		Existing: int(existing),
		Pending:  int(pending),
		Capacity: Capacity(ch, t),
	}, nil
}

func (s *service) Owned(ctx context.Context, a actor.Actor, characterID uuid.UUID) (*powerRepo.Owned, error) {
	ch, campaign, err := s.load(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if !a.CanActFor(ch, campaign) {
		return nil, apperror.Permission(apperror.ReasonNotOwner, "only the owner or the game master can see powers")
	}
	return s.powers.ListOwned(ctx, characterID)
}
