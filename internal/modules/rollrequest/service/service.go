package rollrequest

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/fatetable/internal/actor"
	"anoa.com/fatetable/internal/entity"
	campaignRepo "anoa.com/fatetable/internal/modules/campaign/repository"
	catalogRepo "anoa.com/fatetable/internal/modules/catalog/repository"
	characterRepo "anoa.com/fatetable/internal/modules/character/repository"
	notification "anoa.com/fatetable/internal/modules/notification/service"
	rollDto "anoa.com/fatetable/internal/modules/roll/dto"
	roll "anoa.com/fatetable/internal/modules/roll/service"
	"anoa.com/fatetable/internal/modules/rollrequest/dto"
	requestRepo "anoa.com/fatetable/internal/modules/rollrequest/repository"
	"anoa.com/fatetable/pkg/apperror"
	"anoa.com/fatetable/pkg/clock"
	"anoa.com/fatetable/pkg/database"
	"github.com/google/uuid"
)

type RequestInput struct {
	CharacterID uuid.UUID
	SkillID     *uuid.UUID
	Description string
}

type CompleteInput struct {
	RequestID    uuid.UUID
	UseFatePoint bool
}

type Service interface {
	Request(ctx context.Context, a actor.Actor, campaignID uuid.UUID, in RequestInput) (*entity.RollRequest, error)
	// Complete fulfils an open request with a roll. A request is fulfilled
	// at most once; later attempts fail with AlreadyFulfilled.
	Complete(ctx context.Context, a actor.Actor, campaignID uuid.UUID, in CompleteInput) (*dto.CompleteResponse, error)
	ListOpen(ctx context.Context, a actor.Actor, campaignID uuid.UUID) ([]entity.RollRequest, error)
}

type service struct {
	tx         database.Transactor
	requests   requestRepo.RollRequestRepository
	characters characterRepo.CharacterRepository
	campaigns  campaignRepo.CampaignRepository
	catalog    catalogRepo.CatalogRepository
	rolls      roll.Service
	dispatcher notification.Dispatcher
	clock      clock.Clock
}

func NewService(
	tx database.Transactor,
	requests requestRepo.RollRequestRepository,
	characters characterRepo.CharacterRepository,
	campaigns campaignRepo.CampaignRepository,
	catalog catalogRepo.CatalogRepository,
	rolls roll.Service,
	dispatcher notification.Dispatcher,
	clk clock.Clock,
) Service {
	return &service{
		tx:         tx,
		requests:   requests,
		characters: characters,
		campaigns:  campaigns,
		catalog:    catalog,
		rolls:      rolls,
		dispatcher: dispatcher,
		clock:      clk,
	}
}

var errAlreadyFulfilled = apperror.Validation(apperror.ReasonAlreadyFulfilled, "roll request already fulfilled")

func (s *service) Request(ctx context.Context, a actor.Actor, campaignID uuid.UUID, in RequestInput) (*entity.RollRequest, error) {
	campaign, err := s.campaigns.FindByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if !a.IsGameMasterOf(campaign) {
		return nil, apperror.Permission(apperror.ReasonNotGameMaster, "only the game master can request rolls")
	}

	ch, err := s.characters.FindByID(ctx, in.CharacterID)
	if err != nil {
		return nil, err
	}
	if ch.CampaignID != campaign.ID || ch.IsNPC {
		return nil, apperror.NotFound(apperror.ReasonCharacterNotFound, "character not found in this campaign")
	}

	banned, err := s.campaigns.IsBanned(ctx, campaign.ID, ch.OwnerID)
	if err != nil {
		return nil, err
	}
	if banned {
		return nil, apperror.Permission(apperror.ReasonBanned, "the character's player is banned from this campaign")
	}

	if in.SkillID != nil {
		skill, err := s.catalog.FindSkillByID(ctx, *in.SkillID)
		if errors.Is(err, apperror.ErrNotFound) || (err == nil && !skill.UsableIn(campaign.ID)) {
			return nil, apperror.Validation(apperror.ReasonInvalidSkillForCampaign, "skill is not available in this campaign")
		}
		if err != nil {
			return nil, err
		}
	}

	req := &entity.RollRequest{
		CampaignID:    campaign.ID,
		CharacterID:   ch.ID,
		RequestedByID: a.UserID,
		SkillID:       in.SkillID,
		Description:   in.Description,
		IsOpen:        true,
	}

	var rows []entity.Notification
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.requests.Create(ctx, req); err != nil {
			return fmt.Errorf("create roll request: %w", err)
		}
		var err error
		rows, err = s.dispatcher.Dispatch(ctx, []notification.Notice{{
			CampaignID:  campaign.ID,
			RecipientID: ch.OwnerID,
			Type:        entity.NotifyRollRequested,
			Title:       "Roll requested",
			Message:     fmt.Sprintf("The game master asks %s to roll: %s", ch.Name, req.Description),
			CharacterID: notification.Ref(ch.ID),
			RequestID:   notification.Ref(req.ID),
		}})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Broadcast(ctx, rows)
	return req, nil
}

func (s *service) Complete(ctx context.Context, a actor.Actor, campaignID uuid.UUID, in CompleteInput) (*dto.CompleteResponse, error) {
	campaign, err := s.campaigns.FindByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	req, err := s.requests.FindByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if req.CampaignID != campaign.ID {
		return nil, apperror.NotFound(apperror.ReasonRequestNotFound, "roll request not found")
	}
	ch, err := s.characters.FindByID(ctx, req.CharacterID)
	if err != nil {
		return nil, err
	}
	if ch.OwnerID != a.UserID {
		return nil, apperror.Permission(apperror.ReasonNotOwner, "only the character's owner can complete this roll")
	}

	var (
		res  *roll.Resolution
		done *entity.RollRequest
		rows []entity.Notification
	)
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		locked, err := s.requests.FindByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		if !locked.IsOpen {
			return errAlreadyFulfilled
		}

		res, err = s.rolls.Resolve(ctx, a, roll.ResolveInput{
			Input: roll.Input{
				CharacterID:  locked.CharacterID,
				SkillID:      locked.SkillID,
				Description:  locked.Description,
				UseFatePoint: in.UseFatePoint,
			},
			Campaign:  campaign,
			RequestID: notification.Ref(locked.ID),
		})
		if err != nil {
			return err
		}

		ok, err := s.requests.MarkFulfilled(ctx, locked.ID, res.Roll.ID, a.UserID, s.clock.Now())
		if err != nil {
			return fmt.Errorf("fulfil roll request: %w", err)
		}
		if !ok {
			return errAlreadyFulfilled
		}

		rows, err = s.dispatcher.Dispatch(ctx, res.Notices)
		if err != nil {
			return err
		}

		done, err = s.requests.FindByID(ctx, locked.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Broadcast(ctx, rows)
	return &dto.CompleteResponse{
		Request: dto.NewRollRequestResponse(done),
		Roll:    rollDto.NewRollView(res.Roll, a.IsGameMasterOf(campaign)),
	}, nil
}

func (s *service) ListOpen(ctx context.Context, a actor.Actor, campaignID uuid.UUID) ([]entity.RollRequest, error) {
	if _, err := s.campaigns.FindByID(ctx, campaignID); err != nil {
		return nil, err
	}
	return s.requests.ListOpenForOwner(ctx, campaignID, a.UserID)
}
