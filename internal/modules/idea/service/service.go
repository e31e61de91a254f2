package idea

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"anoa.com/fatetable/internal/actor"
	"anoa.com/fatetable/internal/entity"
	campaignRepo "anoa.com/fatetable/internal/modules/campaign/repository"
	catalogRepo "anoa.com/fatetable/internal/modules/catalog/repository"
	characterRepo "anoa.com/fatetable/internal/modules/character/repository"
	ideaRepo "anoa.com/fatetable/internal/modules/idea/repository"
	notification "anoa.com/fatetable/internal/modules/notification/service"
	powerRepo "anoa.com/fatetable/internal/modules/power/repository"
	power "anoa.com/fatetable/internal/modules/power/service"
	"anoa.com/fatetable/pkg/apperror"
	"anoa.com/fatetable/pkg/clock"
	"anoa.com/fatetable/pkg/database"
	"anoa.com/fatetable/pkg/ratelimit"
	"github.com/google/uuid"
)

const (
	actionPowerIdea = "power_idea"
	actionSkillIdea = "skill_idea"

	stockRejection = "The game master decided not to add this to the campaign."
)

type PowerInput struct {
	CampaignID  uuid.UUID
	CharacterID uuid.UUID
	Type        entity.PowerType
	Name        string
	Description string
	// Payload may be nil; it then defaults to the empty payload of Type.
	Payload Payload
}

type SkillInput struct {
	CampaignID  uuid.UUID
	CharacterID uuid.UUID
	Name        string
	Description string
	UseStatus   string
}

type Service interface {
	SubmitPower(ctx context.Context, a actor.Actor, in PowerInput) (*entity.PowerIdea, error)
	ApprovePower(ctx context.Context, a actor.Actor, ideaID uuid.UUID, in ApprovePowerInput) (*entity.PowerIdea, error)
	RejectPower(ctx context.Context, a actor.Actor, ideaID uuid.UUID, reason string) (*entity.PowerIdea, error)
	ListPower(ctx context.Context, a actor.Actor, campaignID uuid.UUID, status *entity.IdeaStatus) ([]entity.PowerIdea, error)

	SubmitSkill(ctx context.Context, a actor.Actor, in SkillInput) (*entity.SkillIdea, error)
	ApproveSkill(ctx context.Context, a actor.Actor, ideaID uuid.UUID, mastery *int, message string) (*entity.SkillIdea, error)
	RejectSkill(ctx context.Context, a actor.Actor, ideaID uuid.UUID, reason string) (*entity.SkillIdea, error)
	ListSkill(ctx context.Context, a actor.Actor, campaignID uuid.UUID, status *entity.IdeaStatus) ([]entity.SkillIdea, error)
}

type service struct {
	tx         database.Transactor
	ideas      ideaRepo.IdeaRepository
	characters characterRepo.CharacterRepository
	campaigns  campaignRepo.CampaignRepository
	catalog    catalogRepo.CatalogRepository
	powers     powerRepo.PowerRepository
	slots      power.Service
	limiter    ratelimit.Limiter
	dispatcher notification.Dispatcher
	clock      clock.Clock
}

func NewService(
	tx database.Transactor,
	ideas ideaRepo.IdeaRepository,
	characters characterRepo.CharacterRepository,
	campaigns campaignRepo.CampaignRepository,
	catalog catalogRepo.CatalogRepository,
	powers powerRepo.PowerRepository,
	slots power.Service,
	limiter ratelimit.Limiter,
	dispatcher notification.Dispatcher,
	clk clock.Clock,
) Service {
	return &service{
		tx:         tx,
		ideas:      ideas,
		characters: characters,
		campaigns:  campaigns,
		catalog:    catalog,
		powers:     powers,
		slots:      slots,
		limiter:    limiter,
		dispatcher: dispatcher,
		clock:      clk,
	}
}

// submitter loads the character a player is submitting an idea for.
func (s *service) submitter(ctx context.Context, a actor.Actor, campaignID, characterID uuid.UUID) (*entity.Character, *entity.Campaign, error) {
	ch, err := s.characters.FindByID(ctx, characterID)
	if err != nil {
		return nil, nil, err
	}
	if ch.CampaignID != campaignID {
		return nil, nil, apperror.NotFound(apperror.ReasonCharacterNotFound, "character not found in this campaign")
	}
	campaign, err := s.campaigns.FindByID(ctx, campaignID)
	if err != nil {
		return nil, nil, err
	}
	if ch.OwnerID != a.UserID {
		return nil, nil, apperror.Permission(apperror.ReasonNotOwner, "you can only submit ideas for your own characters")
	}
	banned, err := s.campaigns.IsBanned(ctx, campaign.ID, a.UserID)
	if err != nil {
		return nil, nil, err
	}
	if banned {
		return nil, nil, apperror.Permission(apperror.ReasonBanned, "you are banned from this campaign")
	}
	return ch, campaign, nil
}

func (s *service) allow(ctx context.Context, a actor.Actor, action string) error {
	ok, err := s.limiter.Allow(ctx, a.UserID, action)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.ErrRateLimitExceeded
	}
	return nil
}

// release frees the rate limit slot of a submission that did not persist.
func (s *service) release(ctx context.Context, a actor.Actor, action string) {
	if err := s.limiter.Clear(ctx, a.UserID, action); err != nil {
		slog.Warn("failed to clear rate limit", "user_id", a.UserID, "action", action, "error", err)
	}
}

func (s *service) SubmitPower(ctx context.Context, a actor.Actor, in PowerInput) (*entity.PowerIdea, error) {
	if !in.Type.Valid() {
		return nil, apperror.Validation(apperror.ReasonInvalidValue, fmt.Sprintf("unknown power type %q", in.Type))
	}
	payload := in.Payload
	if payload == nil {
		payload, _ = EmptyPayload(in.Type)
	}
	if payload.PowerType() != in.Type {
		return nil, apperror.Validation(apperror.ReasonInvalidValue, "payload does not match idea_type")
	}

	ch, campaign, err := s.submitter(ctx, a, in.CampaignID, in.CharacterID)
	if err != nil {
		return nil, err
	}
	if campaign.CampaignType != in.Type.CampaignType() {
		return nil, apperror.Validation(apperror.ReasonWrongCampaignType,
			fmt.Sprintf("%s ideas belong in %s campaigns", in.Type, in.Type.CampaignType()))
	}
	if !power.Unlocked(ch, in.Type) {
		return nil, apperror.Validation(apperror.ReasonPowerLocked, fmt.Sprintf("%s is not unlocked for this character", in.Type))
	}

	usage, err := s.slots.Usage(ctx, ch, in.Type)
	if err != nil {
		return nil, err
	}
	if err := usage.CheckSubmit(); err != nil {
		return nil, err
	}

	raw, err := EncodePayload(payload)
	if err != nil {
		return nil, err
	}

	if err := s.allow(ctx, a, actionPowerIdea); err != nil {
		return nil, err
	}

	idea := &entity.PowerIdea{
		CampaignID:    campaign.ID,
		CharacterID:   ch.ID,
		SubmittedByID: a.UserID,
		IdeaType:      in.Type,
		Name:          in.Name,
		Description:   in.Description,
		Payload:       raw,
		Status:        entity.IdeaPending,
	}

	var rows []entity.Notification
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.ideas.CreatePowerIdea(ctx, idea); err != nil {
			return fmt.Errorf("create power idea: %w", err)
		}
		var err error
		rows, err = s.dispatcher.Dispatch(ctx, []notification.Notice{{
			CampaignID:  campaign.ID,
			RecipientID: campaign.OwnerID,
			Type:        entity.NotifyIdeaSubmitted,
			Title:       fmt.Sprintf("New %s idea", in.Type),
			Message:     fmt.Sprintf("%s proposed %q for %s", a.Username, idea.Name, ch.Name),
			CharacterID: notification.Ref(ch.ID),
			IdeaID:      notification.Ref(idea.ID),
		}})
		return err
	})
	if err != nil {
		s.release(ctx, a, actionPowerIdea)
		return nil, err
	}

	s.dispatcher.Broadcast(ctx, rows)
	return idea, nil
}

// reviewPower loads a pending power idea for its campaign's game master.
// ctx must carry the transaction the review runs in.
func (s *service) reviewPower(ctx context.Context, a actor.Actor, ideaID uuid.UUID) (*entity.PowerIdea, *entity.Character, error) {
	idea, err := s.ideas.FindPowerIdeaForUpdate(ctx, ideaID)
	if err != nil {
		return nil, nil, err
	}
	campaign, err := s.campaigns.FindByID(ctx, idea.CampaignID)
	if err != nil {
		return nil, nil, err
	}
	if !a.IsGameMasterOf(campaign) {
		return nil, nil, apperror.Permission(apperror.ReasonNotGameMaster, "only the game master can review ideas")
	}
	if idea.Status != entity.IdeaPending {
		return nil, nil, apperror.Validation(apperror.ReasonAlreadyReviewed, fmt.Sprintf("idea already %s", idea.Status))
	}
	ch, err := s.characters.FindByIDForUpdate(ctx, idea.CharacterID)
	if err != nil {
		return nil, nil, err
	}
	return idea, ch, nil
}

func (s *service) ApprovePower(ctx context.Context, a actor.Actor, ideaID uuid.UUID, in ApprovePowerInput) (*entity.PowerIdea, error) {
	var (
		idea *entity.PowerIdea
		rows []entity.Notification
	)
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var (
			ch  *entity.Character
			err error
		)
		idea, ch, err = s.reviewPower(ctx, a, ideaID)
		if err != nil {
			return err
		}

		usage, err := s.slots.Usage(ctx, ch, idea.IdeaType)
		if err != nil {
			return err
		}
		if err := usage.CheckApprove(); err != nil {
			return err
		}

		payload, err := DecodePayload(idea.IdeaType, idea.Payload)
		if err != nil {
			return err
		}
		if err := s.materialize(ctx, idea, payload, in); err != nil {
			return err
		}

		msg := orDefault(in.ResponseMessage, fmt.Sprintf("Your %s %q was approved and added to %s.", idea.IdeaType, idea.Name, ch.Name))
		s.verdict(a, entity.IdeaApproved, msg).applyPower(idea)
		if err := s.ideas.SavePowerIdea(ctx, idea); err != nil {
			return fmt.Errorf("save power idea: %w", err)
		}

		rows, err = s.dispatcher.Dispatch(ctx, []notification.Notice{{
			CampaignID:  idea.CampaignID,
			RecipientID: ch.OwnerID,
			Type:        entity.NotifyIdeaApproved,
			Title:       "Idea approved",
			Message:     msg,
			CharacterID: notification.Ref(ch.ID),
			IdeaID:      notification.Ref(idea.ID),
		}})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Broadcast(ctx, rows)
	return idea, nil
}

// verdict is the review outcome stamped onto an idea.
type verdict struct {
	status  entity.IdeaStatus
	message string
	by      uuid.UUID
	at      time.Time
}

func (s *service) verdict(a actor.Actor, status entity.IdeaStatus, message string) verdict {
	return verdict{status: status, message: message, by: a.UserID, at: s.clock.Now()}
}

func (v verdict) applyPower(i *entity.PowerIdea) {
	i.Status = v.status
	i.ResponseMessage = v.message
	i.ReviewedByID = &v.by
	i.ReviewedAt = &v.at
}

func (v verdict) applySkill(i *entity.SkillIdea) {
	i.Status = v.status
	i.ResponseMessage = v.message
	i.ReviewedByID = &v.by
	i.ReviewedAt = &v.at
}

func rejection(kind, name, reason string) string {
	return fmt.Sprintf("Your %s %q was rejected: %s", kind, name, orDefault(reason, stockRejection))
}

func (s *service) RejectPower(ctx context.Context, a actor.Actor, ideaID uuid.UUID, reason string) (*entity.PowerIdea, error) {
	var (
		idea *entity.PowerIdea
		rows []entity.Notification
	)
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var (
			ch  *entity.Character
			err error
		)
		idea, ch, err = s.reviewPower(ctx, a, ideaID)
		if err != nil {
			return err
		}

		msg := rejection(string(idea.IdeaType), idea.Name, reason)
		s.verdict(a, entity.IdeaRejected, msg).applyPower(idea)
		if err := s.ideas.SavePowerIdea(ctx, idea); err != nil {
			return fmt.Errorf("save power idea: %w", err)
		}

		rows, err = s.dispatcher.Dispatch(ctx, []notification.Notice{{
			CampaignID:  idea.CampaignID,
			RecipientID: ch.OwnerID,
			Type:        entity.NotifyIdeaRejected,
			Title:       "Idea rejected",
			Message:     msg,
			CharacterID: notification.Ref(ch.ID),
			IdeaID:      notification.Ref(idea.ID),
		}})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Broadcast(ctx, rows)
	return idea, nil
}

func (s *service) filter(ctx context.Context, a actor.Actor, campaignID uuid.UUID, status *entity.IdeaStatus) (ideaRepo.ListFilter, error) {
	campaign, err := s.campaigns.FindByID(ctx, campaignID)
	if err != nil {
		return ideaRepo.ListFilter{}, err
	}
	f := ideaRepo.ListFilter{CampaignID: campaign.ID, Status: status}
	if !a.IsGameMasterOf(campaign) {
		f.SubmittedByID = &a.UserID
	}
	return f, nil
}

func (s *service) ListPower(ctx context.Context, a actor.Actor, campaignID uuid.UUID, status *entity.IdeaStatus) ([]entity.PowerIdea, error) {
	f, err := s.filter(ctx, a, campaignID, status)
	if err != nil {
		return nil, err
	}
	return s.ideas.ListPowerIdeas(ctx, f)
}

func (s *service) ListSkill(ctx context.Context, a actor.Actor, campaignID uuid.UUID, status *entity.IdeaStatus) ([]entity.SkillIdea, error) {
	f, err := s.filter(ctx, a, campaignID, status)
	if err != nil {
		return nil, err
	}
	return s.ideas.ListSkillIdeas(ctx, f)
}
