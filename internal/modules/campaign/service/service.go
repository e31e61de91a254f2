package campaign

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"anoa.com/fatetable/internal/actor"
	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/internal/modules/campaign/dto"
	campaignRepo "anoa.com/fatetable/internal/modules/campaign/repository"
	messageDto "anoa.com/fatetable/internal/modules/message/dto"
	message "anoa.com/fatetable/internal/modules/message/service"
	notification "anoa.com/fatetable/internal/modules/notification/service"
	roll "anoa.com/fatetable/internal/modules/roll/service"
	requestDto "anoa.com/fatetable/internal/modules/rollrequest/dto"
	rollrequest "anoa.com/fatetable/internal/modules/rollrequest/service"
	userRepo "anoa.com/fatetable/internal/modules/user/repository"
	"anoa.com/fatetable/pkg/apperror"
	"anoa.com/fatetable/pkg/clock"
	"anoa.com/fatetable/pkg/database"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CreateInput struct {
	Name         string
	Description  string
	CampaignType entity.CampaignType
}

type Service interface {
	Create(ctx context.Context, a actor.Actor, in CreateInput) (*entity.Campaign, error)
	Get(ctx context.Context, a actor.Actor, id uuid.UUID) (*entity.Campaign, error)
	ListMine(ctx context.Context, a actor.Actor) ([]entity.Campaign, error)
	Ban(ctx context.Context, a actor.Actor, campaignID, userID uuid.UUID, reason string) (*entity.CampaignBan, error)
	// Poll returns everything that changed for the caller since the given
	// instant. A nil since looks back over the default window.
	Poll(ctx context.Context, a actor.Actor, campaignID uuid.UUID, since *time.Time) (*dto.PollResponse, error)
	UpdateMap(ctx context.Context, a actor.Actor, campaignID uuid.UUID, data json.RawMessage) (*entity.Campaign, error)
}

type Config struct {
	PollWindow time.Duration
}

type service struct {
	tx            database.Transactor
	campaigns     campaignRepo.CampaignRepository
	users         userRepo.UserRepository
	notifications notification.NotificationService
	rolls         roll.Service
	requests      rollrequest.Service
	messages      message.Service
	dispatcher    notification.Dispatcher
	clock         clock.Clock
	cfg           Config
}

func NewService(
	tx database.Transactor,
	campaigns campaignRepo.CampaignRepository,
	users userRepo.UserRepository,
	notifications notification.NotificationService,
	rolls roll.Service,
	requests rollrequest.Service,
	messages message.Service,
	dispatcher notification.Dispatcher,
	clk clock.Clock,
	cfg Config,
) Service {
	return &service{
		tx:            tx,
		campaigns:     campaigns,
		users:         users,
		notifications: notifications,
		rolls:         rolls,
		requests:      requests,
		messages:      messages,
		dispatcher:    dispatcher,
		clock:         clk,
		cfg:           cfg,
	}
}

func (s *service) Create(ctx context.Context, a actor.Actor, in CreateInput) (*entity.Campaign, error) {
	if !a.IsStaff {
		return nil, apperror.Permission(apperror.ReasonNotGameMaster, "only game masters can create campaigns")
	}
	if in.CampaignType == "" {
		in.CampaignType = entity.CampaignFate
	}
	if !in.CampaignType.Valid() {
		return nil, apperror.Validation(apperror.ReasonInvalidValue, fmt.Sprintf("unknown campaign type %q", in.CampaignType))
	}

	c := &entity.Campaign{
		Name:         in.Name,
		Description:  in.Description,
		CampaignType: in.CampaignType,
		OwnerID:      a.UserID,
	}
	if err := s.campaigns.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	return c, nil
}

func (s *service) Get(ctx context.Context, a actor.Actor, id uuid.UUID) (*entity.Campaign, error) {
	return s.campaigns.FindByID(ctx, id)
}

func (s *service) ListMine(ctx context.Context, a actor.Actor) ([]entity.Campaign, error) {
	if a.IsStaff {
		return s.campaigns.ListAll(ctx)
	}
	return s.campaigns.ListForUser(ctx, a.UserID)
}

func (s *service) Ban(ctx context.Context, a actor.Actor, campaignID, userID uuid.UUID, reason string) (*entity.CampaignBan, error) {
	c, err := s.campaigns.FindByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if !a.IsGameMasterOf(c) {
		return nil, apperror.Permission(apperror.ReasonNotGameMaster, "only the game master can ban players")
	}
	if userID == c.OwnerID {
		return nil, apperror.Validation(apperror.ReasonInvalidValue, "the campaign owner cannot be banned")
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	ban := &entity.CampaignBan{
		CampaignID: c.ID,
		UserID:     userID,
		Reason:     reason,
		BannedByID: a.UserID,
	}

	var rows []entity.Notification
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.campaigns.CreateBan(ctx, ban); err != nil {
			return fmt.Errorf("ban player: %w", err)
		}
		msg := fmt.Sprintf("You were banned from %s", c.Name)
		if reason != "" {
			msg += ": " + reason
		}
		var err error
		rows, err = s.dispatcher.Dispatch(ctx, []notification.Notice{{
			CampaignID:  c.ID,
			RecipientID: userID,
			Type:        entity.NotifyBanned,
			Title:       "Banned from campaign",
			Message:     msg,
		}})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Broadcast(ctx, rows)
	return ban, nil
}

func (s *service) Poll(ctx context.Context, a actor.Actor, campaignID uuid.UUID, since *time.Time) (*dto.PollResponse, error) {
	c, err := s.campaigns.FindByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	banned, err := s.campaigns.IsBanned(ctx, c.ID, a.UserID)
	if err != nil {
		return nil, err
	}
	if banned {
		return nil, apperror.Permission(apperror.ReasonBanned, "you are banned from this campaign")
	}

	now := s.clock.Now()
	from := now.Add(-s.cfg.PollWindow)
	if since != nil {
		from = *since
	}

	out := &dto.PollResponse{ServerTime: now, Since: from}
	out.Notifications, err = s.notifications.UnreadSince(ctx, a, c.ID, from)
	if err != nil {
		return nil, err
	}
	if out.Notifications == nil {
		out.Notifications = []entity.Notification{}
	}
	msgs, err := s.messages.List(ctx, a, c.ID, nil, &from)
	if err != nil {
		return nil, err
	}
	out.Messages = messageDto.NewMessageList(msgs)

	if a.IsGameMasterOf(c) {
		out.RecentRolls, err = s.rolls.List(ctx, a, c.ID, &from)
		if err != nil {
			return nil, err
		}
		return out, nil
	}

	open, err := s.requests.ListOpen(ctx, a, c.ID)
	if err != nil {
		return nil, err
	}
	out.RollRequests = requestDto.NewRollRequestList(open)
	return out, nil
}

func (s *service) UpdateMap(ctx context.Context, a actor.Actor, campaignID uuid.UUID, data json.RawMessage) (*entity.Campaign, error) {
	c, err := s.campaigns.FindByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if !a.IsGameMasterOf(c) {
		return nil, apperror.Permission(apperror.ReasonNotGameMaster, "only the game master can edit the map")
	}
	if len(data) == 0 || !json.Valid(data) {
		return nil, apperror.Validation(apperror.ReasonInvalidValue, "map must be a JSON document")
	}

	now := s.clock.Now()
	if err := s.campaigns.UpdateMap(ctx, c.ID, datatypes.JSON(data), now); err != nil {
		return nil, fmt.Errorf("update map: %w", err)
	}
	c.MapData = datatypes.JSON(data)
	c.MapUpdatedAt = &now
	return c, nil
}
