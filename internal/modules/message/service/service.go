package message

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"anoa.com/fatetable/internal/actor"
	"anoa.com/fatetable/internal/entity"
	campaignRepo "anoa.com/fatetable/internal/modules/campaign/repository"
	messageRepo "anoa.com/fatetable/internal/modules/message/repository"
	notification "anoa.com/fatetable/internal/modules/notification/service"
	userRepo "anoa.com/fatetable/internal/modules/user/repository"
	"anoa.com/fatetable/pkg/apperror"
	"anoa.com/fatetable/pkg/database"
	"github.com/google/uuid"
)

const previewRunes = 80

type SendInput struct {
	CampaignID  uuid.UUID
	RecipientID uuid.UUID
	Content     string
}

type Service interface {
	// Send delivers a private message. Players write only to the game
	// master; the game master writes to any player of the campaign.
	Send(ctx context.Context, a actor.Actor, in SendInput) (*entity.Message, error)
	// List returns the actor's conversations in the campaign, oldest first.
	List(ctx context.Context, a actor.Actor, campaignID uuid.UUID, with *uuid.UUID, since *time.Time) ([]entity.Message, error)
}

type service struct {
	tx         database.Transactor
	messages   messageRepo.MessageRepository
	campaigns  campaignRepo.CampaignRepository
	users      userRepo.UserRepository
	dispatcher notification.Dispatcher
}

func NewService(
	tx database.Transactor,
	messages messageRepo.MessageRepository,
	campaigns campaignRepo.CampaignRepository,
	users userRepo.UserRepository,
	dispatcher notification.Dispatcher,
) Service {
	return &service{
		tx:         tx,
		messages:   messages,
		campaigns:  campaigns,
		users:      users,
		dispatcher: dispatcher,
	}
}

func (s *service) ensureNotBanned(ctx context.Context, a actor.Actor, c *entity.Campaign) error {
	if a.IsGameMasterOf(c) {
		return nil
	}
	banned, err := s.campaigns.IsBanned(ctx, c.ID, a.UserID)
	if err != nil {
		return err
	}
	if banned {
		return apperror.Permission(apperror.ReasonBanned, "you are banned from this campaign")
	}
	return nil
}

func (s *service) isParticipant(ctx context.Context, c *entity.Campaign, userID uuid.UUID) (bool, error) {
	ids, err := s.campaigns.ParticipantIDs(ctx, c.ID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *service) Send(ctx context.Context, a actor.Actor, in SendInput) (*entity.Message, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, apperror.Validation(apperror.ReasonInvalidValue, "message is empty")
	}
	if in.RecipientID == a.UserID {
		return nil, apperror.Validation(apperror.ReasonInvalidValue, "cannot message yourself")
	}

	c, err := s.campaigns.FindByID(ctx, in.CampaignID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNotBanned(ctx, a, c); err != nil {
		return nil, err
	}

	if a.IsGameMasterOf(c) {
		if in.RecipientID != c.OwnerID {
			ok, err := s.isParticipant(ctx, c, in.RecipientID)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, apperror.Validation(apperror.ReasonNotParticipant, "the recipient has no character in this campaign")
			}
		}
	} else {
		ok, err := s.isParticipant(ctx, c, a.UserID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperror.Permission(apperror.ReasonNotParticipant, "only players of this campaign can send messages")
		}
		if in.RecipientID != c.OwnerID {
			return nil, apperror.Validation(apperror.ReasonInvalidValue, "players can only message the game master")
		}
	}

	recipient, err := s.users.FindByID(ctx, in.RecipientID)
	if err != nil {
		return nil, err
	}

	m := &entity.Message{
		CampaignID:  c.ID,
		SenderID:    a.UserID,
		RecipientID: recipient.ID,
		Content:     in.Content,
	}

	var rows []entity.Notification
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.messages.Create(ctx, m); err != nil {
			return fmt.Errorf("store message: %w", err)
		}
		var err error
		rows, err = s.dispatcher.Dispatch(ctx, []notification.Notice{{
			CampaignID:  c.ID,
			RecipientID: recipient.ID,
			Type:        entity.NotifyMessage,
			Title:       "New message from " + a.Username,
			Message:     preview(in.Content),
		}})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Broadcast(ctx, rows)
	m.Sender = &entity.User{ID: a.UserID, Username: a.Username}
	m.Recipient = recipient
	return m, nil
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewRunes {
		return content
	}
	return string([]rune(content)[:previewRunes]) + "…"
}

func (s *service) List(ctx context.Context, a actor.Actor, campaignID uuid.UUID, with *uuid.UUID, since *time.Time) ([]entity.Message, error) {
	c, err := s.campaigns.FindByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNotBanned(ctx, a, c); err != nil {
		return nil, err
	}

	messages, err := s.messages.List(ctx, messageRepo.ListFilter{
		CampaignID: c.ID,
		UserID:     a.UserID,
		WithUserID: with,
		Since:      since,
	})
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []entity.Message{}
	}
	return messages, nil
}
