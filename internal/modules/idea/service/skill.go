package idea

import (
	"context"
	"fmt"

	"anoa.com/fatetable/internal/actor"
	"anoa.com/fatetable/internal/entity"
	notification "anoa.com/fatetable/internal/modules/notification/service"
	"anoa.com/fatetable/pkg/apperror"
	"github.com/google/uuid"
)

func (s *service) SubmitSkill(ctx context.Context, a actor.Actor, in SkillInput) (*entity.SkillIdea, error) {
	ch, campaign, err := s.submitter(ctx, a, in.CampaignID, in.CharacterID)
	if err != nil {
		return nil, err
	}
	if err := s.allow(ctx, a, actionSkillIdea); err != nil {
		return nil, err
	}

	idea := &entity.SkillIdea{
		CampaignID:    campaign.ID,
		CharacterID:   ch.ID,
		SubmittedByID: a.UserID,
		Name:          in.Name,
		Description:   in.Description,
		UseStatus:     in.UseStatus,
		Status:        entity.IdeaPending,
	}

	var rows []entity.Notification
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.ideas.CreateSkillIdea(ctx, idea); err != nil {
			return fmt.Errorf("create skill idea: %w", err)
		}
		var err error
		rows, err = s.dispatcher.Dispatch(ctx, []notification.Notice{{
			CampaignID:  campaign.ID,
			RecipientID: campaign.OwnerID,
			Type:        entity.NotifyIdeaSubmitted,
			Title:       "New skill idea",
			Message:     fmt.Sprintf("%s proposed the skill %q for %s", a.Username, idea.Name, ch.Name),
			CharacterID: notification.Ref(ch.ID),
			IdeaID:      notification.Ref(idea.ID),
		}})
		return err
	})
	if err != nil {
		s.release(ctx, a, actionSkillIdea)
		return nil, err
	}

	s.dispatcher.Broadcast(ctx, rows)
	return idea, nil
}

func (s *service) reviewSkill(ctx context.Context, a actor.Actor, ideaID uuid.UUID) (*entity.SkillIdea, *entity.Character, error) {
	idea, err := s.ideas.FindSkillIdeaForUpdate(ctx, ideaID)
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

// ApproveSkill turns the idea into a campaign skill whose bonus is the
// granted mastery and attaches it to the character.
func (s *service) ApproveSkill(ctx context.Context, a actor.Actor, ideaID uuid.UUID, mastery *int, message string) (*entity.SkillIdea, error) {
	if mastery == nil {
		return nil, apperror.Validation(apperror.ReasonMissingApprovalField, "mastery is required")
	}
	if *mastery < 0 {
		return nil, apperror.Validation(apperror.ReasonInvalidValue, "mastery must not be negative")
	}

	var (
		idea *entity.SkillIdea
		rows []entity.Notification
	)
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var (
			ch  *entity.Character
			err error
		)
		idea, ch, err = s.reviewSkill(ctx, a, ideaID)
		if err != nil {
			return err
		}

		campaignID := idea.CampaignID
		skill := &entity.Skill{
			Name:        idea.Name,
			Description: idea.Description,
			UseStatus:   idea.UseStatus,
			Bonus:       *mastery,
			CampaignID:  &campaignID,
		}
		if err := s.catalog.CreateSkill(ctx, skill); err != nil {
			return fmt.Errorf("create skill: %w", err)
		}
		if err := s.characters.AppendSkills(ctx, ch, []entity.Skill{*skill}); err != nil {
			return fmt.Errorf("attach skill: %w", err)
		}

		m := *mastery
		idea.Mastery = &m
		msg := orDefault(message, fmt.Sprintf("Your skill %q was approved with mastery %d.", idea.Name, m))
		s.verdict(a, entity.IdeaApproved, msg).applySkill(idea)
		if err := s.ideas.SaveSkillIdea(ctx, idea); err != nil {
			return fmt.Errorf("save skill idea: %w", err)
		}

		rows, err = s.dispatcher.Dispatch(ctx, []notification.Notice{{
			CampaignID:  idea.CampaignID,
			RecipientID: ch.OwnerID,
			Type:        entity.NotifyIdeaApproved,
			Title:       "Skill approved",
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

func (s *service) RejectSkill(ctx context.Context, a actor.Actor, ideaID uuid.UUID, reason string) (*entity.SkillIdea, error) {
	var (
		idea *entity.SkillIdea
		rows []entity.Notification
	)
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var (
			ch  *entity.Character
			err error
		)
		idea, ch, err = s.reviewSkill(ctx, a, ideaID)
		if err != nil {
			return err
		}

		msg := rejection("skill", idea.Name, reason)
		s.verdict(a, entity.IdeaRejected, msg).applySkill(idea)
		if err := s.ideas.SaveSkillIdea(ctx, idea); err != nil {
			return fmt.Errorf("save skill idea: %w", err)
		}

		rows, err = s.dispatcher.Dispatch(ctx, []notification.Notice{{
			CampaignID:  idea.CampaignID,
			RecipientID: ch.OwnerID,
			Type:        entity.NotifyIdeaRejected,
			Title:       "Skill rejected",
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
