package roll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/fatetable/internal/actor"
	"anoa.com/fatetable/internal/entity"
	campaignRepo "anoa.com/fatetable/internal/modules/campaign/repository"
	catalogRepo "anoa.com/fatetable/internal/modules/catalog/repository"
	characterRepo "anoa.com/fatetable/internal/modules/character/repository"
	"anoa.com/fatetable/internal/modules/dice"
	notification "anoa.com/fatetable/internal/modules/notification/service"
	"anoa.com/fatetable/internal/modules/roll/dto"
	rollRepo "anoa.com/fatetable/internal/modules/roll/repository"
	"anoa.com/fatetable/pkg/apperror"
	"anoa.com/fatetable/pkg/database"
	"github.com/google/uuid"
)

const listLimit = 100

type Input struct {
	CharacterID  uuid.UUID
	SkillID      *uuid.UUID
	Description  string
	UseFatePoint bool
}

// ResolveInput describes one roll inside a caller's transaction.
type ResolveInput struct {
	Input
	Campaign *entity.Campaign
	// RequestID marks a roll made to fulfil a roll request. Such rolls are
	// shared with the rest of the table.
	RequestID *uuid.UUID
}

type Resolution struct {
	Roll      *entity.DiceRoll
	Character *entity.Character
	Breakdown Breakdown
	Notices   []notification.Notice
}

type Service interface {
	Roll(ctx context.Context, a actor.Actor, in Input) (dto.RollView, error)
	// Resolve rolls and stores the result. ctx must carry a transaction; the
	// returned notices are not yet dispatched.
	Resolve(ctx context.Context, a actor.Actor, in ResolveInput) (*Resolution, error)
	List(ctx context.Context, a actor.Actor, campaignID uuid.UUID, since *time.Time) ([]dto.RollView, error)
	MarkSeen(ctx context.Context, a actor.Actor, rollID uuid.UUID) error
}

type service struct {
	tx         database.Transactor
	characters characterRepo.CharacterRepository
	campaigns  campaignRepo.CampaignRepository
	catalog    catalogRepo.CatalogRepository
	rolls      rollRepo.RollRepository
	roller     dice.Roller
	dispatcher notification.Dispatcher
}

func NewService(
	tx database.Transactor,
	characters characterRepo.CharacterRepository,
	campaigns campaignRepo.CampaignRepository,
	catalog catalogRepo.CatalogRepository,
	rolls rollRepo.RollRepository,
	roller dice.Roller,
	dispatcher notification.Dispatcher,
) Service {
	return &service{
		tx:         tx,
		characters: characters,
		campaigns:  campaigns,
		catalog:    catalog,
		rolls:      rolls,
		roller:     roller,
		dispatcher: dispatcher,
	}
}

func (s *service) Roll(ctx context.Context, a actor.Actor, in Input) (dto.RollView, error) {
	ch, err := s.characters.FindByID(ctx, in.CharacterID)
	if err != nil {
		return nil, err
	}
	campaign, err := s.campaigns.FindByID(ctx, ch.CampaignID)
	if err != nil {
		return nil, err
	}
	if !a.CanActFor(ch, campaign) {
		return nil, apperror.Permission(apperror.ReasonNotOwner, "you can only roll for your own characters")
	}
	banned, err := s.campaigns.IsBanned(ctx, campaign.ID, a.UserID)
	if err != nil {
		return nil, err
	}
	if banned {
		return nil, apperror.Permission(apperror.ReasonBanned, "you are banned from this campaign")
	}

	var (
		res  *Resolution
		rows []entity.Notification
	)
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.Resolve(ctx, a, ResolveInput{Input: in, Campaign: campaign})
		if err != nil {
			return err
		}
		rows, err = s.dispatcher.Dispatch(ctx, res.Notices)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Broadcast(ctx, rows)
	return dto.NewRollView(res.Roll, a.IsGameMasterOf(campaign)), nil
}

func (s *service) Resolve(ctx context.Context, a actor.Actor, in ResolveInput) (*Resolution, error) {
	ch, err := s.characters.FindByIDForUpdate(ctx, in.CharacterID)
	if err != nil {
		return nil, err
	}

	var skill *entity.Skill
	if in.SkillID != nil {
		skill, err = s.catalog.FindSkillByID(ctx, *in.SkillID)
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Validation(apperror.ReasonInvalidSkillForCampaign, "skill does not exist")
		}
		if err != nil {
			return nil, err
		}
	}

	breakdown, err := ComputeHiddenBonus(ch, skill)
	if err != nil {
		return nil, err
	}

	var faces [dice.Count]int
	if in.UseFatePoint {
		if ch.FatePoints <= 0 {
			return nil, apperror.Validation(apperror.ReasonInsufficientFatePoints, "no fate points left")
		}
		ch.FatePoints--
		if err := s.characters.Save(ctx, ch); err != nil {
			return nil, fmt.Errorf("spend fate point: %w", err)
		}
		faces = dice.FatePointFaces()
	} else {
		faces, err = s.roller.Roll(ctx)
		if err != nil {
			return nil, err
		}
	}

	total := dice.Sum(faces)
	roll := &entity.DiceRoll{
		CharacterID:   ch.ID,
		CampaignID:    ch.CampaignID,
		RollerID:      a.UserID,
		Dice1:         faces[0],
		Dice2:         faces[1],
		Dice3:         faces[2],
		Dice4:         faces[3],
		DiceTotal:     total,
		UsedFatePoint: in.UseFatePoint,
		FinalTotal:    total,
		SkillUsedID:   in.SkillID,
		HiddenBonus:   breakdown.Total,
		HiddenTotal:   total + breakdown.Total,
		Description:   in.Description,
	}
	if err := s.rolls.Create(ctx, roll); err != nil {
		return nil, fmt.Errorf("store roll: %w", err)
	}
	roll.Character = ch
	roll.SkillUsed = skill

	notices, err := s.notices(ctx, a, in, ch, roll)
	if err != nil {
		return nil, err
	}

	return &Resolution{Roll: roll, Character: ch, Breakdown: breakdown, Notices: notices}, nil
}

// notices sends the full result to the game master. Request rolls also go
// to every other participant as the public result.
func (s *service) notices(ctx context.Context, a actor.Actor, in ResolveInput, ch *entity.Character, roll *entity.DiceRoll) ([]notification.Notice, error) {
	gmID := in.Campaign.OwnerID
	out := []notification.Notice{{
		CampaignID:  in.Campaign.ID,
		RecipientID: gmID,
		Type:        entity.NotifyRollResult,
		Title:       fmt.Sprintf("%s rolled %+d", ch.Name, roll.FinalTotal),
		Message:     fmt.Sprintf("dice %v, hidden bonus %+d, hidden total %+d", roll.Dice(), roll.HiddenBonus, roll.HiddenTotal),
		CharacterID: notification.Ref(ch.ID),
		RollID:      notification.Ref(roll.ID),
		RequestID:   in.RequestID,
	}}

	if in.RequestID == nil {
		return out, nil
	}

	participants, err := s.campaigns.ParticipantIDs(ctx, in.Campaign.ID)
	if err != nil {
		return nil, err
	}
	for _, uid := range participants {
		if uid == a.UserID || uid == gmID {
			continue
		}
		out = append(out, notification.Notice{
			CampaignID:  in.Campaign.ID,
			RecipientID: uid,
			Type:        entity.NotifyRollShared,
			Title:       fmt.Sprintf("%s rolled %+d", ch.Name, roll.FinalTotal),
			Message:     fmt.Sprintf("dice %v", roll.Dice()),
			CharacterID: notification.Ref(ch.ID),
			RollID:      notification.Ref(roll.ID),
			RequestID:   in.RequestID,
		})
	}
	return out, nil
}

func (s *service) List(ctx context.Context, a actor.Actor, campaignID uuid.UUID, since *time.Time) ([]dto.RollView, error) {
	campaign, err := s.campaigns.FindByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	gm := a.IsGameMasterOf(campaign)
	filter := rollRepo.ListFilter{CampaignID: campaignID, Since: since, Limit: listLimit}
	if !gm {
		filter.OwnerID = &a.UserID
	}

	rolls, err := s.rolls.ListByCampaign(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]dto.RollView, 0, len(rolls))
	for i := range rolls {
		views = append(views, dto.NewRollView(&rolls[i], gm))
	}
	return views, nil
}

func (s *service) MarkSeen(ctx context.Context, a actor.Actor, rollID uuid.UUID) error {
	roll, err := s.rolls.FindByID(ctx, rollID)
	if err != nil {
		return err
	}
	campaign, err := s.campaigns.FindByID(ctx, roll.CampaignID)
	if err != nil {
		return err
	}
	if !a.IsGameMasterOf(campaign) {
		return apperror.Permission(apperror.ReasonNotGameMaster, "only the game master can mark rolls as seen")
	}
	return s.rolls.MarkSeen(ctx, rollID)
}
