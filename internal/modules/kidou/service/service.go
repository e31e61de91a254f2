package kidou

import (
	"context"
	"fmt"

	"anoa.com/fatetable/internal/actor"
	"anoa.com/fatetable/internal/entity"
	campaignRepo "anoa.com/fatetable/internal/modules/campaign/repository"
	characterRepo "anoa.com/fatetable/internal/modules/character/repository"
	kidouRepo "anoa.com/fatetable/internal/modules/kidou/repository"
	notification "anoa.com/fatetable/internal/modules/notification/service"
	"anoa.com/fatetable/pkg/apperror"
	"anoa.com/fatetable/pkg/clock"
	"anoa.com/fatetable/pkg/database"
	"github.com/google/uuid"
)

type OfferInput struct {
	CharacterID uuid.UUID
	Tier        int
	// SpellIDs narrows the options. Empty offers every spell of the tier
	// the character does not know yet.
	SpellIDs []uuid.UUID
}

// Sheet is a character's Kidou progress.
type Sheet struct {
	Tier   int                     `json:"bleach_kidou_tier"`
	Known  []entity.CharacterKidou `json:"known"`
	Offers []entity.KidouOffer     `json:"open_offers"`
}

type Service interface {
	ListSpells(ctx context.Context, filter kidouRepo.SpellFilter) ([]entity.KidouSpell, error)
	// Offer lets the game master put a tier of spells in front of a
	// character. A character holds at most one open offer.
	Offer(ctx context.Context, a actor.Actor, in OfferInput) (*entity.KidouOffer, error)
	// Choose learns one of the offered spells and closes the offer.
	Choose(ctx context.Context, a actor.Actor, offerID, spellID uuid.UUID) (*entity.CharacterKidou, error)
	Sheet(ctx context.Context, a actor.Actor, characterID uuid.UUID) (*Sheet, error)
}

type service struct {
	tx         database.Transactor
	kidou      kidouRepo.KidouRepository
	characters characterRepo.CharacterRepository
	campaigns  campaignRepo.CampaignRepository
	dispatcher notification.Dispatcher
	clock      clock.Clock
}

func NewService(
	tx database.Transactor,
	kidou kidouRepo.KidouRepository,
	characters characterRepo.CharacterRepository,
	campaigns campaignRepo.CampaignRepository,
	dispatcher notification.Dispatcher,
	clk clock.Clock,
) Service {
	return &service{
		tx:         tx,
		kidou:      kidou,
		characters: characters,
		campaigns:  campaigns,
		dispatcher: dispatcher,
		clock:      clk,
	}
}

var errOfferClosed = apperror.Validation(apperror.ReasonAlreadyFulfilled, "kidou offer already closed")

func (s *service) ListSpells(ctx context.Context, filter kidouRepo.SpellFilter) ([]entity.KidouSpell, error) {
	spells, err := s.kidou.ListSpells(ctx, filter)
	if err != nil {
		return nil, err
	}
	if spells == nil {
		spells = []entity.KidouSpell{}
	}
	return spells, nil
}

// student loads a character of a bleach campaign the actor may act for.
func (s *service) student(ctx context.Context, a actor.Actor, ch *entity.Character) (*entity.Campaign, error) {
	c, err := s.campaigns.FindByID(ctx, ch.CampaignID)
	if err != nil {
		return nil, err
	}
	if !a.CanActFor(ch, c) {
		return nil, apperror.Permission(apperror.ReasonNotOwner, "only the owner or the game master can manage this character")
	}
	if !a.IsGameMasterOf(c) {
		banned, err := s.campaigns.IsBanned(ctx, c.ID, a.UserID)
		if err != nil {
			return nil, err
		}
		if banned {
			return nil, apperror.Permission(apperror.ReasonBanned, "you are banned from this campaign")
		}
	}
	if c.CampaignType != entity.CampaignBleach {
		return nil, apperror.Validation(apperror.ReasonWrongCampaignType, "kidou only exists in bleach campaigns")
	}
	return c, nil
}

func (s *service) unknown(ctx context.Context, characterID uuid.UUID, tier int) ([]entity.KidouSpell, error) {
	spells, err := s.kidou.ListSpells(ctx, kidouRepo.SpellFilter{Tier: &tier})
	if err != nil {
		return nil, err
	}
	known, err := s.kidou.ListKnown(ctx, characterID)
	if err != nil {
		return nil, err
	}
	learned := make(map[uuid.UUID]bool, len(known))
	for _, k := range known {
		learned[k.SpellID] = true
	}

	out := spells[:0]
	for _, sp := range spells {
		if !learned[sp.ID] {
			out = append(out, sp)
		}
	}
	return out, nil
}

func (s *service) Offer(ctx context.Context, a actor.Actor, in OfferInput) (*entity.KidouOffer, error) {
	if in.Tier < 0 || in.Tier > entity.MaxKidouTier {
		return nil, apperror.Validation(apperror.ReasonInvalidValue,
			fmt.Sprintf("tier must be between 0 and %d", entity.MaxKidouTier))
	}

	var (
		offer *entity.KidouOffer
		rows  []entity.Notification
	)
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		ch, err := s.characters.FindByIDForUpdate(ctx, in.CharacterID)
		if err != nil {
			return err
		}
		c, err := s.student(ctx, a, ch)
		if err != nil {
			return err
		}
		if !a.IsGameMasterOf(c) {
			return apperror.Permission(apperror.ReasonNotGameMaster, "only the game master can offer kidou")
		}

		open, err := s.kidou.HasOpenOffer(ctx, ch.ID)
		if err != nil {
			return err
		}
		if open {
			return apperror.Validation(apperror.ReasonOfferOpen, "the character already has an open kidou offer")
		}

		candidates, err := s.unknown(ctx, ch.ID, in.Tier)
		if err != nil {
			return err
		}
		options := candidates
		if len(in.SpellIDs) > 0 {
			byID := make(map[uuid.UUID]entity.KidouSpell, len(candidates))
			for _, sp := range candidates {
				byID[sp.ID] = sp
			}
			options = options[:0:0]
			seen := make(map[uuid.UUID]bool, len(in.SpellIDs))
			for _, id := range in.SpellIDs {
				sp, ok := byID[id]
				if !ok {
					return apperror.Validation(apperror.ReasonInvalidValue,
						fmt.Sprintf("spell %s is not an unknown tier %d spell", id, in.Tier))
				}
				if !seen[id] {
					seen[id] = true
					options = append(options, sp)
				}
			}
		}
		if len(options) == 0 {
			return apperror.Validation(apperror.ReasonInvalidValue,
				fmt.Sprintf("no tier %d spells left to offer", in.Tier))
		}

		offer = &entity.KidouOffer{
			CharacterID: ch.ID,
			CampaignID:  c.ID,
			Tier:        in.Tier,
			IsOpen:      true,
			CreatedByID: a.UserID,
			Options:     options,
		}
		if err := s.kidou.CreateOffer(ctx, offer); err != nil {
			return fmt.Errorf("create kidou offer: %w", err)
		}

		rows, err = s.dispatcher.Dispatch(ctx, []notification.Notice{{
			CampaignID:  c.ID,
			RecipientID: ch.OwnerID,
			Type:        entity.NotifyKidouOffer,
			Title:       "New kidou offer",
			Message:     fmt.Sprintf("%s may learn one of %d tier %d spells", ch.Name, len(options), in.Tier),
			CharacterID: &ch.ID,
		}})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Broadcast(ctx, rows)
	return offer, nil
}

func (s *service) Choose(ctx context.Context, a actor.Actor, offerID, spellID uuid.UUID) (*entity.CharacterKidou, error) {
	var (
		link *entity.CharacterKidou
		rows []entity.Notification
	)
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		offer, err := s.kidou.FindOfferForUpdate(ctx, offerID)
		if err != nil {
			return err
		}
		ch, err := s.characters.FindByIDForUpdate(ctx, offer.CharacterID)
		if err != nil {
			return err
		}
		c, err := s.student(ctx, a, ch)
		if err != nil {
			return err
		}
		if !offer.IsOpen {
			return errOfferClosed
		}
		if !offer.HasOption(spellID) {
			return apperror.Validation(apperror.ReasonSpellNotOffered, "that spell is not part of this offer")
		}
		var spell entity.KidouSpell
		for _, sp := range offer.Options {
			if sp.ID == spellID {
				spell = sp
			}
		}

		now := s.clock.Now()
		link = &entity.CharacterKidou{
			CharacterID: ch.ID,
			SpellID:     spell.ID,
			Mastery:     1,
			AcquiredAt:  now,
		}
		if err := s.kidou.Learn(ctx, link); err != nil {
			return fmt.Errorf("learn kidou: %w", err)
		}
		ok, err := s.kidou.CloseOffer(ctx, offer.ID, spell.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return errOfferClosed
		}

		if spell.Tier > ch.KidouTier {
			ch.KidouTier = spell.Tier
			if err := s.characters.Save(ctx, ch); err != nil {
				return fmt.Errorf("save kidou tier: %w", err)
			}
		}
		link.Spell = &spell

		if a.UserID == c.OwnerID {
			return nil
		}
		rows, err = s.dispatcher.Dispatch(ctx, []notification.Notice{{
			CampaignID:  c.ID,
			RecipientID: c.OwnerID,
			Type:        entity.NotifyKidouLearned,
			Title:       "Kidou learned",
			Message:     fmt.Sprintf("%s learned %s", ch.Name, spell.Name),
			CharacterID: &ch.ID,
		}})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Broadcast(ctx, rows)
	return link, nil
}

func (s *service) Sheet(ctx context.Context, a actor.Actor, characterID uuid.UUID) (*Sheet, error) {
	ch, err := s.characters.FindByID(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.student(ctx, a, ch); err != nil {
		return nil, err
	}

	known, err := s.kidou.ListKnown(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	offers, err := s.kidou.ListOpenOffers(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	out := &Sheet{Tier: ch.KidouTier, Known: known, Offers: offers}
	if out.Known == nil {
		out.Known = []entity.CharacterKidou{}
	}
	if out.Offers == nil {
		out.Offers = []entity.KidouOffer{}
	}
	return out, nil
}
