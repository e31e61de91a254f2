package item

import (
	"context"
	"fmt"

	"anoa.com/fatetable/internal/actor"
	"anoa.com/fatetable/internal/entity"
	campaignRepo "anoa.com/fatetable/internal/modules/campaign/repository"
	characterRepo "anoa.com/fatetable/internal/modules/character/repository"
	itemRepo "anoa.com/fatetable/internal/modules/item/repository"
	notification "anoa.com/fatetable/internal/modules/notification/service"
	"anoa.com/fatetable/pkg/apperror"
	"anoa.com/fatetable/pkg/database"
	"github.com/google/uuid"
)

type CreateInput struct {
	CharacterID uuid.UUID
	Name        string
	Description string
	ItemType    string
	Quantity    int
	Durability  *int
}

// Transfer is the outcome of moving items between characters. Moved is the
// row now owned by the receiver; Remaining is the sender's row after a
// partial split, nil when the whole stack moved.
type Transfer struct {
	Moved     *entity.Item      `json:"moved"`
	Remaining *entity.Item      `json:"remaining,omitempty"`
	Trade     *entity.ItemTrade `json:"trade"`
}

type Service interface {
	Create(ctx context.Context, a actor.Actor, in CreateInput) (*entity.Item, error)
	ListByCharacter(ctx context.Context, a actor.Actor, characterID uuid.UUID) ([]entity.Item, error)
	Transfer(ctx context.Context, a actor.Actor, itemID, toCharacterID uuid.UUID, quantity int) (*Transfer, error)
}

type service struct {
	tx         database.Transactor
	items      itemRepo.ItemRepository
	characters characterRepo.CharacterRepository
	campaigns  campaignRepo.CampaignRepository
	dispatcher notification.Dispatcher
}

func NewService(
	tx database.Transactor,
	items itemRepo.ItemRepository,
	characters characterRepo.CharacterRepository,
	campaigns campaignRepo.CampaignRepository,
	dispatcher notification.Dispatcher,
) Service {
	return &service{
		tx:         tx,
		items:      items,
		characters: characters,
		campaigns:  campaigns,
		dispatcher: dispatcher,
	}
}

// holder loads a character with its campaign and checks the actor may
// handle its inventory.
func (s *service) holder(ctx context.Context, a actor.Actor, characterID uuid.UUID) (*entity.Character, *entity.Campaign, error) {
	ch, err := s.characters.FindByID(ctx, characterID)
	if err != nil {
		return nil, nil, err
	}
	c, err := s.campaigns.FindByID(ctx, ch.CampaignID)
	if err != nil {
		return nil, nil, err
	}
	if !a.CanActFor(ch, c) {
		return nil, nil, apperror.Permission(apperror.ReasonNotOwner, "only the owner or the game master can manage this inventory")
	}
	banned, err := s.campaigns.IsBanned(ctx, c.ID, a.UserID)
	if err != nil {
		return nil, nil, err
	}
	if banned && !a.IsGameMasterOf(c) {
		return nil, nil, apperror.Permission(apperror.ReasonBanned, "you are banned from this campaign")
	}
	return ch, c, nil
}

func (s *service) Create(ctx context.Context, a actor.Actor, in CreateInput) (*entity.Item, error) {
	ch, _, err := s.holder(ctx, a, in.CharacterID)
	if err != nil {
		return nil, err
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 0 {
		return nil, apperror.Validation(apperror.ReasonInvalidQuantity, "quantity must be positive")
	}

	it := &entity.Item{
		Name:             in.Name,
		Description:      in.Description,
		ItemType:         in.ItemType,
		Quantity:         in.Quantity,
		Durability:       in.Durability,
		OwnerCharacterID: ch.ID,
	}
	if err := s.items.Create(ctx, it); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return it, nil
}

func (s *service) ListByCharacter(ctx context.Context, a actor.Actor, characterID uuid.UUID) ([]entity.Item, error) {
	ch, _, err := s.holder(ctx, a, characterID)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListByCharacter(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entity.Item{}
	}
	return items, nil
}

func (s *service) Transfer(ctx context.Context, a actor.Actor, itemID, toCharacterID uuid.UUID, quantity int) (*Transfer, error) {
	var (
		out  *Transfer
		rows []entity.Notification
	)
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		it, err := s.items.FindByIDForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		from, c, err := s.holder(ctx, a, it.OwnerCharacterID)
		if err != nil {
			return err
		}
		to, err := s.characters.FindByID(ctx, toCharacterID)
		if err != nil {
			return err
		}
		if to.CampaignID != from.CampaignID {
			return apperror.Validation(apperror.ReasonItemCrossCampaign, "items can only move within a campaign")
		}
		if to.ID == from.ID {
			return apperror.Validation(apperror.ReasonInvalidValue, "the item already belongs to that character")
		}
		if quantity < 1 || quantity > it.Quantity {
			return apperror.Validation(apperror.ReasonInvalidQuantity,
				fmt.Sprintf("quantity must be between 1 and %d", it.Quantity))
		}

		out = &Transfer{}
		if quantity == it.Quantity {
			it.OwnerCharacterID = to.ID
			it.IsEquipped = false
			if err := s.items.Save(ctx, it); err != nil {
				return fmt.Errorf("move item: %w", err)
			}
			out.Moved = it
		} else {
			it.Quantity -= quantity
			if err := s.items.Save(ctx, it); err != nil {
				return fmt.Errorf("split item: %w", err)
			}
			split := &entity.Item{
				Name:             it.Name,
				Description:      it.Description,
				ItemType:         it.ItemType,
				Quantity:         quantity,
				Durability:       it.Durability,
				OwnerCharacterID: to.ID,
			}
			if err := s.items.Create(ctx, split); err != nil {
				return fmt.Errorf("split item: %w", err)
			}
			out.Moved, out.Remaining = split, it
		}

		out.Trade = &entity.ItemTrade{
			ItemID:          out.Moved.ID,
			FromCharacterID: from.ID,
			ToCharacterID:   to.ID,
			Quantity:        quantity,
			MovedByID:       a.UserID,
		}
		if err := s.items.CreateTrade(ctx, out.Trade); err != nil {
			return fmt.Errorf("record trade: %w", err)
		}

		rows, err = s.dispatcher.Dispatch(ctx, transferNotices(c, from, to, out.Moved, quantity))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Broadcast(ctx, rows)
	return out, nil
}

func transferNotices(c *entity.Campaign, from, to *entity.Character, moved *entity.Item, quantity int) []notification.Notice {
	notice := func(recipient uuid.UUID, ch *entity.Character, msg string) notification.Notice {
		return notification.Notice{
			CampaignID:  c.ID,
			RecipientID: recipient,
			Type:        entity.NotifyItemTransfer,
			Title:       "Item transfer",
			Message:     msg,
			CharacterID: notification.Ref(ch.ID),
			ItemID:      notification.Ref(moved.ID),
		}
	}

	notices := []notification.Notice{
		notice(from.OwnerID, from, fmt.Sprintf("%s gave %dx %s to %s", from.Name, quantity, moved.Name, to.Name)),
	}
	if to.OwnerID != from.OwnerID {
		notices = append(notices, notice(to.OwnerID, to, fmt.Sprintf("%s received %dx %s from %s", to.Name, quantity, moved.Name, from.Name)))
	}
	return notices
}
