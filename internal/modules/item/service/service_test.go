package item

import (
	"context"
	"errors"
	"testing"

	"anoa.com/fatetable/internal/entity"
	notification "anoa.com/fatetable/internal/modules/notification/service"
	"anoa.com/fatetable/internal/testutil/memstore"
	"anoa.com/fatetable/pkg/apperror"
	"github.com/stretchr/testify/suite"
)

type ServiceTestSuite struct {
	suite.Suite
	store *memstore.Store
	world *memstore.World
	svc   Service
	ctx   context.Context
}

func (s *ServiceTestSuite) SetupTest() {
	s.store = memstore.New()
	s.world = s.store.NewWorld(s.T(), entity.CampaignFate)
	s.ctx = context.Background()
	dispatcher := notification.NewDispatcher(s.store.Notifications(), notification.NewRedisBroadcaster(nil))
	s.svc = NewService(s.store, s.store.Items(), s.store.Characters(), s.store.Campaigns(), dispatcher)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) potions(qty int) *entity.Item {
	it, err := s.svc.Create(s.ctx, s.world.Player, CreateInput{CharacterID: s.world.Character.ID, Name: "Poção", Quantity: qty})
	s.Require().NoError(err)
	return it
}

func (s *ServiceTestSuite) TestCreate() {
	it := s.potions(0)
	s.Equal(1, it.Quantity)

	stranger := s.store.AddUser(s.T(), "intruso", false)
	_, err := s.svc.Create(s.ctx, stranger, CreateInput{CharacterID: s.world.Character.ID, Name: "Faca"})
	s.Equal(apperror.ReasonNotOwner, apperror.ReasonOf(err))

	_, err = s.svc.Create(s.ctx, s.world.Player, CreateInput{CharacterID: s.world.Character.ID, Name: "Faca", Quantity: -2})
	s.Equal(apperror.ReasonInvalidQuantity, apperror.ReasonOf(err))

	items, err := s.svc.ListByCharacter(s.ctx, s.world.GM, s.world.Character.ID)
	s.Require().NoError(err)
	s.Len(items, 1)
}

func (s *ServiceTestSuite) TestPartialTransferSplitsTheStack() {
	friend := s.store.AddUser(s.T(), "amigo", false)
	to := s.store.AddCharacter(s.T(), s.world.Campaign, friend, nil)
	it := s.potions(5)

	out, err := s.svc.Transfer(s.ctx, s.world.Player, it.ID, to.ID, 2)
	s.Require().NoError(err)
	s.Require().NotNil(out.Remaining)
	s.Equal(3, out.Remaining.Quantity)
	s.Equal(2, out.Moved.Quantity)
	s.NotEqual(it.ID, out.Moved.ID)
	s.Equal(to.ID, out.Moved.OwnerCharacterID)

	left, err := s.store.Items().ListByCharacter(s.ctx, s.world.Character.ID)
	s.Require().NoError(err)
	s.Require().Len(left, 1)
	s.Equal(3, left[0].Quantity)

	trades := s.store.Items().Trades()
	s.Require().Len(trades, 1)
	s.Equal(2, trades[0].Quantity)
	s.Equal(s.world.Player.UserID, trades[0].MovedByID)

	s.Len(s.store.Notifications().For(s.world.Player.UserID), 1)
	received := s.store.Notifications().For(friend.UserID)
	s.Require().Len(received, 1)
	s.Equal(entity.NotifyItemTransfer, received[0].Type)
}

func (s *ServiceTestSuite) TestFullTransferMovesTheRow() {
	to := s.store.AddCharacter(s.T(), s.world.Campaign, s.world.Player, nil)
	it := s.potions(3)

	out, err := s.svc.Transfer(s.ctx, s.world.GM, it.ID, to.ID, 3)
	s.Require().NoError(err)
	s.Nil(out.Remaining)
	s.Equal(it.ID, out.Moved.ID)

	left, err := s.store.Items().ListByCharacter(s.ctx, s.world.Character.ID)
	s.Require().NoError(err)
	s.Empty(left)
	s.Len(s.store.Notifications().For(s.world.Player.UserID), 1, "one notice when both characters share an owner")
}

func (s *ServiceTestSuite) TestTransferGuards() {
	it := s.potions(2)
	sibling := s.store.AddCharacter(s.T(), s.world.Campaign, s.world.Player, nil)
	elsewhere := s.store.AddCampaign(s.T(), s.world.GM, entity.CampaignFate)
	foreign := s.store.AddCharacter(s.T(), elsewhere, s.world.Player, nil)
	stranger := s.store.AddUser(s.T(), "intruso", false)

	_, err := s.svc.Transfer(s.ctx, s.world.Player, it.ID, foreign.ID, 1)
	s.Equal(apperror.ReasonItemCrossCampaign, apperror.ReasonOf(err))

	for _, qty := range []int{0, -1, 3} {
		_, err = s.svc.Transfer(s.ctx, s.world.Player, it.ID, sibling.ID, qty)
		s.Equal(apperror.ReasonInvalidQuantity, apperror.ReasonOf(err), "quantity %d", qty)
	}

	_, err = s.svc.Transfer(s.ctx, stranger, it.ID, sibling.ID, 1)
	s.Equal(apperror.ReasonNotOwner, apperror.ReasonOf(err))

	s.Empty(s.store.Items().Trades())
}

func (s *ServiceTestSuite) TestFailedTradeRollsBackTheSplit() {
	to := s.store.AddCharacter(s.T(), s.world.Campaign, s.world.Player, nil)
	it := s.potions(4)
	s.store.FailOn("items.CreateTrade", errors.New("disk full"))

	_, err := s.svc.Transfer(s.ctx, s.world.Player, it.ID, to.ID, 1)
	s.Error(err)

	left, err := s.store.Items().ListByCharacter(s.ctx, s.world.Character.ID)
	s.Require().NoError(err)
	s.Require().Len(left, 1)
	s.Equal(4, left[0].Quantity)

	moved, err := s.store.Items().ListByCharacter(s.ctx, to.ID)
	s.Require().NoError(err)
	s.Empty(moved)
	s.Empty(s.store.Notifications().All())
}
