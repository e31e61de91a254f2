package roll

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/internal/modules/dice"
	dicemock "anoa.com/fatetable/internal/modules/dice/mock"
	notification "anoa.com/fatetable/internal/modules/notification/service"
	"anoa.com/fatetable/internal/modules/roll/dto"
	"anoa.com/fatetable/internal/testutil/memstore"
	"anoa.com/fatetable/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ServiceTestSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	roller *dicemock.MockRoller
	store  *memstore.Store
	svc    Service
	ctx    context.Context
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.roller = dicemock.NewMockRoller(s.ctrl)
	s.store = memstore.New()
	s.ctx = context.Background()
	dispatcher := notification.NewDispatcher(s.store.Notifications(), notification.NewRedisBroadcaster(nil))
	s.svc = NewService(s.store, s.store.Characters(), s.store.Campaigns(), s.store.Catalog(), s.store.Rolls(), s.roller, dispatcher)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) TestPlayerSeesOnlyPublicFields() {
	w := s.store.NewWorld(s.T(), entity.CampaignFate)
	skill := s.store.AddSkill(s.T(), nil, "forca", 2)
	s.roller.EXPECT().Roll(gomock.Any()).Return([dice.Count]int{1, 1, 0, -1}, nil)

	view, err := s.svc.Roll(s.ctx, w.Player, Input{CharacterID: w.Character.ID, SkillID: &skill.ID})
	s.Require().NoError(err)

	pub, ok := view.(dto.PublicRoll)
	s.Require().True(ok, "player must get the public view, got %T", view)
	s.Equal(1, pub.DiceTotal)
	s.Equal(1, pub.FinalTotal)
	s.Equal("skill forca", *pub.SkillName)
	s.Equal(w.Character.Name, pub.CharacterName)

	raw, err := json.Marshal(view)
	s.Require().NoError(err)
	var fields map[string]any
	s.Require().NoError(json.Unmarshal(raw, &fields))
	s.NotContains(fields, "hidden_bonus")
	s.NotContains(fields, "hidden_total")
}

func (s *ServiceTestSuite) TestGameMasterSeesHiddenTotal() {
	w := s.store.NewWorld(s.T(), entity.CampaignFate)
	trait := s.store.AddTrait(s.T(), nil, "Força", 1)
	ch := s.store.AddCharacter(s.T(), w.Campaign, w.Player, func(c *entity.Character) {
		c.Forca = 3
		c.PersonalityTraits = []entity.PersonalityTrait{trait}
	})
	skill := s.store.AddSkill(s.T(), nil, "forca", 2)
	s.roller.EXPECT().Roll(gomock.Any()).Return([dice.Count]int{1, 0, 0, 0}, nil)

	view, err := s.svc.Roll(s.ctx, w.GM, Input{CharacterID: ch.ID, SkillID: &skill.ID, Description: "empurrar a porta"})
	s.Require().NoError(err)

	master, ok := view.(dto.MasterRoll)
	s.Require().True(ok)
	s.Equal(1, master.FinalTotal)
	s.Equal(6, master.HiddenBonus)
	s.Equal(7, master.HiddenTotal)
	s.Equal(w.GM.UserID, s.mustRoll(master.ID).RollerID)

	notes := s.store.Notifications().For(w.GM.UserID)
	s.Require().Len(notes, 1)
	s.Equal(entity.NotifyRollResult, notes[0].Type)
	s.Equal(&master.ID, notes[0].RelatedRollID)
}

func (s *ServiceTestSuite) TestFatePointForcesFourPlus() {
	w := s.store.NewWorld(s.T(), entity.CampaignFate)

	view, err := s.svc.Roll(s.ctx, w.Player, Input{CharacterID: w.Character.ID, UseFatePoint: true})
	s.Require().NoError(err)

	pub := view.(dto.PublicRoll)
	s.True(pub.UsedFatePoint)
	s.Equal([4]int{1, 1, 1, 1}, [4]int{pub.Dice1, pub.Dice2, pub.Dice3, pub.Dice4})
	s.Equal(4, pub.FinalTotal)

	ch, err := s.store.Characters().FindByID(s.ctx, w.Character.ID)
	s.Require().NoError(err)
	s.Equal(entity.DefaultFatePoints-1, ch.FatePoints)
}

func (s *ServiceTestSuite) TestFatePointNeedsBalance() {
	w := s.store.NewWorld(s.T(), entity.CampaignFate)
	broke := s.store.AddCharacter(s.T(), w.Campaign, w.Player, func(c *entity.Character) { c.FatePoints = 0 })

	_, err := s.svc.Roll(s.ctx, w.Player, Input{CharacterID: broke.ID, UseFatePoint: true})
	s.Equal(apperror.ReasonInsufficientFatePoints, apperror.ReasonOf(err))
	s.Zero(s.store.Rolls().Count())
}

func (s *ServiceTestSuite) TestFatePointRefundedWhenRollFails() {
	w := s.store.NewWorld(s.T(), entity.CampaignFate)
	s.store.FailOn("rolls.Create", errors.New("disk full"))

	_, err := s.svc.Roll(s.ctx, w.Player, Input{CharacterID: w.Character.ID, UseFatePoint: true})
	s.Error(err)

	ch, err := s.store.Characters().FindByID(s.ctx, w.Character.ID)
	s.Require().NoError(err)
	s.Equal(entity.DefaultFatePoints, ch.FatePoints)
	s.Empty(s.store.Notifications().All())
}

func (s *ServiceTestSuite) TestRollPermissions() {
	w := s.store.NewWorld(s.T(), entity.CampaignFate)
	stranger := s.store.AddUser(s.T(), "intruso", false)

	_, err := s.svc.Roll(s.ctx, stranger, Input{CharacterID: w.Character.ID})
	s.Equal(apperror.ReasonNotOwner, apperror.ReasonOf(err))
	s.ErrorIs(err, apperror.ErrForbidden)

	s.Require().NoError(s.store.Campaigns().CreateBan(s.ctx, &entity.CampaignBan{
		CampaignID: w.Campaign.ID, UserID: w.Player.UserID, BannedByID: w.GM.UserID,
	}))
	_, err = s.svc.Roll(s.ctx, w.Player, Input{CharacterID: w.Character.ID})
	s.Equal(apperror.ReasonBanned, apperror.ReasonOf(err))
}

func (s *ServiceTestSuite) TestRollRejectsForeignSkill() {
	w := s.store.NewWorld(s.T(), entity.CampaignFate)
	other := s.store.AddCampaign(s.T(), w.GM, entity.CampaignFate)
	foreign := s.store.AddSkill(s.T(), &other.ID, "agilidade", 1)

	_, err := s.svc.Roll(s.ctx, w.Player, Input{CharacterID: w.Character.ID, SkillID: &foreign.ID})
	s.Equal(apperror.ReasonInvalidSkillForCampaign, apperror.ReasonOf(err))
	s.Zero(s.store.Rolls().Count())
}

func (s *ServiceTestSuite) TestListFiltersByOwnerForPlayers() {
	w := s.store.NewWorld(s.T(), entity.CampaignFate)
	rival := s.store.AddUser(s.T(), "rival", false)
	rivalChar := s.store.AddCharacter(s.T(), w.Campaign, rival, nil)
	s.roller.EXPECT().Roll(gomock.Any()).Return([dice.Count]int{0, 0, 0, 0}, nil).Times(2)

	_, err := s.svc.Roll(s.ctx, w.Player, Input{CharacterID: w.Character.ID})
	s.Require().NoError(err)
	_, err = s.svc.Roll(s.ctx, rival, Input{CharacterID: rivalChar.ID})
	s.Require().NoError(err)

	mine, err := s.svc.List(s.ctx, w.Player, w.Campaign.ID, nil)
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal(w.Character.ID, mine[0].(dto.PublicRoll).CharacterID)
	s.Equal(w.Character.Name, mine[0].(dto.PublicRoll).CharacterName)

	all, err := s.svc.List(s.ctx, w.GM, w.Campaign.ID, nil)
	s.Require().NoError(err)
	s.Len(all, 2)
	s.IsType(dto.MasterRoll{}, all[0])
}

func (s *ServiceTestSuite) TestMarkSeen() {
	w := s.store.NewWorld(s.T(), entity.CampaignFate)
	s.roller.EXPECT().Roll(gomock.Any()).Return([dice.Count]int{0, 0, 0, 0}, nil)
	view, err := s.svc.Roll(s.ctx, w.Player, Input{CharacterID: w.Character.ID})
	s.Require().NoError(err)
	id := view.(dto.PublicRoll).ID

	err = s.svc.MarkSeen(s.ctx, w.Player, id)
	s.Equal(apperror.ReasonNotGameMaster, apperror.ReasonOf(err))

	s.Require().NoError(s.svc.MarkSeen(s.ctx, w.GM, id))
	s.True(s.mustRoll(id).SeenByMaster)
}

func (s *ServiceTestSuite) mustRoll(id uuid.UUID) *entity.DiceRoll {
	roll, err := s.store.Rolls().FindByID(s.ctx, id)
	s.Require().NoError(err)
	return roll
}
