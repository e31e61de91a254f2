package power

import (
	"context"
	"errors"
	"testing"

	"anoa.com/fatetable/internal/entity"
	notification "anoa.com/fatetable/internal/modules/notification/service"
	"anoa.com/fatetable/internal/modules/power/dto"
	"anoa.com/fatetable/internal/testutil/memstore"
	"anoa.com/fatetable/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ServiceTestSuite struct {
	suite.Suite
	store *memstore.Store
	svc   Service
	ctx   context.Context
}

func (s *ServiceTestSuite) SetupTest() {
	s.store = memstore.New()
	s.ctx = context.Background()
	dispatcher := notification.NewDispatcher(s.store.Notifications(), notification.NewRedisBroadcaster(nil))
	s.svc = NewService(s.store, s.store.Characters(), s.store.Campaigns(), s.store.Powers(), s.store.Ideas(), dispatcher)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) TestUpdateStatsRequiresGameMaster() {
	w := s.store.NewWorld(s.T(), entity.CampaignJojo)

	_, err := s.svc.UpdateStats(s.ctx, w.Player, w.Character.ID, dto.UpdateStatsRequest{StandUnlocked: ptr(true)})
	s.Equal(apperror.ReasonNotGameMaster, apperror.ReasonOf(err))
	s.ErrorIs(err, apperror.ErrForbidden)
}

func (s *ServiceTestSuite) TestUpdateStatsNotifiesEachUnlock() {
	w := s.store.NewWorld(s.T(), entity.CampaignBleach)

	ch, err := s.svc.UpdateStats(s.ctx, w.GM, w.Character.ID, dto.UpdateStatsRequest{
		ZanpakutoUnlocked: ptr(true),
		ShikaiUnlocked:    ptr(true),
		Forca:             ptr(3),
	})
	s.Require().NoError(err)
	s.True(ch.ShikaiUnlocked)
	s.Equal(3, ch.Forca)

	notes := s.store.Notifications().For(w.Player.UserID)
	s.Require().Len(notes, 2)
	s.Equal(entity.NotifyUnlockZanpak, notes[0].Type)
	s.Equal(entity.NotifyUnlockShikai, notes[1].Type)
	s.Equal(w.Campaign.ID, notes[0].CampaignID)

	// Bankai without shikai fails and leaves the sheet untouched.
	other := s.store.AddCharacter(s.T(), w.Campaign, w.Player, func(c *entity.Character) { c.ZanpakutoUnlocked = true })
	_, err = s.svc.UpdateStats(s.ctx, w.GM, other.ID, dto.UpdateStatsRequest{BankaiUnlocked: ptr(true)})
	s.Equal(apperror.ReasonPrerequisiteMissing, apperror.ReasonOf(err))

	reloaded, err := s.store.Characters().FindByID(s.ctx, other.ID)
	s.Require().NoError(err)
	s.False(reloaded.BankaiUnlocked)
}

func (s *ServiceTestSuite) TestUpdateStatsRollsBackWhenNotificationFails() {
	w := s.store.NewWorld(s.T(), entity.CampaignJojo)
	s.store.FailOn("notifications.CreateBatch", errors.New("db down"))

	_, err := s.svc.UpdateStats(s.ctx, w.GM, w.Character.ID, dto.UpdateStatsRequest{StandUnlocked: ptr(true)})
	s.Error(err)

	reloaded, err := s.store.Characters().FindByID(s.ctx, w.Character.ID)
	s.Require().NoError(err)
	s.False(reloaded.StandUnlocked)
}

func (s *ServiceTestSuite) TestUpdateStatsRejectsNegativeFatePoints() {
	w := s.store.NewWorld(s.T(), entity.CampaignFate)

	_, err := s.svc.UpdateStats(s.ctx, w.GM, w.Character.ID, dto.UpdateStatsRequest{FatePoints: ptr(-1)})
	s.Equal(apperror.ReasonInvalidValue, apperror.ReasonOf(err))
}

func (s *ServiceTestSuite) TestSetRelease() {
	w := s.store.NewWorld(s.T(), entity.CampaignBleach)
	ch := s.store.AddCharacter(s.T(), w.Campaign, w.Player, func(c *entity.Character) {
		c.ZanpakutoUnlocked, c.ShikaiUnlocked, c.BankaiUnlocked = true, true, true
	})

	updated, err := s.svc.SetRelease(s.ctx, w.Player, ch.ID, dto.SetReleaseRequest{BankaiActive: ptr(true)})
	s.Require().NoError(err)
	s.True(updated.BankaiActive)
	s.True(updated.ShikaiActive)

	stranger := s.store.AddUser(s.T(), "stranger", false)
	_, err = s.svc.SetRelease(s.ctx, stranger, ch.ID, dto.SetReleaseRequest{ShikaiActive: ptr(false)})
	s.Equal(apperror.ReasonNotOwner, apperror.ReasonOf(err))
}

func (s *ServiceTestSuite) TestSetReleaseOutsideBleach() {
	w := s.store.NewWorld(s.T(), entity.CampaignJJK)

	_, err := s.svc.SetRelease(s.ctx, w.Player, w.Character.ID, dto.SetReleaseRequest{ShikaiActive: ptr(true)})
	s.Equal(apperror.ReasonWrongCampaignType, apperror.ReasonOf(err))
}

func (s *ServiceTestSuite) TestAddFatePoints() {
	w := s.store.NewWorld(s.T(), entity.CampaignFate)

	ch, err := s.svc.AddFatePoints(s.ctx, w.GM, w.Character.ID, 2)
	s.Require().NoError(err)
	s.Equal(entity.DefaultFatePoints+2, ch.FatePoints)
	s.Len(s.store.Notifications().For(w.Player.UserID), 1)

	_, err = s.svc.AddFatePoints(s.ctx, w.GM, w.Character.ID, 0)
	s.Equal(apperror.ReasonInvalidValue, apperror.ReasonOf(err))

	_, err = s.svc.AddFatePoints(s.ctx, w.Player, w.Character.ID, 1)
	s.Equal(apperror.ReasonNotGameMaster, apperror.ReasonOf(err))
}

func (s *ServiceTestSuite) TestUsageCountsPendingIdeas() {
	w := s.store.NewWorld(s.T(), entity.CampaignJojo)
	require.NoError(s.T(), s.store.Ideas().CreatePowerIdea(s.ctx, &entity.PowerIdea{
		CampaignID:  w.Campaign.ID,
		CharacterID: w.Character.ID,
		IdeaType:    entity.PowerStand,
		Name:        "Star Platinum",
		Status:      entity.IdeaPending,
	}))

	usage, err := s.svc.Usage(s.ctx, w.Character, entity.PowerStand)
	s.Require().NoError(err)
	assert.Equal(s.T(), SlotUsage{Type: entity.PowerStand, Existing: 0, Pending: 1, Capacity: 1}, usage)
	s.False(usage.CanSubmit())
	s.True(usage.CanApprove())
}
