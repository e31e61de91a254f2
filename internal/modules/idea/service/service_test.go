package idea

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/fatetable/internal/entity"
	notification "anoa.com/fatetable/internal/modules/notification/service"
	power "anoa.com/fatetable/internal/modules/power/service"
	"anoa.com/fatetable/internal/testutil/memstore"
	"anoa.com/fatetable/pkg/apperror"
	"anoa.com/fatetable/pkg/clock"
	"anoa.com/fatetable/pkg/ratelimit"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

var fullStats = StandStats{
	DestructivePower:     "A",
	Speed:                "b",
	RangeStat:            "E",
	Stamina:              "C",
	Precision:            "D",
	DevelopmentPotential: "S",
}

type ServiceTestSuite struct {
	suite.Suite
	store *memstore.Store
	now   time.Time
	ctx   context.Context
}

func (s *ServiceTestSuite) SetupTest() {
	s.store = memstore.New()
	s.now = time.Date(2026, 5, 2, 18, 30, 0, 0, time.UTC)
	s.ctx = context.Background()
}

func (s *ServiceTestSuite) service(limiter ratelimit.Limiter) Service {
	dispatcher := notification.NewDispatcher(s.store.Notifications(), notification.NewRedisBroadcaster(nil))
	slots := power.NewService(s.store, s.store.Characters(), s.store.Campaigns(), s.store.Powers(), s.store.Ideas(), dispatcher)
	return NewService(s.store, s.store.Ideas(), s.store.Characters(), s.store.Campaigns(), s.store.Catalog(),
		s.store.Powers(), slots, limiter, dispatcher, &clock.Fixed{At: s.now})
}

func (s *ServiceTestSuite) unlimited() Service {
	return s.service(ratelimit.New(nil, 0))
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) standWorld(mutate func(*entity.Character)) (*memstore.World, *entity.Character) {
	w := s.store.NewWorld(s.T(), entity.CampaignJojo)
	ch := s.store.AddCharacter(s.T(), w.Campaign, w.Player, func(c *entity.Character) {
		c.StandUnlocked = true
		if mutate != nil {
			mutate(c)
		}
	})
	return w, ch
}

func (s *ServiceTestSuite) submitStand(svc Service, w *memstore.World, ch *entity.Character, name string) (*entity.PowerIdea, error) {
	return svc.SubmitPower(s.ctx, w.Player, PowerInput{
		CampaignID:  w.Campaign.ID,
		CharacterID: ch.ID,
		Type:        entity.PowerStand,
		Name:        name,
		Payload:     StandPayload{StandType: "close range"},
	})
}

func (s *ServiceTestSuite) TestSubmitNotifiesGameMaster() {
	w, ch := s.standWorld(nil)

	idea, err := s.submitStand(s.unlimited(), w, ch, "Star Platinum")
	s.Require().NoError(err)
	s.Equal(entity.IdeaPending, idea.Status)
	s.JSONEq(`{"stand_type":"close range"}`, string(idea.Payload))

	notes := s.store.Notifications().For(w.GM.UserID)
	s.Require().Len(notes, 1)
	s.Equal(entity.NotifyIdeaSubmitted, notes[0].Type)
	s.Equal(&idea.ID, notes[0].RelatedIdeaID)
}

func (s *ServiceTestSuite) TestSubmitRejectsWhenSlotsAreFull() {
	w, ch := s.standWorld(nil)
	s.Require().NoError(s.store.Powers().CreateStand(s.ctx, &entity.Stand{CharacterID: ch.ID, Name: "The World"}))

	_, err := s.submitStand(s.unlimited(), w, ch, "Star Platinum")
	s.Equal(apperror.ReasonSlotLimitReached, apperror.ReasonOf(err))
	s.ErrorIs(err, apperror.ErrInvalidInput)
}

func (s *ServiceTestSuite) TestSubmitCountsPendingIdeas() {
	w, ch := s.standWorld(nil)
	svc := s.unlimited()

	_, err := s.submitStand(svc, w, ch, "Star Platinum")
	s.Require().NoError(err)
	_, err = s.submitStand(svc, w, ch, "Hierophant Green")
	s.Equal(apperror.ReasonSlotLimitReached, apperror.ReasonOf(err))
}

func (s *ServiceTestSuite) TestSubmitGuards() {
	svc := s.unlimited()
	w := s.store.NewWorld(s.T(), entity.CampaignJojo)

	cases := []struct {
		name   string
		in     PowerInput
		reason string
	}{
		{
			"locked power",
			PowerInput{CampaignID: w.Campaign.ID, CharacterID: w.Character.ID, Type: entity.PowerStand, Name: "x"},
			apperror.ReasonPowerLocked,
		},
		{
			"wrong campaign type",
			PowerInput{CampaignID: w.Campaign.ID, CharacterID: w.Character.ID, Type: entity.PowerZanpakuto, Name: "x"},
			apperror.ReasonWrongCampaignType,
		},
		{
			"payload mismatch",
			PowerInput{CampaignID: w.Campaign.ID, CharacterID: w.Character.ID, Type: entity.PowerStand, Name: "x", Payload: CursedPayload{}},
			apperror.ReasonInvalidValue,
		},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := svc.SubmitPower(s.ctx, w.Player, tc.in)
			s.Equal(tc.reason, apperror.ReasonOf(err))
		})
	}

	_, err := svc.SubmitPower(s.ctx, w.GM, PowerInput{CampaignID: w.Campaign.ID, CharacterID: w.Character.ID, Type: entity.PowerStand, Name: "x"})
	s.Equal(apperror.ReasonNotOwner, apperror.ReasonOf(err))
}

func (s *ServiceTestSuite) TestApprovalRechecksCapacity() {
	w, ch := s.standWorld(func(c *entity.Character) { c.ExtraStandSlots = 1 })
	svc := s.unlimited()

	first, err := s.submitStand(svc, w, ch, "Star Platinum")
	s.Require().NoError(err)
	second, err := s.submitStand(svc, w, ch, "Hermit Purple")
	s.Require().NoError(err)

	_, err = svc.ApprovePower(s.ctx, w.GM, first.ID, ApprovePowerInput{Stats: fullStats})
	s.Require().NoError(err)

	// The game master takes the extra slot away before the second review.
	shrunk, err := s.store.Characters().FindByID(s.ctx, ch.ID)
	s.Require().NoError(err)
	shrunk.ExtraStandSlots = 0
	s.Require().NoError(s.store.Characters().Save(s.ctx, shrunk))

	_, err = svc.ApprovePower(s.ctx, w.GM, second.ID, ApprovePowerInput{Stats: fullStats})
	s.Equal(apperror.ReasonSlotLimitReached, apperror.ReasonOf(err))

	owned, err := s.store.Powers().ListOwned(s.ctx, ch.ID)
	s.Require().NoError(err)
	s.Len(owned.Stands, 1)

	still, err := s.store.Ideas().FindPowerIdea(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Equal(entity.IdeaPending, still.Status)
}

func (s *ServiceTestSuite) TestApproveStand() {
	w, ch := s.standWorld(nil)
	svc := s.unlimited()
	idea, err := s.submitStand(svc, w, ch, "Star Platinum")
	s.Require().NoError(err)

	_, err = svc.ApprovePower(s.ctx, w.Player, idea.ID, ApprovePowerInput{Stats: fullStats})
	s.Equal(apperror.ReasonNotGameMaster, apperror.ReasonOf(err))

	missing := fullStats
	missing.Precision = ""
	_, err = svc.ApprovePower(s.ctx, w.GM, idea.ID, ApprovePowerInput{Stats: missing})
	s.Equal(apperror.ReasonMissingApprovalField, apperror.ReasonOf(err))

	bad := fullStats
	bad.Speed = "Z"
	_, err = svc.ApprovePower(s.ctx, w.GM, idea.ID, ApprovePowerInput{Stats: bad})
	s.Equal(apperror.ReasonInvalidStatLetter, apperror.ReasonOf(err))

	approved, err := svc.ApprovePower(s.ctx, w.GM, idea.ID, ApprovePowerInput{Stats: fullStats})
	s.Require().NoError(err)
	s.Equal(entity.IdeaApproved, approved.Status)
	s.Equal(&w.GM.UserID, approved.ReviewedByID)
	s.Equal(s.now, *approved.ReviewedAt)
	s.Contains(approved.ResponseMessage, "Star Platinum")

	owned, err := s.store.Powers().ListOwned(s.ctx, ch.ID)
	s.Require().NoError(err)
	s.Require().Len(owned.Stands, 1)
	s.Equal("B", owned.Stands[0].Speed)
	s.Equal("close range", owned.Stands[0].StandType)

	notes := s.store.Notifications().For(w.Player.UserID)
	s.Require().Len(notes, 1)
	s.Equal(entity.NotifyIdeaApproved, notes[0].Type)

	_, err = svc.RejectPower(s.ctx, w.GM, idea.ID, "")
	s.Equal(apperror.ReasonAlreadyReviewed, apperror.ReasonOf(err))
}

func (s *ServiceTestSuite) TestApproveZanpakutoFillsPlaceholders() {
	w := s.store.NewWorld(s.T(), entity.CampaignBleach)
	ch := s.store.AddCharacter(s.T(), w.Campaign, w.Player, func(c *entity.Character) { c.ZanpakutoUnlocked = true })
	svc := s.unlimited()

	idea, err := svc.SubmitPower(s.ctx, w.Player, PowerInput{
		CampaignID: w.Campaign.ID, CharacterID: ch.ID, Type: entity.PowerZanpakuto,
		Name: "Zangetsu", Payload: ZanpakutoPayload{SpiritName: "Old Man"},
	})
	s.Require().NoError(err)

	_, err = svc.ApprovePower(s.ctx, w.GM, idea.ID, ApprovePowerInput{BankaiName: "Tensa Zangetsu"})
	s.Require().NoError(err)

	owned, err := s.store.Powers().ListOwned(s.ctx, ch.ID)
	s.Require().NoError(err)
	s.Require().Len(owned.Zanpakutos, 1)
	z := owned.Zanpakutos[0]
	s.Equal("Old Man", z.SpiritName)
	s.Equal("Awaken, Old Man", z.ShikaiCommand)
	s.Equal("Zangetsu (Shikai)", z.ShikaiName)
	s.Equal("Tensa Zangetsu", z.BankaiName)
}

func (s *ServiceTestSuite) TestApproveCursedNeedsTechnique() {
	w := s.store.NewWorld(s.T(), entity.CampaignJJK)
	ch := s.store.AddCharacter(s.T(), w.Campaign, w.Player, func(c *entity.Character) { c.CursedEnergyUnlocked = true })
	svc := s.unlimited()

	idea, err := svc.SubmitPower(s.ctx, w.Player, PowerInput{
		CampaignID: w.Campaign.ID, CharacterID: ch.ID, Type: entity.PowerCursed, Name: "Limitless",
	})
	s.Require().NoError(err)

	_, err = svc.ApprovePower(s.ctx, w.GM, idea.ID, ApprovePowerInput{})
	s.Equal(apperror.ReasonMissingApprovalField, apperror.ReasonOf(err))

	_, err = svc.ApprovePower(s.ctx, w.GM, idea.ID, ApprovePowerInput{TechniqueType: "innate"})
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) TestApprovalRollsBackWhenPowerFails() {
	w, ch := s.standWorld(nil)
	svc := s.unlimited()
	idea, err := s.submitStand(svc, w, ch, "Star Platinum")
	s.Require().NoError(err)
	s.store.FailOn("powers.Create", errors.New("constraint"))

	_, err = svc.ApprovePower(s.ctx, w.GM, idea.ID, ApprovePowerInput{Stats: fullStats})
	s.Error(err)

	still, err := s.store.Ideas().FindPowerIdea(s.ctx, idea.ID)
	s.Require().NoError(err)
	s.Equal(entity.IdeaPending, still.Status)
	s.Empty(s.store.Notifications().For(w.Player.UserID))
}

func (s *ServiceTestSuite) TestRejectUsesStockMessage() {
	w, ch := s.standWorld(nil)
	svc := s.unlimited()
	idea, err := s.submitStand(svc, w, ch, "Star Platinum")
	s.Require().NoError(err)

	rejected, err := svc.RejectPower(s.ctx, w.GM, idea.ID, "")
	s.Require().NoError(err)
	s.Equal(entity.IdeaRejected, rejected.Status)
	s.Contains(rejected.ResponseMessage, stockRejection)

	notes := s.store.Notifications().For(w.Player.UserID)
	s.Require().Len(notes, 1)
	s.Equal(entity.NotifyIdeaRejected, notes[0].Type)
	s.Equal(rejected.ResponseMessage, notes[0].Message)

	// A rejected idea frees its pending slot.
	_, err = s.submitStand(svc, w, ch, "Magician's Red")
	s.NoError(err)
}

func (s *ServiceTestSuite) TestSkillIdeaLifecycle() {
	w := s.store.NewWorld(s.T(), entity.CampaignFate)
	svc := s.unlimited()

	idea, err := svc.SubmitSkill(s.ctx, w.Player, SkillInput{
		CampaignID: w.Campaign.ID, CharacterID: w.Character.ID, Name: "Esgrima", UseStatus: "destreza",
	})
	s.Require().NoError(err)

	_, err = svc.ApproveSkill(s.ctx, w.GM, idea.ID, nil, "")
	s.Equal(apperror.ReasonMissingApprovalField, apperror.ReasonOf(err))
	neg := -1
	_, err = svc.ApproveSkill(s.ctx, w.GM, idea.ID, &neg, "")
	s.Equal(apperror.ReasonInvalidValue, apperror.ReasonOf(err))

	mastery := 2
	approved, err := svc.ApproveSkill(s.ctx, w.GM, idea.ID, &mastery, "")
	s.Require().NoError(err)
	s.Equal(2, *approved.Mastery)

	ch, err := s.store.Characters().FindByID(s.ctx, w.Character.ID)
	s.Require().NoError(err)
	s.Require().Len(ch.Skills, 1)
	s.Equal(2, ch.Skills[0].Bonus)
	s.Equal(&w.Campaign.ID, ch.Skills[0].CampaignID)

	_, err = svc.RejectSkill(s.ctx, w.GM, idea.ID, "no")
	s.Equal(apperror.ReasonAlreadyReviewed, apperror.ReasonOf(err))
}

func (s *ServiceTestSuite) TestListScopesPlayers() {
	w, ch := s.standWorld(func(c *entity.Character) { c.ExtraStandSlots = 2 })
	rival := s.store.AddUser(s.T(), "rival", false)
	rivalChar := s.store.AddCharacter(s.T(), w.Campaign, rival, func(c *entity.Character) { c.StandUnlocked = true })
	svc := s.unlimited()

	_, err := s.submitStand(svc, w, ch, "Star Platinum")
	s.Require().NoError(err)
	_, err = svc.SubmitPower(s.ctx, rival, PowerInput{CampaignID: w.Campaign.ID, CharacterID: rivalChar.ID, Type: entity.PowerStand, Name: "Cream"})
	s.Require().NoError(err)

	mine, err := svc.ListPower(s.ctx, w.Player, w.Campaign.ID, nil)
	s.Require().NoError(err)
	s.Len(mine, 1)

	pending := entity.IdeaPending
	all, err := svc.ListPower(s.ctx, w.GM, w.Campaign.ID, &pending)
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *ServiceTestSuite) TestSubmitIsRateLimited() {
	mr := miniredis.RunT(s.T())
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s.T().Cleanup(func() { _ = rdb.Close() })
	svc := s.service(ratelimit.New(rdb, 30*time.Second))
	w, ch := s.standWorld(func(c *entity.Character) { c.ExtraStandSlots = 3 })

	_, err := s.submitStand(svc, w, ch, "Star Platinum")
	s.Require().NoError(err)
	_, err = s.submitStand(svc, w, ch, "Silver Chariot")
	s.ErrorIs(err, apperror.ErrRateLimitExceeded)

	mr.FastForward(31 * time.Second)
	_, err = s.submitStand(svc, w, ch, "Silver Chariot")
	s.NoError(err)
}
