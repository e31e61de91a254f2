package rollrequest

import (
	"context"
	"sync"
	"testing"
	"time"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/internal/modules/dice"
	dicemock "anoa.com/fatetable/internal/modules/dice/mock"
	notification "anoa.com/fatetable/internal/modules/notification/service"
	rollDto "anoa.com/fatetable/internal/modules/roll/dto"
	roll "anoa.com/fatetable/internal/modules/roll/service"
	requestRepo "anoa.com/fatetable/internal/modules/rollrequest/repository"
	"anoa.com/fatetable/internal/testutil/memstore"
	"anoa.com/fatetable/pkg/apperror"
	"anoa.com/fatetable/pkg/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// staleRequests reports every request as open when locked, as a reader
// that lost the race for the row would.
type staleRequests struct {
	memstore.RollRequests
}

func (r staleRequests) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.RollRequest, error) {
	req, err := r.RollRequests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.IsOpen = true
	return req, nil
}

type ServiceTestSuite struct {
	suite.Suite
	store  *memstore.Store
	roller *dicemock.MockRoller
	now    time.Time
	ctx    context.Context
}

func (s *ServiceTestSuite) SetupTest() {
	s.store = memstore.New()
	s.roller = dicemock.NewMockRoller(gomock.NewController(s.T()))
	s.now = time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	s.ctx = context.Background()
}

func (s *ServiceTestSuite) service(requests requestRepo.RollRequestRepository) Service {
	dispatcher := notification.NewDispatcher(s.store.Notifications(), notification.NewRedisBroadcaster(nil))
	rolls := roll.NewService(s.store, s.store.Characters(), s.store.Campaigns(), s.store.Catalog(), s.store.Rolls(), s.roller, dispatcher)
	return NewService(s.store, requests, s.store.Characters(), s.store.Campaigns(), s.store.Catalog(), rolls, dispatcher, &clock.Fixed{At: s.now})
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) TestRequestNotifiesOwner() {
	w := s.store.NewWorld(s.T(), entity.CampaignFate)
	svc := s.service(s.store.RollRequests())

	req, err := svc.Request(s.ctx, w.GM, w.Campaign.ID, RequestInput{CharacterID: w.Character.ID, Description: "percepção"})
	s.Require().NoError(err)
	s.True(req.IsOpen)

	notes := s.store.Notifications().For(w.Player.UserID)
	s.Require().Len(notes, 1)
	s.Equal(entity.NotifyRollRequested, notes[0].Type)
	s.Equal(&req.ID, notes[0].RelatedRequestID)

	open, err := svc.ListOpen(s.ctx, w.Player, w.Campaign.ID)
	s.Require().NoError(err)
	s.Len(open, 1)
}

func (s *ServiceTestSuite) TestRequestGuards() {
	w := s.store.NewWorld(s.T(), entity.CampaignFate)
	svc := s.service(s.store.RollRequests())
	npc := s.store.AddCharacter(s.T(), w.Campaign, w.GM, func(c *entity.Character) { c.IsNPC = true })
	other := s.store.AddCampaign(s.T(), w.GM, entity.CampaignFate)
	foreign := s.store.AddSkill(s.T(), &other.ID, "vigor", 1)

	_, err := svc.Request(s.ctx, w.Player, w.Campaign.ID, RequestInput{CharacterID: w.Character.ID})
	s.Equal(apperror.ReasonNotGameMaster, apperror.ReasonOf(err))

	_, err = svc.Request(s.ctx, w.GM, w.Campaign.ID, RequestInput{CharacterID: npc.ID})
	s.ErrorIs(err, apperror.ErrNotFound)

	_, err = svc.Request(s.ctx, w.GM, other.ID, RequestInput{CharacterID: w.Character.ID})
	s.ErrorIs(err, apperror.ErrNotFound)

	_, err = svc.Request(s.ctx, w.GM, w.Campaign.ID, RequestInput{CharacterID: w.Character.ID, SkillID: &foreign.ID})
	s.Equal(apperror.ReasonInvalidSkillForCampaign, apperror.ReasonOf(err))

	s.Require().NoError(s.store.Campaigns().CreateBan(s.ctx, &entity.CampaignBan{CampaignID: w.Campaign.ID, UserID: w.Player.UserID, BannedByID: w.GM.UserID}))
	_, err = svc.Request(s.ctx, w.GM, w.Campaign.ID, RequestInput{CharacterID: w.Character.ID})
	s.Equal(apperror.ReasonBanned, apperror.ReasonOf(err))
}

func (s *ServiceTestSuite) TestCompleteSharesResult() {
	w := s.store.NewWorld(s.T(), entity.CampaignFate)
	friend := s.store.AddUser(s.T(), "amiga", false)
	s.store.AddCharacter(s.T(), w.Campaign, friend, nil)
	svc := s.service(s.store.RollRequests())
	s.roller.EXPECT().Roll(gomock.Any()).Return([dice.Count]int{1, 1, 0, 0}, nil)

	req, err := svc.Request(s.ctx, w.GM, w.Campaign.ID, RequestInput{CharacterID: w.Character.ID})
	s.Require().NoError(err)

	out, err := svc.Complete(s.ctx, w.Player, w.Campaign.ID, CompleteInput{RequestID: req.ID})
	s.Require().NoError(err)
	s.False(out.Request.IsOpen)
	s.Equal(s.now, *out.Request.FulfilledAt)
	pub := out.Roll.(rollDto.PublicRoll)
	s.Equal(&pub.ID, out.Request.RollID)

	gm := s.store.Notifications().For(w.GM.UserID)
	s.Require().Len(gm, 1)
	s.Equal(entity.NotifyRollResult, gm[0].Type)

	shared := s.store.Notifications().For(friend.UserID)
	s.Require().Len(shared, 1)
	s.Equal(entity.NotifyRollShared, shared[0].Type)
	s.NotContains(shared[0].Message, "hidden")

	// The roller only has the original request notice.
	s.Len(s.store.Notifications().For(w.Player.UserID), 1)
}

func (s *ServiceTestSuite) TestCompleteSkipsBannedParticipants() {
	w := s.store.NewWorld(s.T(), entity.CampaignFate)
	banned := s.store.AddUser(s.T(), "banida", false)
	s.store.AddCharacter(s.T(), w.Campaign, banned, nil)
	s.Require().NoError(s.store.Campaigns().CreateBan(s.ctx, &entity.CampaignBan{
		CampaignID: w.Campaign.ID,
		UserID:     banned.UserID,
		BannedByID: w.GM.UserID,
	}))
	svc := s.service(s.store.RollRequests())
	s.roller.EXPECT().Roll(gomock.Any()).Return([dice.Count]int{0, 0, 0, 0}, nil)

	req, err := svc.Request(s.ctx, w.GM, w.Campaign.ID, RequestInput{CharacterID: w.Character.ID})
	s.Require().NoError(err)
	_, err = svc.Complete(s.ctx, w.Player, w.Campaign.ID, CompleteInput{RequestID: req.ID})
	s.Require().NoError(err)

	s.Empty(s.store.Notifications().For(banned.UserID))
}

func (s *ServiceTestSuite) TestCompleteOnlyOnce() {
	w := s.store.NewWorld(s.T(), entity.CampaignFate)
	svc := s.service(s.store.RollRequests())
	s.roller.EXPECT().Roll(gomock.Any()).Return([dice.Count]int{0, 0, 0, 0}, nil).Times(1)

	req, err := svc.Request(s.ctx, w.GM, w.Campaign.ID, RequestInput{CharacterID: w.Character.ID})
	s.Require().NoError(err)

	var (
		wg   sync.WaitGroup
		errs = make([]error, 4)
	)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Complete(s.ctx, w.Player, w.Campaign.ID, CompleteInput{RequestID: req.ID})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.Equal(apperror.ReasonAlreadyFulfilled, apperror.ReasonOf(err))
	}
	s.Equal(1, succeeded)
	s.Equal(1, s.store.Rolls().Count())
}

func (s *ServiceTestSuite) TestLostRaceRollsBack() {
	w := s.store.NewWorld(s.T(), entity.CampaignFate)
	svc := s.service(staleRequests{s.store.RollRequests()})
	s.roller.EXPECT().Roll(gomock.Any()).Return([dice.Count]int{0, 0, 0, 0}, nil).Times(2)

	req, err := svc.Request(s.ctx, w.GM, w.Campaign.ID, RequestInput{CharacterID: w.Character.ID})
	s.Require().NoError(err)
	_, err = svc.Complete(s.ctx, w.Player, w.Campaign.ID, CompleteInput{RequestID: req.ID})
	s.Require().NoError(err)

	_, err = svc.Complete(s.ctx, w.Player, w.Campaign.ID, CompleteInput{RequestID: req.ID})
	s.Equal(apperror.ReasonAlreadyFulfilled, apperror.ReasonOf(err))
	s.Equal(1, s.store.Rolls().Count())
}

func (s *ServiceTestSuite) TestCompleteGuards() {
	w := s.store.NewWorld(s.T(), entity.CampaignFate)
	svc := s.service(s.store.RollRequests())
	req, err := svc.Request(s.ctx, w.GM, w.Campaign.ID, RequestInput{CharacterID: w.Character.ID})
	s.Require().NoError(err)

	_, err = svc.Complete(s.ctx, w.GM, w.Campaign.ID, CompleteInput{RequestID: req.ID})
	s.Equal(apperror.ReasonNotOwner, apperror.ReasonOf(err))

	other := s.store.AddCampaign(s.T(), w.GM, entity.CampaignFate)
	_, err = svc.Complete(s.ctx, w.Player, other.ID, CompleteInput{RequestID: req.ID})
	s.Equal(apperror.ReasonRequestNotFound, apperror.ReasonOf(err))

	_, err = svc.Complete(s.ctx, w.Player, w.Campaign.ID, CompleteInput{RequestID: uuid.New()})
	s.ErrorIs(err, apperror.ErrNotFound)
}
