package note

import (
	"context"
	"testing"

	"anoa.com/fatetable/internal/actor"
	"anoa.com/fatetable/internal/entity"
	campaignRepo "anoa.com/fatetable/internal/modules/campaign/repository"
	characterRepo "anoa.com/fatetable/internal/modules/character/repository"
	noteRepo "anoa.com/fatetable/internal/modules/note/repository"
	"anoa.com/fatetable/internal/testutil/sqlitedb"
	"anoa.com/fatetable/pkg/apperror"
	"github.com/stretchr/testify/suite"
)

type ServiceTestSuite struct {
	suite.Suite
	fx        sqlitedb.Fixtures
	svc       Service
	ctx       context.Context
	gm        actor.Actor
	player    actor.Actor
	campaign  *entity.Campaign
	character *entity.Character
	playerRow *entity.User
}

func (s *ServiceTestSuite) SetupTest() {
	db := sqlitedb.Open(s.T())
	s.fx = sqlitedb.NewFixtures(s.T(), db)
	s.ctx = context.Background()
	s.svc = NewService(noteRepo.NewNoteRepository(db), characterRepo.NewCharacterRepository(db), campaignRepo.NewCampaignRepository(db))

	gm := s.fx.User("mestre", false)
	s.playerRow = s.fx.User("jogador", false)
	s.gm = actor.FromUser(gm)
	s.player = actor.FromUser(s.playerRow)
	s.campaign = s.fx.Campaign(gm, entity.CampaignFate)
	s.character = s.fx.Character(s.campaign, s.playerRow, nil)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) TestMasterNotesAreHiddenFromOwner() {
	own, err := s.svc.Create(s.ctx, s.player, s.character.ID, "devo 3 moedas ao taverneiro")
	s.Require().NoError(err)
	s.False(own.IsMasterNote)
	s.Equal("jogador", own.Author.Username)

	secret, err := s.svc.Create(s.ctx, s.gm, s.character.ID, "o taverneiro é um espião")
	s.Require().NoError(err)
	s.True(secret.IsMasterNote)

	mine, err := s.svc.List(s.ctx, s.player, s.character.ID)
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal(own.ID, mine[0].ID)

	all, err := s.svc.List(s.ctx, s.gm, s.character.ID)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(secret.ID, all[0].ID, "newest first")
	s.Equal("mestre", all[0].Author.Username)
}

func (s *ServiceTestSuite) TestStrangersCannotReadNotes() {
	stranger := actor.FromUser(s.fx.User("curioso", false))
	_, err := s.svc.List(s.ctx, stranger, s.character.ID)
	s.Equal(apperror.ReasonNotOwner, apperror.ReasonOf(err))

	_, err = s.svc.Create(s.ctx, stranger, s.character.ID, "oi")
	s.Equal(apperror.ReasonNotOwner, apperror.ReasonOf(err))
}

func (s *ServiceTestSuite) TestBannedOwnerIsLockedOut() {
	s.fx.Ban(s.campaign, s.playerRow)
	_, err := s.svc.List(s.ctx, s.player, s.character.ID)
	s.Equal(apperror.ReasonBanned, apperror.ReasonOf(err))
}

func (s *ServiceTestSuite) TestEmptyContentIsRejected() {
	_, err := s.svc.Create(s.ctx, s.player, s.character.ID, "   ")
	s.Equal(apperror.ReasonInvalidValue, apperror.ReasonOf(err))
}

func (s *ServiceTestSuite) TestUpdateAndDelete() {
	n, err := s.svc.Create(s.ctx, s.player, s.character.ID, "rascunho")
	s.Require().NoError(err)

	updated, err := s.svc.Update(s.ctx, s.player, n.ID, "versão final")
	s.Require().NoError(err)
	s.Equal("versão final", updated.Content)

	// The game master may tidy the owner's notes.
	_, err = s.svc.Update(s.ctx, s.gm, n.ID, "revisado")
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Delete(s.ctx, s.player, n.ID))
	err = s.svc.Delete(s.ctx, s.player, n.ID)
	s.Equal(apperror.ReasonNoteNotFound, apperror.ReasonOf(err))
}

func (s *ServiceTestSuite) TestOwnerCannotTouchMasterNotes() {
	secret, err := s.svc.Create(s.ctx, s.gm, s.character.ID, "segredo")
	s.Require().NoError(err)

	_, err = s.svc.Update(s.ctx, s.player, secret.ID, "descoberto")
	s.Equal(apperror.ReasonNoteNotFound, apperror.ReasonOf(err))
	err = s.svc.Delete(s.ctx, s.player, secret.ID)
	s.Equal(apperror.ReasonNoteNotFound, apperror.ReasonOf(err))

	all, err := s.svc.List(s.ctx, s.gm, s.character.ID)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal("segredo", all[0].Content)
}

func (s *ServiceTestSuite) TestGameMasterNoteOnOwnCharacterIsNotHidden() {
	npc := s.fx.Character(s.campaign, &entity.User{ID: s.gm.UserID, Username: s.gm.Username}, func(ch *entity.Character) { ch.IsNPC = true })
	n, err := s.svc.Create(s.ctx, s.gm, npc.ID, "vilão da campanha")
	s.Require().NoError(err)
	s.False(n.IsMasterNote)
}
