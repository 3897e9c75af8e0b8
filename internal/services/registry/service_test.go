package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mnkgame-go/internal/dependencies/mocks"
	"github.com/mcoot/mnkgame-go/internal/model"
	"github.com/mcoot/mnkgame-go/internal/storage/memory"
	"github.com/mcoot/mnkgame-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

// ResolveCurrent tests

func (s *ServiceSuite) TestResolveCreatesAnonymousPlayer() {
	player, session, err := s.service.ResolveCurrent(s.ctx, "", "")
	s.Require().NoError(err)

	s.Equal(model.IdentityAnonymous, player.Kind)
	s.Equal(NicknameAnonymous, player.Nickname)
	s.Require().NotNil(session)
	s.NotEmpty(session.Token)
	s.Equal(SessionCookieName, session.Name)
}

func (s *ServiceSuite) TestResolveBySessionReturnsSamePlayer() {
	created, session, err := s.service.ResolveCurrent(s.ctx, "", "")
	s.Require().NoError(err)

	resolved, newSession, err := s.service.ResolveCurrent(s.ctx, "", session.Token)
	s.Require().NoError(err)

	s.Equal(created.ID, resolved.ID)
	s.Nil(newSession)
}

func (s *ServiceSuite) TestResolveExpiredSessionCreatesFreshPlayer() {
	created, session, err := s.service.ResolveCurrent(s.ctx, "", "")
	s.Require().NoError(err)

	s.clock.Advance(8 * 24 * time.Hour)

	resolved, newSession, err := s.service.ResolveCurrent(s.ctx, "", session.Token)
	s.Require().NoError(err)

	s.NotEqual(created.ID, resolved.ID)
	s.Require().NotNil(newSession)
	s.NotEqual(session.Token, newSession.Token)
}

func (s *ServiceSuite) TestResolveByPrincipalCreatesPlayerOnFirstSight() {
	player, session, err := s.service.ResolveCurrent(s.ctx, "alice@example.com", "")
	s.Require().NoError(err)

	s.Equal(model.IdentityAuthenticated, player.Kind)
	s.Equal("alice", player.Nickname)
	s.Nil(session)
}

func (s *ServiceSuite) TestResolveByPrincipalIsStable() {
	first, _, err := s.service.ResolveCurrent(s.ctx, "alice@example.com", "")
	s.Require().NoError(err)

	second, _, err := s.service.ResolveCurrent(s.ctx, "alice@example.com", "")
	s.Require().NoError(err)

	s.Equal(first.ID, second.ID)
}

func (s *ServiceSuite) TestResolvePrincipalTakesPrecedenceOverSession() {
	_, session, err := s.service.ResolveCurrent(s.ctx, "", "")
	s.Require().NoError(err)

	player, _, err := s.service.ResolveCurrent(s.ctx, "bob@example.com", session.Token)
	s.Require().NoError(err)

	s.Equal(model.IdentityAuthenticated, player.Kind)
	s.Equal("bob", player.Nickname)
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	player, session, err := s.service.Register(s.ctx, "Alice", "hunter2")
	s.Require().NoError(err)

	s.Equal(model.IdentityRegistered, player.Kind)
	s.Equal("Alice", player.Nickname)
	s.NotEmpty(player.PasswordHash)
	s.NotEqual("hunter2", player.PasswordHash)
	s.Require().NotNil(session)
	s.NotEmpty(session.Token)
}

func (s *ServiceSuite) TestRegisterRejectsShortSecret() {
	_, _, err := s.service.Register(s.ctx, "Alice", "abc")
	s.ErrorIs(err, model.ErrRegister)
}

func (s *ServiceSuite) TestRegisterRejectsDuplicateNickname() {
	_, _, err := s.service.Register(s.ctx, "Alice", "hunter2")
	s.Require().NoError(err)

	_, _, err = s.service.Register(s.ctx, "Alice", "different")
	s.ErrorIs(err, model.ErrRegister)
	s.ErrorIs(err, model.ErrPlayerName)
}

func (s *ServiceSuite) TestRegisterRejectsReservedNicknames() {
	for _, name := range []string{NicknameAnonymous, NicknameAutomated} {
		_, _, err := s.service.Register(s.ctx, name, "hunter2")
		s.ErrorIs(err, model.ErrRegister)
		s.ErrorIs(err, model.ErrPlayerName)
	}
}

func (s *ServiceSuite) TestRegisterRejectsMalformedNicknames() {
	for _, name := range []string{"ab", "1alice", "alice--b", "alice!", "x"} {
		_, _, err := s.service.Register(s.ctx, name, "hunter2")
		s.ErrorIs(err, model.ErrPlayerName, "nickname %q", name)
	}
}

func (s *ServiceSuite) TestRegisterAcceptsSeparatedNicknames() {
	for i, name := range []string{"Alice B", "a.l.i.c.e", "al-ice_9"} {
		_, _, err := s.service.Register(s.ctx, name, "hunter2")
		s.NoError(err, "nickname %q (%d)", name, i)
	}
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	registered, _, err := s.service.Register(s.ctx, "Alice", "hunter2")
	s.Require().NoError(err)

	player, session, err := s.service.Login(s.ctx, "Alice", "hunter2")
	s.Require().NoError(err)

	s.Equal(registered.ID, player.ID)
	s.Require().NotNil(session)
	s.NotEmpty(session.Token)
}

func (s *ServiceSuite) TestLoginRejectsWrongPassword() {
	_, _, err := s.service.Register(s.ctx, "Alice", "hunter2")
	s.Require().NoError(err)

	_, _, err = s.service.Login(s.ctx, "Alice", "wrong")
	s.ErrorIs(err, model.ErrLogin)
}

func (s *ServiceSuite) TestLoginRejectsUnknownNickname() {
	_, _, err := s.service.Login(s.ctx, "Nobody", "hunter2")
	s.ErrorIs(err, model.ErrLogin)
}

func (s *ServiceSuite) TestLoginRejectsNonRegisteredPlayer() {
	player, _, err := s.service.ResolveCurrent(s.ctx, "", "")
	s.Require().NoError(err)

	_, _, err = s.service.Login(s.ctx, player.Nickname, "hunter2")
	s.ErrorIs(err, model.ErrLogin)
}

// Rename tests

func (s *ServiceSuite) TestRenameChangesNickname() {
	player, _, err := s.service.ResolveCurrent(s.ctx, "", "")
	s.Require().NoError(err)

	renamed, err := s.service.Rename(s.ctx, player.ID, "Al-ice")
	s.Require().NoError(err)
	s.Equal("Al-ice", renamed.Nickname)

	stored, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal("Al-ice", stored.Nickname)
}

func (s *ServiceSuite) TestRenameRejectsTakenNickname() {
	_, _, err := s.service.Register(s.ctx, "Alice", "hunter2")
	s.Require().NoError(err)

	player, _, err := s.service.ResolveCurrent(s.ctx, "", "")
	s.Require().NoError(err)

	_, err = s.service.Rename(s.ctx, player.ID, "Alice")
	s.ErrorIs(err, model.ErrPlayerName)
}

func (s *ServiceSuite) TestRenameAnonymousBackToAnonymousLabel() {
	player, _, err := s.service.ResolveCurrent(s.ctx, "", "")
	s.Require().NoError(err)

	_, err = s.service.Rename(s.ctx, player.ID, "Al-ice")
	s.Require().NoError(err)

	renamed, err := s.service.Rename(s.ctx, player.ID, NicknameAnonymous)
	s.Require().NoError(err)
	s.Equal(NicknameAnonymous, renamed.Nickname)
}

func (s *ServiceSuite) TestRenameWritesOnlyThePlayerRecord() {
	player, _, err := s.service.ResolveCurrent(s.ctx, "", "")
	s.Require().NoError(err)

	rs := &model.RuleSet{ID: "rs-1", M: 3, N: 3}
	game := model.NewGame("g-1", rs, s.clock.Now())
	game.Players = []model.PlayerID{player.ID}
	game.PlayerNames = []string{player.Nickname}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	_, err = s.service.Rename(s.ctx, player.ID, "Al-ice")
	s.Require().NoError(err)

	// Game records belong to the game controller; the registry must
	// not touch them on rename
	stored, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal([]string{"Anonymous"}, stored.PlayerNames)
}

// Stat recording tests

func (s *ServiceSuite) TestRecordWinUpdatesAllSeats() {
	alice, _, err := s.service.ResolveCurrent(s.ctx, "alice@example.com", "")
	s.Require().NoError(err)
	bob, _, err := s.service.ResolveCurrent(s.ctx, "bob@example.com", "")
	s.Require().NoError(err)

	err = s.service.RecordWin(s.ctx, alice.ID, []model.PlayerID{alice.ID, bob.ID})
	s.Require().NoError(err)

	storedAlice, _ := s.storage.GetPlayer(s.ctx, alice.ID)
	storedBob, _ := s.storage.GetPlayer(s.ctx, bob.ID)
	s.Equal(1, storedAlice.Wins)
	s.Equal(0, storedAlice.Losses)
	s.Equal(1, storedBob.Losses)
	s.Equal(0, storedBob.Wins)
}

func (s *ServiceSuite) TestRecordDrawUpdatesAllSeats() {
	alice, _, err := s.service.ResolveCurrent(s.ctx, "alice@example.com", "")
	s.Require().NoError(err)
	bob, _, err := s.service.ResolveCurrent(s.ctx, "bob@example.com", "")
	s.Require().NoError(err)

	err = s.service.RecordDraw(s.ctx, []model.PlayerID{alice.ID, bob.ID})
	s.Require().NoError(err)

	storedAlice, _ := s.storage.GetPlayer(s.ctx, alice.ID)
	storedBob, _ := s.storage.GetPlayer(s.ctx, bob.ID)
	s.Equal(1, storedAlice.Draws)
	s.Equal(1, storedBob.Draws)
}

// EndSession tests

func (s *ServiceSuite) TestEndSessionInvalidatesToken() {
	player, session, err := s.service.ResolveCurrent(s.ctx, "", "")
	s.Require().NoError(err)

	s.Require().NoError(s.service.EndSession(s.ctx, player.ID))

	resolved, _, err := s.service.ResolveCurrent(s.ctx, "", session.Token)
	s.Require().NoError(err)
	s.NotEqual(player.ID, resolved.ID)
}
