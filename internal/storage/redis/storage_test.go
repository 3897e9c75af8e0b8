package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mnkgame-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.AnonymousPlayerTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) ruleSet(id model.RuleSetID) *model.RuleSet {
	return &model.RuleSet{
		ID:         id,
		Name:       "tic-tac-toe",
		NumPlayers: 2,
		M:          3,
		N:          3,
		K:          3,
		TurnPolicy: model.TurnPolicyRoundRobin,
	}
}

// RuleSet tests

func (s *StorageSuite) TestSaveAndGetRuleSet() {
	rs := s.ruleSet("rs-1")
	s.Require().NoError(s.storage.SaveRuleSet(s.ctx, rs))

	got, err := s.storage.GetRuleSet(s.ctx, "rs-1")
	s.Require().NoError(err)
	s.Equal(rs.Name, got.Name)
	s.Equal(rs.TurnPolicy, got.TurnPolicy)
}

func (s *StorageSuite) TestGetRuleSetNotFound() {
	_, err := s.storage.GetRuleSet(s.ctx, "rs-missing")
	s.ErrorIs(err, model.ErrRuleSetNotFound)
}

func (s *StorageSuite) TestListRuleSets() {
	s.Require().NoError(s.storage.SaveRuleSet(s.ctx, s.ruleSet("rs-1")))
	s.Require().NoError(s.storage.SaveRuleSet(s.ctx, s.ruleSet("rs-2")))

	list, err := s.storage.ListRuleSets(s.ctx)
	s.Require().NoError(err)
	s.Len(list, 2)
}

// Game tests

func (s *StorageSuite) game(id model.GameID, players ...model.PlayerID) *model.Game {
	game := model.NewGame(id, s.ruleSet("rs-1"), time.Now().UTC().Truncate(time.Second))
	game.Players = players
	return game
}

func (s *StorageSuite) TestSaveAndGetGame() {
	game := s.game("g-1", "p-1", "p-2")
	game.State = model.GameStatePlaying
	game.Turn = 3
	game.Rows = []string{"120", "012", "000"}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	got, err := s.storage.GetGame(s.ctx, "g-1")
	s.Require().NoError(err)
	s.Equal(game.Players, got.Players)
	s.Equal(game.Rows, got.Rows)
	s.Equal(3, got.Turn)
	s.Equal(model.GameStatePlaying, got.State)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "g-missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestDeleteGameCleansIndexes() {
	game := s.game("g-1", "p-1")
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))
	s.Require().NoError(s.storage.DeleteGame(s.ctx, "g-1"))

	_, err := s.storage.GetGame(s.ctx, "g-1")
	s.ErrorIs(err, model.ErrGameNotFound)

	list, err := s.storage.ListGamesForPlayer(s.ctx, "p-1")
	s.Require().NoError(err)
	s.Empty(list)

	list, err = s.storage.ListGamesByState(s.ctx, model.GameStateWaiting)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *StorageSuite) TestDeleteMissingGameIsNoop() {
	s.NoError(s.storage.DeleteGame(s.ctx, "g-missing"))
}

func (s *StorageSuite) TestListGamesByState() {
	waiting := s.game("g-1")
	playing := s.game("g-2")
	playing.State = model.GameStatePlaying
	s.Require().NoError(s.storage.SaveGame(s.ctx, waiting))
	s.Require().NoError(s.storage.SaveGame(s.ctx, playing))

	list, err := s.storage.ListGamesByState(s.ctx, model.GameStatePlaying)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(model.GameID("g-2"), list[0].ID)
}

func (s *StorageSuite) TestListGamesForPlayer() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.game("g-1", "p-1", "p-2")))
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.game("g-2", "p-2")))

	list, err := s.storage.ListGamesForPlayer(s.ctx, "p-2")
	s.Require().NoError(err)
	s.Len(list, 2)

	list, err = s.storage.ListGamesForPlayer(s.ctx, "p-1")
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(model.GameID("g-1"), list[0].ID)
}

func (s *StorageSuite) TestSaveGameDropsRemovedPlayerFromIndex() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.game("g-1", "p-1", "p-2")))
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.game("g-1", "p-2")))

	list, err := s.storage.ListGamesForPlayer(s.ctx, "p-1")
	s.Require().NoError(err)
	s.Empty(list)
}

// Player tests

func (s *StorageSuite) player(id model.PlayerID, kind model.IdentityKind) *model.Player {
	return &model.Player{
		ID:       id,
		Kind:     kind,
		Nickname: "Alice",
	}
}

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := s.player("p-1", model.IdentityRegistered)
	player.Wins = 2
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	got, err := s.storage.GetPlayer(s.ctx, "p-1")
	s.Require().NoError(err)
	s.Equal("Alice", got.Nickname)
	s.Equal(2, got.Wins)
	s.Equal(model.IdentityRegistered, got.Kind)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "p-missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestPlayerIndexLookups() {
	player := s.player("p-1", model.IdentityRegistered)
	player.Principal = "alice@example.com"
	player.Session = "tok-1"
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	byPrincipal, err := s.storage.GetPlayerByPrincipal(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(player.ID, byPrincipal.ID)

	byNickname, err := s.storage.GetPlayerByNickname(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(player.ID, byNickname.ID)

	bySession, err := s.storage.GetPlayerBySession(s.ctx, "tok-1")
	s.Require().NoError(err)
	s.Equal(player.ID, bySession.ID)
}

func (s *StorageSuite) TestPlayerIndexUpdatedOnSave() {
	player := s.player("p-1", model.IdentityRegistered)
	player.Session = "tok-1"
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	player.Nickname = "Alicia"
	player.Session = "tok-2"
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	_, err := s.storage.GetPlayerByNickname(s.ctx, "Alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	_, err = s.storage.GetPlayerBySession(s.ctx, "tok-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	got, err := s.storage.GetPlayerByNickname(s.ctx, "Alicia")
	s.Require().NoError(err)
	s.Equal(player.ID, got.ID)
}

func (s *StorageSuite) TestSavePlayersBatch() {
	p1 := s.player("p-1", model.IdentityRegistered)
	p2 := s.player("p-2", model.IdentityRegistered)
	p2.Nickname = "Bob"
	p1.Wins = 1
	p2.Losses = 1
	s.Require().NoError(s.storage.SavePlayers(s.ctx, []*model.Player{p1, p2}))

	got1, err := s.storage.GetPlayer(s.ctx, "p-1")
	s.Require().NoError(err)
	got2, err := s.storage.GetPlayer(s.ctx, "p-2")
	s.Require().NoError(err)
	s.Equal(1, got1.Wins)
	s.Equal(1, got2.Losses)
}

func (s *StorageSuite) TestAnonymousPlayerExpires() {
	player := s.player("p-1", model.IdentityAnonymous)
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetPlayer(s.ctx, "p-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestRegisteredPlayerDoesNotExpire() {
	player := s.player("p-1", model.IdentityRegistered)
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetPlayer(s.ctx, "p-1")
	s.NoError(err)
}
