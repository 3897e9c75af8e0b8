package memory

import (
	"context"
	"sync"

	"github.com/mcoot/mnkgame-go/internal/model"
	"github.com/mcoot/mnkgame-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Records are cloned on save and on read so that callers mutating an
// aggregate never leak half-applied state to concurrent readers.
type Storage struct {
	mu sync.RWMutex

	ruleSets map[model.RuleSetID]*model.RuleSet
	games    map[model.GameID]*model.Game
	players  map[model.PlayerID]*model.Player

	principalIndex map[string]model.PlayerID
	nicknameIndex  map[string]model.PlayerID
	sessionIndex   map[string]model.PlayerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		ruleSets:       make(map[model.RuleSetID]*model.RuleSet),
		games:          make(map[model.GameID]*model.Game),
		players:        make(map[model.PlayerID]*model.Player),
		principalIndex: make(map[string]model.PlayerID),
		nicknameIndex:  make(map[string]model.PlayerID),
		sessionIndex:   make(map[string]model.PlayerID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Rule set operations

func (s *Storage) SaveRuleSet(ctx context.Context, rs *model.RuleSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *rs
	s.ruleSets[rs.ID] = &copied
	return nil
}

func (s *Storage) GetRuleSet(ctx context.Context, id model.RuleSetID) (*model.RuleSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.ruleSets[id]
	if !ok {
		return nil, model.ErrRuleSetNotFound
	}
	copied := *rs
	return &copied, nil
}

func (s *Storage) ListRuleSets(ctx context.Context) ([]*model.RuleSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.RuleSet, 0, len(s.ruleSets))
	for _, rs := range s.ruleSets {
		copied := *rs
		result = append(result, &copied)
	}
	return result, nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game.Clone()
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game.Clone(), nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}

func (s *Storage) ListGamesByState(ctx context.Context, state model.GameState) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.Game
	for _, game := range s.games {
		if game.State == state {
			result = append(result, game.Clone())
		}
	}
	return result, nil
}

func (s *Storage) ListGamesForPlayer(ctx context.Context, id model.PlayerID) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.Game
	for _, game := range s.games {
		if game.HasPlayer(id) {
			result = append(result, game.Clone())
		}
	}
	return result, nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savePlayerLocked(player)
	return nil
}

func (s *Storage) SavePlayers(ctx context.Context, players []*model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, player := range players {
		s.savePlayerLocked(player)
	}
	return nil
}

// savePlayerLocked stores the player and keeps the secondary indexes
// in sync with the previously stored version
func (s *Storage) savePlayerLocked(player *model.Player) {
	if prev, ok := s.players[player.ID]; ok {
		if prev.Principal != "" && prev.Principal != player.Principal {
			delete(s.principalIndex, prev.Principal)
		}
		if prev.Nickname != player.Nickname {
			delete(s.nicknameIndex, prev.Nickname)
		}
		if prev.Session != "" && prev.Session != player.Session {
			delete(s.sessionIndex, prev.Session)
		}
	}

	s.players[player.ID] = player.Clone()
	if player.Principal != "" {
		s.principalIndex[player.Principal] = player.ID
	}
	if player.Nickname != "" {
		s.nicknameIndex[player.Nickname] = player.ID
	}
	if player.Session != "" {
		s.sessionIndex[player.Session] = player.ID
	}
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player.Clone(), nil
}

func (s *Storage) GetPlayerByPrincipal(ctx context.Context, principal string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerByIndexLocked(s.principalIndex, principal)
}

func (s *Storage) GetPlayerByNickname(ctx context.Context, nickname string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerByIndexLocked(s.nicknameIndex, nickname)
}

func (s *Storage) GetPlayerBySession(ctx context.Context, token string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerByIndexLocked(s.sessionIndex, token)
}

func (s *Storage) playerByIndexLocked(index map[string]model.PlayerID, key string) (*model.Player, error) {
	if key == "" {
		return nil, model.ErrPlayerNotFound
	}
	id, ok := index[key]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player.Clone(), nil
}
