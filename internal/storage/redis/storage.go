package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/mnkgame-go/internal/model"
	"github.com/mcoot/mnkgame-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Rule set operations

func (s *Storage) SaveRuleSet(ctx context.Context, rs *model.RuleSet) error {
	data, err := json.Marshal(rs)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, ruleSetKey(rs.ID), data, 0)
	pipe.SAdd(ctx, ruleSetIndexKey(), ruleSetKey(rs.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRuleSet(ctx context.Context, id model.RuleSetID) (*model.RuleSet, error) {
	data, err := s.client.Get(ctx, ruleSetKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRuleSetNotFound
		}
		return nil, err
	}

	var rs model.RuleSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

func (s *Storage) ListRuleSets(ctx context.Context) ([]*model.RuleSet, error) {
	keys, err := s.client.SMembers(ctx, ruleSetIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.RuleSet{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	result := make([]*model.RuleSet, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var rs model.RuleSet
		if err := json.Unmarshal([]byte(val.(string)), &rs); err != nil {
			continue // Skip invalid data
		}
		result = append(result, &rs)
	}
	return result, nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	// Diff against the previous version so the per-player index does
	// not accumulate stale memberships when a player is removed
	var removed []model.PlayerID
	if prev, err := s.GetGame(ctx, game.ID); err == nil {
		for _, p := range prev.Players {
			if !game.HasPlayer(p) {
				removed = append(removed, p)
			}
		}
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, gameKey(game.ID), data, 0)
	pipe.SAdd(ctx, gameIndexKey(), gameKey(game.ID))
	for _, p := range game.Players {
		pipe.SAdd(ctx, gamesForPlayerIndexKey(p), gameKey(game.ID))
	}
	for _, p := range removed {
		pipe.SRem(ctx, gamesForPlayerIndexKey(p), gameKey(game.ID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	game, err := s.GetGame(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrGameNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, gameKey(id))
	pipe.SRem(ctx, gameIndexKey(), gameKey(id))
	for _, p := range game.Players {
		pipe.SRem(ctx, gamesForPlayerIndexKey(p), gameKey(id))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListGamesByState(ctx context.Context, state model.GameState) ([]*model.Game, error) {
	games, err := s.gamesForIndex(ctx, gameIndexKey())
	if err != nil {
		return nil, err
	}

	result := make([]*model.Game, 0, len(games))
	for _, game := range games {
		if game.State == state {
			result = append(result, game)
		}
	}
	return result, nil
}

func (s *Storage) ListGamesForPlayer(ctx context.Context, id model.PlayerID) ([]*model.Game, error) {
	return s.gamesForIndex(ctx, gamesForPlayerIndexKey(id))
}

// gamesForIndex fetches all games whose keys are members of the given
// index set
func (s *Storage) gamesForIndex(ctx context.Context, indexKey string) ([]*model.Game, error) {
	keys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.Game{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	games := make([]*model.Game, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Game may have been deleted
		}
		var game model.Game
		if err := json.Unmarshal([]byte(val.(string)), &game); err != nil {
			continue // Skip invalid data
		}
		games = append(games, &game)
	}
	return games, nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	pipe := s.client.Pipeline()
	if err := s.queuePlayerSave(ctx, pipe, player); err != nil {
		return err
	}
	_, err := pipe.Exec(ctx)
	return err
}

// SavePlayers stores a batch of players in one transactional pipeline
// so that terminal stat updates apply all-or-nothing
func (s *Storage) SavePlayers(ctx context.Context, players []*model.Player) error {
	pipe := s.client.TxPipeline()
	for _, player := range players {
		if err := s.queuePlayerSave(ctx, pipe, player); err != nil {
			return err
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

// queuePlayerSave queues the player record write plus index
// maintenance against the previously stored version
func (s *Storage) queuePlayerSave(ctx context.Context, pipe redis.Pipeliner, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	prev, err := s.GetPlayer(ctx, player.ID)
	if err != nil && !errors.Is(err, model.ErrPlayerNotFound) {
		return err
	}

	// Anonymous players are bounded by TTL; everyone else persists
	var ttl time.Duration
	if player.Kind == model.IdentityAnonymous {
		ttl = s.cfg.AnonymousPlayerTTL
	}

	pipe.Set(ctx, playerKey(player.ID), data, ttl)

	if prev != nil {
		if prev.Principal != "" && prev.Principal != player.Principal {
			pipe.Del(ctx, principalIndexKey(prev.Principal))
		}
		if prev.Nickname != player.Nickname {
			pipe.Del(ctx, nicknameIndexKey(prev.Nickname))
		}
		if prev.Session != "" && prev.Session != player.Session {
			pipe.Del(ctx, sessionIndexKey(prev.Session))
		}
	}

	if player.Principal != "" {
		pipe.Set(ctx, principalIndexKey(player.Principal), string(player.ID), ttl)
	}
	if player.Nickname != "" {
		pipe.Set(ctx, nicknameIndexKey(player.Nickname), string(player.ID), ttl)
	}
	if player.Session != "" {
		pipe.Set(ctx, sessionIndexKey(player.Session), string(player.ID), ttl)
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) GetPlayerByPrincipal(ctx context.Context, principal string) (*model.Player, error) {
	return s.playerForIndex(ctx, principalIndexKey(principal))
}

func (s *Storage) GetPlayerByNickname(ctx context.Context, nickname string) (*model.Player, error) {
	return s.playerForIndex(ctx, nicknameIndexKey(nickname))
}

func (s *Storage) GetPlayerBySession(ctx context.Context, token string) (*model.Player, error) {
	return s.playerForIndex(ctx, sessionIndexKey(token))
}

func (s *Storage) playerForIndex(ctx context.Context, indexKey string) (*model.Player, error) {
	id, err := s.client.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return s.GetPlayer(ctx, model.PlayerID(id))
}
