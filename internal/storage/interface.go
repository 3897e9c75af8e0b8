package storage

import (
	"context"

	"github.com/mcoot/mnkgame-go/internal/model"
)

// Storage defines the interface for data persistence.
//
// Implementations must apply each Save atomically per record and
// SavePlayers atomically across the whole batch; terminal stat updates
// rely on that to avoid partially credited results. Serialization of
// whole read-modify-write operations is the caller's concern.
type Storage interface {
	// Rule set operations
	SaveRuleSet(ctx context.Context, rs *model.RuleSet) error
	GetRuleSet(ctx context.Context, id model.RuleSetID) (*model.RuleSet, error)
	ListRuleSets(ctx context.Context) ([]*model.RuleSet, error)

	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error
	ListGamesByState(ctx context.Context, state model.GameState) ([]*model.Game, error)
	ListGamesForPlayer(ctx context.Context, id model.PlayerID) ([]*model.Game, error)

	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	SavePlayers(ctx context.Context, players []*model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByPrincipal(ctx context.Context, principal string) (*model.Player, error)
	GetPlayerByNickname(ctx context.Context, nickname string) (*model.Player, error)
	GetPlayerBySession(ctx context.Context, token string) (*model.Player, error)
}
