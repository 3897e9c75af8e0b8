package redis

import (
	"fmt"

	"github.com/mcoot/mnkgame-go/internal/model"
)

// Key prefix for all engine data
const keyPrefix = "mnkgame"

// Key generation functions for each entity type

// ruleSetKey returns the Redis key for a RuleSet
func ruleSetKey(id model.RuleSetID) string {
	return fmt.Sprintf("%s:ruleset:%s", keyPrefix, id)
}

// ruleSetIndexKey returns the Redis key for the SET of all rule set keys
func ruleSetIndexKey() string {
	return fmt.Sprintf("%s:idx:rulesets", keyPrefix)
}

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gameIndexKey returns the Redis key for the SET of all game keys
func gameIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}

// gamesForPlayerIndexKey returns the Redis key for the SET of game keys
// a player occupies
func gamesForPlayerIndexKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:idx:games_for_player:%s", keyPrefix, id)
}

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// principalIndexKey returns the Redis key for the principal -> player_id index
func principalIndexKey(principal string) string {
	return fmt.Sprintf("%s:idx:principal:%s", keyPrefix, principal)
}

// nicknameIndexKey returns the Redis key for the nickname -> player_id index
func nicknameIndexKey(nickname string) string {
	return fmt.Sprintf("%s:idx:nickname:%s", keyPrefix, nickname)
}

// sessionIndexKey returns the Redis key for the session token -> player_id index
func sessionIndexKey(token string) string {
	return fmt.Sprintf("%s:idx:session:%s", keyPrefix, token)
}
