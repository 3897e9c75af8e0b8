package response

import (
	"time"

	"github.com/mcoot/mnkgame-go/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Nickname string `json:"nickname"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Draws    int    `json:"draws"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:       string(p.ID),
		Kind:     string(p.Kind),
		Nickname: p.Nickname,
		Wins:     p.Wins,
		Losses:   p.Losses,
		Draws:    p.Draws,
	}
}

// RuleSet represents a rule set in API responses
type RuleSet struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	NumPlayers int    `json:"num_players"`
	NumGames   int    `json:"num_games"`
	M          int    `json:"m"`
	N          int    `json:"n"`
	K          int    `json:"k"`
	P          int    `json:"p"`
	Q          int    `json:"q"`
	TurnPolicy string `json:"turn_policy"`
}

// RuleSetFromModel converts a model.RuleSet to a response RuleSet
func RuleSetFromModel(rs *model.RuleSet) RuleSet {
	return RuleSet{
		ID:         string(rs.ID),
		Name:       rs.Name,
		NumPlayers: rs.NumPlayers,
		NumGames:   rs.NumGames,
		M:          rs.M,
		N:          rs.N,
		K:          rs.K,
		P:          rs.P,
		Q:          rs.Q,
		TurnPolicy: string(rs.TurnPolicy),
	}
}

// Game represents a game in API responses. Board rows use the digit
// encoding, one string per column of cells.
type Game struct {
	ID            string    `json:"id"`
	State         string    `json:"state"`
	RuleSetID     string    `json:"rule_set_id"`
	Players       []string  `json:"players"`
	PlayerNames   []string  `json:"player_names"`
	CurrentPlayer int       `json:"current_player"`
	Turn          int       `json:"turn"`
	Board         []string  `json:"board"`
	Added         time.Time `json:"added"`
	LastUpdate    time.Time `json:"last_update"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	players := make([]string, len(g.Players))
	for i, p := range g.Players {
		players[i] = string(p)
	}
	return Game{
		ID:            string(g.ID),
		State:         string(g.State),
		RuleSetID:     string(g.RuleSetID),
		Players:       players,
		PlayerNames:   g.PlayerNames,
		CurrentPlayer: g.CurrentPlayer,
		Turn:          g.Turn,
		Board:         g.Rows,
		Added:         g.Added,
		LastUpdate:    g.LastUpdate,
	}
}

// GameList is the response for game listing endpoints
type GameList struct {
	Games []Game `json:"games"`
}

// GameListFromModel converts a slice of games
func GameListFromModel(games []*model.Game) GameList {
	out := make([]Game, len(games))
	for i, g := range games {
		out[i] = GameFromModel(g)
	}
	return GameList{Games: out}
}

// RuleSetList is the response for rule set listing
type RuleSetList struct {
	RuleSets []RuleSet `json:"rule_sets"`
}

// RuleSetListFromModel converts a slice of rule sets
func RuleSetListFromModel(ruleSets []*model.RuleSet) RuleSetList {
	out := make([]RuleSet, len(ruleSets))
	for i, rs := range ruleSets {
		out[i] = RuleSetFromModel(rs)
	}
	return RuleSetList{RuleSets: out}
}
