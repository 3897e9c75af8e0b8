package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mcoot/mnkgame-go/internal/dependencies/clock"
	"github.com/mcoot/mnkgame-go/internal/dependencies/random"
	"github.com/mcoot/mnkgame-go/internal/model"
	"github.com/mcoot/mnkgame-go/internal/services/registry"
	"github.com/mcoot/mnkgame-go/internal/services/rules"
	"github.com/mcoot/mnkgame-go/internal/storage"
)

// Controller manages the game session state machine: admission, turn
// management, move application and termination detection.
//
// Every mutating operation takes the per-game lock before reading
// state and releases it after the single persist call, so at most one
// mutation commits per game at a time. Rule set game counters use a
// separate, smaller lock scope shared by all games under one rule set.
type Controller struct {
	storage  storage.Storage
	registry *registry.Service
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger

	gameLocks    *keyedMutex
	ruleSetLocks *keyedMutex
}

// NewController creates a new game Controller
func NewController(
	store storage.Storage,
	reg *registry.Service,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:      store,
		registry:     reg,
		clock:        clk,
		random:       rnd,
		logger:       logger.With(slog.String("component", "game-controller")),
		gameLocks:    newKeyedMutex(),
		ruleSetLocks: newKeyedMutex(),
	}
}

// CreateRuleSet validates and stores a new game variant configuration.
// Rule sets are immutable once created; only their completed-game
// counter changes.
func (c *Controller) CreateRuleSet(ctx context.Context, rs model.RuleSet) (*model.RuleSet, error) {
	if rs.TurnPolicy == "" {
		rs.TurnPolicy = model.TurnPolicyRoundRobin
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}

	rs.ID = model.RuleSetID("rs-" + uuid.NewString())
	rs.NumGames = 0
	rs.CreatedAt = c.clock.Now()

	if err := c.storage.SaveRuleSet(ctx, &rs); err != nil {
		return nil, err
	}

	c.logger.Info("rule set created",
		slog.String("ruleset_id", string(rs.ID)),
		slog.String("name", rs.Name),
		slog.Int("m", rs.M), slog.Int("n", rs.N), slog.Int("k", rs.K),
	)
	return &rs, nil
}

// GetRuleSet retrieves a rule set by ID
func (c *Controller) GetRuleSet(ctx context.Context, id model.RuleSetID) (*model.RuleSet, error) {
	return c.storage.GetRuleSet(ctx, id)
}

// ListRuleSets returns all known rule sets
func (c *Controller) ListRuleSets(ctx context.Context) ([]*model.RuleSet, error) {
	return c.storage.ListRuleSets(ctx)
}

// CreateGame starts a new waiting game under the given rule set
func (c *Controller) CreateGame(ctx context.Context, ruleSetID model.RuleSetID) (*model.Game, error) {
	rs, err := c.storage.GetRuleSet(ctx, ruleSetID)
	if err != nil {
		return nil, err
	}

	game := model.NewGame(model.GameID("g-"+uuid.NewString()), rs, c.clock.Now())
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("ruleset_id", string(rs.ID)),
	)
	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, id)
}

// ListOpenGames returns games still waiting for players
func (c *Controller) ListOpenGames(ctx context.Context) ([]*model.Game, error) {
	return c.storage.ListGamesByState(ctx, model.GameStateWaiting)
}

// ListGamesByState returns every game in the given state
func (c *Controller) ListGamesByState(ctx context.Context, state model.GameState) ([]*model.Game, error) {
	return c.storage.ListGamesByState(ctx, state)
}

// ListGamesForPlayer returns every game a player is seated in
func (c *Controller) ListGamesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Game, error) {
	return c.storage.ListGamesForPlayer(ctx, playerID)
}

// AddPlayer admits a player to a waiting game. When the admitted
// player fills the roster, the seating order is shuffled uniformly and
// the game starts.
func (c *Controller) AddPlayer(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	unlock := c.gameLocks.Lock(string(gameID))
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	rs, err := c.storage.GetRuleSet(ctx, game.RuleSetID)
	if err != nil {
		return nil, err
	}

	if game.HasPlayer(playerID) {
		return nil, fmt.Errorf("%w: player is already in game", model.ErrJoin)
	}
	if len(game.Players) >= rs.NumPlayers {
		return nil, fmt.Errorf("%w: game is full", model.ErrJoin)
	}
	if game.State != model.GameStateWaiting {
		return nil, fmt.Errorf("%w: game is not accepting new players", model.ErrJoin)
	}

	game.Players = append(game.Players, playerID)

	// Start the game when the roster is full. The shuffle is the sole
	// source of turn-order fairness; the resulting order is the
	// canonical seat assignment for the whole game.
	if len(game.Players) == rs.NumPlayers {
		c.random.Shuffle(len(game.Players), func(i, j int) {
			game.Players[i], game.Players[j] = game.Players[j], game.Players[i]
		})
		game.State = model.GameStatePlaying
		game.Turn = 0
		game.CurrentPlayer = rules.WhoseTurn(rs, 0)

		c.logger.Info("game started",
			slog.String("game_id", string(game.ID)),
			slog.Int("players", len(game.Players)),
		)
	}

	if err := c.registry.SyncGameNames(ctx, game); err != nil {
		return nil, err
	}

	return game, c.persist(ctx, game)
}

// Move applies one move for the given player at (x, y), then evaluates
// termination: win first, then draw, then advance the turn. Exactly
// one game persist happens per successful move, after all mutations
// are computed.
func (c *Controller) Move(ctx context.Context, gameID model.GameID, playerID model.PlayerID, x, y int) (*model.Game, error) {
	unlock := c.gameLocks.Lock(string(gameID))
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	rs, err := c.storage.GetRuleSet(ctx, game.RuleSetID)
	if err != nil {
		return nil, err
	}

	seat := game.SeatOf(playerID)
	if seat == 0 {
		return nil, fmt.Errorf("%w: player not in game", model.ErrMove)
	}
	if game.State != model.GameStatePlaying {
		return nil, fmt.Errorf("%w: game not in play", model.ErrMove)
	}
	if seat != game.CurrentPlayer {
		return nil, fmt.Errorf("%w: not player's turn", model.ErrMove)
	}

	board, err := game.Board(rs)
	if err != nil {
		return nil, err
	}
	if !board.InBounds(x, y) || board.Get(x, y) != 0 {
		return nil, fmt.Errorf("%w: invalid tile position", model.ErrMove)
	}

	board.Set(x, y, seat)
	game.MarkDirty()
	game.Turn++

	switch {
	case rules.IsWin(rs, board, seat, x, y):
		game.State = model.GameStateWin
		if err := c.registry.RecordWin(ctx, playerID, game.Players); err != nil {
			return nil, err
		}
		if err := c.recordCompletedGame(ctx, rs.ID); err != nil {
			return nil, err
		}
		c.logger.Info("game won",
			slog.String("game_id", string(game.ID)),
			slog.String("player_id", string(playerID)),
			slog.Int("seat", seat),
			slog.Int("turns", game.Turn),
		)
	case board.IsFull():
		game.State = model.GameStateDraw
		if err := c.registry.RecordDraw(ctx, game.Players); err != nil {
			return nil, err
		}
		if err := c.recordCompletedGame(ctx, rs.ID); err != nil {
			return nil, err
		}
		c.logger.Info("game drawn", slog.String("game_id", string(game.ID)))
	default:
		game.CurrentPlayer = rules.WhoseTurn(rs, game.Turn)
	}

	return game, c.persist(ctx, game)
}

// Abort cancels a game. A waiting game is removed entirely; a playing
// game becomes aborted and unplayable. Completed games cannot be
// aborted.
func (c *Controller) Abort(ctx context.Context, gameID model.GameID) error {
	unlock := c.gameLocks.Lock(string(gameID))
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	return c.abortLocked(ctx, game)
}

// abortLocked implements Abort; callers hold the game lock
func (c *Controller) abortLocked(ctx context.Context, game *model.Game) error {
	switch game.State {
	case model.GameStateWaiting:
		return c.storage.DeleteGame(ctx, game.ID)
	case model.GameStatePlaying:
		game.State = model.GameStateAborted
		game.Turn = -1
		c.logger.Info("game aborted", slog.String("game_id", string(game.ID)))
		return c.persist(ctx, game)
	default:
		return fmt.Errorf("%w: game has already been completed", model.ErrAbort)
	}
}

// RemovePlayer removes a player from a waiting game, deleting the game
// when no non-automated players remain. A player cannot leave a game
// in play; instead the game is aborted and becomes unplayable.
func (c *Controller) RemovePlayer(ctx context.Context, gameID model.GameID, playerID model.PlayerID) error {
	unlock := c.gameLocks.Lock(string(gameID))
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return err
	}

	if !game.HasPlayer(playerID) {
		return fmt.Errorf("%w: player is not in game", model.ErrLeave)
	}

	switch game.State {
	case model.GameStateWaiting:
		seat := game.SeatOf(playerID)
		game.Players = append(game.Players[:seat-1], game.Players[seat:]...)

		humans, err := c.countHumans(ctx, game.Players)
		if err != nil {
			return err
		}
		if humans == 0 {
			return c.storage.DeleteGame(ctx, game.ID)
		}

		if err := c.registry.SyncGameNames(ctx, game); err != nil {
			return err
		}
		return c.persist(ctx, game)
	case model.GameStatePlaying:
		return c.abortLocked(ctx, game)
	default:
		return fmt.Errorf("%w: game has already been completed", model.ErrLeave)
	}
}

// RefreshPlayerNames rewrites the cached display names on every active
// game the player occupies, for example after a rename. Each game is
// re-read and persisted under its own lock, so a move committing
// between the listing and the write is never overwritten; only the
// PlayerNames cache changes. Per-game failures are logged and skipped.
func (c *Controller) RefreshPlayerNames(ctx context.Context, playerID model.PlayerID) error {
	games, err := c.storage.ListGamesForPlayer(ctx, playerID)
	if err != nil {
		return err
	}

	for _, listed := range games {
		if listed.State.Terminal() {
			continue
		}
		if err := c.refreshGameNames(ctx, listed.ID, playerID); err != nil {
			c.logger.Warn("could not refresh game names",
				slog.String("game_id", string(listed.ID)),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// refreshGameNames re-reads one game under its lock and rewrites its
// display name cache. The listed snapshot is discarded; only current
// state is written back.
func (c *Controller) refreshGameNames(ctx context.Context, gameID model.GameID, playerID model.PlayerID) error {
	unlock := c.gameLocks.Lock(string(gameID))
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, model.ErrGameNotFound) {
			return nil
		}
		return err
	}
	if game.State.Terminal() || !game.HasPlayer(playerID) {
		return nil
	}

	if err := c.registry.SyncGameNames(ctx, game); err != nil {
		return err
	}
	return c.persist(ctx, game)
}

// countHumans counts the non-automated players among the given IDs
func (c *Controller) countHumans(ctx context.Context, ids []model.PlayerID) (int, error) {
	players, err := c.registry.Players(ctx, ids)
	if err != nil {
		return 0, err
	}
	humans := 0
	for _, p := range players {
		if !p.IsAutomated() {
			humans++
		}
	}
	return humans, nil
}

// recordCompletedGame increments the rule set's completed-game counter.
// The counter is re-read under the per-ruleset lock so terminations of
// sibling games under the same rule set serialize, and each
// termination counts exactly once because the terminal transition
// itself is serialized under the game lock.
func (c *Controller) recordCompletedGame(ctx context.Context, id model.RuleSetID) error {
	unlock := c.ruleSetLocks.Lock(string(id))
	defer unlock()

	rs, err := c.storage.GetRuleSet(ctx, id)
	if err != nil {
		return err
	}
	rs.NumGames++
	return c.storage.SaveRuleSet(ctx, rs)
}

// persist re-encodes the board and writes the game once
func (c *Controller) persist(ctx context.Context, game *model.Game) error {
	game.LastUpdate = c.clock.Now()
	game.PackBoard()
	return c.storage.SaveGame(ctx, game)
}
