// Package cpu drives the designated automated player identity. The
// game state machine knows nothing about move selection; this service
// is the single point where external decision logic enters the core.
package cpu

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mcoot/mnkgame-go/internal/dependencies/clock"
	"github.com/mcoot/mnkgame-go/internal/model"
	"github.com/mcoot/mnkgame-go/internal/services/game"
	"github.com/mcoot/mnkgame-go/internal/services/registry"
	"github.com/mcoot/mnkgame-go/internal/storage"
)

// maxMovesPerCall bounds the PlayPendingMoves loop
const maxMovesPerCall = 1000

// Service plays moves for the automated player identity
type Service struct {
	storage    storage.Storage
	controller *game.Controller
	strategy   Strategy
	clock      clock.Clock
	logger     *slog.Logger
}

// NewService creates a new cpu Service
func NewService(
	store storage.Storage,
	controller *game.Controller,
	strategy Strategy,
	clk clock.Clock,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:    store,
		controller: controller,
		strategy:   strategy,
		clock:      clk,
		logger:     logger.With(slog.String("component", "cpu")),
	}
}

// EnsurePlayer finds or creates the designated automated player
// identity
func (s *Service) EnsurePlayer(ctx context.Context) (*model.Player, error) {
	player, err := s.storage.GetPlayerByNickname(ctx, registry.NicknameAutomated)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	player = &model.Player{
		ID:        model.PlayerID("p-" + uuid.NewString()),
		Kind:      model.IdentityAutomated,
		Nickname:  registry.NicknameAutomated,
		CreatedAt: s.clock.Now(),
		UpdatedAt: s.clock.Now(),
	}
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("automated player created", slog.String("player_id", string(player.ID)))
	return player, nil
}

// PlayPendingMoves makes moves for the automated player while the game
// is in play and the active seat holds the automated identity. It
// stops as soon as a human seat is up or the game terminates.
func (s *Service) PlayPendingMoves(ctx context.Context, gameID model.GameID) error {
	for range maxMovesPerCall {
		g, err := s.controller.GetGame(ctx, gameID)
		if err != nil {
			return err
		}
		if g.State != model.GameStatePlaying {
			return nil
		}

		seat := g.CurrentPlayer
		playerID := g.Players[seat-1]
		player, err := s.storage.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if !player.IsAutomated() {
			return nil
		}

		rs, err := s.controller.GetRuleSet(ctx, g.RuleSetID)
		if err != nil {
			return err
		}
		board, err := g.Board(rs)
		if err != nil {
			return err
		}

		x, y, err := s.strategy.ChooseMove(rs, board, seat)
		if err != nil {
			return err
		}

		if _, err := s.controller.Move(ctx, gameID, playerID, x, y); err != nil {
			return err
		}
	}
	return nil
}
