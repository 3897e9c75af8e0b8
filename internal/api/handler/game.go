package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/mnkgame-go/internal/api/middleware"
	"github.com/mcoot/mnkgame-go/internal/api/request"
	"github.com/mcoot/mnkgame-go/internal/api/response"
	"github.com/mcoot/mnkgame-go/internal/model"
	"github.com/mcoot/mnkgame-go/internal/services/cpu"
	"github.com/mcoot/mnkgame-go/internal/services/game"
)

// GameHandler handles game endpoints
type GameHandler struct {
	controller *game.Controller
	cpuService *cpu.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(controller *game.Controller, cpuService *cpu.Service) *GameHandler {
	return &GameHandler{
		controller: controller,
		cpuService: cpuService,
	}
}

// Create handles POST /api/v1/games
// The creator takes the first seat. With with_cpu set, the automated
// opponent is seated immediately after.
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.RuleSetID == "" {
		WriteError(w, NewInvalidRequestError("rule_set_id is required"))
		return
	}

	g, err := h.controller.CreateGame(r.Context(), model.RuleSetID(req.RuleSetID))
	if err != nil {
		WriteError(w, err)
		return
	}

	g, err = h.controller.AddPlayer(r.Context(), g.ID, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	if req.WithCPU {
		cpuPlayer, err := h.cpuService.EnsurePlayer(r.Context())
		if err != nil {
			WriteError(w, err)
			return
		}
		g, err = h.controller.AddPlayer(r.Context(), g.ID, cpuPlayer.ID)
		if err != nil {
			WriteError(w, err)
			return
		}
		g, err = h.playCPUMoves(r, g)
		if err != nil {
			WriteError(w, err)
			return
		}
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(g))
}

// List handles GET /api/v1/games
// Lists open games by default; ?state= selects another phase and
// ?mine=true restricts to the caller's games.
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if r.URL.Query().Get("mine") == "true" {
		games, err := h.controller.ListGamesForPlayer(r.Context(), player.ID)
		if err != nil {
			WriteError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, response.GameListFromModel(games))
		return
	}

	state := model.GameStateWaiting
	if raw := r.URL.Query().Get("state"); raw != "" {
		switch model.GameState(raw) {
		case model.GameStateWaiting, model.GameStatePlaying,
			model.GameStateWin, model.GameStateDraw, model.GameStateAborted:
			state = model.GameState(raw)
		default:
			WriteError(w, NewInvalidRequestError("unknown game state"))
			return
		}
	}

	games, err := h.controller.ListGamesByState(r.Context(), state)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameListFromModel(games))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	g, err := h.controller.GetGame(r.Context(), model.GameID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Join handles POST /api/v1/games/{id}/join
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.GameID(mux.Vars(r)["id"])

	g, err := h.controller.AddPlayer(r.Context(), id, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	g, err = h.playCPUMoves(r, g)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Leave handles POST /api/v1/games/{id}/leave
func (h *GameHandler) Leave(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.GameID(mux.Vars(r)["id"])

	if err := h.controller.RemovePlayer(r.Context(), id, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Move handles POST /api/v1/games/{id}/move
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.GameID(mux.Vars(r)["id"])

	var req request.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	g, err := h.controller.Move(r.Context(), id, player.ID, req.X, req.Y)
	if err != nil {
		WriteError(w, err)
		return
	}

	g, err = h.playCPUMoves(r, g)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Abort handles POST /api/v1/games/{id}/abort
func (h *GameHandler) Abort(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.GameID(mux.Vars(r)["id"])

	g, err := h.controller.GetGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	if !g.HasPlayer(player.ID) {
		WriteError(w, NewUnauthorizedError())
		return
	}

	if err := h.controller.Abort(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// playCPUMoves lets the automated opponent catch up after a human
// action and returns the refreshed game
func (h *GameHandler) playCPUMoves(r *http.Request, g *model.Game) (*model.Game, error) {
	if g.State != model.GameStatePlaying {
		return g, nil
	}
	if err := h.cpuService.PlayPendingMoves(r.Context(), g.ID); err != nil {
		return nil, err
	}
	return h.controller.GetGame(r.Context(), g.ID)
}
