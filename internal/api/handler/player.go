package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/mnkgame-go/internal/api/middleware"
	"github.com/mcoot/mnkgame-go/internal/api/request"
	"github.com/mcoot/mnkgame-go/internal/api/response"
	"github.com/mcoot/mnkgame-go/internal/model"
	"github.com/mcoot/mnkgame-go/internal/services/game"
	"github.com/mcoot/mnkgame-go/internal/services/registry"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	registry *registry.Service
	games    *game.Controller
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(reg *registry.Service, games *game.Controller) *PlayerHandler {
	return &PlayerHandler{
		registry: reg,
		games:    games,
	}
}

// Register handles POST /api/v1/players/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Nickname == "" {
		WriteError(w, NewInvalidRequestError("nickname is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	player, session, err := h.registry.Register(r.Context(), req.Nickname, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	middleware.SetSessionCookie(w, session)
	response.JSON(w, http.StatusCreated, response.PlayerFromModel(player))
}

// Login handles POST /api/v1/players/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Nickname == "" {
		WriteError(w, NewInvalidRequestError("nickname is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	player, session, err := h.registry.Login(r.Context(), req.Nickname, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	middleware.SetSessionCookie(w, session)
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Logout handles POST /api/v1/players/logout
func (h *PlayerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if err := h.registry.EndSession(r.Context(), player.ID); err != nil {
		WriteError(w, err)
		return
	}

	middleware.ClearSessionCookie(w)
	response.NoContent(w)
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Rename handles PUT /api/v1/players/me/nickname
func (h *PlayerHandler) Rename(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Nickname == "" {
		WriteError(w, NewInvalidRequestError("nickname is required"))
		return
	}

	updated, err := h.registry.Rename(r.Context(), player.ID, req.Nickname)
	if err != nil {
		WriteError(w, err)
		return
	}

	// Display name caches on active games are denormalized state; a
	// failed refresh does not fail the rename
	_ = h.games.RefreshPlayerNames(r.Context(), updated.ID)

	response.JSON(w, http.StatusOK, response.PlayerFromModel(updated))
}

// Get handles GET /api/v1/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	player, err := h.registry.GetPlayer(r.Context(), model.PlayerID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}
