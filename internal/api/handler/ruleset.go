package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/mnkgame-go/internal/api/request"
	"github.com/mcoot/mnkgame-go/internal/api/response"
	"github.com/mcoot/mnkgame-go/internal/model"
	"github.com/mcoot/mnkgame-go/internal/services/game"
)

// RuleSetHandler handles rule set endpoints
type RuleSetHandler struct {
	controller *game.Controller
}

// NewRuleSetHandler creates a new rule set handler
func NewRuleSetHandler(controller *game.Controller) *RuleSetHandler {
	return &RuleSetHandler{
		controller: controller,
	}
}

// Create handles POST /api/v1/rulesets
func (h *RuleSetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRuleSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	rs, err := h.controller.CreateRuleSet(r.Context(), model.RuleSet{
		Name:       req.Name,
		NumPlayers: req.NumPlayers,
		M:          req.M,
		N:          req.N,
		K:          req.K,
		P:          req.P,
		Q:          req.Q,
		TurnPolicy: model.TurnPolicy(req.TurnPolicy),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RuleSetFromModel(rs))
}

// List handles GET /api/v1/rulesets
func (h *RuleSetHandler) List(w http.ResponseWriter, r *http.Request) {
	ruleSets, err := h.controller.ListRuleSets(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RuleSetListFromModel(ruleSets))
}

// Get handles GET /api/v1/rulesets/{id}
func (h *RuleSetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rs, err := h.controller.GetRuleSet(r.Context(), model.RuleSetID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RuleSetFromModel(rs))
}
