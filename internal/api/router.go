package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/mnkgame-go/internal/api/handler"
	"github.com/mcoot/mnkgame-go/internal/api/middleware"
	"github.com/mcoot/mnkgame-go/internal/services/cpu"
	"github.com/mcoot/mnkgame-go/internal/services/game"
	"github.com/mcoot/mnkgame-go/internal/services/registry"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Registry       *registry.Service
	GameController *game.Controller
	CPUService     *cpu.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.Registry, cfg.GameController)
	ruleSetHandler := handler.NewRuleSetHandler(cfg.GameController)
	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.CPUService)

	// Create middleware
	sessionMiddleware := middleware.Session(cfg.Registry)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Credential routes resolve identity themselves
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Player routes under session resolution
	players := api.PathPrefix("/players").Subrouter()
	players.Use(sessionMiddleware)
	players.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)
	players.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	players.HandleFunc("/me/nickname", playerHandler.Rename).Methods(http.MethodPut)
	players.HandleFunc("/{id}", playerHandler.Get).Methods(http.MethodGet)

	// Rule set routes
	ruleSets := api.PathPrefix("/rulesets").Subrouter()
	ruleSets.Use(sessionMiddleware)
	ruleSets.HandleFunc("", ruleSetHandler.Create).Methods(http.MethodPost)
	ruleSets.HandleFunc("", ruleSetHandler.List).Methods(http.MethodGet)
	ruleSets.HandleFunc("/{id}", ruleSetHandler.Get).Methods(http.MethodGet)

	// Game routes
	games := api.PathPrefix("/games").Subrouter()
	games.Use(sessionMiddleware)
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("", gameHandler.List).Methods(http.MethodGet)
	games.HandleFunc("/{id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{id}/join", gameHandler.Join).Methods(http.MethodPost)
	games.HandleFunc("/{id}/leave", gameHandler.Leave).Methods(http.MethodPost)
	games.HandleFunc("/{id}/move", gameHandler.Move).Methods(http.MethodPost)
	games.HandleFunc("/{id}/abort", gameHandler.Abort).Methods(http.MethodPost)

	// Health check endpoint (no session)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
