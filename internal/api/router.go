package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"

	"github.com/mcoot/supertictactoe/internal/api/handler"
	"github.com/mcoot/supertictactoe/internal/api/middleware"
	"github.com/mcoot/supertictactoe/internal/api/response"
	commonmw "github.com/mcoot/supertictactoe/internal/middleware"
	"github.com/mcoot/supertictactoe/internal/services/game"
	"github.com/mcoot/supertictactoe/internal/stream"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger                *slog.Logger
	GameController        game.ControllerInterface
	HubManager            *stream.HubManager
	DefaultStartingPlayer string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.HubManager, cfg.DefaultStartingPlayer, cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	// Recovery runs innermost so a panic is logged and traced as a 500
	api.Use(commonmw.Tracing(otel.GetTracerProvider(), otel.GetTextMapPropagator()))
	api.Use(commonmw.Logging(cfg.Logger))
	api.Use(middleware.Recovery(cfg.Logger))

	// Game routes
	games := api.PathPrefix("/games").Subrouter()
	games.HandleFunc("/new", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{id}", gameHandler.Delete).Methods(http.MethodDelete)
	games.HandleFunc("/{id}/move", gameHandler.Move).Methods(http.MethodPost)
	games.HandleFunc("/{id}/history", gameHandler.History).Methods(http.MethodGet)
	games.HandleFunc("/{id}/moves", gameHandler.Moves).Methods(http.MethodGet)

	// Watch routes
	games.HandleFunc("/{id}/ws", gameHandler.Watch).Methods(http.MethodGet)
	games.HandleFunc("/{id}/events", gameHandler.Events).Methods(http.MethodGet)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
