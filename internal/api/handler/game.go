package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/supertictactoe/internal/api/request"
	"github.com/mcoot/supertictactoe/internal/api/response"
	"github.com/mcoot/supertictactoe/internal/model"
	"github.com/mcoot/supertictactoe/internal/services/engine"
	"github.com/mcoot/supertictactoe/internal/services/game"
	"github.com/mcoot/supertictactoe/internal/stream"
)

// StartingPlayerRandom asks the server to pick the starting player
const StartingPlayerRandom = "random"

// GameHandler handles game-related endpoints
type GameHandler struct {
	gameController  game.ControllerInterface
	hubManager      *stream.HubManager
	defaultStarting string
	logger          *slog.Logger
}

// NewGameHandler creates a new game handler. defaultStarting is used when a
// create request names no starting player ("X", "O" or "random").
func NewGameHandler(
	gameController game.ControllerInterface,
	hubManager *stream.HubManager,
	defaultStarting string,
	logger *slog.Logger,
) *GameHandler {
	if defaultStarting == "" {
		defaultStarting = string(model.PlayerX)
	}
	return &GameHandler{
		gameController:  gameController,
		hubManager:      hubManager,
		defaultStarting: defaultStarting,
		logger:          logger,
	}
}

// Create handles POST /api/v1/games/new
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	// An empty body is allowed and means defaults
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	choice := h.defaultStarting
	if req.StartingPlayer != nil {
		choice = *req.StartingPlayer
	}

	starting, err := parseStartingPlayer(choice)
	if err != nil {
		WriteError(w, err)
		return
	}

	g, err := h.gameController.CreateGame(r.Context(), starting)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromView(engine.Snapshot(g)))
}

func parseStartingPlayer(choice string) (model.Player, error) {
	if choice == StartingPlayerRandom {
		return model.NoPlayer, nil
	}
	return model.ParsePlayer(choice)
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.gameController.GetView(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameFromView(view))
}

// Move handles POST /api/v1/games/{id}/move
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req request.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.BoardIndex == nil || req.CellIndex == nil {
		WriteError(w, NewInvalidRequestError("board_index and cell_index are required"))
		return
	}

	g, err := h.gameController.ApplyMove(r.Context(), gameID(r), *req.BoardIndex, *req.CellIndex)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromView(engine.Snapshot(g)))
}

// History handles GET /api/v1/games/{id}/history
func (h *GameHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.gameController.GetHistory(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	views := make([]model.GameView, len(history))
	for i, state := range history {
		views[i] = engine.Snapshot(state)
	}
	response.JSON(w, http.StatusOK, response.HistoryFromModel(views))
}

// Moves handles GET /api/v1/games/{id}/moves
func (h *GameHandler) Moves(w http.ResponseWriter, r *http.Request) {
	player, moves, err := h.gameController.GetLegalMoves(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MovesFromModel(player, moves))
}

// Delete handles DELETE /api/v1/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.gameController.DeleteGame(r.Context(), gameID(r)); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Watch handles GET /api/v1/games/{id}/ws
func (h *GameHandler) Watch(w http.ResponseWriter, r *http.Request) {
	client, initial, ok := h.subscribe(w, r)
	if !ok {
		return
	}
	defer client.Close()
	stream.ServeWebSocket(w, r, client, initial, h.logger)
}

// Events handles GET /api/v1/games/{id}/events
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	client, initial, ok := h.subscribe(w, r)
	if !ok {
		return
	}
	defer client.Close()
	stream.ServeSSE(w, r, client, initial)
}

// subscribe joins the game's stream and only then reads the game, so a move
// committed in between is queued for the client rather than lost
func (h *GameHandler) subscribe(w http.ResponseWriter, r *http.Request) (*stream.Client, stream.Message, bool) {
	id := gameID(r)
	client := h.hubManager.Subscribe(id, r.RemoteAddr)
	g, err := h.gameController.GetGame(r.Context(), id)
	if err != nil {
		client.Close()
		WriteError(w, err)
		return nil, stream.Message{}, false
	}
	return client, initialMessage(g), true
}

// initialMessage is what a new watcher sees first: the final result for a
// finished game, otherwise the current state
func initialMessage(g *model.Game) stream.Message {
	if g.IsOver() {
		return stream.GameOverMessage(g)
	}
	return stream.StateMessage(g)
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}
