package game

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcoot/supertictactoe/internal/dependencies/clock"
	"github.com/mcoot/supertictactoe/internal/dependencies/random"
	"github.com/mcoot/supertictactoe/internal/model"
	"github.com/mcoot/supertictactoe/internal/services/engine"
	"github.com/mcoot/supertictactoe/internal/storage"
)

const tracerName = "github.com/mcoot/supertictactoe/internal/services/game"

// Publisher receives an event after every committed state change
type Publisher interface {
	Publish(ctx context.Context, event model.Event)
}

// NopPublisher discards every event
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.Event) {}

// Controller owns the id -> game mapping and runs moves through the engine
type Controller struct {
	storage   storage.Storage
	publisher Publisher
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	publisher Publisher,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Controller{
		storage:   storage,
		publisher: publisher,
		clock:     clock,
		random:    random,
		logger:    logger.With(slog.String("component", "game")),
		tracer:    otel.Tracer(tracerName),
	}
}

// WithTracerProvider replaces the tracer taken from the global provider
func (c *Controller) WithTracerProvider(tp trace.TracerProvider) *Controller {
	c.tracer = tp.Tracer(tracerName)
	return c
}

// CreateGame starts a new game. NoPlayer as the starting player picks X or O at random.
func (c *Controller) CreateGame(ctx context.Context, starting model.Player) (*model.Game, error) {
	ctx, span := c.tracer.Start(ctx, "game.Create")
	defer span.End()

	if starting == model.NoPlayer {
		starting = []model.Player{model.PlayerX, model.PlayerO}[c.random.Intn(2)]
	}

	id := model.GameID(c.random.UUID())
	span.SetAttributes(
		attribute.String("game.id", string(id)),
		attribute.String("game.starting_player", string(starting)),
	)

	game, err := engine.Create(id, starting, c.clock.Now())
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		recordError(span, err)
		c.logger.Error("failed to save game",
			slog.String("game_id", string(id)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(id)),
		slog.String("starting_player", string(starting)),
	)

	c.publisher.Publish(ctx, model.Event{
		Type:      model.EventGameCreated,
		Timestamp: game.CreatedAt,
		GameID:    id,
		Game:      game,
	})

	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// GetView returns a read-only snapshot of a game
func (c *Controller) GetView(ctx context.Context, gameID model.GameID) (model.GameView, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return model.GameView{}, err
	}
	return engine.Snapshot(game), nil
}

// ApplyMove plays the current player's mark at (boardIndex, cellIndex).
// Moves on the same game are serialized by the storage layer; a rejected
// move changes nothing.
func (c *Controller) ApplyMove(ctx context.Context, gameID model.GameID, boardIndex, cellIndex int) (*model.Game, error) {
	ctx, span := c.tracer.Start(ctx, "game.ApplyMove", trace.WithAttributes(
		attribute.String("game.id", string(gameID)),
		attribute.Int("game.board_index", boardIndex),
		attribute.Int("game.cell_index", cellIndex),
	))
	defer span.End()

	game, err := c.storage.UpdateGame(ctx, gameID, func(current *model.Game) (*model.Game, error) {
		return engine.ApplyMove(current, boardIndex, cellIndex, c.clock.Now())
	})
	if err != nil {
		recordError(span, err)
		c.logMoveError(gameID, boardIndex, cellIndex, err)
		return nil, err
	}

	move := game.LastMove
	span.SetAttributes(
		attribute.String("game.player", string(move.Player)),
		attribute.Int("game.move_count", game.MoveCount),
	)
	c.logger.Info("move applied",
		slog.String("game_id", string(gameID)),
		slog.String("player", string(move.Player)),
		slog.Int("board_index", boardIndex),
		slog.Int("cell_index", cellIndex),
		slog.Int("move_count", game.MoveCount),
	)

	c.publisher.Publish(ctx, model.Event{
		Type:      model.EventMoveApplied,
		Timestamp: game.UpdatedAt,
		GameID:    gameID,
		Game:      game,
	})

	// Terminal games reject every further move, so this fires once per game
	if game.IsOver() {
		outcome := engine.Outcome(game)
		span.SetAttributes(attribute.String("game.outcome", outcome))
		c.logger.Info("game over",
			slog.String("game_id", string(gameID)),
			slog.String("outcome", outcome),
			slog.Int("move_count", game.MoveCount),
		)
		c.publisher.Publish(ctx, model.Event{
			Type:      model.EventGameOver,
			Timestamp: game.UpdatedAt,
			GameID:    gameID,
			Game:      game,
			Outcome:   outcome,
		})
	}

	return game, nil
}

func (c *Controller) logMoveError(gameID model.GameID, boardIndex, cellIndex int, err error) {
	attrs := []any{
		slog.String("game_id", string(gameID)),
		slog.Int("board_index", boardIndex),
		slog.Int("cell_index", cellIndex),
		slog.String("error", err.Error()),
	}
	switch {
	case IsRuleViolation(err), errors.Is(err, model.ErrGameNotFound):
		c.logger.Info("move rejected", attrs...)
	case errors.Is(err, model.ErrConcurrentUpdate):
		c.logger.Warn("move lost a concurrent update race", attrs...)
	default:
		c.logger.Error("failed to apply move", attrs...)
	}
}

// IsRuleViolation returns true for errors caused by an illegal move rather
// than a storage or infrastructure failure
func IsRuleViolation(err error) bool {
	for _, target := range []error{
		model.ErrGameAlreadyOver,
		model.ErrInvalidBoardIndex,
		model.ErrInvalidCellIndex,
		model.ErrWrongBoard,
		model.ErrBoardAlreadyDecided,
		model.ErrCellOccupied,
		model.ErrInvalidPlayer,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// GetHistory returns every state of a game since creation, oldest first
func (c *Controller) GetHistory(ctx context.Context, gameID model.GameID) ([]*model.Game, error) {
	return c.storage.GetHistory(ctx, gameID)
}

// GetLegalMoves returns the player to move and every move they may make.
// A finished game has no player to move and no legal moves.
func (c *Controller) GetLegalMoves(ctx context.Context, gameID model.GameID) (model.Player, []model.Move, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return model.NoPlayer, nil, err
	}
	if game.IsOver() {
		return model.NoPlayer, []model.Move{}, nil
	}
	return game.CurrentPlayer, engine.LegalMoves(game), nil
}

// DeleteGame removes a game and its history and disconnects its watchers
func (c *Controller) DeleteGame(ctx context.Context, gameID model.GameID) error {
	ctx, span := c.tracer.Start(ctx, "game.Delete", trace.WithAttributes(
		attribute.String("game.id", string(gameID)),
	))
	defer span.End()

	if err := c.storage.DeleteGame(ctx, gameID); err != nil {
		recordError(span, err)
		return err
	}

	c.logger.Info("game deleted", slog.String("game_id", string(gameID)))

	c.publisher.Publish(ctx, model.Event{
		Type:      model.EventGameDeleted,
		Timestamp: c.clock.Now(),
		GameID:    gameID,
	})
	return nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, starting model.Player) (*model.Game, error)
	GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	GetView(ctx context.Context, gameID model.GameID) (model.GameView, error)
	ApplyMove(ctx context.Context, gameID model.GameID, boardIndex, cellIndex int) (*model.Game, error)
	GetHistory(ctx context.Context, gameID model.GameID) ([]*model.Game, error)
	GetLegalMoves(ctx context.Context, gameID model.GameID) (model.Player, []model.Move, error)
	DeleteGame(ctx context.Context, gameID model.GameID) error
}

var _ ControllerInterface = (*Controller)(nil)
