package storage

import (
	"context"

	"github.com/mcoot/supertictactoe/internal/model"
)

// UpdateFunc derives the next state of a game from its current state.
// Returning an error aborts the update and leaves the stored game untouched.
type UpdateFunc func(current *model.Game) (*model.Game, error)

// Storage defines the interface for data persistence
type Storage interface {
	// SaveGame stores a new game and starts its history with that state
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)

	// UpdateGame applies fn to the stored game, serialized per game id, and
	// appends the result to the game's history
	UpdateGame(ctx context.Context, id model.GameID, fn UpdateFunc) (*model.Game, error)

	// GetHistory returns every stored state of a game, oldest first
	GetHistory(ctx context.Context, id model.GameID) ([]*model.Game, error)

	// DeleteGame removes a game and its history
	DeleteGame(ctx context.Context, id model.GameID) error
}
