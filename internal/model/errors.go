package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Move errors
	ErrInvalidBoardIndex   = errors.New("board index must be in range [0, 8]")
	ErrInvalidCellIndex    = errors.New("cell index must be in range [0, 8]")
	ErrWrongBoard          = errors.New("move must be played in the active board")
	ErrBoardAlreadyDecided = errors.New("board has already been decided")
	ErrCellOccupied        = errors.New("cell already occupied")
	ErrGameAlreadyOver     = errors.New("game is already over")

	// Game errors
	ErrInvalidPlayer    = errors.New("player must be X or O")
	ErrGameNotFound     = errors.New("game not found")
	ErrConcurrentUpdate = errors.New("game was modified concurrently")
)

// WrongBoardError is returned when a move ignores the active board.
// It matches ErrWrongBoard with errors.Is.
type WrongBoardError struct {
	Required int
}

func (e *WrongBoardError) Error() string {
	return fmt.Sprintf("you must play in board %d", e.Required)
}

// Is reports whether target is ErrWrongBoard
func (e *WrongBoardError) Is(target error) bool {
	return target == ErrWrongBoard
}
