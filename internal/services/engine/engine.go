// Package engine implements the Super Tic-Tac-Toe rules as pure state transitions.
//
// Functions never mutate their input game: ApplyMove returns a new state on
// success and nil on rejection, so a rejected move cannot leave partial updates.
package engine

import (
	"time"

	"github.com/mcoot/supertictactoe/internal/model"
)

// Create builds a fresh game with every board empty and no active board
func Create(id model.GameID, starting model.Player, now time.Time) (*model.Game, error) {
	if !starting.IsValid() {
		return nil, model.ErrInvalidPlayer
	}
	return &model.Game{
		ID:             id,
		ActiveBoard:    model.AnyBoard,
		StartingPlayer: starting,
		CurrentPlayer:  starting,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// ValidateMove checks a move against the game without applying it
func ValidateMove(g *model.Game, boardIndex, cellIndex int) error {
	if g.IsOver() {
		return model.ErrGameAlreadyOver
	}
	if !model.IsValidIndex(boardIndex) {
		return model.ErrInvalidBoardIndex
	}
	if !model.IsValidIndex(cellIndex) {
		return model.ErrInvalidCellIndex
	}
	if g.HasActiveBoard() && boardIndex != g.ActiveBoard {
		return &model.WrongBoardError{Required: g.ActiveBoard}
	}
	if g.IsBoardDecided(boardIndex) {
		return model.ErrBoardAlreadyDecided
	}
	if !g.Boards[boardIndex].IsEmpty(cellIndex) {
		return model.ErrCellOccupied
	}
	return nil
}

// ApplyMove places the current player's mark and returns the resulting state
func ApplyMove(g *model.Game, boardIndex, cellIndex int, now time.Time) (*model.Game, error) {
	if err := ValidateMove(g, boardIndex, cellIndex); err != nil {
		return nil, err
	}

	next := g.Clone()
	player := next.CurrentPlayer
	board := &next.Boards[boardIndex]
	if err := board.Place(cellIndex, player); err != nil {
		return nil, err
	}

	// Mini-winners are permanent
	if next.MiniWinners[boardIndex] == model.NoPlayer {
		next.MiniWinners[boardIndex] = board.Winner()
	}

	if w := model.LineWinner(next.MiniWinners); w != model.NoPlayer {
		next.Winner = w
	} else if allDecided(next) {
		next.IsDraw = true
	}

	switch {
	case next.IsOver():
		next.ActiveBoard = model.AnyBoard
	case next.IsBoardDecided(cellIndex):
		// Send anywhere
		next.ActiveBoard = model.AnyBoard
	default:
		next.ActiveBoard = cellIndex
	}

	next.CurrentPlayer = player.Opponent()
	next.MoveCount++
	next.LastMove = &model.Move{Player: player, BoardIndex: boardIndex, CellIndex: cellIndex}
	next.UpdatedAt = now

	return next, nil
}

// allDecided returns true if no sub-board can accept another move
func allDecided(g *model.Game) bool {
	for i := range g.Boards {
		if !g.IsBoardDecided(i) {
			return false
		}
	}
	return true
}

// PlayableBoards returns the sub-boards the next move may target
func PlayableBoards(g *model.Game) []int {
	if g.IsOver() {
		return []int{}
	}
	if g.HasActiveBoard() {
		return []int{g.ActiveBoard}
	}
	boards := []int{}
	for i := range g.Boards {
		if !g.IsBoardDecided(i) {
			boards = append(boards, i)
		}
	}
	return boards
}

// LegalMoves enumerates every move the current player may make
func LegalMoves(g *model.Game) []model.Move {
	moves := []model.Move{}
	for _, b := range PlayableBoards(g) {
		for _, c := range g.Boards[b].EmptyCells() {
			moves = append(moves, model.Move{Player: g.CurrentPlayer, BoardIndex: b, CellIndex: c})
		}
	}
	return moves
}

// Outcome returns "X", "O" or "draw" for a finished game, or "" while in progress
func Outcome(g *model.Game) string {
	switch {
	case g.Winner != model.NoPlayer:
		return string(g.Winner)
	case g.IsDraw:
		return model.OutcomeDraw
	default:
		return ""
	}
}

// Snapshot projects a game into a read-only view that shares no memory with it
func Snapshot(g *model.Game) model.GameView {
	view := model.GameView{
		ID:             g.ID,
		MiniWinners:    g.MiniWinners,
		CurrentPlayer:  g.CurrentPlayer,
		Winner:         g.Winner,
		IsDraw:         g.IsDraw,
		Status:         g.Status(),
		MoveCount:      g.MoveCount,
		PlayableBoards: PlayableBoards(g),
	}
	for i := range g.Boards {
		view.Boards[i] = g.Boards[i].Cells
	}
	if g.HasActiveBoard() {
		active := g.ActiveBoard
		view.ActiveBoard = &active
	}
	if g.LastMove != nil {
		m := *g.LastMove
		view.LastMove = &m
	}
	return view
}
