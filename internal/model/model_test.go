package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	x = PlayerX
	o = PlayerO
	e = NoPlayer
)

func TestLineWinner(t *testing.T) {
	tests := []struct {
		name  string
		cells [BoardSize]Player
		want  Player
	}{
		{"empty", [BoardSize]Player{}, NoPlayer},
		{"top row", [BoardSize]Player{x, x, x, o, o, e, e, e, e}, x},
		{"middle column", [BoardSize]Player{x, o, x, e, o, e, x, o, e}, o},
		{"anti-diagonal", [BoardSize]Player{e, e, o, e, o, x, o, x, x}, o},
		{"two in a row", [BoardSize]Player{x, x, e, o, o, e, e, e, e}, NoPlayer},
		{"full draw", [BoardSize]Player{x, o, x, x, o, o, o, x, x}, NoPlayer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineWinner(tt.cells))
		})
	}
}

func TestBoardPlace(t *testing.T) {
	var b Board

	require.NoError(t, b.Place(4, x))
	assert.Equal(t, x, b.Get(4))
	assert.False(t, b.IsEmpty(4))
	assert.Equal(t, []int{0, 1, 2, 3, 5, 6, 7, 8}, b.EmptyCells())

	assert.ErrorIs(t, b.Place(4, o), ErrCellOccupied)
	assert.ErrorIs(t, b.Place(9, o), ErrInvalidCellIndex)
	assert.ErrorIs(t, b.Place(-1, o), ErrInvalidCellIndex)
	assert.ErrorIs(t, b.Place(0, NoPlayer), ErrInvalidPlayer)
	assert.Equal(t, NoPlayer, b.Get(42))
}

func TestBoardFrozenOnceWon(t *testing.T) {
	b := Board{Cells: [BoardSize]Player{x, x, x, o, o, e, e, e, e}}

	assert.Equal(t, x, b.Winner())
	assert.True(t, b.IsDecided())
	assert.False(t, b.IsFull())
	assert.ErrorIs(t, b.Place(5, o), ErrBoardAlreadyDecided)
	assert.Equal(t, NoPlayer, b.Get(5))
}

func TestBoardFull(t *testing.T) {
	b := Board{Cells: [BoardSize]Player{x, o, x, x, o, o, o, x, x}}

	assert.True(t, b.IsFull())
	assert.True(t, b.IsDecided())
	assert.Equal(t, NoPlayer, b.Winner())
	assert.Empty(t, b.EmptyCells())
}

func TestPlayer(t *testing.T) {
	p, err := ParsePlayer("O")
	require.NoError(t, err)
	assert.Equal(t, o, p)
	assert.Equal(t, x, p.Opponent())
	assert.Equal(t, NoPlayer, NoPlayer.Opponent())

	_, err = ParsePlayer("x")
	assert.ErrorIs(t, err, ErrInvalidPlayer)
	_, err = ParsePlayer("")
	assert.ErrorIs(t, err, ErrInvalidPlayer)
}

func TestGameCloneIsDeep(t *testing.T) {
	g := &Game{ActiveBoard: AnyBoard, CurrentPlayer: x, LastMove: &Move{Player: o, BoardIndex: 1, CellIndex: 2}}
	c := g.Clone()

	c.Boards[0].Cells[0] = x
	c.MiniWinners[3] = o
	c.LastMove.CellIndex = 7

	assert.Equal(t, NoPlayer, g.Boards[0].Cells[0])
	assert.Equal(t, NoPlayer, g.MiniWinners[3])
	assert.Equal(t, 2, g.LastMove.CellIndex)
}

func TestGameStatus(t *testing.T) {
	tests := []struct {
		name string
		game Game
		want string
	}{
		{"fresh", Game{CurrentPlayer: x, ActiveBoard: AnyBoard}, "X's turn"},
		{"winner", Game{Winner: o}, "O wins"},
		{"draw", Game{IsDraw: true}, "Draw"},
		{
			"board just won",
			Game{
				CurrentPlayer: o,
				MiniWinners:   [BoardSize]Player{2: x},
				LastMove:      &Move{Player: x, BoardIndex: 2, CellIndex: 6},
			},
			"X wins board 2, O's turn",
		},
		{
			"move after a board was won",
			Game{
				CurrentPlayer: x,
				MiniWinners:   [BoardSize]Player{2: x},
				LastMove:      &Move{Player: o, BoardIndex: 6, CellIndex: 1},
			},
			"X's turn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.game.Status())
		})
	}
}

func TestIsBoardDecided(t *testing.T) {
	g := Game{MiniWinners: [BoardSize]Player{1: o}}
	g.Boards[5] = Board{Cells: [BoardSize]Player{x, o, x, x, o, o, o, x, x}}

	assert.False(t, g.IsBoardDecided(0))
	assert.True(t, g.IsBoardDecided(1))
	assert.True(t, g.IsBoardDecided(5))
	assert.True(t, g.IsBoardDecided(9))
}

func TestWrongBoardError(t *testing.T) {
	var err error = &WrongBoardError{Required: 6}

	assert.True(t, errors.Is(err, ErrWrongBoard))
	assert.False(t, errors.Is(err, ErrCellOccupied))
	assert.Equal(t, "you must play in board 6", err.Error())
}
