package model

import (
	"fmt"
	"time"
)

// GameID uniquely identifies a game
type GameID string

// Player is a mark on the board. NoPlayer doubles as the empty cell.
type Player string

const (
	NoPlayer Player = ""
	PlayerX  Player = "X"
	PlayerO  Player = "O"
)

// ParsePlayer converts "X" or "O" into a Player
func ParsePlayer(s string) (Player, error) {
	p := Player(s)
	if !p.IsValid() {
		return NoPlayer, ErrInvalidPlayer
	}
	return p, nil
}

// IsValid returns true for X and O
func (p Player) IsValid() bool {
	return p == PlayerX || p == PlayerO
}

// Opponent returns the other player
func (p Player) Opponent() Player {
	switch p {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return NoPlayer
	}
}

// AnyBoard is the ActiveBoard value meaning any undecided board may be played
const AnyBoard = -1

// Move is a single accepted placement
type Move struct {
	Player     Player
	BoardIndex int
	CellIndex  int
}

// Game is one Super Tic-Tac-Toe match: nine sub-boards plus the meta state
type Game struct {
	ID     GameID
	Boards [BoardSize]Board

	// Cached winner of each sub-board. Once set it is never cleared.
	MiniWinners [BoardSize]Player

	// Sub-board the next move must target, or AnyBoard
	ActiveBoard int

	StartingPlayer Player
	CurrentPlayer  Player
	Winner         Player
	IsDraw         bool

	MoveCount int
	LastMove  *Move

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOver returns true once the game has a winner or is drawn
func (g *Game) IsOver() bool {
	return g.Winner != NoPlayer || g.IsDraw
}

// HasActiveBoard returns true if the next move is constrained to one sub-board
func (g *Game) HasActiveBoard() bool {
	return g.ActiveBoard != AnyBoard
}

// IsBoardDecided returns true if the sub-board has a mini-winner or is full
func (g *Game) IsBoardDecided(boardIndex int) bool {
	if !IsValidIndex(boardIndex) {
		return true
	}
	return g.MiniWinners[boardIndex] != NoPlayer || g.Boards[boardIndex].IsFull()
}

// Clone returns a deep copy of the game
func (g *Game) Clone() *Game {
	c := *g
	if g.LastMove != nil {
		m := *g.LastMove
		c.LastMove = &m
	}
	return &c
}

// Status returns a human-readable summary derived from the game state
func (g *Game) Status() string {
	switch {
	case g.Winner != NoPlayer:
		return fmt.Sprintf("%s wins", g.Winner)
	case g.IsDraw:
		return "Draw"
	}

	turn := fmt.Sprintf("%s's turn", g.CurrentPlayer)
	// Won boards are frozen, so a last move into a won board is the one that won it
	if m := g.LastMove; m != nil && g.MiniWinners[m.BoardIndex] == m.Player {
		return fmt.Sprintf("%s wins board %d, %s", m.Player, m.BoardIndex, turn)
	}
	return turn
}
