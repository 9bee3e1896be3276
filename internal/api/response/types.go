package response

import (
	"github.com/mcoot/supertictactoe/internal/model"
)

// Move represents an accepted move in API responses
type Move struct {
	Player     string `json:"player"`
	BoardIndex int    `json:"board_index"`
	CellIndex  int    `json:"cell_index"`
}

// Game is the JSON form of a game snapshot. Empty cells, undecided boards,
// a missing winner and an unconstrained active board are null.
type Game struct {
	ID             string                                    `json:"id"`
	Boards         [model.BoardSize][model.BoardSize]*string `json:"boards"`
	MiniWinners    [model.BoardSize]*string                  `json:"mini_winners"`
	ActiveBoard    *int                                      `json:"active_board"`
	CurrentPlayer  string                                    `json:"current_player"`
	Winner         *string                                   `json:"winner"`
	IsDraw         bool                                      `json:"is_draw"`
	Status         string                                    `json:"status"`
	MoveCount      int                                       `json:"move_count"`
	LastMove       *Move                                     `json:"last_move"`
	PlayableBoards []int                                     `json:"playable_boards"`
}

// GameFromView converts a model.GameView
func GameFromView(v model.GameView) Game {
	g := Game{
		ID:             string(v.ID),
		ActiveBoard:    v.ActiveBoard,
		CurrentPlayer:  string(v.CurrentPlayer),
		Winner:         playerPtr(v.Winner),
		IsDraw:         v.IsDraw,
		Status:         v.Status,
		MoveCount:      v.MoveCount,
		PlayableBoards: v.PlayableBoards,
	}
	for b := range v.Boards {
		for c := range v.Boards[b] {
			g.Boards[b][c] = playerPtr(v.Boards[b][c])
		}
		g.MiniWinners[b] = playerPtr(v.MiniWinners[b])
	}
	if v.LastMove != nil {
		g.LastMove = &Move{
			Player:     string(v.LastMove.Player),
			BoardIndex: v.LastMove.BoardIndex,
			CellIndex:  v.LastMove.CellIndex,
		}
	}
	if g.PlayableBoards == nil {
		g.PlayableBoards = []int{}
	}
	return g
}

func playerPtr(p model.Player) *string {
	if p == model.NoPlayer {
		return nil
	}
	s := string(p)
	return &s
}

// HistoryFromModel converts every stored state of a game, oldest first
func HistoryFromModel(views []model.GameView) []Game {
	history := make([]Game, len(views))
	for i, v := range views {
		history[i] = GameFromView(v)
	}
	return history
}

// MovePosition addresses one cell of the meta-board
type MovePosition struct {
	BoardIndex int `json:"board_index"`
	CellIndex  int `json:"cell_index"`
}

// Moves lists the legal moves for the player to move
type Moves struct {
	Player string         `json:"player"`
	Moves  []MovePosition `json:"moves"`
}

// MovesFromModel converts the engine's legal move enumeration
func MovesFromModel(player model.Player, moves []model.Move) Moves {
	positions := make([]MovePosition, len(moves))
	for i, m := range moves {
		positions[i] = MovePosition{BoardIndex: m.BoardIndex, CellIndex: m.CellIndex}
	}
	return Moves{Player: string(player), Moves: positions}
}

// Health is the response for the health endpoint
type Health struct {
	Status string `json:"status"`
}
