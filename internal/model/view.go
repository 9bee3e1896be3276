package model

// GameView is a read-only snapshot of a game for external consumers
type GameView struct {
	ID             GameID
	Boards         [BoardSize][BoardSize]Player
	MiniWinners    [BoardSize]Player
	ActiveBoard    *int // nil means any undecided board
	CurrentPlayer  Player
	Winner         Player
	IsDraw         bool
	Status         string
	MoveCount      int
	LastMove       *Move
	PlayableBoards []int
}
