package model

// BoardSize is the number of cells on a sub-board and the number of sub-boards in a game
const BoardSize = 9

// WinLines are the index triples that complete a line on a 3x3 grid
var WinLines = [8][3]int{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diagonals
	{0, 4, 8}, {2, 4, 6},
}

// Board is a single 3x3 sub-board
type Board struct {
	Cells [BoardSize]Player // Row-major: index = row*3 + col, NoPlayer means empty
}

// IsValidIndex returns true if i addresses a cell (or a sub-board)
func IsValidIndex(i int) bool {
	return i >= 0 && i < BoardSize
}

// LineWinner returns the player holding a complete line in cells, or NoPlayer
func LineWinner(cells [BoardSize]Player) Player {
	for _, line := range WinLines {
		a := cells[line[0]]
		if a != NoPlayer && a == cells[line[1]] && a == cells[line[2]] {
			return a
		}
	}
	return NoPlayer
}

// Get returns the player in the given cell, or NoPlayer if empty or out of range
func (b *Board) Get(cell int) Player {
	if !IsValidIndex(cell) {
		return NoPlayer
	}
	return b.Cells[cell]
}

// IsEmpty returns true if the cell holds no mark
func (b *Board) IsEmpty(cell int) bool {
	return b.Get(cell) == NoPlayer
}

// Winner computes the winner from the cell contents
func (b *Board) Winner() Player {
	return LineWinner(b.Cells)
}

// IsFull returns true if all cells are filled
func (b *Board) IsFull() bool {
	for _, c := range b.Cells {
		if c == NoPlayer {
			return false
		}
	}
	return true
}

// IsDecided returns true if the board can no longer accept moves
func (b *Board) IsDecided() bool {
	return b.Winner() != NoPlayer || b.IsFull()
}

// EmptyCells returns the indices of all empty cells in order
func (b *Board) EmptyCells() []int {
	var empty []int
	for i, c := range b.Cells {
		if c == NoPlayer {
			empty = append(empty, i)
		}
	}
	return empty
}

// Place writes the player's mark into a cell.
// A board that is won or full is frozen.
func (b *Board) Place(cell int, p Player) error {
	if !IsValidIndex(cell) {
		return ErrInvalidCellIndex
	}
	if !p.IsValid() {
		return ErrInvalidPlayer
	}
	if b.IsDecided() {
		return ErrBoardAlreadyDecided
	}
	if !b.IsEmpty(cell) {
		return ErrCellOccupied
	}
	b.Cells[cell] = p
	return nil
}
