package request

// CreateGameRequest is the request body for creating a game.
// StartingPlayer is "X", "O" or "random"; omitted means the server default.
type CreateGameRequest struct {
	StartingPlayer *string `json:"starting_player,omitempty"`
}

// MoveRequest is the request body for making a move. Both fields are
// required; pointers distinguish a missing index from index 0.
type MoveRequest struct {
	BoardIndex *int `json:"board_index"`
	CellIndex  *int `json:"cell_index"`
}
