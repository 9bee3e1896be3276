package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventGameCreated EventType = "game_created"
	EventMoveApplied EventType = "move_applied"
	EventGameOver    EventType = "game_over"
	EventGameDeleted EventType = "game_deleted"
)

// Outcome values reported when a game ends
const (
	OutcomeDraw = "draw"
)

// Event is published by the game controller after every state change
type Event struct {
	Type      EventType
	Timestamp time.Time
	GameID    GameID
	Game      *Game  // State after the change, nil for deleted games
	Outcome   string // "X", "O" or "draw" for game over events
}
