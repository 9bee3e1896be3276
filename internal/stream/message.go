package stream

import (
	"encoding/json"

	"github.com/mcoot/supertictactoe/internal/api/response"
	"github.com/mcoot/supertictactoe/internal/model"
	"github.com/mcoot/supertictactoe/internal/services/engine"
)

// MessageType names a stream message. It doubles as the SSE event name.
type MessageType string

const (
	MessageState    MessageType = "state"
	MessageGameOver MessageType = "game_over"
	MessageDeleted  MessageType = "deleted"
)

// Message is the JSON payload delivered to watchers
type Message struct {
	Type    MessageType    `json:"type"`
	Outcome string         `json:"outcome,omitempty"`
	Game    *response.Game `json:"game,omitempty"`
}

// StateMessage wraps the current state of a game
func StateMessage(g *model.Game) Message {
	view := response.GameFromView(engine.Snapshot(g))
	return Message{Type: MessageState, Game: &view}
}

// GameOverMessage reports the final state and outcome of a game
func GameOverMessage(g *model.Game) Message {
	view := response.GameFromView(engine.Snapshot(g))
	return Message{Type: MessageGameOver, Outcome: engine.Outcome(g), Game: &view}
}

// DeletedMessage tells watchers the game is gone
func DeletedMessage() Message {
	return Message{Type: MessageDeleted}
}

// envelope is a message encoded once for fan-out
type envelope struct {
	event string
	data  []byte
	// seq orders frames of one game; -1 for frames that carry no game
	seq int
}

func encode(msg Message) (envelope, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return envelope{}, err
	}
	return envelope{event: string(msg.Type), data: data, seq: sequence(msg)}, nil
}

// sequence ranks a frame by move count, with game_over after the state of
// the same move
func sequence(msg Message) int {
	if msg.Game == nil {
		return -1
	}
	seq := msg.Game.MoveCount * 2
	if msg.Type == MessageGameOver {
		seq++
	}
	return seq
}
