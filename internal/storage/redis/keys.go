package redis

import (
	"fmt"

	"github.com/mcoot/supertictactoe/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "sttt"

// gameKey returns the Redis key for the current state of a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// historyKey returns the Redis key for the LIST of every state of a Game
func historyKey(id model.GameID) string {
	return fmt.Sprintf("%s:history:%s", keyPrefix, id)
}
