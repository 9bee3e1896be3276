package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"nhooyr.io/websocket"

	"github.com/mcoot/supertictactoe/internal/stream"
)

// maxMessageSize bounds a single stream frame; a full game state is a few KB
const maxMessageSize = 64 << 10

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <id>",
		Short: "Stream a game's state over WebSocket",
		Long: `Connect to the game's WebSocket endpoint and print every state change.

Messages:
  - state: the game after a move (also sent once on connect)
  - game_over: the final state and outcome
  - deleted: the game was deleted

The command exits after game_over or deleted. Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return watchGame(ctx, args[0], NewOutput(cfg.Output, cmd.OutOrStdout()))
		},
	}
}

func watchGame(ctx context.Context, id string, out *Output) error {
	url := client.WebSocketURL(gamePath(id, "/ws"))

	conn, resp, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		if resp != nil && resp.StatusCode >= 400 {
			// The upgrade was refused with a JSON error; fetch it the normal way
			if getErr := client.Get(ctx, gamePath(id, ""), nil); getErr != nil {
				return getErr
			}
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "") }()
	conn.SetReadLimit(maxMessageSize)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			switch {
			case ctx.Err() != nil:
				return nil
			case websocket.CloseStatus(err) == websocket.StatusNormalClosure:
				return nil
			case errors.Is(err, context.Canceled):
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}

		var msg stream.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			return fmt.Errorf("invalid stream message: %w", err)
		}
		out.PrintStream(msg)

		if msg.Type == stream.MessageGameOver || msg.Type == stream.MessageDeleted {
			return nil
		}
	}
}
