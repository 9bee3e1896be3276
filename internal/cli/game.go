package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/supertictactoe/internal/api/request"
	"github.com/mcoot/supertictactoe/internal/api/response"
)

func gamePath(id string, suffix string) string {
	return "/api/v1/games/" + id + suffix
}

func newGameNewCmd() *cobra.Command {
	var starting string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.CreateGameRequest{}
			if starting != "" {
				s := strings.ToUpper(starting)
				if s == "RANDOM" {
					s = "random"
				}
				req.StartingPlayer = &s
			}

			var result response.Game
			if err := client.Post(cmd.Context(), "/api/v1/games/new", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&starting, "starting", "", "Starting player: X, O or random (default: server setting)")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get current game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game
			if err := client.Get(cmd.Context(), gamePath(args[0], ""), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <board> <cell>",
		Short: "Place the current player's mark",
		Long: `Place the current player's mark in a cell.

Boards and cells are numbered 0-8 in row-major order:

  0 | 1 | 2
  3 | 4 | 5
  6 | 7 | 8`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			boardIndex, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid board: %w", err)
			}

			cellIndex, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid cell: %w", err)
			}

			req := request.MoveRequest{BoardIndex: &boardIndex, CellIndex: &cellIndex}
			var result response.Game
			if err := client.Post(cmd.Context(), gamePath(args[0], "/move"), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "List every state of a game in move order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.Game
			if err := client.Get(cmd.Context(), gamePath(args[0], "/history"), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameMovesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "moves <id>",
		Short: "List the legal moves for the player to move",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Moves
			if err := client.Get(cmd.Context(), gamePath(args[0], "/moves"), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), gamePath(args[0], "")); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Game deleted")
			return nil
		},
	}
}
