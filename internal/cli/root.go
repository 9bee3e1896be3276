package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "sttt",
		Short: "CLI tool for the Super Tic-Tac-Toe API",
		Long: `sttt is a CLI tool for playing Super Tic-Tac-Toe against the game server.

It supports every API operation: creating games, making moves, inspecting
history and legal moves, and watching a game live over WebSocket.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logOut := io.Discard
			if cfg.Verbose {
				logOut = cmd.ErrOrStderr()
			}
			logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))

			// Create HTTP client
			client = NewClient(cfg.ServerURL, logger)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: STTT_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json (env: STTT_OUTPUT)")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Log requests to stderr")

	// Add subcommands
	rootCmd.AddCommand(newGameNewCmd())
	rootCmd.AddCommand(newGameGetCmd())
	rootCmd.AddCommand(newGameMoveCmd())
	rootCmd.AddCommand(newGameHistoryCmd())
	rootCmd.AddCommand(newGameMovesCmd())
	rootCmd.AddCommand(newGameDeleteCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
