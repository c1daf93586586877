package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var cfg *Config

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "quizctl",
		Short: "Client for the trivia quiz server",
		Long: `quizctl is a client for the trivia quiz server.

It can play a quiz interactively over the framed TCP protocol and query
the operator HTTP endpoints for health and scoreboard information.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerAddr, "server", cfg.ServerAddr, "Quiz server address (env: TRIVIAD_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.OpsURL, "ops-url", cfg.OpsURL, "Operator server URL (env: TRIVIAD_OPS_URL)")

	// Add subcommands
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newScoresCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
