package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScoresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scores",
		Short: "Fetch the current scoreboard from the operator endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := opsGet(cfg.OpsURL, "/scoreboard")
			if err != nil {
				return err
			}
			fmt.Print(board)
			return nil
		},
	}
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := opsGet(cfg.OpsURL, "/healthz")
			if err != nil {
				return err
			}
			fmt.Print(body)
			return nil
		},
	}
}
