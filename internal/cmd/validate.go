package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"reposync/pkg/github"
)

var validateCmd = &cobra.Command{
	Use:   "validate <config.yaml>",
	Short: "Validate a desired-state document without touching the API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := github.LoadRepoConfigFromFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid (repository %s/%s)\n",
			args[0], cfg.Repository.Owner, cfg.Repository.Name)
		return nil
	},
}
