package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reposync/pkg/config"
	"reposync/pkg/github"
)

var (
	applyOwner  string
	applyDryRun bool
)

var applyCmd = &cobra.Command{
	Use:   "apply <config.yaml>",
	Short: "Reconcile a repository against a desired-state document",
	Long: `Apply reads the desired-state document, creates the repository if it
does not exist, and reconciles every configured resource kind. Items that
fail are reported at the end without aborting the rest of the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVar(&applyOwner, "owner", "", "override the repository owner")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "report what would change without writing")
}

func runApply(cmd *cobra.Command, args []string) error {
	repoCfg, err := github.LoadRepoConfigFromFile(args[0])
	if err != nil {
		return err
	}

	toolCfg, err := config.Load()
	if err != nil {
		return err
	}

	if applyOwner != "" {
		repoCfg.Repository.Owner = applyOwner
	}
	if repoCfg.Repository.Owner == "" {
		repoCfg.Repository.Owner = toolCfg.GitHub.Organization
	}
	if repoCfg.Repository.Owner == "" {
		return fmt.Errorf("no repository owner: set repository.owner, pass --owner, or configure a default organization")
	}

	auth := github.NewAuthManager(toolCfg.GitHub.Token)
	token, err := auth.GetToken()
	if err != nil {
		fmt.Fprintln(os.Stderr, github.GetAuthInstructions())
		return err
	}
	if err := auth.ValidateToken(); err != nil {
		if github.IsAuth(err) {
			fmt.Fprintln(os.Stderr, github.GetAuthInstructions())
		}
		return err
	}

	reconciler := github.NewReconciler(github.NewClient(token), repoCfg)
	reconciler.DryRun = applyDryRun

	report, err := reconciler.Reconcile()
	if err != nil {
		return err
	}

	report.Print(cmd.OutOrStdout())

	// Per-item failures are reported, not fatal: the run completed.
	return nil
}
