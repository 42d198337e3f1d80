package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "reposync",
	Short: "Declarative GitHub repository provisioning",
	Long: `reposync reconciles GitHub repositories against a desired-state YAML
document: custom properties, boilerplate files, branch protection,
deployment environments, variables, secrets and access grants.

Reads are compared against the document and only the differences are
written, so re-applying an unchanged document is a no-op.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(initCmd)
}
