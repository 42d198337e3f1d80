package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"reposync/pkg/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the tool configuration file",
	Long: `Init interactively creates ~/.reposync/config.yaml with the GitHub
token and default organization. The GITHUB_TOKEN environment variable
always takes precedence over the stored token.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path, err := config.DefaultPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration already exists at %s\n", path)
		return nil
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	fmt.Fprint(cmd.OutOrStdout(), "GitHub token (leave empty to use GITHUB_TOKEN): ")
	token, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), "Default organization (optional): ")
	org, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	cfg := &config.Config{
		GitHub: config.GitHubConfig{
			Token:        strings.TrimSpace(token),
			Organization: strings.TrimSpace(org),
		},
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration written to %s\n", path)
	return nil
}
