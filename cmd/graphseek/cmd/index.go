package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphseek/graphseek/internal/config"
	"github.com/graphseek/graphseek/internal/haystack"
	"github.com/graphseek/graphseek/internal/output"
)

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <role>",
		Short: "Scan a role's haystacks and report what would be indexed",
		Long: `Scan every haystack directory configured for a role and report the
documents found. Useful for verifying haystack configuration before
searching.

Examples:
  graphseek index engineer`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, args[0])
		},
	}
	return cmd
}

func runIndex(cmd *cobra.Command, roleName string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	role, ok := cfg.Role(roleName)
	if !ok {
		return fmt.Errorf("role %q not found in %s", roleName, configPath)
	}
	if len(role.Haystacks) == 0 {
		return fmt.Errorf("role %q has no haystacks configured", roleName)
	}

	out := output.New(cmd.OutOrStdout())
	scanner := haystack.NewScanner(nil)

	total := 0
	for _, dir := range role.Haystacks {
		docs, err := scanner.Scan(cmd.Context(), dir)
		if err != nil {
			return err
		}
		out.Statusf("📁", "%s: %d documents", dir, len(docs))
		for _, doc := range docs {
			out.Statusf("", "%s (%s)", doc.ID, doc.Title)
		}
		total += len(docs)
	}

	out.Newline()
	out.Successf("Indexed %d documents for role %q", total, roleName)
	return nil
}
