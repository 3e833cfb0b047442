package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphseek/graphseek/internal/config"
	"github.com/graphseek/graphseek/internal/output"
)

func newThesaurusCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "thesaurus <role>",
		Short: "Build and inspect a role's thesaurus",
		Long: `Build the thesaurus for a role from its configured knowledge-graph
source and print the synonym table.

Examples:
  graphseek thesaurus engineer
  graphseek thesaurus engineer --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThesaurus(cmd, args[0], format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json")
	return cmd
}

func runThesaurus(cmd *cobra.Command, roleName, format string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	role, ok := cfg.Role(roleName)
	if !ok {
		return fmt.Errorf("role %q not found in %s", roleName, configPath)
	}

	th, err := buildThesaurus(cmd.Context(), role)
	if err != nil {
		return err
	}
	if th == nil {
		return fmt.Errorf("role %q has no knowledge graph configured", roleName)
	}

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(th)
	}

	out := output.New(cmd.OutOrStdout())
	out.Statusf("📚", "Thesaurus for role %q: %d synonyms", roleName, th.Len())
	for _, entry := range th.Entries() {
		out.Statusf("", "%-30s -> %s (id %d)", entry.Synonym, entry.Term.Value, entry.Term.ID)
	}
	return nil
}
