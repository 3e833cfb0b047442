package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphseek/graphseek/internal/config"
	"github.com/graphseek/graphseek/internal/output"
	"github.com/graphseek/graphseek/internal/types"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	role   string
	skip   int
	limit  int
	format string
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank documents for a role",
		Long: `Search a role's documents with its configured ranking backend:
knowledge graph, lexical scorer, or fulltext index.

Examples:
  graphseek search "async rust" --role engineer
  graphseek search "deployment" --role ops --limit 5 --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearchCmd(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.role, "role", "r", "default", "Role to search as")
	cmd.Flags().IntVar(&opts.skip, "skip", 0, "Number of results to skip")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "Maximum number of results")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	return cmd
}

func runSearchCmd(cmd *cobra.Command, query string, opts searchOptions) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	svc, err := buildService(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	results, err := svc.Search(cmd.Context(), types.SearchQuery{
		SearchTerm: query,
		Role:       opts.role,
		Skip:       opts.skip,
		Limit:      opts.limit,
	})
	if err != nil {
		return err
	}

	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	out := output.New(cmd.OutOrStdout())
	if len(results) == 0 {
		out.Statusf("", "No results for %q", query)
		return nil
	}

	out.Statusf("🔍", "Found %d results for %q:", len(results), query)
	out.Newline()
	for i, doc := range results {
		out.Statusf("", "%d. %s (rank: %.3f)", i+1, doc.ID, doc.Rank)
		if doc.Title != "" {
			out.Status("", "   "+doc.Title)
		}
	}
	return nil
}
