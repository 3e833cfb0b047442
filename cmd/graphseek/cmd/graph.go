package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphseek/graphseek/internal/config"
	"github.com/graphseek/graphseek/internal/output"
	"github.com/graphseek/graphseek/internal/service"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Inspect a role's knowledge graph",
	}
	cmd.AddCommand(newGraphNodesCmd())
	cmd.AddCommand(newGraphConnectedCmd())
	return cmd
}

func newGraphNodesCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "nodes <text>",
		Short: "Show the concept nodes matched in text",
		Long: `Match text against a role's thesaurus and print the matched concept
ids in first-occurrence order.

Examples:
  graphseek graph nodes "async rust programming" --role engineer`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			svc, err := graphServiceFor(cmd, role)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			ids, err := svc.MatchingNodeIDs(role, text)
			if err != nil {
				return err
			}

			out := output.New(cmd.OutOrStdout())
			if len(ids) == 0 {
				out.Status("", "No concepts matched")
				return nil
			}
			out.Statusf("🧩", "%d concepts matched:", len(ids))
			for _, id := range ids {
				out.Statusf("", "node %d", id)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&role, "role", "r", "default", "Role whose graph to query")
	return cmd
}

func newGraphConnectedCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "connected <text>",
		Short: "Check whether all concepts in text are connected by a path",
		Long: `Match text against a role's thesaurus and report whether the matched
concepts form one connected component of the role's graph.

Examples:
  graphseek graph connected "rust async" --role engineer`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			svc, err := graphServiceFor(cmd, role)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			connected, err := svc.ConnectedByPath(role, text)
			if err != nil {
				return err
			}

			out := output.New(cmd.OutOrStdout())
			if connected {
				out.Successf("All concepts in %q are connected", text)
			} else {
				out.Statusf("✖", "Concepts in %q are NOT connected", text)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&role, "role", "r", "default", "Role whose graph to query")
	return cmd
}

// graphServiceFor builds the service with only the requested role's data
// loaded; graph commands need the role's graph populated from its
// haystacks.
func graphServiceFor(cmd *cobra.Command, role string) (*service.Service, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if _, ok := cfg.Role(role); !ok {
		return nil, fmt.Errorf("role %q not found in %s", role, configPath)
	}
	return buildService(cmd.Context(), cfg)
}
