package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/graphseek/graphseek/internal/config"
	"github.com/graphseek/graphseek/internal/haystack"
	"github.com/graphseek/graphseek/internal/output"
)

func newWatchCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a role's knowledge graph and reload on change",
		Long: `Build the service for a role, then watch its markdown knowledge-graph
directory. Edits to concept files trigger a debounced thesaurus rebuild
and graph reload. Runs until interrupted.

Examples:
  graphseek watch --role engineer`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, role)
		},
	}

	cmd.Flags().StringVarP(&role, "role", "r", "default", "Role to watch")
	return cmd
}

func runWatch(cmd *cobra.Command, roleName string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	roleCfg, ok := cfg.Role(roleName)
	if !ok {
		return fmt.Errorf("role %q not found in %s", roleName, configPath)
	}
	if roleCfg.KnowledgeGraph.Type != "markdown" {
		return fmt.Errorf("role %q has no markdown knowledge graph to watch", roleName)
	}

	svc, err := buildService(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	window, err := time.ParseDuration(roleCfg.WatchDebounce)
	if err != nil {
		window = haystack.DefaultDebounceWindow
	}

	out := output.New(cmd.OutOrStdout())
	reload := func() {
		// Fresh context: the reload must complete even if it races the
		// command shutting down.
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		th, err := buildThesaurus(ctx, roleCfg)
		if err != nil {
			slog.Error("thesaurus rebuild failed",
				slog.String("role", roleName),
				slog.String("error", err.Error()))
			return
		}
		if err := svc.ReloadRole(ctx, roleName, th); err != nil {
			slog.Error("role reload failed",
				slog.String("role", roleName),
				slog.String("error", err.Error()))
			return
		}
		out.Statusf("🔄", "Reloaded role %q (%d synonyms)", roleName, th.Len())
	}

	watcher, err := haystack.NewWatcher(roleCfg.KnowledgeGraph.Path, window, reload, slog.Default())
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	out.Statusf("👀", "Watching %s for role %q (debounce %s)",
		roleCfg.KnowledgeGraph.Path, roleName, window)
	watcher.Run(cmd.Context())
	return nil
}
