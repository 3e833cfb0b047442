// Package cmd provides the CLI commands for graphseek.
package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/graphseek/graphseek/internal/config"
	"github.com/graphseek/graphseek/internal/haystack"
	"github.com/graphseek/graphseek/internal/logging"
	"github.com/graphseek/graphseek/internal/score"
	"github.com/graphseek/graphseek/internal/service"
	"github.com/graphseek/graphseek/internal/thesaurus"
	"github.com/graphseek/graphseek/internal/types"
	"github.com/graphseek/graphseek/pkg/version"
)

var (
	configPath string
	debugMode  bool

	loggingCleanup func()
)

// NewRootCmd creates the root command for the graphseek CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graphseek",
		Short: "Knowledge-graph document ranking",
		Long: `Graphseek ranks document collections through role-specific knowledge
graphs: a thesaurus maps synonyms to concepts, an automaton matches them
in text, and a concept graph accumulates ranks from co-occurrence.

Roles without a knowledge graph rank with lexical scorers (BM25 family)
or a fulltext index instead.`,
		Version:      version.Version,
		SilenceUsage: true,
	}

	cmd.SetVersionTemplate("graphseek version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "graphseek.yaml", "Path to configuration file")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	cmd.PersistentPreRunE = setupLogging
	cmd.PersistentPostRun = teardownLogging

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newThesaurusCmd())
	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newGraphCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func setupLogging(_ *cobra.Command, _ []string) error {
	logCfg := logging.DefaultConfig()
	logCfg.WriteToStderr = false
	if debugMode {
		logCfg.Level = "debug"
	}
	cleanup, err := logging.SetupDefault(logCfg)
	if err != nil {
		// Logging must never block the command itself.
		slog.Warn("log setup failed", slog.String("error", err.Error()))
		return nil
	}
	loggingCleanup = cleanup
	return nil
}

func teardownLogging(_ *cobra.Command, _ []string) {
	if loggingCleanup != nil {
		loggingCleanup()
	}
}

// buildThesaurus constructs a role's thesaurus from its configured
// knowledge-graph source.
func buildThesaurus(ctx context.Context, role config.RoleConfig) (*thesaurus.Thesaurus, error) {
	kg := role.KnowledgeGraph
	switch kg.Type {
	case "markdown":
		th, err := thesaurus.NewMarkdownBuilder(slog.Default()).Build(ctx, role.Name, kg.Path)
		if err != nil {
			return nil, err
		}
		if kg.CachePath != "" {
			if err := thesaurus.SaveToFile(th, kg.CachePath); err != nil {
				slog.Warn("thesaurus cache write failed",
					slog.String("path", kg.CachePath),
					slog.String("error", err.Error()))
			}
		}
		return th, nil
	case "json":
		source := kg.Path
		if source == "" {
			source = kg.URL
		}
		return thesaurus.Load(ctx, source)
	default:
		// Non-graph roles carry no knowledge graph.
		return nil, nil
	}
}

// buildService assembles a service from the configuration: every role
// registered, every haystack scanned and inserted.
func buildService(ctx context.Context, cfg *config.Config) (*service.Service, error) {
	svc, err := service.New(slog.Default())
	if err != nil {
		return nil, err
	}

	scanner := haystack.NewScanner(slog.Default())
	for _, role := range cfg.Roles {
		rf, _ := types.ParseRelevanceFunction(role.RelevanceFunction)

		th, err := buildThesaurus(ctx, role)
		if err != nil {
			_ = svc.Close()
			return nil, err
		}
		if err := svc.AddRole(role.Name, rf, th); err != nil {
			_ = svc.Close()
			return nil, err
		}
		if rf.IsScorer() {
			params := score.Params{K1: role.BM25.K1, B: role.BM25.B, Delta: role.BM25.Delta}
			weights := score.FieldWeights{
				Title:       role.FieldWeights.Title,
				Body:        role.FieldWeights.Body,
				Description: role.FieldWeights.Description,
				Tags:        role.FieldWeights.Tags,
			}
			if err := svc.SetScorerParams(role.Name, params, weights); err != nil {
				_ = svc.Close()
				return nil, err
			}
		}

		for _, dir := range role.Haystacks {
			docs, err := scanner.Scan(ctx, dir)
			if err != nil {
				_ = svc.Close()
				return nil, err
			}
			if err := svc.AddDocuments(ctx, role.Name, docs); err != nil {
				_ = svc.Close()
				return nil, err
			}
		}
	}
	return svc, nil
}
