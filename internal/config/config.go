// Package config loads and validates the graphseek YAML configuration:
// per-role ranking setup plus the logging block.
package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	gserrors "github.com/graphseek/graphseek/internal/errors"
	"github.com/graphseek/graphseek/internal/types"
)

// Config is the complete graphseek configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Roles   []RoleConfig  `yaml:"roles" json:"roles"`
}

// LoggingConfig configures the rotating JSON log.
type LoggingConfig struct {
	Level     string `yaml:"level" json:"level"`
	FilePath  string `yaml:"file_path" json:"file_path"`
	MaxSizeMB int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files" json:"max_files"`
	Stderr    bool   `yaml:"stderr" json:"stderr"`
}

// RoleConfig configures one named role: how it ranks, where its
// knowledge graph comes from, and which haystacks feed it.
type RoleConfig struct {
	Name string `yaml:"name" json:"name"`

	// RelevanceFunction selects the ranking backend. Empty means
	// title-scorer.
	RelevanceFunction string `yaml:"relevance_function" json:"relevance_function"`

	// KnowledgeGraph is required for graph roles, ignored otherwise.
	KnowledgeGraph KnowledgeGraphConfig `yaml:"knowledge_graph" json:"knowledge_graph"`

	// Haystacks are the directories scanned into the role's documents.
	Haystacks []string `yaml:"haystacks" json:"haystacks"`

	// WatchDebounce coalesces knowledge-graph file events before a
	// reload (e.g. "500ms").
	WatchDebounce string `yaml:"watch_debounce" json:"watch_debounce"`

	// BM25 overrides the scorer parameters for this role.
	BM25 BM25Config `yaml:"bm25" json:"bm25"`

	// FieldWeights override the BM25F field weights for this role.
	FieldWeights FieldWeightsConfig `yaml:"field_weights" json:"field_weights"`
}

// KnowledgeGraphConfig names a thesaurus source: a markdown directory,
// a local JSON dictionary, or a remote dictionary URL.
type KnowledgeGraphConfig struct {
	// Type is "markdown" or "json".
	Type string `yaml:"type" json:"type"`
	// Path is the markdown directory or JSON file path.
	Path string `yaml:"path" json:"path"`
	// URL is a remote JSON dictionary, used when Path is empty.
	URL string `yaml:"url" json:"url"`
	// CachePath optionally persists the built thesaurus to disk.
	CachePath string `yaml:"cache_path" json:"cache_path"`
}

// BM25Config holds the BM25-family tuning parameters.
type BM25Config struct {
	K1    float64 `yaml:"k1" json:"k1"`
	B     float64 `yaml:"b" json:"b"`
	Delta float64 `yaml:"delta" json:"delta"`
}

// FieldWeightsConfig holds the BM25F per-field weights.
type FieldWeightsConfig struct {
	Title       float64 `yaml:"title" json:"title"`
	Body        float64 `yaml:"body" json:"body"`
	Description float64 `yaml:"description" json:"description"`
	Tags        float64 `yaml:"tags" json:"tags"`
}

// Default returns the configuration used when no file is present: one
// role ranked by the title scorer, info-level logging to the default
// log file.
func Default() *Config {
	cfg := &Config{
		Version: 1,
		Roles: []RoleConfig{
			{Name: "default", RelevanceFunction: string(types.RelevanceTitleScorer)},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads and validates a configuration file. A missing path returns
// Default() without error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeConfigInvalid, err).
			WithDetail("path", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeConfigInvalid, err).
			WithDetail("path", path)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills unset fields in place.
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 10
	}
	if c.Logging.MaxFiles <= 0 {
		c.Logging.MaxFiles = 3
	}

	for i := range c.Roles {
		role := &c.Roles[i]
		if role.RelevanceFunction == "" {
			role.RelevanceFunction = string(types.RelevanceTitleScorer)
		}
		if role.WatchDebounce == "" {
			role.WatchDebounce = "500ms"
		}
		if role.BM25.K1 == 0 {
			role.BM25.K1 = 1.2
		}
		if role.BM25.B == 0 {
			role.BM25.B = 0.75
		}
		if role.BM25.Delta == 0 {
			role.BM25.Delta = 1.0
		}
		if role.FieldWeights == (FieldWeightsConfig{}) {
			role.FieldWeights = FieldWeightsConfig{
				Title: 3.0, Body: 1.0, Description: 2.0, Tags: 2.5,
			}
		}
	}
}

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	if len(c.Roles) == 0 {
		return gserrors.Newf(gserrors.ErrCodeConfigInvalid, "no roles configured")
	}

	seen := make(map[string]struct{}, len(c.Roles))
	for _, role := range c.Roles {
		if strings.TrimSpace(role.Name) == "" {
			return gserrors.Newf(gserrors.ErrCodeConfigInvalid, "role with empty name")
		}
		if _, dup := seen[role.Name]; dup {
			return gserrors.Newf(gserrors.ErrCodeConfigInvalid,
				"duplicate role %q", role.Name)
		}
		seen[role.Name] = struct{}{}

		rf, ok := types.ParseRelevanceFunction(role.RelevanceFunction)
		if !ok {
			return gserrors.Newf(gserrors.ErrCodeConfigInvalid,
				"role %q: unknown relevance function %q", role.Name, role.RelevanceFunction)
		}

		if rf == types.RelevanceGraph {
			kg := role.KnowledgeGraph
			switch kg.Type {
			case "markdown":
				if kg.Path == "" {
					return gserrors.Newf(gserrors.ErrCodeConfigInvalid,
						"role %q: markdown knowledge graph needs a path", role.Name)
				}
			case "json":
				if kg.Path == "" && kg.URL == "" {
					return gserrors.Newf(gserrors.ErrCodeConfigInvalid,
						"role %q: json knowledge graph needs a path or url", role.Name)
				}
			default:
				return gserrors.Newf(gserrors.ErrCodeConfigInvalid,
					"role %q: unknown knowledge graph type %q", role.Name, kg.Type)
			}
		}

		if _, err := time.ParseDuration(role.WatchDebounce); err != nil {
			return gserrors.Newf(gserrors.ErrCodeConfigInvalid,
				"role %q: invalid watch_debounce %q", role.Name, role.WatchDebounce)
		}
		if role.BM25.K1 < 0 || role.BM25.B < 0 || role.BM25.B > 1 {
			return gserrors.Newf(gserrors.ErrCodeConfigInvalid,
				"role %q: bm25 parameters out of range", role.Name)
		}
	}
	return nil
}

// Role returns the named role config.
func (c *Config) Role(name string) (RoleConfig, bool) {
	for _, role := range c.Roles {
		if role.Name == name {
			return role, true
		}
	}
	return RoleConfig{}, false
}
