package thesaurus

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gserrors "github.com/graphseek/graphseek/internal/errors"
	"github.com/graphseek/graphseek/internal/types"
)

// synonymsDirective marks the line in a concept file that lists its
// synonyms: `synonyms:: a, b, c`.
const synonymsDirective = "synonyms::"

// MarkdownBuilder scans a directory of markdown concept files into a
// thesaurus. Each file declares one concept: the file stem is the
// concept name, and a `synonyms::` line registers comma-separated
// synonyms of it. Bad directives and unreadable files are logged and
// skipped; partial indexing is acceptable.
type MarkdownBuilder struct {
	logger *slog.Logger
}

// NewMarkdownBuilder creates a builder. A nil logger uses the default.
func NewMarkdownBuilder(logger *slog.Logger) *MarkdownBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarkdownBuilder{logger: logger}
}

// Build scans dir and returns the thesaurus named name. An empty or
// missing directory yields an empty thesaurus, not an error. The walk is
// cancellable through ctx.
func (b *MarkdownBuilder) Build(ctx context.Context, name, dir string) (*Thesaurus, error) {
	th := New(name)

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			b.logger.Warn("kg_path_skipped",
				slog.String("path", path),
				slog.String("error", err.Error()))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		// WalkDir only returns the error our callback returns, or a root
		// stat failure; the latter means the source is empty, not broken.
		b.logger.Warn("kg_dir_unreadable",
			slog.String("dir", dir),
			slog.String("error", err.Error()))
		return th, nil
	}
	// Deterministic concept ids regardless of filesystem order.
	sort.Strings(paths)

	seen := make(map[string]string) // normalized concept -> declaring file
	var nextID uint64 = 1

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, gserrors.Wrap(gserrors.ErrCodeThesaurusBuild, err)
		}

		concept := types.NormalizeTerm(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		if concept == "" {
			b.logger.Warn("kg_concept_empty", slog.String("path", path))
			continue
		}
		if prev, dup := seen[concept]; dup {
			b.logger.Warn("kg_concept_duplicate",
				slog.String("concept", concept),
				slog.String("path", path),
				slog.String("declared_in", prev))
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			b.logger.Warn("kg_file_unreadable",
				slog.String("path", path),
				slog.String("error", err.Error()))
			continue
		}

		seen[concept] = path
		term := types.NormalizedTerm{ID: nextID, Value: concept}
		nextID++

		// The concept name is always a synonym of itself.
		th.Insert(concept, term)

		for _, syn := range b.parseSynonyms(path, string(data)) {
			if existing, ok := th.Get(syn); ok && existing.ID != term.ID {
				b.logger.Warn("kg_synonym_remapped",
					slog.String("synonym", syn),
					slog.String("from", existing.Value),
					slog.String("to", term.Value))
			}
			th.Insert(syn, term)
		}
	}

	return th, nil
}

// parseSynonyms extracts synonym tokens from every `synonyms::` line in
// the file body. Malformed lines are warned and skipped.
func (b *MarkdownBuilder) parseSynonyms(path, body string) []string {
	var synonyms []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
		lower := strings.ToLower(trimmed)
		if !strings.HasPrefix(lower, "synonyms") {
			continue
		}
		if !strings.HasPrefix(lower, synonymsDirective) {
			b.logger.Warn("kg_directive_malformed",
				slog.String("path", path),
				slog.String("line", trimmed))
			continue
		}
		rest := trimmed[len(synonymsDirective):]
		for _, token := range strings.Split(rest, ",") {
			if syn := types.NormalizeTerm(token); syn != "" {
				synonyms = append(synonyms, syn)
			}
		}
	}
	return synonyms
}
