// Package haystack turns document sources into Documents the ranking
// core can index. The filesystem haystack scans a directory tree for
// markdown and text files; the watcher observes a knowledge-graph
// directory and triggers debounced reloads.
package haystack

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	gserrors "github.com/graphseek/graphseek/internal/errors"
	"github.com/graphseek/graphseek/internal/types"
)

// DefaultMaxFileSize skips files larger than 10 MB; haystack content is
// prose, not binaries.
const DefaultMaxFileSize = 10 * 1024 * 1024

// ScanOptions configure a filesystem scan.
type ScanOptions struct {
	// Workers bounds concurrent file reads. Zero means NumCPU.
	Workers int
	// MaxFileSize skips larger files. Zero means DefaultMaxFileSize.
	MaxFileSize int64
	// Extensions lists the file extensions to index. Empty means .md and .txt.
	Extensions []string
}

// Scanner reads a directory tree into Documents.
type Scanner struct {
	logger *slog.Logger
}

// NewScanner returns a scanner. A nil logger falls back to slog.Default.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger}
}

// Scan walks root and returns one Document per matching file, sorted by
// id. The document id is the path relative to root, the title is the
// first "# " heading or the file stem, and the body is the content.
// Unreadable files are warned and skipped.
func (s *Scanner) Scan(ctx context.Context, root string) ([]types.Document, error) {
	return s.ScanWithOptions(ctx, root, ScanOptions{})
}

// ScanWithOptions is Scan with explicit options.
func (s *Scanner) ScanWithOptions(ctx context.Context, root string, opts ScanOptions) ([]types.Document, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeSourceUnavailable, err).
			WithDetail("path", root)
	}
	if !info.IsDir() {
		return nil, gserrors.Newf(gserrors.ErrCodeSourceUnavailable,
			"haystack path is not a directory: %s", root)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = []string{".md", ".txt"}
	}
	wanted := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(ext)] = struct{}{}
	}

	var paths []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("haystack walk error",
				slog.String("path", path),
				slog.String("error", err.Error()))
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			// Hidden directories hold VCS metadata, not content.
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := wanted[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if walkErr != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeSourceUnavailable, walkErr)
	}

	var mu sync.Mutex
	docs := make([]types.Document, 0, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, ok := s.readDocument(root, path, maxSize)
			if !ok {
				return nil
			}
			mu.Lock()
			docs = append(docs, doc)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeSourceUnavailable, err)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	s.logger.Debug("haystack scanned",
		slog.String("root", root),
		slog.Int("documents", len(docs)))
	return docs, nil
}

func (s *Scanner) readDocument(root, path string, maxSize int64) (types.Document, bool) {
	info, err := os.Stat(path)
	if err != nil {
		s.logger.Warn("haystack stat failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return types.Document{}, false
	}
	if info.Size() > maxSize {
		s.logger.Warn("haystack file too large, skipping",
			slog.String("path", path),
			slog.Int64("size", info.Size()))
		return types.Document{}, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("haystack file unreadable, skipping",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return types.Document{}, false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	body := string(data)
	return types.Document{
		ID:    filepath.ToSlash(rel),
		URL:   path,
		Title: documentTitle(body, path),
		Body:  body,
	}, true
}

// documentTitle takes the first "# " heading, falling back to the file
// stem.
func documentTitle(body, path string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(line, "# "); ok {
			if title := strings.TrimSpace(after); title != "" {
				return title
			}
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
