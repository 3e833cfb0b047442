// Package index wraps Bleve v2 as the fulltext relevance backend. Roles
// configured with the "fulltext" relevance function rank documents here
// instead of through a knowledge graph or a lexical scorer.
package index

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	gserrors "github.com/graphseek/graphseek/internal/errors"
	"github.com/graphseek/graphseek/internal/types"
)

const proseAnalyzerName = "prose_analyzer"

// Field boosts mirror the BM25F field weights so fulltext and lexical
// ranking agree on which fields matter most.
const (
	boostTitle       = 3.0
	boostBody        = 1.0
	boostDescription = 2.0
	boostTags        = 2.5
)

// FulltextIndex ranks documents with Bleve's scoring across the title,
// body, description, and tags fields.
type FulltextIndex struct {
	mu     sync.RWMutex
	index  bleve.Index
	path   string
	closed bool
}

// indexedFields is the shape Bleve stores per document.
type indexedFields struct {
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Result is one fulltext hit.
type Result struct {
	DocID string
	Score float64
}

// NewFulltextIndex opens or creates an index at path. An empty path
// creates an in-memory index, used by tests and transient roles.
func NewFulltextIndex(path string) (*FulltextIndex, error) {
	indexMapping, err := buildIndexMapping()
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeIndexBuild, err)
	}

	var idx bleve.Index
	if path == "" {
		idx, err = bleve.NewMemOnly(indexMapping)
	} else {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			return nil, gserrors.Wrap(gserrors.ErrCodeIndexBuild, mkErr)
		}
		idx, err = bleve.Open(path)
		if err == bleve.ErrorIndexPathDoesNotExist {
			idx, err = bleve.New(path, indexMapping)
		}
	}
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeIndexBuild, err)
	}

	return &FulltextIndex{index: idx, path: path}, nil
}

func buildIndexMapping() (*mapping.IndexMappingImpl, error) {
	indexMapping := bleve.NewIndexMapping()
	err := indexMapping.AddCustomAnalyzer(proseAnalyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, err
	}
	indexMapping.DefaultAnalyzer = proseAnalyzerName
	return indexMapping, nil
}

// Index adds or replaces documents in one batch.
func (f *FulltextIndex) Index(ctx context.Context, docs []types.Document) error {
	if len(docs) == 0 {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return gserrors.Newf(gserrors.ErrCodeIndexBuild, "index is closed")
	}

	batch := f.index.NewBatch()
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return gserrors.Wrap(gserrors.ErrCodeIndexBuild, err)
		}
		fields := indexedFields{
			Title:       doc.Title,
			Body:        doc.Body,
			Description: doc.Description,
			Tags:        doc.Tags,
		}
		if err := batch.Index(doc.ID, fields); err != nil {
			return gserrors.Wrap(gserrors.ErrCodeIndexBuild, err)
		}
	}
	if err := f.index.Batch(batch); err != nil {
		return gserrors.Wrap(gserrors.ErrCodeIndexBuild, err)
	}
	return nil
}

// Delete removes documents by id in one batch.
func (f *FulltextIndex) Delete(docIDs []string) error {
	if len(docIDs) == 0 {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return gserrors.Newf(gserrors.ErrCodeIndexBuild, "index is closed")
	}

	batch := f.index.NewBatch()
	for _, id := range docIDs {
		batch.Delete(id)
	}
	if err := f.index.Batch(batch); err != nil {
		return gserrors.Wrap(gserrors.ErrCodeIndexBuild, err)
	}
	return nil
}

// Search runs the query against all fields as a boosted disjunction and
// returns hits in score order. A blank query returns no hits. A limit
// of zero or below returns every hit.
func (f *FulltextIndex) Search(ctx context.Context, queryStr string, limit int) ([]Result, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return nil, gserrors.QueryError(gserrors.ErrCodeQueryInvalid, "index is closed")
	}
	if strings.TrimSpace(queryStr) == "" {
		return nil, nil
	}

	q := bleve.NewDisjunctionQuery(
		fieldMatch(queryStr, "title", boostTitle),
		fieldMatch(queryStr, "body", boostBody),
		fieldMatch(queryStr, "description", boostDescription),
		fieldMatch(queryStr, "tags", boostTags),
	)

	req := bleve.NewSearchRequest(q)
	if limit > 0 {
		req.Size = limit
	} else {
		docCount, _ := f.index.DocCount()
		req.Size = int(docCount)
	}

	res, err := f.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeQueryCancelled, err)
	}

	results := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		results = append(results, Result{DocID: hit.ID, Score: hit.Score})
	}
	return results, nil
}

func fieldMatch(queryStr, field string, boost float64) query.Query {
	q := bleve.NewMatchQuery(queryStr)
	q.SetField(field)
	q.SetBoost(boost)
	return q
}

// DocCount returns the number of indexed documents.
func (f *FulltextIndex) DocCount() (uint64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return 0, gserrors.Newf(gserrors.ErrCodeIndexBuild, "index is closed")
	}
	return f.index.DocCount()
}

// Close releases the underlying index. Safe to call twice.
func (f *FulltextIndex) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true
	if f.index != nil {
		return f.index.Close()
	}
	return nil
}
