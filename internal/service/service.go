// Package service owns the named roles and dispatches searches to the
// ranking backend each role is configured with: the knowledge graph, a
// lexical scorer, or the fulltext index.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	gserrors "github.com/graphseek/graphseek/internal/errors"
	"github.com/graphseek/graphseek/internal/index"
	"github.com/graphseek/graphseek/internal/rolegraph"
	"github.com/graphseek/graphseek/internal/score"
	"github.com/graphseek/graphseek/internal/thesaurus"
	"github.com/graphseek/graphseek/internal/types"
)

// queryCacheSize bounds the shared graph-query result cache.
const queryCacheSize = 512

// roleState is everything one role carries: its ranking backend plus
// the raw document collection. The epoch counter versions the document
// set so stale cache entries die on insertion without a scan.
type roleState struct {
	name      string
	relevance types.RelevanceFunction
	thesaurus *thesaurus.Thesaurus

	graph    *rolegraph.Sync      // graph roles only
	fulltext *index.FulltextIndex // fulltext roles only

	params  score.Params       // scorer roles only
	weights score.FieldWeights // bm25f only

	mu    sync.RWMutex
	docs  map[string]types.Document
	epoch atomic.Uint64
}

// Service holds the roles and a shared LRU cache of graph query results.
type Service struct {
	mu     sync.RWMutex
	roles  map[string]*roleState
	cache  *lru.Cache[string, []types.Document]
	logger *slog.Logger
}

// New creates an empty service. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.New[string, []types.Document](queryCacheSize)
	if err != nil {
		return nil, err
	}
	return &Service{
		roles:  make(map[string]*roleState),
		cache:  cache,
		logger: logger,
	}, nil
}

// AddRole registers (or replaces) a role with the given relevance
// function and thesaurus. Graph roles compile their matcher here;
// a compile failure is fatal to the role and nothing is registered.
func (s *Service) AddRole(name string, rf types.RelevanceFunction, th *thesaurus.Thesaurus) error {
	if !rf.Valid() {
		return gserrors.Newf(gserrors.ErrCodeConfigInvalid,
			"unknown relevance function %q for role %q", rf, name)
	}

	state := &roleState{
		name:      name,
		relevance: rf,
		thesaurus: th,
		docs:      make(map[string]types.Document),
		params:    score.DefaultParams(),
		weights:   score.DefaultFieldWeights(),
	}

	switch rf {
	case types.RelevanceGraph:
		graph, err := rolegraph.New(name, th)
		if err != nil {
			return err
		}
		state.graph = rolegraph.NewSync(graph)
	case types.RelevanceFulltext:
		idx, err := index.NewFulltextIndex("")
		if err != nil {
			return err
		}
		state.fulltext = idx
	}

	s.mu.Lock()
	if prior, ok := s.roles[name]; ok {
		// Replacing a role: keep the epoch monotonic so cached results
		// from the prior incarnation can never be served, carry the
		// scorer tuning forward, and release its fulltext index.
		state.epoch.Store(prior.epoch.Load() + 1)
		state.params = prior.params
		state.weights = prior.weights
		if prior.fulltext != nil {
			_ = prior.fulltext.Close()
		}
	}
	s.roles[name] = state
	s.mu.Unlock()

	s.logger.Info("role registered",
		slog.String("role", name),
		slog.String("relevance", string(rf)),
		slog.Int("thesaurus_terms", thesaurusLen(th)))
	return nil
}

// SetScorerParams overrides the BM25-family tuning for a scorer role.
// Graph and fulltext roles ignore the values.
func (s *Service) SetScorerParams(role string, params score.Params, weights score.FieldWeights) error {
	state, err := s.role(role)
	if err != nil {
		return err
	}
	state.mu.Lock()
	state.params = params
	state.weights = weights
	state.mu.Unlock()
	return nil
}

func thesaurusLen(th *thesaurus.Thesaurus) int {
	if th == nil {
		return 0
	}
	return th.Len()
}

// ReloadRole rebuilds a role's ranking backend from a fresh thesaurus
// and re-inserts every document the role already holds. Used when the
// knowledge-graph source changes on disk.
func (s *Service) ReloadRole(ctx context.Context, name string, th *thesaurus.Thesaurus) error {
	state, err := s.role(name)
	if err != nil {
		return err
	}

	state.mu.RLock()
	docs := make([]types.Document, 0, len(state.docs))
	for _, doc := range state.docs {
		docs = append(docs, doc)
	}
	state.mu.RUnlock()
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	if err := s.AddRole(name, state.relevance, th); err != nil {
		return err
	}
	if err := s.AddDocuments(ctx, name, docs); err != nil {
		return err
	}

	s.logger.Info("role reloaded",
		slog.String("role", name),
		slog.Int("documents", len(docs)))
	return nil
}

// AddDocuments inserts documents into a role. Re-inserting an existing
// id supersedes the prior version. Cached query results for the role
// are invalidated.
func (s *Service) AddDocuments(ctx context.Context, role string, docs []types.Document) error {
	state, err := s.role(role)
	if err != nil {
		return err
	}

	if state.graph != nil {
		err := state.graph.WithLock(func(g *rolegraph.RoleGraph) error {
			for _, doc := range docs {
				if err := ctx.Err(); err != nil {
					return gserrors.Wrap(gserrors.ErrCodeQueryCancelled, err)
				}
				g.InsertDocument(doc.ID, doc)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	if state.fulltext != nil {
		if err := state.fulltext.Index(ctx, docs); err != nil {
			return err
		}
	}

	state.mu.Lock()
	for _, doc := range docs {
		state.docs[doc.ID] = doc
	}
	state.mu.Unlock()
	state.epoch.Add(1)

	s.logger.Debug("documents added",
		slog.String("role", role),
		slog.Int("count", len(docs)))
	return nil
}

// Search ranks the role's documents against the query and returns them
// ordered by rank, paginated by Skip/Limit. A blank search term or an
// unknown role is a typed query error.
func (s *Service) Search(ctx context.Context, q types.SearchQuery) ([]types.Document, error) {
	term := strings.TrimSpace(q.SearchTerm)
	if term == "" {
		return nil, gserrors.QueryError(gserrors.ErrCodeQueryInvalid, "blank search term")
	}

	state, err := s.role(q.Role)
	if err != nil {
		return nil, err
	}

	switch {
	case state.graph != nil:
		return s.searchGraph(ctx, state, term, q.Skip, q.Limit)
	case state.fulltext != nil:
		return s.searchFulltext(ctx, state, term, q.Skip, q.Limit)
	default:
		return s.searchScorer(state, term, q.Skip, q.Limit)
	}
}

func (s *Service) searchGraph(ctx context.Context, state *roleState, term string, skip, limit int) ([]types.Document, error) {
	key := fmt.Sprintf("%s|%d|%s|%d|%d", state.name, state.epoch.Load(), term, skip, limit)
	if cached, ok := s.cache.Get(key); ok {
		s.logger.Debug("graph query cache hit", slog.String("role", state.name))
		return cached, nil
	}

	var ranked []types.IndexedDocument
	var results []types.Document
	err := state.graph.WithLock(func(g *rolegraph.RoleGraph) error {
		var qErr error
		ranked, qErr = g.QueryGraph(ctx, term, skip, limit)
		if qErr != nil {
			return qErr
		}
		results = make([]types.Document, 0, len(ranked))
		for _, idoc := range ranked {
			doc, ok := g.GetDocument(idoc.ID)
			if !ok {
				continue
			}
			doc.Rank = idoc.NormalizedRank
			results = append(results, doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Add(key, results)
	return results, nil
}

func (s *Service) searchScorer(state *roleState, term string, skip, limit int) ([]types.Document, error) {
	state.mu.RLock()
	docs := make([]types.Document, 0, len(state.docs))
	for _, doc := range state.docs {
		docs = append(docs, doc)
	}
	params, weights := state.params, state.weights
	state.mu.RUnlock()
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	ranked, err := score.RescoreDocumentsWithParams(term, docs, state.relevance, params, weights)
	if err != nil {
		return nil, err
	}
	return paginateDocs(ranked, skip, limit), nil
}

func (s *Service) searchFulltext(ctx context.Context, state *roleState, term string, skip, limit int) ([]types.Document, error) {
	hits, err := state.fulltext.Search(ctx, term, 0)
	if err != nil {
		return nil, err
	}

	state.mu.RLock()
	results := make([]types.Document, 0, len(hits))
	for _, hit := range hits {
		doc, ok := state.docs[hit.DocID]
		if !ok {
			continue
		}
		doc.Rank = hit.Score
		results = append(results, doc)
	}
	state.mu.RUnlock()

	return paginateDocs(results, skip, limit), nil
}

// ConnectedByPath reports whether every concept matched in text shares
// one connected component in the role's graph. Only graph roles support
// connectivity queries.
func (s *Service) ConnectedByPath(role, text string) (bool, error) {
	state, err := s.role(role)
	if err != nil {
		return false, err
	}
	if state.graph == nil {
		return false, gserrors.QueryError(gserrors.ErrCodeQueryInvalid,
			"role "+role+" has no knowledge graph")
	}

	var connected bool
	err = state.graph.WithLock(func(g *rolegraph.RoleGraph) error {
		connected = g.IsAllTermsConnectedByPath(text)
		return nil
	})
	return connected, err
}

// MatchingNodeIDs returns the concept ids matched in text, in
// first-occurrence order. Only graph roles support node queries.
func (s *Service) MatchingNodeIDs(role, text string) ([]uint64, error) {
	state, err := s.role(role)
	if err != nil {
		return nil, err
	}
	if state.graph == nil {
		return nil, gserrors.QueryError(gserrors.ErrCodeQueryInvalid,
			"role "+role+" has no knowledge graph")
	}

	var ids []uint64
	err = state.graph.WithLock(func(g *rolegraph.RoleGraph) error {
		ids = g.FindMatchingNodeIDs(text)
		return nil
	})
	return ids, err
}

// DocumentCount returns how many documents the role holds.
func (s *Service) DocumentCount(role string) (int, error) {
	state, err := s.role(role)
	if err != nil {
		return 0, err
	}
	state.mu.RLock()
	defer state.mu.RUnlock()
	return len(state.docs), nil
}

// Roles returns the registered role names, sorted.
func (s *Service) Roles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.roles))
	for name := range s.roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close releases per-role resources (fulltext indexes).
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for _, state := range s.roles {
		if state.fulltext != nil {
			if err := state.fulltext.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *Service) role(name string) (*roleState, error) {
	s.mu.RLock()
	state, ok := s.roles[name]
	s.mu.RUnlock()
	if !ok {
		return nil, gserrors.QueryError(gserrors.ErrCodeRoleUnknown, "unknown role "+name)
	}
	return state, nil
}

func paginateDocs(docs []types.Document, skip, limit int) []types.Document {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(docs) {
		return nil
	}
	docs = docs[skip:]
	if limit > 0 && limit < len(docs) {
		docs = docs[:limit]
	}
	return docs
}
