// Package rolegraph implements the per-role knowledge graph: a node table
// of concepts, an edge table of concept co-occurrences, and a document
// table, queried with a deterministic additive ranking formula
// (total_rank = node.rank + edge.rank + document co-occurrence count).
package rolegraph

import (
	"context"
	"sort"

	"github.com/graphseek/graphseek/internal/automata"
	gserrors "github.com/graphseek/graphseek/internal/errors"
	"github.com/graphseek/graphseek/internal/thesaurus"
	"github.com/graphseek/graphseek/internal/types"
)

// Node is one concept that has appeared in at least one inserted
// document. Rank accumulates as matches occur and only decreases when a
// prior insertion of the same document is superseded.
type Node struct {
	ID    uint64
	Rank  uint64
	Edges map[uint64]struct{}
}

// Edge connects two concept nodes observed co-occurring in the same
// document. DocHash records, per contributing document, how many times
// the edge's term pair co-occurred; it is the provenance that makes
// ranking explainable.
type Edge struct {
	ID      uint64
	Source  uint64
	Target  uint64
	Rank    uint64
	DocHash map[string]uint64
}

// docContribution records exactly which increments one document
// insertion applied, so re-inserting the same id supersedes rather than
// accumulates.
type docContribution struct {
	nodes map[uint64]uint64 // node id -> rank applied
	edges map[uint64]edgeContribution
}

type edgeContribution struct {
	rank     uint64
	docCount uint64
}

// RoleGraph owns one thesaurus, its compiled matcher, and the
// node/edge/document tables for a single role. It is not safe for
// concurrent use; wrap it in a Sync for shared access.
type RoleGraph struct {
	role      string
	thesaurus *thesaurus.Thesaurus
	matcher   *automata.Matcher

	nodes     map[uint64]*Node
	edges     map[uint64]*Edge
	documents map[string]types.Document
	contrib   map[string]docContribution
}

// New allocates an empty graph bound to the given thesaurus. It fails
// only if automaton compilation fails.
func New(role string, th *thesaurus.Thesaurus) (*RoleGraph, error) {
	matcher, err := automata.Compile(th)
	if err != nil {
		return nil, gserrors.BuildError(gserrors.ErrCodeAutomataCompile,
			"compiling matcher for role "+role, err)
	}
	return &RoleGraph{
		role:      role,
		thesaurus: th,
		matcher:   matcher,
		nodes:     make(map[uint64]*Node),
		edges:     make(map[uint64]*Edge),
		documents: make(map[string]types.Document),
		contrib:   make(map[string]docContribution),
	}, nil
}

// Role returns the role name the graph is bound to.
func (g *RoleGraph) Role() string {
	return g.role
}

// Thesaurus returns the thesaurus the graph was built from.
func (g *RoleGraph) Thesaurus() *thesaurus.Thesaurus {
	return g.thesaurus
}

// NodeCount returns the number of concept nodes.
func (g *RoleGraph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of co-occurrence edges.
func (g *RoleGraph) EdgeCount() int {
	return len(g.edges)
}

// DocumentCount returns the number of stored documents.
func (g *RoleGraph) DocumentCount() int {
	return len(g.documents)
}

// GetDocument returns a stored document by id.
func (g *RoleGraph) GetDocument(id string) (types.Document, bool) {
	doc, ok := g.documents[id]
	return doc, ok
}

// FindMatchingNodeIDs matches text against the thesaurus and returns the
// matched concept ids, deduplicated, in first-occurrence order.
func (g *RoleGraph) FindMatchingNodeIDs(text string) []uint64 {
	matches := g.matcher.FindMatches(text)
	seen := make(map[uint64]struct{}, len(matches))
	ids := make([]uint64, 0, len(matches))
	for _, m := range matches {
		if _, dup := seen[m.ConceptID]; dup {
			continue
		}
		seen[m.ConceptID] = struct{}{}
		ids = append(ids, m.ConceptID)
	}
	return ids
}

// InsertDocument indexes a document into the graph. Every unique matched
// concept's node rank grows by that concept's occurrence count; every
// unordered pair of co-occurring concepts gets an edge whose rank grows
// by one and whose DocHash entry records the pair's co-occurrence count.
// Re-inserting an id supersedes the prior insertion instead of
// accumulating on top of it.
func (g *RoleGraph) InsertDocument(id string, doc types.Document) {
	if prior, ok := g.contrib[id]; ok {
		g.removeContribution(id, prior)
	}

	counts := make(map[uint64]uint64)
	var order []uint64
	for _, m := range g.matcher.FindMatches(doc.MatchableText()) {
		if counts[m.ConceptID] == 0 {
			order = append(order, m.ConceptID)
		}
		counts[m.ConceptID]++
	}

	contrib := docContribution{
		nodes: make(map[uint64]uint64, len(counts)),
		edges: make(map[uint64]edgeContribution),
	}

	for _, conceptID := range order {
		c := counts[conceptID]
		node := g.ensureNode(conceptID)
		node.Rank += c
		contrib.nodes[conceptID] = c
	}

	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			a, b := order[i], order[j]
			co := min(counts[a], counts[b])
			key := pairKey(a, b)

			edge := g.ensureEdge(key, a, b)
			edge.Rank++
			edge.DocHash[id] += co

			g.nodes[a].Edges[key] = struct{}{}
			g.nodes[b].Edges[key] = struct{}{}
			contrib.edges[key] = edgeContribution{rank: 1, docCount: co}
		}
	}

	g.documents[id] = doc
	g.contrib[id] = contrib
}

// removeContribution undoes one prior insertion, deleting nodes and
// edges whose rank drops to zero.
func (g *RoleGraph) removeContribution(id string, prior docContribution) {
	for key, ec := range prior.edges {
		edge, ok := g.edges[key]
		if !ok {
			continue
		}
		edge.Rank -= ec.rank
		if count, ok := edge.DocHash[id]; ok {
			if count <= ec.docCount {
				delete(edge.DocHash, id)
			} else {
				edge.DocHash[id] = count - ec.docCount
			}
		}
		if edge.Rank == 0 {
			delete(g.edges, key)
			if n, ok := g.nodes[edge.Source]; ok {
				delete(n.Edges, key)
			}
			if n, ok := g.nodes[edge.Target]; ok {
				delete(n.Edges, key)
			}
		}
	}
	for conceptID, rank := range prior.nodes {
		node, ok := g.nodes[conceptID]
		if !ok {
			continue
		}
		node.Rank -= rank
		if node.Rank == 0 {
			delete(g.nodes, conceptID)
		}
	}
	delete(g.documents, id)
	delete(g.contrib, id)
}

// queryAccum accumulates per-document rank and provenance during a query.
type queryAccum struct {
	rank  uint64
	tags  map[string]struct{}
	nodes map[uint64]struct{}
}

// QueryGraph matches queryText against the thesaurus and ranks every
// document referenced by an edge incident on a matched node:
// total_rank = node.rank + edge.rank + edge.DocHash[doc], summed across
// all contributing (node, edge) pairs. Results are ordered rank
// descending with document id ascending as tiebreak, normalized against
// the maximum rank, then paginated by skip/limit (limit <= 0 means no cap).
// Matched concepts with no node in the graph contribute nothing; a query
// on an empty graph returns no results.
func (g *RoleGraph) QueryGraph(ctx context.Context, queryText string, skip, limit int) ([]types.IndexedDocument, error) {
	nodeIDs := g.FindMatchingNodeIDs(queryText)

	accums := make(map[string]*queryAccum)
	for _, nodeID := range nodeIDs {
		if err := ctx.Err(); err != nil {
			return nil, gserrors.Wrap(gserrors.ErrCodeQueryCancelled, err)
		}
		node, ok := g.nodes[nodeID]
		if !ok {
			continue
		}
		term, _ := g.matcher.ReverseTerm(nodeID)

		for edgeID := range node.Edges {
			edge := g.edges[edgeID]
			for docID, co := range edge.DocHash {
				acc := accums[docID]
				if acc == nil {
					acc = &queryAccum{
						tags:  make(map[string]struct{}),
						nodes: make(map[uint64]struct{}),
					}
					accums[docID] = acc
				}
				acc.rank += node.Rank + edge.Rank + co
				acc.tags[term] = struct{}{}
				acc.nodes[nodeID] = struct{}{}
			}
		}
	}

	results := make([]types.IndexedDocument, 0, len(accums))
	var maxRank uint64
	for docID, acc := range accums {
		doc := g.documents[docID]
		results = append(results, types.IndexedDocument{
			ID:    docID,
			Title: doc.Title,
			Body:  doc.Body,
			URL:   doc.URL,
			Tags:  sortedKeys(acc.tags),
			Nodes: sortedIDs(acc.nodes),
			Rank:  acc.rank,
		})
		if acc.rank > maxRank {
			maxRank = acc.rank
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Rank != results[j].Rank {
			return results[i].Rank > results[j].Rank
		}
		return results[i].ID < results[j].ID
	})

	for i := range results {
		results[i].NormalizedRank = float64(results[i].Rank) / float64(maxRank)
	}

	return paginate(results, skip, limit), nil
}

// IsAllTermsConnectedByPath matches text to a set of concept nodes and
// reports whether the induced subgraph restricted to those nodes is one
// connected component spanning all of them. Trivially true for zero or
// one matched node; false if any matched concept has never appeared in a
// document.
func (g *RoleGraph) IsAllTermsConnectedByPath(text string) bool {
	ids := g.FindMatchingNodeIDs(text)
	if len(ids) <= 1 {
		return true
	}

	inSet := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := g.nodes[id]; !ok {
			return false
		}
		inSet[id] = struct{}{}
	}

	// BFS over edges whose both endpoints are matched.
	visited := map[uint64]struct{}{ids[0]: {}}
	queue := []uint64{ids[0]}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for edgeID := range g.nodes[current].Edges {
			edge := g.edges[edgeID]
			for _, neighbor := range []uint64{edge.Source, edge.Target} {
				if neighbor == current {
					continue
				}
				if _, ok := inSet[neighbor]; !ok {
					continue
				}
				if _, seen := visited[neighbor]; seen {
					continue
				}
				visited[neighbor] = struct{}{}
				queue = append(queue, neighbor)
			}
		}
	}

	return len(visited) == len(ids)
}

func (g *RoleGraph) ensureNode(id uint64) *Node {
	node, ok := g.nodes[id]
	if !ok {
		node = &Node{ID: id, Edges: make(map[uint64]struct{})}
		g.nodes[id] = node
	}
	return node
}

func (g *RoleGraph) ensureEdge(key, a, b uint64) *Edge {
	edge, ok := g.edges[key]
	if !ok {
		source, target := a, b
		if source > target {
			source, target = target, source
		}
		edge = &Edge{
			ID:      key,
			Source:  source,
			Target:  target,
			DocHash: make(map[string]uint64),
		}
		g.edges[key] = edge
	}
	return edge
}

func paginate(results []types.IndexedDocument, skip, limit int) []types.IndexedDocument {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(results) {
		return nil
	}
	results = results[skip:]
	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedIDs(set map[uint64]struct{}) []uint64 {
	out := make([]uint64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
