// Package types defines the value types shared across the search core:
// documents produced by haystacks, search queries produced by callers, and
// the concept/term vocabulary of the knowledge graph.
package types

import "strings"

// NormalizeTerm lowercases and trims a raw term so that case and
// surrounding-whitespace variants of a synonym resolve to the same key.
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// Concept is a canonical knowledge-graph term. Immutable once assigned.
type Concept struct {
	ID    uint64 `json:"id"`
	Value string `json:"value"`
}

// NormalizedTerm is the canonical term a synonym maps to.
// Many synonyms share one id.
type NormalizedTerm struct {
	// ID is unique per knowledge graph, not globally.
	ID uint64 `json:"id"`
	// Value is the normalized (lowercased, trimmed) canonical term.
	Value string `json:"nterm"`
	// URL optionally points at the term's definition.
	URL string `json:"url,omitempty"`
}

// Document is the unit of content produced by haystack scanners and
// consumed by the ranking core.
type Document struct {
	// ID uniquely identifies the document (typically a path or UUID).
	ID string `json:"id"`
	// URL is the source location of the document.
	URL string `json:"url,omitempty"`
	// Title of the document.
	Title string `json:"title"`
	// Body is the full text content.
	Body string `json:"body"`
	// Description is an optional short description.
	Description string `json:"description,omitempty"`
	// Tags categorize the document.
	Tags []string `json:"tags,omitempty"`
	// Rank is the relevance score assigned by search. Zero before scoring.
	Rank float64 `json:"rank,omitempty"`
}

// MatchableText returns the text the concept matcher scans:
// title followed by body.
func (d Document) MatchableText() string {
	if d.Title == "" {
		return d.Body
	}
	return d.Title + " " + d.Body
}

// IndexedDocument is the unit returned by a graph query, carrying the
// accumulated rank and the provenance that produced it.
type IndexedDocument struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Body  string   `json:"body"`
	URL   string   `json:"url,omitempty"`
	// Tags are the normalized terms of the concepts the query matched.
	Tags []string `json:"tags,omitempty"`
	// Nodes are the matched concept ids, for validation of matching.
	Nodes []uint64 `json:"nodes,omitempty"`
	// Rank is the accumulated total rank (node + edge + document).
	Rank uint64 `json:"rank"`
	// NormalizedRank is Rank divided by the maximum rank in the result set.
	NormalizedRank float64 `json:"normalized_rank"`
}

// SearchQuery is a request to rank documents for a role.
type SearchQuery struct {
	// SearchTerm is the raw query text.
	SearchTerm string `json:"search_term"`
	// Role selects which role configuration ranks the results.
	Role string `json:"role"`
	// Skip is the number of ranked results to skip (pagination).
	Skip int `json:"skip,omitempty"`
	// Limit caps the number of results returned. Zero means no cap.
	Limit int `json:"limit,omitempty"`
}

// RelevanceFunction selects how a role ranks documents: the knowledge
// graph, one of the lexical scorers, or the fulltext index.
type RelevanceFunction string

const (
	// RelevanceGraph ranks through the role's concept graph.
	RelevanceGraph RelevanceFunction = "graph"
	// RelevanceTitleScorer is the cheap default title-overlap scorer.
	RelevanceTitleScorer RelevanceFunction = "title-scorer"
	// RelevanceBM25 is Okapi BM25 over document bodies.
	RelevanceBM25 RelevanceFunction = "bm25"
	// RelevanceBM25F is BM25 with weighted term frequency across fields.
	RelevanceBM25F RelevanceFunction = "bm25f"
	// RelevanceBM25Plus is BM25 with a per-term delta bonus.
	RelevanceBM25Plus RelevanceFunction = "bm25plus"
	// RelevanceTFIDF is plain term-frequency * inverse-document-frequency.
	RelevanceTFIDF RelevanceFunction = "tfidf"
	// RelevanceJaccard is the set intersection/union ratio, bounded [0,1].
	RelevanceJaccard RelevanceFunction = "jaccard"
	// RelevanceQueryRatio is the fraction of query terms present, [0,1].
	RelevanceQueryRatio RelevanceFunction = "query-ratio"
	// RelevanceFulltext ranks through the bleve fulltext index.
	RelevanceFulltext RelevanceFunction = "fulltext"
)

// Valid reports whether rf names a known relevance function.
func (rf RelevanceFunction) Valid() bool {
	switch rf {
	case RelevanceGraph, RelevanceTitleScorer, RelevanceBM25, RelevanceBM25F,
		RelevanceBM25Plus, RelevanceTFIDF, RelevanceJaccard,
		RelevanceQueryRatio, RelevanceFulltext:
		return true
	}
	return false
}

// IsScorer reports whether rf is one of the lexical scorers
// (everything except graph and fulltext ranking).
func (rf RelevanceFunction) IsScorer() bool {
	return rf.Valid() && rf != RelevanceGraph && rf != RelevanceFulltext
}

// ParseRelevanceFunction parses a configuration string into a
// RelevanceFunction. The empty string selects the title scorer.
func ParseRelevanceFunction(s string) (RelevanceFunction, bool) {
	if s == "" {
		return RelevanceTitleScorer, true
	}
	rf := RelevanceFunction(strings.ToLower(strings.TrimSpace(s)))
	return rf, rf.Valid()
}
