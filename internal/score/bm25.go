package score

import (
	"math"

	"github.com/graphseek/graphseek/internal/types"
)

// Params are the shared BM25-family tuning parameters.
type Params struct {
	// K1 controls term-frequency saturation.
	K1 float64
	// B controls document-length normalization.
	B float64
	// Delta is the BM25+ lower bound added per matched term.
	Delta float64
}

// DefaultParams returns the conventional BM25 parameters.
func DefaultParams() Params {
	return Params{K1: 1.2, B: 0.75, Delta: 1.0}
}

// FieldWeights weight each document field's term frequency in BM25F.
type FieldWeights struct {
	Title       float64
	Body        float64
	Description float64
	Tags        float64
}

// DefaultFieldWeights favor titles, then descriptions and tags, over body text.
func DefaultFieldWeights() FieldWeights {
	return FieldWeights{Title: 3.0, Body: 1.0, Description: 2.0, Tags: 2.5}
}

// corpusStats holds per-corpus statistics computed once in Initialize:
// document count, per-term document frequency, and average body length.
type corpusStats struct {
	docCount  int
	docFreq   map[string]int
	avgDocLen float64
}

func buildCorpusStats(docs []types.Document) corpusStats {
	stats := corpusStats{
		docCount: len(docs),
		docFreq:  make(map[string]int),
	}
	var totalLen int
	for _, doc := range docs {
		tokens := tokenize(doc.Body)
		totalLen += len(tokens)
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			stats.docFreq[tok]++
		}
	}
	if stats.docCount > 0 {
		stats.avgDocLen = float64(totalLen) / float64(stats.docCount)
	}
	return stats
}

// idf is the BM25 inverse document frequency, kept positive by the +1
// inside the log.
func (s corpusStats) idf(term string) float64 {
	n := float64(s.docFreq[term])
	return math.Log((float64(s.docCount)-n+0.5)/(n+0.5) + 1.0)
}

// BM25Scorer is Okapi BM25 over document bodies.
type BM25Scorer struct {
	params Params
	stats  corpusStats
}

// NewBM25Scorer returns a BM25 scorer with the given parameters.
func NewBM25Scorer(params Params) *BM25Scorer {
	return &BM25Scorer{params: params}
}

// Initialize precomputes corpus statistics.
func (s *BM25Scorer) Initialize(docs []types.Document) {
	s.stats = buildCorpusStats(docs)
}

// Score returns the BM25 score of doc for query. Empty queries and
// empty corpora score zero.
func (s *BM25Scorer) Score(query string, doc types.Document) float64 {
	queryTerms := tokenize(query)
	if len(queryTerms) == 0 || s.stats.docCount == 0 {
		return 0.0
	}

	tf := termCounts(doc.Body)
	docLen := float64(len(tokenize(doc.Body)))

	var score float64
	for _, term := range queryTerms {
		freq := float64(tf[term])
		if freq == 0 {
			continue
		}
		norm := s.params.K1 * (1.0 - s.params.B + s.params.B*docLen/s.stats.avgDocLen)
		score += s.stats.idf(term) * (freq * (s.params.K1 + 1.0)) / (freq + norm)
	}
	return score
}

// BM25PlusScorer is BM25+ over document bodies: BM25 with a delta bonus
// added per matched term so long documents are not unboundedly
// penalized relative to short ones.
type BM25PlusScorer struct {
	params Params
	stats  corpusStats
}

// NewBM25PlusScorer returns a BM25+ scorer with the given parameters.
func NewBM25PlusScorer(params Params) *BM25PlusScorer {
	return &BM25PlusScorer{params: params}
}

func (s *BM25PlusScorer) Initialize(docs []types.Document) {
	s.stats = buildCorpusStats(docs)
}

func (s *BM25PlusScorer) Score(query string, doc types.Document) float64 {
	queryTerms := tokenize(query)
	if len(queryTerms) == 0 || s.stats.docCount == 0 {
		return 0.0
	}

	tf := termCounts(doc.Body)
	docLen := float64(len(tokenize(doc.Body)))

	var score float64
	for _, term := range queryTerms {
		freq := float64(tf[term])
		if freq == 0 {
			continue
		}
		norm := s.params.K1 * (1.0 - s.params.B + s.params.B*docLen/s.stats.avgDocLen)
		score += s.stats.idf(term) * (s.params.Delta + (freq*(s.params.K1+1.0))/(freq+norm))
	}
	return score
}
