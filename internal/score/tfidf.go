package score

import (
	"math"

	"github.com/graphseek/graphseek/internal/types"
)

// TFIDFScorer is plain term-frequency times inverse-document-frequency
// over document bodies, without BM25's saturation or length
// normalization. Useful as a baseline.
type TFIDFScorer struct {
	stats corpusStats
}

func (s *TFIDFScorer) Initialize(docs []types.Document) {
	s.stats = buildCorpusStats(docs)
}

func (s *TFIDFScorer) Score(query string, doc types.Document) float64 {
	queryTerms := tokenize(query)
	if len(queryTerms) == 0 || s.stats.docCount == 0 {
		return 0.0
	}

	tf := termCounts(doc.Body)

	var score float64
	for _, term := range queryTerms {
		freq := float64(tf[term])
		if freq == 0 {
			continue
		}
		n := s.stats.docFreq[term]
		if n == 0 {
			continue
		}
		score += freq * math.Log(float64(s.stats.docCount)/float64(n))
	}
	return score
}
