package score

import "github.com/graphseek/graphseek/internal/types"

// JaccardScorer scores the set similarity of the query tokens and the
// document body tokens: intersection over union, bounded to [0, 1].
// Corpus statistics are not needed.
type JaccardScorer struct{}

func (JaccardScorer) Initialize([]types.Document) {}

func (JaccardScorer) Score(query string, doc types.Document) float64 {
	queryTokens := termSet(query)
	docTokens := termSet(doc.Body)
	if len(queryTokens) == 0 || len(docTokens) == 0 {
		return 0.0
	}

	intersection := 0
	for tok := range queryTokens {
		if _, ok := docTokens[tok]; ok {
			intersection++
		}
	}
	union := len(queryTokens) + len(docTokens) - intersection
	return float64(intersection) / float64(union)
}

// QueryRatioScorer scores the fraction of distinct query tokens present
// anywhere in the document body, bounded to [0, 1]. Unlike Jaccard it
// does not penalize long documents.
type QueryRatioScorer struct{}

func (QueryRatioScorer) Initialize([]types.Document) {}

func (QueryRatioScorer) Score(query string, doc types.Document) float64 {
	queryTokens := termSet(query)
	if len(queryTokens) == 0 {
		return 0.0
	}
	docTokens := termSet(doc.Body)

	matched := 0
	for tok := range queryTokens {
		if _, ok := docTokens[tok]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(queryTokens))
}
