package score

import "github.com/graphseek/graphseek/internal/types"

// TitleScorer is the default cheap scorer: the fraction of distinct
// query tokens that appear in the document title. It needs no corpus
// pass and never allocates per-corpus state.
type TitleScorer struct{}

func (TitleScorer) Initialize([]types.Document) {}

func (TitleScorer) Score(query string, doc types.Document) float64 {
	queryTokens := termSet(query)
	if len(queryTokens) == 0 {
		return 0.0
	}
	titleTokens := termSet(doc.Title)

	matched := 0
	for tok := range queryTokens {
		if _, ok := titleTokens[tok]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(queryTokens))
}
