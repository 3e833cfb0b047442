package score

import (
	"sort"

	gserrors "github.com/graphseek/graphseek/internal/errors"
	"github.com/graphseek/graphseek/internal/types"
)

// Scorer ranks documents against a free-text query. Initialize is
// called once with the full candidate corpus so corpus-level statistics
// (document frequencies, average lengths) can be precomputed; Score is
// then pure per document.
type Scorer interface {
	Initialize(docs []types.Document)
	Score(query string, doc types.Document) float64
}

// ForRelevanceFunction returns the scorer implementing the given
// relevance function, with default parameters. Graph and fulltext
// ranking are dispatched elsewhere; asking for them here is an error.
func ForRelevanceFunction(rf types.RelevanceFunction) (Scorer, error) {
	return ForRelevanceFunctionWithParams(rf, DefaultParams(), DefaultFieldWeights())
}

// ForRelevanceFunctionWithParams is ForRelevanceFunction with explicit
// BM25-family parameters and BM25F field weights. The set-similarity
// and title scorers take no parameters and ignore them.
func ForRelevanceFunctionWithParams(rf types.RelevanceFunction, params Params, weights FieldWeights) (Scorer, error) {
	switch rf {
	case types.RelevanceTitleScorer:
		return &TitleScorer{}, nil
	case types.RelevanceBM25:
		return NewBM25Scorer(params), nil
	case types.RelevanceBM25F:
		return NewBM25FScorer(params, weights), nil
	case types.RelevanceBM25Plus:
		return NewBM25PlusScorer(params), nil
	case types.RelevanceTFIDF:
		return &TFIDFScorer{}, nil
	case types.RelevanceJaccard:
		return &JaccardScorer{}, nil
	case types.RelevanceQueryRatio:
		return &QueryRatioScorer{}, nil
	default:
		return nil, gserrors.Newf(gserrors.ErrCodeQueryInvalid,
			"no lexical scorer for relevance function %q", rf)
	}
}

// RescoreDocuments scores every document against the query with the
// scorer for rf, writes the score into Document.Rank, and returns the
// documents ordered by score descending with id ascending as tiebreak.
// The input slice is not modified.
func RescoreDocuments(query string, docs []types.Document, rf types.RelevanceFunction) ([]types.Document, error) {
	return RescoreDocumentsWithParams(query, docs, rf, DefaultParams(), DefaultFieldWeights())
}

// RescoreDocumentsWithParams is RescoreDocuments with explicit scorer
// parameters.
func RescoreDocumentsWithParams(query string, docs []types.Document, rf types.RelevanceFunction, params Params, weights FieldWeights) ([]types.Document, error) {
	scorer, err := ForRelevanceFunctionWithParams(rf, params, weights)
	if err != nil {
		return nil, err
	}
	scorer.Initialize(docs)

	out := make([]types.Document, len(docs))
	copy(out, docs)
	for i := range out {
		out[i].Rank = scorer.Score(query, out[i])
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank > out[j].Rank
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
