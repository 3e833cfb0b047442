package score

import (
	"strings"

	"github.com/graphseek/graphseek/internal/types"
)

// fieldName indexes the per-field statistics arrays.
const (
	fieldTitle = iota
	fieldBody
	fieldDescription
	fieldTags
	fieldCount
)

// BM25FScorer is BM25F: term frequencies are collected per field,
// normalized against that field's average length, weighted, and summed
// into one saturated score per query term. A title hit outweighs the
// same hit buried in the body.
type BM25FScorer struct {
	params  Params
	weights FieldWeights

	docCount    int
	docFreq     map[string]int
	avgFieldLen [fieldCount]float64
}

// NewBM25FScorer returns a BM25F scorer with the given parameters and
// field weights.
func NewBM25FScorer(params Params, weights FieldWeights) *BM25FScorer {
	return &BM25FScorer{params: params, weights: weights}
}

func fieldText(doc types.Document, field int) string {
	switch field {
	case fieldTitle:
		return doc.Title
	case fieldBody:
		return doc.Body
	case fieldDescription:
		return doc.Description
	case fieldTags:
		return strings.Join(doc.Tags, " ")
	}
	return ""
}

func (s *BM25FScorer) weight(field int) float64 {
	switch field {
	case fieldTitle:
		return s.weights.Title
	case fieldBody:
		return s.weights.Body
	case fieldDescription:
		return s.weights.Description
	case fieldTags:
		return s.weights.Tags
	}
	return 0.0
}

// Initialize computes document frequencies over all fields combined and
// the average length of each field.
func (s *BM25FScorer) Initialize(docs []types.Document) {
	s.docCount = len(docs)
	s.docFreq = make(map[string]int)
	var totalLen [fieldCount]int

	for _, doc := range docs {
		seen := make(map[string]struct{})
		for field := 0; field < fieldCount; field++ {
			tokens := tokenize(fieldText(doc, field))
			totalLen[field] += len(tokens)
			for _, tok := range tokens {
				if _, dup := seen[tok]; dup {
					continue
				}
				seen[tok] = struct{}{}
				s.docFreq[tok]++
			}
		}
	}
	for field := 0; field < fieldCount; field++ {
		if s.docCount > 0 {
			s.avgFieldLen[field] = float64(totalLen[field]) / float64(s.docCount)
		}
	}
}

// Score returns the BM25F score of doc for query.
func (s *BM25FScorer) Score(query string, doc types.Document) float64 {
	queryTerms := tokenize(query)
	if len(queryTerms) == 0 || s.docCount == 0 {
		return 0.0
	}

	stats := corpusStats{docCount: s.docCount, docFreq: s.docFreq}

	var fieldTF [fieldCount]map[string]int
	var fieldLen [fieldCount]float64
	for field := 0; field < fieldCount; field++ {
		text := fieldText(doc, field)
		fieldTF[field] = termCounts(text)
		fieldLen[field] = float64(len(tokenize(text)))
	}

	var score float64
	for _, term := range queryTerms {
		// Weighted, per-field length-normalized term frequency.
		var wtf float64
		for field := 0; field < fieldCount; field++ {
			freq := float64(fieldTF[field][term])
			if freq == 0 || s.avgFieldLen[field] == 0 {
				continue
			}
			norm := 1.0 - s.params.B + s.params.B*fieldLen[field]/s.avgFieldLen[field]
			wtf += s.weight(field) * freq / norm
		}
		if wtf == 0 {
			continue
		}
		score += stats.idf(term) * wtf / (s.params.K1 + wtf)
	}
	return score
}
