// Package score implements the lexical relevance scorers used when a
// role ranks documents without consulting its knowledge graph: the BM25
// family, TF-IDF, set-similarity ratios, and a title scorer.
package score

import "strings"

// tokenize lowercases text and splits on whitespace. Scorers share this
// so a query term and a document term always compare equal when they
// differ only by case or surrounding space.
func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// termCounts returns the term frequency of each token in text.
func termCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, tok := range tokenize(text) {
		counts[tok]++
	}
	return counts
}

// termSet returns the set of distinct tokens in text.
func termSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokenize(text) {
		set[tok] = struct{}{}
	}
	return set
}
