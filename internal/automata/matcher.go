// Package automata compiles a thesaurus into a single multi-pattern
// matcher so a document is scanned once regardless of how many synonyms
// the dictionary holds: O(text + patterns + matches).
package automata

import (
	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	gserrors "github.com/graphseek/graphseek/internal/errors"
	"github.com/graphseek/graphseek/internal/thesaurus"
)

// Match is one synonym occurrence in scanned text, resolved to its concept.
type Match struct {
	// ConceptID is the id of the matched concept.
	ConceptID uint64
	// Term is the normalized canonical term the synonym maps to.
	Term string
	// Start is the byte offset of the match in the scanned text.
	Start int
	// End is the byte offset one past the match.
	End int
}

// Matcher scans text for all thesaurus synonyms in a single pass.
// Matching is ASCII case-insensitive and non-overlapping: when candidate
// matches overlap, the earliest-starting match wins and later ones are
// discarded (first-match-wins, not longest-match).
type Matcher struct {
	ac ahocorasick.AhoCorasick
	// ids[i] is the concept id of pattern i, in builder pattern order.
	ids     []uint64
	terms   []string
	reverse map[uint64]string
}

// Compile builds one automaton over the union of all synonym strings.
// An empty thesaurus compiles to a matcher that never matches.
func Compile(th *thesaurus.Thesaurus) (*Matcher, error) {
	if th == nil {
		return nil, gserrors.Newf(gserrors.ErrCodeAutomataCompile, "nil thesaurus")
	}

	entries := th.Entries()
	patterns := make([]string, 0, len(entries))
	m := &Matcher{
		ids:     make([]uint64, 0, len(entries)),
		terms:   make([]string, 0, len(entries)),
		reverse: make(map[uint64]string, len(entries)),
	}
	for _, e := range entries {
		patterns = append(patterns, e.Synonym)
		m.ids = append(m.ids, e.Term.ID)
		m.terms = append(m.terms, e.Term.Value)
		m.reverse[e.Term.ID] = e.Term.Value
	}

	if len(patterns) > 0 {
		builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
			AsciiCaseInsensitive: true,
			MatchOnlyWholeWords:  false,
			MatchKind:            ahocorasick.LeftMostFirstMatch,
			DFA:                  true,
		})
		m.ac = builder.Build(patterns)
	}

	return m, nil
}

// FindMatches scans text once and returns all non-overlapping matches
// ordered by start offset.
func (m *Matcher) FindMatches(text string) []Match {
	if len(m.ids) == 0 || text == "" {
		return nil
	}

	var matches []Match
	iter := m.ac.Iter(text)
	for next := iter.Next(); next != nil; next = iter.Next() {
		p := next.Pattern()
		matches = append(matches, Match{
			ConceptID: m.ids[p],
			Term:      m.terms[p],
			Start:     next.Start(),
			End:       next.End(),
		})
	}
	return matches
}

// ReverseTerm resolves a concept id back to its normalized term value.
func (m *Matcher) ReverseTerm(id uint64) (string, bool) {
	term, ok := m.reverse[id]
	return term, ok
}

// PatternCount returns the number of compiled synonym patterns.
func (m *Matcher) PatternCount() int {
	return len(m.ids)
}
