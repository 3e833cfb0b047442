// Package thesaurus provides the synonym-to-concept dictionary the
// knowledge graph is built from, and its builders: a markdown scanner
// using the `synonyms:: a, b, c` convention and a JSON loader for local
// files and remote dictionaries.
package thesaurus

import (
	"encoding/json"
	"sort"

	"github.com/graphseek/graphseek/internal/types"
)

// Thesaurus maps normalized synonym strings to their canonical terms.
// Lookup is case- and whitespace-normalized; multiple synonyms may
// resolve to the same concept id. Insertion order is irrelevant.
type Thesaurus struct {
	name string
	data map[string]types.NormalizedTerm
}

// Entry is one synonym -> term mapping, used for deterministic iteration.
type Entry struct {
	Synonym string
	Term    types.NormalizedTerm
}

// New creates a new, empty thesaurus.
func New(name string) *Thesaurus {
	return &Thesaurus{
		name: name,
		data: make(map[string]types.NormalizedTerm),
	}
}

// Name returns the name of the thesaurus.
func (t *Thesaurus) Name() string {
	return t.name
}

// Insert registers a synonym for a canonical term. The synonym key is
// normalized. A duplicate synonym overwrites the previous mapping
// (last writer wins).
func (t *Thesaurus) Insert(synonym string, term types.NormalizedTerm) {
	key := types.NormalizeTerm(synonym)
	if key == "" {
		return
	}
	t.data[key] = term
}

// Get looks up a synonym; the key is normalized before lookup so any
// case/whitespace variant of a registered synonym resolves.
func (t *Thesaurus) Get(synonym string) (types.NormalizedTerm, bool) {
	term, ok := t.data[types.NormalizeTerm(synonym)]
	return term, ok
}

// Len returns the number of registered synonyms.
func (t *Thesaurus) Len() int {
	return len(t.data)
}

// IsEmpty reports whether no synonyms are registered.
func (t *Thesaurus) IsEmpty() bool {
	return len(t.data) == 0
}

// Entries returns all synonym mappings sorted by synonym. The sorted
// order makes downstream automaton construction deterministic.
func (t *Thesaurus) Entries() []Entry {
	entries := make([]Entry, 0, len(t.data))
	for syn, term := range t.data {
		entries = append(entries, Entry{Synonym: syn, Term: term})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Synonym < entries[j].Synonym
	})
	return entries
}

// thesaurusJSON is the wire shape of a dictionary:
// {"name": ..., "data": {"synonym": {"id": 1, "nterm": "...", "url": ...}}}
type thesaurusJSON struct {
	Name string                          `json:"name"`
	Data map[string]types.NormalizedTerm `json:"data"`
}

// MarshalJSON implements json.Marshaler.
func (t *Thesaurus) MarshalJSON() ([]byte, error) {
	return json.Marshal(thesaurusJSON{Name: t.name, Data: t.data})
}

// UnmarshalJSON implements json.Unmarshaler. Keys are re-normalized so a
// hand-edited dictionary with mixed-case keys still resolves.
func (t *Thesaurus) UnmarshalJSON(b []byte) error {
	var raw thesaurusJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	t.name = raw.Name
	t.data = make(map[string]types.NormalizedTerm, len(raw.Data))
	for syn, term := range raw.Data {
		term.Value = types.NormalizeTerm(term.Value)
		t.data[types.NormalizeTerm(syn)] = term
	}
	return nil
}
