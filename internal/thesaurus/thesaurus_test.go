package thesaurus

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphseek/graphseek/internal/types"
)

func TestThesaurus_InsertAndGet_Normalized(t *testing.T) {
	th := New("test")
	th.Insert("Life Cycle", types.NormalizedTerm{ID: 1, Value: "life cycle models"})

	// Any case/whitespace variant of the synonym resolves to the concept.
	for _, variant := range []string{"life cycle", "LIFE CYCLE", "  Life Cycle  "} {
		term, ok := th.Get(variant)
		require.True(t, ok, "variant %q", variant)
		assert.Equal(t, uint64(1), term.ID)
	}
}

func TestThesaurus_DuplicateSynonym_LastWriterWins(t *testing.T) {
	th := New("test")
	th.Insert("foo", types.NormalizedTerm{ID: 1, Value: "first"})
	th.Insert("foo", types.NormalizedTerm{ID: 2, Value: "second"})

	term, ok := th.Get("foo")
	require.True(t, ok)
	assert.Equal(t, uint64(2), term.ID)
	assert.Equal(t, 1, th.Len())
}

func TestThesaurus_ManySynonymsOneConcept(t *testing.T) {
	th := New("test")
	concept := types.NormalizedTerm{ID: 7, Value: "rust"}
	th.Insert("rust", concept)
	th.Insert("rustlang", concept)
	th.Insert("rust-lang", concept)

	for _, syn := range []string{"rust", "rustlang", "rust-lang"} {
		term, ok := th.Get(syn)
		require.True(t, ok)
		assert.Equal(t, uint64(7), term.ID)
	}
}

func TestThesaurus_Entries_Sorted(t *testing.T) {
	th := New("test")
	th.Insert("zeta", types.NormalizedTerm{ID: 1, Value: "zeta"})
	th.Insert("alpha", types.NormalizedTerm{ID: 2, Value: "alpha"})
	th.Insert("mid", types.NormalizedTerm{ID: 3, Value: "mid"})

	entries := th.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "alpha", entries[0].Synonym)
	assert.Equal(t, "mid", entries[1].Synonym)
	assert.Equal(t, "zeta", entries[2].Synonym)
}

func TestThesaurus_JSONRoundTrip(t *testing.T) {
	th := New("Engineering")
	th.Insert("strategy documents", types.NormalizedTerm{
		ID: 2, Value: "strategy documents", URL: "https://example.com/strategy-documents",
	})
	th.Insert("project constraints", types.NormalizedTerm{ID: 3, Value: "project constraints"})

	data, err := json.Marshal(th)
	require.NoError(t, err)

	loaded, err := LoadFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, "Engineering", loaded.Name())
	assert.Equal(t, 2, loaded.Len())

	term, ok := loaded.Get("strategy documents")
	require.True(t, ok)
	assert.Equal(t, uint64(2), term.ID)
	assert.Equal(t, "https://example.com/strategy-documents", term.URL)
}

func TestLoadFromJSON_DictionaryFormat(t *testing.T) {
	raw := `{
	  "name": "Engineering",
	  "data": {
	    "Project Management Framework Tailoring": {
	      "id": 1,
	      "nterm": "project tailoring strategy",
	      "url": "https://example.com/project-tailoring-strategy"
	    },
	    "strategy documents": {"id": 2, "nterm": "strategy documents"}
	  }
	}`

	th, err := LoadFromJSON([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, 2, th.Len())

	// Mixed-case dictionary keys are normalized on load.
	term, ok := th.Get("project management framework tailoring")
	require.True(t, ok)
	assert.Equal(t, uint64(1), term.ID)
	assert.Equal(t, "project tailoring strategy", term.Value)
}

func TestLoadFromJSON_Invalid(t *testing.T) {
	_, err := LoadFromJSON([]byte("{invalid_json}"))
	assert.Error(t, err)
}
