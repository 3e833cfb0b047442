package automata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphseek/graphseek/internal/thesaurus"
	"github.com/graphseek/graphseek/internal/types"
)

func sampleThesaurus() *thesaurus.Thesaurus {
	th := thesaurus.New("test")
	rust := types.NormalizedTerm{ID: 1, Value: "rust"}
	async := types.NormalizedTerm{ID: 2, Value: "async"}
	th.Insert("rust", rust)
	th.Insert("rustlang", rust)
	th.Insert("async", async)
	th.Insert("asynchronous", async)
	return th
}

func TestCompile_EmptyThesaurus(t *testing.T) {
	m, err := Compile(thesaurus.New("empty"))
	require.NoError(t, err)
	assert.Equal(t, 0, m.PatternCount())
	assert.Empty(t, m.FindMatches("anything at all"))
}

func TestFindMatches_OrderedByStartOffset(t *testing.T) {
	m, err := Compile(sampleThesaurus())
	require.NoError(t, err)

	matches := m.FindMatches("async code in rust beats asynchronous code elsewhere")
	require.Len(t, matches, 3)

	assert.Equal(t, uint64(2), matches[0].ConceptID)
	assert.Equal(t, uint64(1), matches[1].ConceptID)
	assert.Equal(t, uint64(2), matches[2].ConceptID)

	for i := 1; i < len(matches); i++ {
		assert.Greater(t, matches[i].Start, matches[i-1].Start)
	}
}

func TestFindMatches_CaseInsensitive(t *testing.T) {
	m, err := Compile(sampleThesaurus())
	require.NoError(t, err)

	matches := m.FindMatches("RUST and Async and RustLang")
	require.Len(t, matches, 3)
	assert.Equal(t, uint64(1), matches[0].ConceptID)
	assert.Equal(t, uint64(2), matches[1].ConceptID)
	assert.Equal(t, uint64(1), matches[2].ConceptID)
	// Matched spans cover the original-case text.
	assert.Equal(t, "RUST", "RUST and Async and RustLang"[matches[0].Start:matches[0].End])
}

func TestFindMatches_NoOverlaps_FirstMatchWins(t *testing.T) {
	// Given: two patterns where one starts inside the other
	th := thesaurus.New("overlap")
	th.Insert("life cycle", types.NormalizedTerm{ID: 1, Value: "life cycle"})
	th.Insert("cycle concepts", types.NormalizedTerm{ID: 2, Value: "cycle concepts"})

	m, err := Compile(th)
	require.NoError(t, err)

	// When: both candidates overlap in the text
	text := "the life cycle concepts chapter"
	matches := m.FindMatches(text)

	// Then: the earliest-starting match wins and the later one is discarded
	require.Len(t, matches, 1)
	assert.Equal(t, uint64(1), matches[0].ConceptID)

	// And: no two spans overlap in a longer mixed text
	text = "cycle concepts precede the life cycle concepts chapter"
	matches = m.FindMatches(text)
	require.Len(t, matches, 2)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i].Start, matches[i-1].End)
	}
}

func TestFindMatches_MultiWordSynonyms(t *testing.T) {
	th := thesaurus.New("sys")
	th.Insert("life cycle models", types.NormalizedTerm{ID: 10, Value: "life cycle models"})
	th.Insert("project direction", types.NormalizedTerm{ID: 11, Value: "project direction"})

	m, err := Compile(th)
	require.NoError(t, err)

	matches := m.FindMatches("Trained operators follow project direction and life cycle models daily")
	require.Len(t, matches, 2)
	assert.Equal(t, uint64(11), matches[0].ConceptID)
	assert.Equal(t, uint64(10), matches[1].ConceptID)
	assert.Equal(t, "project direction", matches[0].Term)
}

func TestReverseTerm(t *testing.T) {
	m, err := Compile(sampleThesaurus())
	require.NoError(t, err)

	term, ok := m.ReverseTerm(2)
	require.True(t, ok)
	assert.Equal(t, "async", term)

	_, ok = m.ReverseTerm(99)
	assert.False(t, ok)
}
