package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphseek/graphseek/internal/types"
)

func newMemIndex(t *testing.T) *FulltextIndex {
	t.Helper()
	idx, err := NewFulltextIndex("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func seedDocs() []types.Document {
	return []types.Document{
		{ID: "rust-guide", Title: "Rust async guide", Body: "how rust handles asynchronous work"},
		{ID: "go-guide", Title: "Go concurrency", Body: "goroutines and channels in practice"},
		{ID: "tagged", Title: "Weekly notes", Body: "misc", Tags: []string{"kubernetes", "deploy"}},
	}
}

func TestFulltextIndex_IndexAndSearch(t *testing.T) {
	idx := newMemIndex(t)
	require.NoError(t, idx.Index(context.Background(), seedDocs()))

	count, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	results, err := idx.Search(context.Background(), "rust", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "rust-guide", results[0].DocID)
	assert.Greater(t, results[0].Score, 0.0)
}

func TestFulltextIndex_BlankQueryReturnsNothing(t *testing.T) {
	idx := newMemIndex(t)
	require.NoError(t, idx.Index(context.Background(), seedDocs()))

	results, err := idx.Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFulltextIndex_TagsAreSearchable(t *testing.T) {
	idx := newMemIndex(t)
	require.NoError(t, idx.Index(context.Background(), seedDocs()))

	results, err := idx.Search(context.Background(), "kubernetes", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "tagged", results[0].DocID)
}

func TestFulltextIndex_TitleOutranksBody(t *testing.T) {
	idx := newMemIndex(t)
	docs := []types.Document{
		{ID: "title-hit", Title: "graph search engines", Body: "unrelated prose"},
		{ID: "body-hit", Title: "unrelated prose", Body: "graph search engines"},
	}
	require.NoError(t, idx.Index(context.Background(), docs))

	results, err := idx.Search(context.Background(), "graph", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "title-hit", results[0].DocID)
}

func TestFulltextIndex_Delete(t *testing.T) {
	idx := newMemIndex(t)
	require.NoError(t, idx.Index(context.Background(), seedDocs()))
	require.NoError(t, idx.Delete([]string{"rust-guide"}))

	results, err := idx.Search(context.Background(), "rust", 10)
	require.NoError(t, err)
	for _, r := range results {
		assert.NotEqual(t, "rust-guide", r.DocID)
	}
}

func TestFulltextIndex_ClosedIsRejected(t *testing.T) {
	idx, err := NewFulltextIndex("")
	require.NoError(t, err)
	require.NoError(t, idx.Close())
	require.NoError(t, idx.Close()) // idempotent

	assert.Error(t, idx.Index(context.Background(), seedDocs()))
	_, err = idx.Search(context.Background(), "rust", 10)
	assert.Error(t, err)
}
