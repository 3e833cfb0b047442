package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gserrors "github.com/graphseek/graphseek/internal/errors"
	"github.com/graphseek/graphseek/internal/score"
	"github.com/graphseek/graphseek/internal/thesaurus"
	"github.com/graphseek/graphseek/internal/types"
)

func serviceThesaurus() *thesaurus.Thesaurus {
	th := thesaurus.New("engineering")
	th.Insert("rust", types.NormalizedTerm{ID: 1, Value: "rust"})
	th.Insert("async", types.NormalizedTerm{ID: 2, Value: "async"})
	th.Insert("tokio", types.NormalizedTerm{ID: 3, Value: "tokio"})
	return th
}

func serviceDocs() []types.Document {
	return []types.Document{
		{ID: "doc1", Title: "Rust async", Body: "rust and async together"},
		{ID: "doc2", Title: "Gardening", Body: "tomatoes and soil"},
		{ID: "doc3", Title: "Rust alone", Body: "rust rust rust"},
	}
}

func newGraphService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	require.NoError(t, svc.AddRole("engineer", types.RelevanceGraph, serviceThesaurus()))
	require.NoError(t, svc.AddDocuments(context.Background(), "engineer", serviceDocs()))
	return svc
}

func TestSearch_GraphRole(t *testing.T) {
	svc := newGraphService(t)

	results, err := svc.Search(context.Background(), types.SearchQuery{
		SearchTerm: "rust",
		Role:       "engineer",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	// Only doc1 co-occurs rust with another concept; doc3 has rust alone
	// and therefore no edge to rank through.
	assert.Equal(t, "doc1", results[0].ID)
	assert.Equal(t, 1.0, results[0].Rank)
}

func TestSearch_BlankTermIsQueryError(t *testing.T) {
	svc := newGraphService(t)

	_, err := svc.Search(context.Background(), types.SearchQuery{
		SearchTerm: "   ",
		Role:       "engineer",
	})
	require.Error(t, err)
	assert.True(t, gserrors.IsCategory(err, gserrors.CategoryQuery))
}

func TestSearch_UnknownRole(t *testing.T) {
	svc := newGraphService(t)

	_, err := svc.Search(context.Background(), types.SearchQuery{
		SearchTerm: "rust",
		Role:       "nobody",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, gserrors.Newf(gserrors.ErrCodeRoleUnknown, ""))
}

func TestSearch_ScorerRole(t *testing.T) {
	svc, err := New(nil)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	require.NoError(t, svc.AddRole("reader", types.RelevanceBM25, nil))
	require.NoError(t, svc.AddDocuments(context.Background(), "reader", serviceDocs()))

	results, err := svc.Search(context.Background(), types.SearchQuery{
		SearchTerm: "rust",
		Role:       "reader",
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	// doc3 repeats rust; the unmatched gardening doc sinks to the bottom.
	assert.Equal(t, "doc3", results[0].ID)
	assert.Equal(t, "doc2", results[2].ID)
	assert.Equal(t, 0.0, results[2].Rank)
}

func TestSetScorerParams_OverridesTuning(t *testing.T) {
	svc, err := New(nil)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	require.NoError(t, svc.AddRole("reader", types.RelevanceBM25Plus, nil))
	require.NoError(t, svc.AddDocuments(context.Background(), "reader", serviceDocs()))

	baseline, err := svc.Search(context.Background(), types.SearchQuery{
		SearchTerm: "rust",
		Role:       "reader",
	})
	require.NoError(t, err)
	require.NotEmpty(t, baseline)

	// A larger delta inflates every matching document's score.
	require.NoError(t, svc.SetScorerParams("reader",
		score.Params{K1: 1.2, B: 0.75, Delta: 5.0}, score.DefaultFieldWeights()))

	tuned, err := svc.Search(context.Background(), types.SearchQuery{
		SearchTerm: "rust",
		Role:       "reader",
	})
	require.NoError(t, err)
	require.Len(t, tuned, len(baseline))
	assert.Greater(t, tuned[0].Rank, baseline[0].Rank)

	err = svc.SetScorerParams("nobody", score.DefaultParams(), score.DefaultFieldWeights())
	assert.Error(t, err)
}

func TestSearch_TitleScorerRole(t *testing.T) {
	svc, err := New(nil)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	require.NoError(t, svc.AddRole("default", types.RelevanceTitleScorer, nil))
	require.NoError(t, svc.AddDocuments(context.Background(), "default", serviceDocs()))

	results, err := svc.Search(context.Background(), types.SearchQuery{
		SearchTerm: "gardening",
		Role:       "default",
	})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "doc2", results[0].ID)
}

func TestSearch_FulltextRole(t *testing.T) {
	svc, err := New(nil)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	require.NoError(t, svc.AddRole("fts", types.RelevanceFulltext, nil))
	require.NoError(t, svc.AddDocuments(context.Background(), "fts", serviceDocs()))

	results, err := svc.Search(context.Background(), types.SearchQuery{
		SearchTerm: "tomatoes",
		Role:       "fts",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc2", results[0].ID)
	assert.Greater(t, results[0].Rank, 0.0)
}

func TestSearch_Pagination(t *testing.T) {
	svc, err := New(nil)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	require.NoError(t, svc.AddRole("reader", types.RelevanceQueryRatio, nil))
	require.NoError(t, svc.AddDocuments(context.Background(), "reader", serviceDocs()))

	all, err := svc.Search(context.Background(), types.SearchQuery{
		SearchTerm: "rust", Role: "reader",
	})
	require.NoError(t, err)
	require.Len(t, all, 3)

	page, err := svc.Search(context.Background(), types.SearchQuery{
		SearchTerm: "rust", Role: "reader", Skip: 1, Limit: 1,
	})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, all[1].ID, page[0].ID)
}

func TestSearch_CacheInvalidatedByInsertion(t *testing.T) {
	svc := newGraphService(t)
	ctx := context.Background()

	first, err := svc.Search(ctx, types.SearchQuery{SearchTerm: "rust", Role: "engineer"})
	require.NoError(t, err)
	require.Len(t, first, 1)

	// A second identical query is served from cache; a new document must
	// still appear afterwards.
	again, err := svc.Search(ctx, types.SearchQuery{SearchTerm: "rust", Role: "engineer"})
	require.NoError(t, err)
	assert.Equal(t, first, again)

	require.NoError(t, svc.AddDocuments(ctx, "engineer", []types.Document{
		{ID: "doc4", Body: "rust async tokio"},
	}))

	after, err := svc.Search(ctx, types.SearchQuery{SearchTerm: "rust", Role: "engineer"})
	require.NoError(t, err)
	assert.Len(t, after, 2)
}

func TestReloadRole_RebuildsGraphAndKeepsDocuments(t *testing.T) {
	svc := newGraphService(t)
	ctx := context.Background()

	// The new thesaurus drops "async" entirely.
	th := thesaurus.New("engineering")
	th.Insert("rust", types.NormalizedTerm{ID: 1, Value: "rust"})
	th.Insert("gardening", types.NormalizedTerm{ID: 9, Value: "gardening"})
	th.Insert("tomatoes", types.NormalizedTerm{ID: 10, Value: "tomatoes"})
	require.NoError(t, svc.ReloadRole(ctx, "engineer", th))

	count, err := svc.DocumentCount("engineer")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// rust no longer co-occurs with any concept in doc1.
	results, err := svc.Search(ctx, types.SearchQuery{SearchTerm: "rust", Role: "engineer"})
	require.NoError(t, err)
	assert.Empty(t, results)

	// The gardening doc now ranks through the new concepts.
	results, err = svc.Search(ctx, types.SearchQuery{SearchTerm: "tomatoes", Role: "engineer"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc2", results[0].ID)
}

func TestConnectedByPath(t *testing.T) {
	svc := newGraphService(t)

	connected, err := svc.ConnectedByPath("engineer", "rust async")
	require.NoError(t, err)
	assert.True(t, connected)

	connected, err = svc.ConnectedByPath("engineer", "rust tokio")
	require.NoError(t, err)
	assert.False(t, connected)

	_, err = svc.ConnectedByPath("nobody", "rust")
	assert.Error(t, err)
}

func TestConnectedByPath_NonGraphRole(t *testing.T) {
	svc, err := New(nil)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	require.NoError(t, svc.AddRole("reader", types.RelevanceBM25, nil))

	_, err = svc.ConnectedByPath("reader", "rust")
	require.Error(t, err)
	assert.True(t, gserrors.IsCategory(err, gserrors.CategoryQuery))
}

func TestMatchingNodeIDs(t *testing.T) {
	svc := newGraphService(t)

	ids, err := svc.MatchingNodeIDs("engineer", "async then rust")
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 1}, ids)
}

func TestAddRole_InvalidRelevanceFunction(t *testing.T) {
	svc, err := New(nil)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	assert.Error(t, svc.AddRole("bad", types.RelevanceFunction("made-up"), nil))
}

func TestRoles_Sorted(t *testing.T) {
	svc, err := New(nil)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	require.NoError(t, svc.AddRole("zeta", types.RelevanceTitleScorer, nil))
	require.NoError(t, svc.AddRole("alpha", types.RelevanceTitleScorer, nil))

	assert.Equal(t, []string{"alpha", "zeta"}, svc.Roles())
}
