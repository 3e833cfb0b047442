package thesaurus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKGFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestMarkdownBuilder_Build(t *testing.T) {
	// Given: a knowledge-graph directory with two concept files
	dir := t.TempDir()
	writeKGFile(t, dir, "rust.md", "# Rust\n\nsynonyms:: rustlang, Rust Programming Language\n")
	writeKGFile(t, dir, "async.md", "synonyms:: asynchronous, non-blocking\n\nBody text.\n")

	// When: building the thesaurus
	th, err := NewMarkdownBuilder(nil).Build(context.Background(), "test", dir)
	require.NoError(t, err)

	// Then: every synonym resolves to its concept, and the concept name
	// is a synonym of itself
	rust, ok := th.Get("rust")
	require.True(t, ok)
	assert.Equal(t, "rust", rust.Value)

	syn, ok := th.Get("Rust Programming Language")
	require.True(t, ok)
	assert.Equal(t, rust.ID, syn.ID)

	nonblocking, ok := th.Get("non-blocking")
	require.True(t, ok)
	assert.NotEqual(t, rust.ID, nonblocking.ID)
	assert.Equal(t, "async", nonblocking.Value)

	// async.md sorts first, so its concept gets id 1.
	assert.Equal(t, uint64(1), nonblocking.ID)
	assert.Equal(t, uint64(2), rust.ID)
}

func TestMarkdownBuilder_FileWithoutSynonyms_RegistersConceptOnly(t *testing.T) {
	dir := t.TempDir()
	writeKGFile(t, dir, "graph.md", "# Graph\n\nJust prose, no directive.\n")

	th, err := NewMarkdownBuilder(nil).Build(context.Background(), "test", dir)
	require.NoError(t, err)

	assert.Equal(t, 1, th.Len())
	_, ok := th.Get("graph")
	assert.True(t, ok)
}

func TestMarkdownBuilder_MalformedDirective_Skipped(t *testing.T) {
	dir := t.TempDir()
	writeKGFile(t, dir, "broken.md", "synonyms: missing second colon\n")

	th, err := NewMarkdownBuilder(nil).Build(context.Background(), "test", dir)
	require.NoError(t, err)

	// The concept itself survives; the malformed line contributes nothing.
	assert.Equal(t, 1, th.Len())
	_, ok := th.Get("broken")
	assert.True(t, ok)
}

func TestMarkdownBuilder_EmptyDir(t *testing.T) {
	th, err := NewMarkdownBuilder(nil).Build(context.Background(), "test", t.TempDir())
	require.NoError(t, err)
	assert.True(t, th.IsEmpty())
}

func TestMarkdownBuilder_MissingDir_YieldsEmptyThesaurus(t *testing.T) {
	th, err := NewMarkdownBuilder(nil).Build(context.Background(), "test", "/does/not/exist")
	require.NoError(t, err)
	assert.True(t, th.IsEmpty())
}

func TestMarkdownBuilder_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeKGFile(t, dir, "rust.md", "synonyms:: rustlang\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMarkdownBuilder(nil).Build(ctx, "test", dir)
	assert.Error(t, err)
}

func TestSaveAndLoadFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeKGFile(t, dir, "rust.md", "synonyms:: rustlang\n")

	th, err := NewMarkdownBuilder(nil).Build(context.Background(), "cache-test", dir)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cache", "term_to_id.json")
	require.NoError(t, SaveToFile(th, path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, th.Len(), loaded.Len())

	term, ok := loaded.Get("rustlang")
	require.True(t, ok)
	assert.Equal(t, "rust", term.Value)
}
