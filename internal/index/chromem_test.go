package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ChromemStore {
	t.Helper()
	store, err := NewChromem("", "test", true)
	require.NoError(t, err)
	return store
}

func TestSearchEmptyIndex(t *testing.T) {
	store := newTestStore(t)

	matches, err := store.Search(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearchReturnsAtMostStoredEntries(t *testing.T) {
	store := newTestStore(t)
	entries := []Entry{
		{ID: "a", Vector: []float32{1, 0, 0}, Text: "alpha", Meta: Metadata{File: "a.txt"}},
		{ID: "b", Vector: []float32{0, 1, 0}, Text: "beta", Meta: Metadata{File: "b.pdf", Page: 2}},
		{ID: "c", Vector: []float32{0, 0, 1}, Text: "gamma", Meta: Metadata{File: "c.txt"}},
	}
	require.NoError(t, store.Upsert(context.Background(), entries))

	matches, err := store.Search(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Len(t, matches, 3, "k beyond the stored count must not pad or error")
}

func TestSearchOrdersBySimilarity(t *testing.T) {
	store := newTestStore(t)
	entries := []Entry{
		{ID: "far", Vector: []float32{0, 1, 0}, Text: "far"},
		{ID: "near", Vector: []float32{1, 0, 0}, Text: "near"},
		{ID: "mid", Vector: []float32{0.70710678, 0.70710678, 0}, Text: "mid"},
	}
	require.NoError(t, store.Upsert(context.Background(), entries))

	matches, err := store.Search(context.Background(), []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "near", matches[0].Text)
	assert.Equal(t, "mid", matches[1].Text)
	assert.Equal(t, "far", matches[2].Text)
	assert.GreaterOrEqual(t, matches[0].Score, matches[1].Score)
	assert.GreaterOrEqual(t, matches[1].Score, matches[2].Score)
}

func TestSearchKeepsMetadata(t *testing.T) {
	store := newTestStore(t)
	entries := []Entry{
		{ID: "p", Vector: []float32{1, 0, 0}, Text: "page text", Meta: Metadata{File: "resume.pdf", Page: 3}},
	}
	require.NoError(t, store.Upsert(context.Background(), entries))

	matches, err := store.Search(context.Background(), []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "resume.pdf", matches[0].Meta.File)
	assert.Equal(t, 3, matches[0].Meta.Page)
}

func TestSearchRejectsNonPositiveK(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Search(context.Background(), []float32{1, 0, 0}, 0)
	assert.Error(t, err)
	_, err = store.Search(context.Background(), []float32{1, 0, 0}, -1)
	assert.Error(t, err)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	entries := []Entry{
		{ID: "kept", Vector: []float32{1, 0, 0}, Text: "survives restarts", Meta: Metadata{File: "resume.pdf", Page: 1}},
		{ID: "also", Vector: []float32{0, 1, 0}, Text: "so does this", Meta: Metadata{File: "notes.txt"}},
	}

	store, err := NewChromem(dir, "profile", false)
	require.NoError(t, err)
	require.NoError(t, store.Upsert(context.Background(), entries))
	require.NoError(t, store.Close())

	// a fresh store on the same path must recover every entry without
	// re-embedding
	reopened, err := NewChromem(dir, "profile", false)
	require.NoError(t, err)

	matches, err := reopened.Search(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "survives restarts", matches[0].Text)
	assert.Equal(t, "resume.pdf", matches[0].Meta.File)
	assert.Equal(t, 1, matches[0].Meta.Page)
}

func TestUpsertNothing(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Upsert(context.Background(), nil))
}
