package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-rag/internal/config"
	"resume-rag/internal/index"
)

type stubEmbedder struct {
	calls [][]string
}

// Embed returns a vector derived from the text length, so tests can
// check text/vector alignment without a live service.
func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text)), 1}, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	s.calls = append(s.calls, texts)
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1}
	}
	return out, nil
}

type recordingStore struct {
	entries []index.Entry
}

func (r *recordingStore) Upsert(ctx context.Context, entries []index.Entry) error {
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *recordingStore) Search(ctx context.Context, vector []float32, k int) ([]index.Match, error) {
	return nil, nil
}

func (r *recordingStore) Close() error { return nil }

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		Data: config.DataConfig{Path: dir, ChunkSize: 100, ChunkOverlap: 20},
	}
}

func TestRunIndexesEveryChunk(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "profile.txt", strings.Repeat("x", 250))

	store := &recordingStore{}
	in := New(&stubEmbedder{}, store, testConfig(dir))

	stats, err := in.Run(context.Background())
	require.NoError(t, err)

	// 250 chars at size 100 / overlap 20: windows at 0, 80, 160
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 3, stats.Chunks)
	require.Len(t, store.entries, 3)

	seen := make(map[string]bool)
	for i, e := range store.entries {
		assert.NotEmpty(t, e.ID)
		assert.False(t, seen[e.ID])
		seen[e.ID] = true
		assert.Equal(t, []float32{float32(len(e.Text)), 1}, e.Vector, "entry %d vector must align with its text", i)
		assert.Contains(t, e.Meta.File, "profile.txt")
	}
}

func TestRunEmptyFolder(t *testing.T) {
	dir := t.TempDir()
	store := &recordingStore{}
	in := New(&stubEmbedder{}, store, testConfig(dir))

	stats, err := in.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
	assert.Empty(t, store.entries)
}

func TestReingestionKeepsTextAndMetadata(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "alpha content here")
	writeFile(t, dir, "b.txt", "beta content here")

	first := &recordingStore{}
	_, err := New(&stubEmbedder{}, first, testConfig(dir)).Run(context.Background())
	require.NoError(t, err)

	second := &recordingStore{}
	_, err = New(&stubEmbedder{}, second, testConfig(dir)).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, second.entries, len(first.entries))
	for i := range first.entries {
		assert.Equal(t, first.entries[i].Text, second.entries[i].Text)
		assert.Equal(t, first.entries[i].Meta, second.entries[i].Meta)
		assert.Equal(t, first.entries[i].Vector, second.entries[i].Vector)
		assert.NotEqual(t, first.entries[i].ID, second.entries[i].ID, "ids are fresh per run")
	}
}
