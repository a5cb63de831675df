package index

import "context"

// Metadata is the source information persisted alongside each entry.
type Metadata struct {
	File string
	Page int
}

// Entry is the persisted unit: id, embedding vector, chunk text and
// source metadata. Entries are written once and never mutated;
// upserting an existing id overwrites it.
type Entry struct {
	ID     string
	Vector []float32
	Text   string
	Meta   Metadata
}

// Match is one search hit, scored by similarity.
type Match struct {
	Text  string
	Meta  Metadata
	Score float32
}

// Store is a persistent vector index. Search returns up to k matches
// in descending similarity order; an empty index yields an empty
// result, not an error.
type Store interface {
	Upsert(ctx context.Context, entries []Entry) error
	Search(ctx context.Context, vector []float32, k int) ([]Match, error)
	Close() error
}
