package index

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"
)

const compress = false

// ChromemStore is the default Store backend: a chromem-go database
// persisted under a local path. Re-opening the same path recovers all
// previously upserted entries without re-embedding.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewChromem opens (or creates) the database at path. With inMemory
// set, nothing touches disk; used by tests.
func NewChromem(path, collectionName string, inMemory bool) (*ChromemStore, error) {
	var db *chromem.DB
	var err error
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, compress)
		if err != nil {
			return nil, fmt.Errorf("opening vector database: %w", err)
		}
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("opening collection %s: %w", collectionName, err)
	}
	return &ChromemStore{db: db, collection: collection}, nil
}

func (s *ChromemStore) Upsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]chromem.Document, len(entries))
	for i, e := range entries {
		docs[i] = chromem.Document{
			ID:        e.ID,
			Content:   e.Text,
			Embedding: e.Vector,
			Metadata: map[string]string{
				"file": e.Meta.File,
				"page": strconv.Itoa(e.Meta.Page),
			},
		}
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("adding documents: %w", err)
	}
	return nil
}

func (s *ChromemStore) Search(ctx context.Context, vector []float32, k int) ([]Match, error) {
	if k <= 0 {
		return nil, fmt.Errorf("search k must be positive, got %d", k)
	}
	// chromem errors when asked for more results than stored documents
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := s.collection.QueryEmbedding(ctx, vector, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying by similarity: %w", err)
	}

	matches := make([]Match, len(results))
	for i, r := range results {
		page, _ := strconv.Atoi(r.Metadata["page"])
		matches[i] = Match{
			Text:  r.Content,
			Meta:  Metadata{File: r.Metadata["file"], Page: page},
			Score: r.Similarity,
		}
	}
	return matches, nil
}

func (s *ChromemStore) Close() error {
	// chromem persists on every write; nothing to flush
	return nil
}
