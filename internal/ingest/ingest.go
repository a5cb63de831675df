package ingest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"resume-rag/internal/chunker"
	"resume-rag/internal/config"
	"resume-rag/internal/embedding"
	"resume-rag/internal/index"
	"resume-rag/internal/loader"
)

// Stats summarizes one ingestion run.
type Stats struct {
	Documents int
	Chunks    int
}

// Ingestor runs the offline pipeline: load documents from the data
// folder, split them into chunks, embed every chunk and upsert the
// results into the vector index. Single-threaded, run to completion
// once per invocation.
type Ingestor struct {
	embedder embedding.Embedder
	store    index.Store
	cfg      *config.Config
}

func New(embedder embedding.Embedder, store index.Store, cfg *config.Config) *Ingestor {
	return &Ingestor{embedder: embedder, store: store, cfg: cfg}
}

func (in *Ingestor) Run(ctx context.Context) (Stats, error) {
	docs, err := loader.Load(in.cfg.Data.Path)
	if err != nil {
		return Stats{}, fmt.Errorf("loading documents: %w", err)
	}
	log.Info().Int("documents", len(docs)).Str("path", in.cfg.Data.Path).Msg("loaded source documents")

	chunks, err := chunker.Split(docs, in.cfg.Data.ChunkSize, in.cfg.Data.ChunkOverlap)
	if err != nil {
		return Stats{}, fmt.Errorf("splitting documents: %w", err)
	}
	stats := Stats{Documents: len(docs), Chunks: len(chunks)}
	if len(chunks) == 0 {
		log.Warn().Msg("no chunks produced, nothing to index")
		return stats, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := in.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return Stats{}, fmt.Errorf("embedding chunks: %w", err)
	}
	log.Info().Int("chunks", len(chunks)).Msg("embedded chunks")

	entries := make([]index.Entry, len(chunks))
	for i, c := range chunks {
		entries[i] = index.Entry{
			ID:     c.ID,
			Vector: vectors[i],
			Text:   c.Text,
			Meta:   index.Metadata{File: c.Source.File, Page: c.Source.Page},
		}
	}
	if err := in.store.Upsert(ctx, entries); err != nil {
		return Stats{}, fmt.Errorf("upserting entries: %w", err)
	}
	log.Info().Int("entries", len(entries)).Msg("indexed entries")
	return stats, nil
}
