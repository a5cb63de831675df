package index

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

// embeddingDim is the width of the vector column below; it matches
// text-embedding-3-small. The bun type tag cannot reference a const,
// so changing the embedding model means changing both together.
const embeddingDim = 1536

type entryRow struct {
	bun.BaseModel `bun:"table:index_entries,alias:ie"`

	ID        string          `bun:"id,pk"`
	Text      string          `bun:"text,notnull"`
	File      string          `bun:"file,notnull"`
	Page      int             `bun:"page,notnull"`
	Embedding pgvector.Vector `bun:"embedding,notnull,type:vector(1536)"` // width = embeddingDim

	Score float32 `bun:"score,scanonly"`
}

// PostgresStore is a Store backend on Postgres with the pgvector
// extension, for deployments where the index lives in a shared
// database instead of a local path.
type PostgresStore struct {
	db *bun.DB
}

func NewPostgres(ctx context.Context, dsn string, debug bool) (*PostgresStore, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if _, err := db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return nil, fmt.Errorf("enabling pgvector: %w", err)
	}
	if _, err := db.NewCreateTable().Model((*entryRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, fmt.Errorf("creating index table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]entryRow, len(entries))
	for i, e := range entries {
		if len(e.Vector) != embeddingDim {
			return fmt.Errorf("entry %s: vector has %d dimensions, column holds %d", e.ID, len(e.Vector), embeddingDim)
		}
		rows[i] = entryRow{
			ID:        e.ID,
			Text:      e.Text,
			File:      e.Meta.File,
			Page:      e.Meta.Page,
			Embedding: pgvector.NewVector(e.Vector),
		}
	}
	_, err := s.db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("text = EXCLUDED.text").
		Set("file = EXCLUDED.file").
		Set("page = EXCLUDED.page").
		Set("embedding = EXCLUDED.embedding").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("storing entries: %w", err)
	}
	return nil
}

func (s *PostgresStore) Search(ctx context.Context, vector []float32, k int) ([]Match, error) {
	if k <= 0 {
		return nil, fmt.Errorf("search k must be positive, got %d", k)
	}
	query := pgvector.NewVector(vector)

	var rows []entryRow
	err := s.db.NewSelect().
		Model(&rows).
		ColumnExpr("ie.*").
		ColumnExpr("1 - (embedding <=> ?) AS score", query).
		OrderExpr("embedding <=> ?", query).
		Limit(k).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("searching entries: %w", err)
	}

	matches := make([]Match, len(rows))
	for i, r := range rows {
		matches[i] = Match{
			Text:  r.Text,
			Meta:  Metadata{File: r.File, Page: r.Page},
			Score: r.Score,
		}
	}
	return matches, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
