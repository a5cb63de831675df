package embedding

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"resume-rag/internal/config"
)

// ErrUnavailable marks an embedding service failure. Callers must
// propagate it; a question or chunk is never given a substitute vector.
var ErrUnavailable = errors.New("embedding service unavailable")

// Embedder maps text to fixed-dimension vectors. Batch results are
// index-aligned with the input.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// OpenAI is an Embedder backed by an OpenAI-compatible embeddings
// endpoint via langchaingo.
type OpenAI struct {
	impl *embeddings.EmbedderImpl
}

func NewOpenAI(cfg config.ModelConfig) (*OpenAI, error) {
	opts := []openai.Option{
		openai.WithToken(os.Getenv(cfg.KeyEnv)),
		openai.WithEmbeddingModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing embedding client: %w", err)
	}
	impl, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	return &OpenAI{impl: impl}, nil
}

func (e *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	vector, err := e.impl.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return vector, nil
}

func (e *OpenAI) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := e.impl.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrUnavailable, len(vectors), len(texts))
	}
	return vectors, nil
}
