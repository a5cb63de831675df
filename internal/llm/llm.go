package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"resume-rag/internal/config"
)

// ErrStream marks a language model failure during answer generation,
// including transport failures mid-stream. Any partial text received
// before the failure is discarded by callers.
var ErrStream = errors.New("language model stream failed")

// StreamFunc receives answer fragments as they arrive.
type StreamFunc func(ctx context.Context, fragment string) error

// Generator streams a completion for a prompt. fn is invoked once per
// fragment in order; the returned string is the full concatenated
// answer. fn may be nil for non-streaming callers.
type Generator interface {
	Stream(ctx context.Context, prompt string, fn StreamFunc) (string, error)
}

// OpenAI is a Generator over an OpenAI-compatible chat completion
// endpoint via langchaingo.
type OpenAI struct {
	llm *openai.LLM
}

func NewOpenAI(cfg config.ModelConfig) (*OpenAI, error) {
	opts := []openai.Option{
		openai.WithToken(os.Getenv(cfg.KeyEnv)),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing chat model: %w", err)
	}
	return &OpenAI{llm: llm}, nil
}

func (g *OpenAI) Stream(ctx context.Context, prompt string, fn StreamFunc) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	var opts []llms.CallOption
	if fn != nil {
		opts = append(opts, llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			return fn(ctx, string(chunk))
		}))
	}

	resp, err := g.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStream, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrStream)
	}
	return resp.Choices[0].Content, nil
}
