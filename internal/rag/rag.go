package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"resume-rag/internal/config"
	"resume-rag/internal/embedding"
	"resume-rag/internal/index"
	"resume-rag/internal/llm"
	"resume-rag/internal/session"
)

// knowledgeSeparator joins retrieved chunk texts, ranked order
// preserved, into the knowledge block of the prompt.
const knowledgeSeparator = "\n\n"

// Pipeline answers one question per call: embed, retrieve, then either
// stream a grounded answer from the language model or return the fixed
// fallback when retrieval produced no knowledge.
type Pipeline struct {
	embedder     embedding.Embedder
	store        index.Store
	generator    llm.Generator
	topK         int
	persona      string
	contact      string
	instructions string
	fallback     string
}

// Answer is the outcome of one completed turn.
type Answer struct {
	Text     string
	Grounded bool
	Sources  []index.Metadata
}

func NewPipeline(embedder embedding.Embedder, store index.Store, generator llm.Generator, cfg *config.Config) *Pipeline {
	return &Pipeline{
		embedder:     embedder,
		store:        store,
		generator:    generator,
		topK:         cfg.Chat.TopK,
		persona:      cfg.Chat.Persona,
		contact:      cfg.Chat.Contact,
		instructions: Instructions(cfg.Chat.Persona, cfg.Chat.Contact),
		fallback:     cfg.FallbackMessage(),
	}
}

// Ask runs one turn against sess. The question is appended to the
// transcript up front; the assistant message is appended only when the
// turn completes. On error (embedding or generation failure) no
// assistant message is written and the question is NOT recorded as
// unanswered - it was never evaluated against knowledge, or it was
// grounded and failed later. onFragment, if non-nil, receives answer
// fragments as the model streams them.
func (p *Pipeline) Ask(ctx context.Context, sess *session.Session, question string, onFragment llm.StreamFunc) (*Answer, error) {
	sess.AppendMessage(session.RoleUser, question)

	vector, err := p.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	matches, err := p.store.Search(ctx, vector, p.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieving knowledge: %w", err)
	}
	log.Debug().Int("matches", len(matches)).Msg("retrieved knowledge")

	knowledge, sources := joinKnowledge(matches)
	if strings.TrimSpace(knowledge) == "" {
		// Deliberate short-circuit: no model call on an empty knowledge
		// base, the fixed fallback answers instead.
		sess.AppendUnanswered(question)
		sess.AppendMessage(session.RoleAssistant, p.fallback)
		return &Answer{Text: p.fallback, Grounded: false}, nil
	}

	prompt, err := BuildPrompt(p.instructions, question, knowledge, p.persona, p.contact)
	if err != nil {
		return nil, fmt.Errorf("building prompt: %w", err)
	}

	text, err := p.generator.Stream(ctx, prompt, onFragment)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	sess.AppendMessage(session.RoleAssistant, text)
	return &Answer{Text: text, Grounded: true, Sources: sources}, nil
}

func joinKnowledge(matches []index.Match) (string, []index.Metadata) {
	texts := make([]string, 0, len(matches))
	sources := make([]index.Metadata, 0, len(matches))
	for _, m := range matches {
		texts = append(texts, m.Text)
		sources = append(sources, m.Meta)
	}
	return strings.Join(texts, knowledgeSeparator), sources
}
