package chunker

import (
	"fmt"

	"github.com/google/uuid"

	"resume-rag/internal/loader"
)

// Chunk is the unit stored in and retrieved from the vector index: a
// bounded window of a document's text plus inherited source metadata
// and a fresh unique id.
type Chunk struct {
	ID     string
	Text   string
	Source loader.Source
}

// Split slides a window of maxLen characters across each document's
// text, advancing by maxLen-overlap per step. Once the remaining text
// fits in one window it is emitted as the final, possibly shorter,
// chunk. Chunk order follows document order; boundaries depend only on
// the input text and parameters.
func Split(docs []loader.Document, maxLen, overlap int) ([]Chunk, error) {
	if maxLen <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", maxLen)
	}
	if overlap < 0 || overlap >= maxLen {
		return nil, fmt.Errorf("chunk overlap must satisfy 0 <= overlap < %d, got %d", maxLen, overlap)
	}

	step := maxLen - overlap
	var chunks []Chunk
	for _, doc := range docs {
		text := doc.Text
		if len(text) == 0 {
			continue
		}
		for start := 0; ; start += step {
			end := start + maxLen
			if end >= len(text) {
				chunks = append(chunks, newChunk(text[start:], doc.Source))
				break
			}
			chunks = append(chunks, newChunk(text[start:end], doc.Source))
		}
	}
	return chunks, nil
}

func newChunk(text string, src loader.Source) Chunk {
	return Chunk{ID: uuid.NewString(), Text: text, Source: src}
}
