// Package embed converts text into dense vector representations for
// semantic search.
//
// Two implementations are provided:
//
//   - [OpenAI]: remote embeddings via the OpenAI API (or any
//     OpenAI-compatible endpoint through WithBaseURL)
//   - [Hash]: a deterministic, offline feature-hashing embedder
//
// Callers depend only on [Embedder], so the model can be swapped
// without touching their contracts.
package embed

import (
	"context"
	"errors"
)

// ErrEmptyInput is returned when the input text is empty.
var ErrEmptyInput = errors.New("embed: empty input")

// Embedder converts text into dense float32 vectors.
type Embedder interface {
	// Embed returns the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns embedding vectors for multiple texts, in input
	// order. Implementations may split large batches into several API
	// calls transparently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the dimensionality of the output vectors.
	Dimension() int
}
