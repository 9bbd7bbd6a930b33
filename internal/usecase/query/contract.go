package query

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Searcher retrieves the most similar chunks from the vector index.
type Searcher interface {
	Search(ctx context.Context, vector []float32, topK int, filter domain.Filter) ([]domain.ScoredChunk, error)
}

// Generator produces the final answer from a grounding prompt.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
