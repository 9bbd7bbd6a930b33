package ingest

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Indexer persists chunks in the vector index.
type Indexer interface {
	Upsert(ctx context.Context, chunks []domain.Chunk) error
}
