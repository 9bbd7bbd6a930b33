// Package query answers questions over the ingested corpus: embed the
// question, retrieve the nearest chunks, generate a grounded answer.
package query

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// DefaultTopK is used when the request does not specify top_k.
const DefaultTopK = 5

// Service handles retrieval-augmented question answering.
type Service struct {
	embed  Embedder
	search Searcher
	gen    Generator
	logger *zap.Logger
}

// New creates a query service.
func New(embed Embedder, search Searcher, gen Generator, logger *zap.Logger) *Service {
	return &Service{embed: embed, search: search, gen: gen, logger: logger}
}

// Answer runs the full retrieval and generation pipeline for one question.
func (s *Service) Answer(ctx context.Context, req domain.QueryRequest) (domain.Answer, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	embResult, err := s.embed.Embed(ctx, req.Query)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("vectorize query: %w", err)
	}

	scored, err := s.search.Search(ctx, embResult.Embedding, topK, req.Filter)
	if err != nil {
		return domain.Answer{}, err
	}

	if len(scored) == 0 {
		s.logger.Info("No relevant chunks found", zap.String("query", req.Query))
		return domain.Answer{
			Query:           req.Query,
			Response:        domain.NoResultsResponse,
			RetrievedChunks: []string{},
		}, nil
	}

	chunks := make([]string, len(scored))
	for i, sc := range scored {
		chunks[i] = sc.Text
	}

	response, err := s.gen.Complete(ctx, buildPrompt(req.Query, chunks))
	if err != nil {
		return domain.Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	s.logger.Info("Answered query",
		zap.String("query", req.Query),
		zap.Int("chunks", len(chunks)))

	return domain.Answer{
		Query:           req.Query,
		Response:        response,
		RetrievedChunks: chunks,
	}, nil
}
