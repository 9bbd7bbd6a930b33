// Package ingest turns an uploaded PDF into embedded chunks in the
// vector index.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/chunk"
	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/extract"
	"github.com/kailas-cloud/ragdex/internal/metrics"
)

// Config holds the ingestion pipeline settings.
type Config struct {
	UploadDir    string
	ChunkSize    int
	ChunkOverlap int
	Clean        bool
	Dimension    int
}

// Service runs the ingestion pipeline: stage, extract, chunk, embed, store.
type Service struct {
	embed   Embedder
	index   Indexer
	cfg     Config
	extract func(data []byte) (string, error)
	logger  *zap.Logger
}

// New creates an ingestion service.
func New(embed Embedder, index Indexer, cfg Config, logger *zap.Logger) *Service {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = chunk.DefaultSize
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = chunk.DefaultOverlap
	}
	return &Service{
		embed:   embed,
		index:   index,
		cfg:     cfg,
		extract: extract.Text,
		logger:  logger,
	}
}

// Ingest processes one uploaded PDF. fileName is the client-supplied name
// and becomes the document id; data is the raw PDF bytes.
func (s *Service) Ingest(ctx context.Context, fileName string, data []byte) (domain.IngestResult, error) {
	docID := filepath.Base(fileName)

	if err := s.stage(docID, data); err != nil {
		return domain.IngestResult{}, fmt.Errorf("stage upload: %w", err)
	}

	text, err := s.extract(data)
	if err != nil {
		return domain.IngestResult{}, err
	}

	if s.cfg.Clean {
		text = chunk.Clean(text)
	}

	pieces := chunk.Split(text, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if len(pieces) == 0 {
		return domain.IngestResult{}, fmt.Errorf("%s: %w", docID, domain.ErrEmptyChunks)
	}

	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		result, err := s.embed.Embed(ctx, piece)
		if err != nil {
			return domain.IngestResult{}, fmt.Errorf("embed chunk %d of %s: %w", i, docID, err)
		}
		if s.cfg.Dimension > 0 && len(result.Embedding) != s.cfg.Dimension {
			return domain.IngestResult{}, fmt.Errorf(
				"chunk %d of %s: got %d dimensions, index expects %d: %w",
				i, docID, len(result.Embedding), s.cfg.Dimension, domain.ErrVectorDimMismatch)
		}
		chunks = append(chunks, domain.Chunk{
			DocID:   docID,
			ChunkID: i,
			Text:    piece,
			Vector:  result.Embedding,
		})
	}

	if err := s.index.Upsert(ctx, chunks); err != nil {
		return domain.IngestResult{}, err
	}

	metrics.DocumentsIngestedTotal.Inc()
	s.logger.Info("Ingested document",
		zap.String("doc_id", docID),
		zap.Int("chunks", len(chunks)))

	return domain.IngestResult{FileName: docID, NumChunks: len(chunks)}, nil
}

// stage writes the raw upload to the staging directory. The uuid prefix
// keeps concurrent uploads of the same file name from clobbering each other.
func (s *Service) stage(docID string, data []byte) error {
	if s.cfg.UploadDir == "" {
		return nil
	}
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.cfg.UploadDir, uuid.NewString()+"_"+docID)
	return os.WriteFile(path, data, 0o644)
}
