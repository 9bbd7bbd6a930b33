// Package chromem provides an embedded vector store backed by chromem-go,
// for running without a Redis instance.
package chromem

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
	chromemgo "github.com/philippgille/chromem-go"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/metrics"
)

const collectionName = "ragdex"

// Store implements chunk persistence and KNN retrieval in-process.
type Store struct {
	db         *chromemgo.DB
	collection *chromemgo.Collection
	logger     *zap.Logger

	mu     sync.RWMutex
	docIDs map[string]struct{}
}

// NewStore opens (or creates) an embedded store. With an empty path the
// store is purely in-memory; otherwise state persists under path.
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	var (
		db  *chromemgo.DB
		err error
	)
	if path == "" {
		db = chromemgo.NewDB()
	} else {
		db, err = chromemgo.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("open embedded db: %w", err)
		}
	}

	collection, err := db.GetOrCreateCollection(collectionName, map[string]string{
		"hnsw:space": "cosine",
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("open collection: %w", err)
	}

	return &Store{
		db:         db,
		collection: collection,
		logger:     logger,
		docIDs:     make(map[string]struct{}),
	}, nil
}

// EnsureIndex is a no-op: the collection is created on open.
func (s *Store) EnsureIndex(_ context.Context) error { return nil }

// Upsert stores all chunks under fresh uuid ids. Re-ingesting a document
// appends new entries rather than replacing old ones.
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	ids := make([]string, len(chunks))
	embeddings := make([][]float32, len(chunks))
	metadatas := make([]map[string]string, len(chunks))
	contents := make([]string, len(chunks))

	for i, c := range chunks {
		ids[i] = uuid.NewString()
		embeddings[i] = c.Vector
		metadatas[i] = map[string]string{
			"doc_id":   c.DocID,
			"chunk_id": strconv.Itoa(c.ChunkID),
		}
		contents[i] = c.Text
	}

	if err := s.collection.Add(ctx, ids, embeddings, metadatas, contents); err != nil {
		return fmt.Errorf("store %d chunks for %s: %w: %w", len(chunks), chunks[0].DocID, err, domain.ErrStorage)
	}

	s.mu.Lock()
	for _, c := range chunks {
		s.docIDs[c.DocID] = struct{}{}
	}
	s.mu.Unlock()

	metrics.ChunksStoredTotal.Add(float64(len(chunks)))
	return nil
}

// Search runs a KNN query with optional doc_id/chunk_id pre-filtering.
// chromem errors when asked for more results than documents exist, so
// topK is clamped to the collection size.
func (s *Store) Search(ctx context.Context, vector []float32, topK int, filter domain.Filter) ([]domain.ScoredChunk, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		metrics.SearchUnderfilledTotal.Inc()
		s.logger.Debug("Search clamped to collection size",
			zap.Int("requested", topK),
			zap.Int("available", count))
		topK = count
	}

	where := buildWhere(filter)

	results, err := s.collection.QueryEmbedding(ctx, vector, topK, where, nil)
	if err != nil {
		return nil, fmt.Errorf("knn search: %w: %w", err, domain.ErrSearch)
	}

	out := make([]domain.ScoredChunk, 0, len(results))
	for _, res := range results {
		chunkID, _ := strconv.Atoi(res.Metadata["chunk_id"])
		out = append(out, domain.ScoredChunk{
			DocID:   res.Metadata["doc_id"],
			ChunkID: chunkID,
			Text:    res.Content,
			Score:   float64(res.Similarity),
		})
	}

	return out, nil
}

// ListDocuments returns the distinct ingested document names, sorted.
// The set is tracked in memory and does not survive a restart of a
// persistent store until documents are re-ingested.
func (s *Store) ListDocuments(_ context.Context) ([]string, error) {
	s.mu.RLock()
	out := make([]string, 0, len(s.docIDs))
	for id := range s.docIDs {
		out = append(out, id)
	}
	s.mu.RUnlock()

	sort.Strings(out)
	return out, nil
}

func buildWhere(f domain.Filter) map[string]string {
	if f.IsEmpty() {
		return nil
	}
	where := make(map[string]string, 2)
	if f.DocID != "" {
		where["doc_id"] = f.DocID
	}
	if f.ChunkID != nil {
		where["chunk_id"] = strconv.Itoa(*f.ChunkID)
	}
	return where
}
