// Package index persists document chunks in a Redis FT vector index
// and runs KNN retrieval over them.
package index

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/db"
	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/metrics"
)

// store is the consumer interface for chunk persistence and search (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	TagVals(ctx context.Context, index, field string) ([]string, error)
}

// Options configures the index schema.
type Options struct {
	IndexName       string
	KeyPrefix       string
	Dimension       int
	HNSWM           int
	HNSWEFConstruct int
}

// Repo implements chunk storage over a Redis FT index.
type Repo struct {
	store     store
	indexName string
	keyPrefix string
	opts      Options
	logger    *zap.Logger
}

// New creates an index repository.
func New(s store, opts Options, logger *zap.Logger) *Repo {
	return &Repo{
		store:     s,
		indexName: opts.IndexName,
		keyPrefix: opts.KeyPrefix + "chunk:",
		opts:      opts,
		logger:    logger,
	}
}

// EnsureIndex creates the FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.indexName)
	if err != nil {
		return fmt.Errorf("check index %s: %w", r.indexName, err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:     r.indexName,
		Prefixes: []string{r.keyPrefix},
		Fields: []db.IndexField{
			// CASESENSITIVE keeps file names intact for FT.TAGVALS enumeration.
			{Name: "doc_id", Type: db.IndexFieldTag, TagCaseSensitive: true},
			{Name: "chunk_id", Type: db.IndexFieldNumeric},
			{
				Name:              "__vector",
				Type:              db.IndexFieldVector,
				VectorAlgo:        db.VectorHNSW,
				VectorDim:         r.opts.Dimension,
				VectorDistance:    db.DistanceCosine,
				VectorM:           r.opts.HNSWM,
				VectorEFConstruct: r.opts.HNSWEFConstruct,
			},
		},
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w", r.indexName, err)
	}

	r.logger.Info("Created vector index",
		zap.String("index", r.indexName),
		zap.Int("dimension", r.opts.Dimension))
	return nil
}

// Upsert stores all chunks in a single pipelined batch under fresh uuid keys.
// Re-ingesting a document appends new entries rather than replacing old ones,
// matching upstream index semantics. The batch is pipelined but not atomic:
// a mid-batch failure can leave earlier chunks stored.
func (r *Repo) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(chunks))
	for i, c := range chunks {
		items[i] = db.HashSetItem{
			Key: r.keyPrefix + uuid.NewString(),
			Fields: map[string]string{
				"doc_id":    c.DocID,
				"chunk_id":  strconv.Itoa(c.ChunkID),
				"__content": c.Text,
				"__vector":  vectorToBytes(c.Vector),
			},
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("store %d chunks for %s: %w: %w", len(chunks), chunks[0].DocID, err, domain.ErrStorage)
	}

	metrics.ChunksStoredTotal.Add(float64(len(chunks)))
	return nil
}

// Search runs a KNN query with optional doc_id/chunk_id pre-filtering.
func (r *Repo) Search(ctx context.Context, vector []float32, topK int, filter domain.Filter) ([]domain.ScoredChunk, error) {
	q := &db.KNNQuery{
		IndexName:    r.indexName,
		Vector:       vector,
		K:            topK,
		Filters:      buildConditions(filter),
		ReturnFields: []string{"__content", "doc_id", "chunk_id", "__vector_score"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("knn search: %w: %w", err, domain.ErrSearch)
	}

	if len(sr.Entries) < topK {
		metrics.SearchUnderfilledTotal.Inc()
		r.logger.Debug("Search returned fewer chunks than requested",
			zap.Int("requested", topK),
			zap.Int("returned", len(sr.Entries)))
	}

	out := make([]domain.ScoredChunk, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		chunkID, _ := strconv.Atoi(entry.Fields["chunk_id"])
		out = append(out, domain.ScoredChunk{
			DocID:   entry.Fields["doc_id"],
			ChunkID: chunkID,
			Text:    entry.Fields["__content"],
			Score:   entry.Score,
		})
	}

	return out, nil
}

// ListDocuments enumerates distinct doc_id values via FT.TAGVALS.
func (r *Repo) ListDocuments(ctx context.Context) ([]string, error) {
	vals, err := r.store.TagVals(ctx, r.indexName, "doc_id")
	if err != nil {
		return nil, fmt.Errorf("list documents: %w: %w", err, domain.ErrSearch)
	}
	if vals == nil {
		vals = []string{}
	}
	return vals, nil
}

func buildConditions(f domain.Filter) []db.FilterCondition {
	if f.IsEmpty() {
		return nil
	}

	var conds []db.FilterCondition
	if f.DocID != "" {
		conds = append(conds, db.FilterCondition{Field: "doc_id", Tag: f.DocID})
	}
	if f.ChunkID != nil {
		num := float64(*f.ChunkID)
		conds = append(conds, db.FilterCondition{Field: "chunk_id", Num: &num})
	}
	return conds
}

// vectorToBytes serializes []float32 to the binary layout FT.SEARCH expects.
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
