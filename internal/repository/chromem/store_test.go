package chromem

import (
	"context"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore("", zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestUpsertAndSearch_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	chunks := []domain.Chunk{
		{DocID: "report.pdf", ChunkID: 0, Text: "the capital of France is Paris", Vector: []float32{1, 0, 0}},
		{DocID: "report.pdf", ChunkID: 1, Text: "the capital of Spain is Madrid", Vector: []float32{0, 1, 0}},
		{DocID: "manual.pdf", ChunkID: 0, Text: "press the red button", Vector: []float32{0, 0, 1}},
	}
	if err := s.Upsert(ctx, chunks); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	results, err := s.Search(ctx, []float32{1, 0, 0}, 2, domain.Filter{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Text != "the capital of France is Paris" {
		t.Errorf("expected best match to be the Paris chunk, got %q", results[0].Text)
	}
	if results[0].DocID != "report.pdf" || results[0].ChunkID != 0 {
		t.Errorf("unexpected identity: %+v", results[0])
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("results not ordered by similarity: %f vs %f", results[0].Score, results[1].Score)
	}
}

func TestSearch_DocFilterIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Upsert(ctx, []domain.Chunk{
		{DocID: "a.pdf", ChunkID: 0, Text: "alpha", Vector: []float32{1, 0}},
		{DocID: "b.pdf", ChunkID: 0, Text: "bravo", Vector: []float32{0.9, 0.1}},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	results, err := s.Search(ctx, []float32{1, 0}, 2, domain.Filter{DocID: "b.pdf"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, r := range results {
		if r.DocID != "b.pdf" {
			t.Errorf("filter leaked chunk from %s", r.DocID)
		}
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 filtered result, got %d", len(results))
	}
}

func TestSearch_ChunkFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Upsert(ctx, []domain.Chunk{
		{DocID: "a.pdf", ChunkID: 0, Text: "first", Vector: []float32{1, 0}},
		{DocID: "a.pdf", ChunkID: 1, Text: "second", Vector: []float32{0, 1}},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	chunkID := 1
	results, err := s.Search(ctx, []float32{1, 0}, 2, domain.Filter{DocID: "a.pdf", ChunkID: &chunkID})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ChunkID != 1 {
		t.Fatalf("expected only chunk 1, got %+v", results)
	}
}

func TestSearch_EmptyCollection(t *testing.T) {
	s := newTestStore(t)

	results, err := s.Search(context.Background(), []float32{1, 0}, 5, domain.Filter{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestSearch_TopKClampedToCollectionSize(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Upsert(ctx, []domain.Chunk{
		{DocID: "a.pdf", ChunkID: 0, Text: "only one", Vector: []float32{1, 0}},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	results, err := s.Search(ctx, []float32{1, 0}, 10, domain.Filter{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestListDocuments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	docs, err := s.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected empty list, got %v", docs)
	}

	err = s.Upsert(ctx, []domain.Chunk{
		{DocID: "b.pdf", ChunkID: 0, Text: "x", Vector: []float32{1, 0}},
		{DocID: "a.pdf", ChunkID: 0, Text: "y", Vector: []float32{0, 1}},
		{DocID: "a.pdf", ChunkID: 1, Text: "z", Vector: []float32{1, 1}},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	docs, err = s.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != 2 || docs[0] != "a.pdf" || docs[1] != "b.pdf" {
		t.Fatalf("expected sorted distinct names, got %v", docs)
	}
}

func TestEnsureIndex_NoOp(t *testing.T) {
	s := newTestStore(t)
	if err := s.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
}
