package extract

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

func TestText_GarbageBytes(t *testing.T) {
	_, err := Text([]byte("this is not a pdf"))
	if !errors.Is(err, domain.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}

func TestText_EmptyInput(t *testing.T) {
	_, err := Text(nil)
	if !errors.Is(err, domain.ErrExtraction) {
		t.Fatalf("expected ErrExtraction for empty input, got %v", err)
	}
}

func TestText_TruncatedHeader(t *testing.T) {
	// A valid magic prefix with a broken body must not panic through.
	_, err := Text([]byte("%PDF-1.7\ngarbage"))
	if !errors.Is(err, domain.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}
