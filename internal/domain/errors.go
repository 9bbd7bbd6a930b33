package domain

import "errors"

// Pipeline stage sentinels. Every ingestion and query failure wraps exactly
// one of these so the transport boundary can map it to a status code without
// parsing error strings.
var (
	// ErrUnknownProvider signals an unsupported provider identifier in config.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrExtraction signals an unreadable or corrupt PDF.
	ErrExtraction = errors.New("pdf extraction failed")
	// ErrEmptyDocument signals a PDF with no extractable text.
	ErrEmptyDocument = errors.New("no text found in the PDF")
	// ErrEmptyChunks signals that chunking produced nothing.
	ErrEmptyChunks = errors.New("no text chunks extracted from PDF")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrVectorDimMismatch signals a vector whose length differs from the index dimension.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrStorage signals a failed upsert to the vector index.
	ErrStorage = errors.New("vector storage failed")
	// ErrSearch signals a failed similarity search.
	ErrSearch = errors.New("vector search failed")
	// ErrGeneration signals an answer model failure.
	ErrGeneration = errors.New("answer generation failed")
)
