package domain

// KeyPrefix namespaces every key ragdex writes to the store.
const KeyPrefix = "ragdex:"

// NoResultsResponse is the fixed answer returned when retrieval finds nothing.
const NoResultsResponse = "No relevant information found."

// Chunk is a bounded substring of a document's text, the unit of embedding
// and retrieval. DocID is the original filename; ChunkID is the zero-based
// position within that document.
type Chunk struct {
	DocID   string
	ChunkID int
	Text    string
	Vector  []float32
}

// ScoredChunk is a retrieval hit ordered by descending cosine similarity.
type ScoredChunk struct {
	DocID   string
	ChunkID int
	Text    string
	Score   float64
}

// Filter restricts a search to exact metadata matches. An empty DocID and a
// nil ChunkID mean the whole index is searched. Zero is a valid chunk id,
// hence the pointer.
type Filter struct {
	DocID   string
	ChunkID *int
}

// IsEmpty reports whether the filter constrains anything.
func (f Filter) IsEmpty() bool {
	return f.DocID == "" && f.ChunkID == nil
}

// IngestResult summarizes a completed document ingestion.
type IngestResult struct {
	FileName  string
	NumChunks int
}

// QueryRequest is a transient retrieval request.
type QueryRequest struct {
	Query  string
	TopK   int
	Filter Filter
}

// Answer is the result of the query pipeline.
type Answer struct {
	Query           string
	Response        string
	RetrievedChunks []string
}
