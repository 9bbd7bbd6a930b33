package db

// FilterCondition is a single pre-filter clause over an indexed field.
// Exactly one of Tag or Num is set. Conditions are AND-combined in slice
// order so the rendered query is deterministic.
type FilterCondition struct {
	Field string
	Tag   string   // TAG equality, escaped by the backend
	Num   *float64 // NUMERIC exact match
}

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Filters      []FilterCondition
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
