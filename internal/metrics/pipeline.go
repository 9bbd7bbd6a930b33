package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingestion and query pipeline metrics.
var (
	DocumentsIngestedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ragdex",
			Name:      "documents_ingested_total",
			Help:      "Total number of documents ingested",
		},
	)

	ChunksStoredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ragdex",
			Name:      "chunks_stored_total",
			Help:      "Total number of chunks upserted into the vector index",
		},
	)

	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragdex",
			Name:      "generation_requests_total",
			Help:      "Total number of answer generation requests",
		},
		[]string{"provider", "model", "status"},
	)

	// SearchUnderfilledTotal counts searches that returned fewer results than
	// requested. Not an error, but worth watching on a thin index.
	SearchUnderfilledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ragdex",
			Name:      "search_underfilled_total",
			Help:      "Searches returning fewer results than top_k",
		},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(DocumentsIngestedTotal)
	prometheus.MustRegister(ChunksStoredTotal)
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(SearchUnderfilledTotal)
	pipelineMetricsRegistered = true
}
