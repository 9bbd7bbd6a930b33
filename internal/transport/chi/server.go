package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	healthuc "github.com/kailas-cloud/ragdex/internal/usecase/health"
)

// maxUploadBytes caps the multipart form held in memory per upload.
const maxUploadBytes = 32 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Consumer interfaces for the use cases this server depends on (ISP).
type ingester interface {
	Ingest(ctx context.Context, fileName string, data []byte) (domain.IngestResult, error)
}

type answerer interface {
	Answer(ctx context.Context, req domain.QueryRequest) (domain.Answer, error)
}

type documentLister interface {
	ListDocuments(ctx context.Context) ([]string, error)
}

type healthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server exposes the ingestion and query pipelines over a JSON HTTP API.
type Server struct {
	ingest        ingester
	query         answerer
	documents     documentLister
	health        healthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	ingest ingester,
	query answerer,
	documents documentLister,
	health healthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ingest:    ingest,
		query:     query,
		documents: documents,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyDocument, http.StatusBadRequest),
		sentinelHandler(domain.ErrEmptyChunks, http.StatusBadRequest),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest),
		sentinelHandler(domain.ErrExtraction, http.StatusInternalServerError),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusInternalServerError),
		sentinelHandler(domain.ErrGeneration, http.StatusInternalServerError),
		sentinelHandler(domain.ErrStorage, http.StatusInternalServerError),
		sentinelHandler(domain.ErrSearch, http.StatusInternalServerError),
	}
	return s
}

// Register mounts the API routes on the given router.
func (s *Server) Register(r chi.Router) {
	r.Get("/", s.Root)
	r.Get("/healthz", s.HealthCheck)
	r.Post("/api/upload", s.Upload)
	r.Post("/api/query", s.Query)
	r.Get("/api/list_documents", s.ListDocuments)
}

type uploadResponse struct {
	FileName  string `json:"file_name"`
	NumChunks int    `json:"num_chunks"`
	Message   string `json:"message"`
}

// Upload handles POST /api/upload. Accepts a multipart form with a single
// "file" part and runs it through the full ingestion pipeline.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read upload: "+err.Error())
		return
	}

	res, err := s.ingest.Ingest(r.Context(), header.Filename, data)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		FileName:  res.FileName,
		NumChunks: res.NumChunks,
		Message:   "File processed successfully",
	})
}

type queryRequest struct {
	Query   string `json:"query"`
	TopK    int    `json:"top_k"`
	DocID   string `json:"doc_id"`
	ChunkID *int   `json:"chunk_id"`
}

type queryResponse struct {
	Query           string   `json:"query"`
	Response        string   `json:"response"`
	RetrievedChunks []string `json:"retrieved_chunks"`
}

// Query handles POST /api/query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}
	if req.TopK < 0 {
		writeError(w, http.StatusBadRequest, "top_k must not be negative")
		return
	}

	ans, err := s.query.Answer(r.Context(), domain.QueryRequest{
		Query: req.Query,
		TopK:  req.TopK,
		Filter: domain.Filter{
			DocID:   req.DocID,
			ChunkID: req.ChunkID,
		},
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Query:           ans.Query,
		Response:        ans.Response,
		RetrievedChunks: ans.RetrievedChunks,
	})
}

type documentsResponse struct {
	Documents []string `json:"documents"`
}

// ListDocuments handles GET /api/list_documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.documents.ListDocuments(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if docs == nil {
		docs = []string{}
	}
	writeJSON(w, http.StatusOK, documentsResponse{Documents: docs})
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "PDF RAG Chatbot API is running",
	})
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string)
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// safeDomainMessage returns a client-facing message for a domain error.
// Only sentinel text leaks to the client; wrapped causes stay in the logs.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyDocument,
		domain.ErrEmptyChunks,
		domain.ErrVectorDimMismatch,
		domain.ErrExtraction,
		domain.ErrEmbeddingProviderError,
		domain.ErrGeneration,
		domain.ErrStorage,
		domain.ErrSearch,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
