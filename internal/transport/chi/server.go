// Package chi exposes the RAG pipeline over a JSON HTTP API.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ragbase/ragbase/internal/domain"
	healthuc "github.com/ragbase/ragbase/internal/usecase/health"
)

// maxUploadBytes caps the multipart memory buffer for uploads.
const maxUploadBytes = 32 << 20

// sentinelStatus maps a domain sentinel to its HTTP status and the message
// exposed to clients.
type sentinelStatus struct {
	sentinel error
	status   int
	message  string
}

// Server routes HTTP requests to the use case services.
type Server struct {
	ingest    IngestService
	query     QueryService
	documents DocumentService
	health    HealthService
	logger    *zap.Logger
	sentinels []sentinelStatus
}

// NewServer creates an HTTP API server.
func NewServer(
	ingest IngestService,
	query QueryService,
	documents DocumentService,
	health HealthService,
	logger *zap.Logger,
) *Server {
	return &Server{
		ingest:    ingest,
		query:     query,
		documents: documents,
		health:    health,
		logger:    logger,
		sentinels: []sentinelStatus{
			{domain.ErrEmptyContent, http.StatusBadRequest, "No text content found in file"},
			{domain.ErrEmptyQuery, http.StatusBadRequest, "No query provided"},
			{domain.ErrDocumentNotFound, http.StatusNotFound, "Document not found"},
		},
	}
}

// RegisterRoutes mounts all API routes on the router.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Post("/api/upload", s.handleUpload)
	r.Post("/api/query", s.handleQuery)
	r.Get("/api/documents", s.handleListDocuments)
	r.Delete("/api/documents/{id}", s.handleDeleteDocument)
	r.Get("/api/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

type uploadResponse struct {
	Success  bool            `json:"success"`
	Document domain.Document `json:"document"`
	Message  string          `json:"message"`
}

// handleUpload handles POST /api/upload.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	doc, err := s.ingest.Ingest(r.Context(), header.Filename, string(content))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:  true,
		Document: doc,
		Message:  fmt.Sprintf("Uploaded %s with %d chunks", doc.FileName, doc.ChunkCount),
	})
}

type queryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"topK"`
}

type queryResponse struct {
	Query    string                  `json:"query"`
	Response string                  `json:"response"`
	Context  []domain.RetrievedChunk `json:"context"`
}

// handleQuery handles POST /api/query.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.query.Query(r.Context(), req.Query, req.TopK)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Query:    result.Query,
		Response: result.Response,
		Context:  result.Retrieved,
	})
}

type documentsResponse struct {
	Documents []domain.Document `json:"documents"`
}

// handleListDocuments handles GET /api/documents.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.documents.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if docs == nil {
		docs = []domain.Document{}
	}

	writeJSON(w, http.StatusOK, documentsResponse{Documents: docs})
}

type deleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// handleDeleteDocument handles DELETE /api/documents/{id}.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := s.documents.Delete(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteResponse{
		Success: true,
		Message: fmt.Sprintf("Deleted document %s", doc.FileName),
	})
}

type healthResponse struct {
	Status    healthuc.Status                 `json:"status"`
	Checks    map[string]healthuc.CheckResult `json:"checks"`
	Timestamp time.Time                       `json:"timestamp"`
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:    report.Status,
		Checks:    report.Checks,
		Timestamp: time.Now().UTC(),
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, m := range s.sentinels {
		if errors.Is(err, m.sentinel) {
			s.logger.Warn("domain error", zap.Error(err))
			writeError(w, m.status, m.message)
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Internal Server Error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
