// Package chi implements the HTTP transport over the go-chi router.
package chi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	healthuc "github.com/askdoc-io/askdoc/internal/usecase/health"
)

// AskService answers questions, optionally grounded in document bytes.
type AskService interface {
	Ask(ctx context.Context, question string, documentBytes []byte) string
}

// Server handles the HTTP API.
type Server struct {
	ask    AskService
	health *healthuc.Service
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(ask AskService, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{ask: ask, health: health, logger: logger}
}

// Routes mounts the API handlers on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/ask", s.handleAsk)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

type askRequest struct {
	Question    string `json:"question"`
	DocumentB64 string `json:"document_b64,omitempty"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleAsk handles POST /ask. Ask itself never fails, so any non-200 here
// is a request problem.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "Question is required")
		return
	}

	var documentBytes []byte
	if req.DocumentB64 != "" {
		var err error
		documentBytes, err = base64.StdEncoding.DecodeString(req.DocumentB64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "document_b64 is not valid base64")
			return
		}
	}

	answer := s.ask.Ask(r.Context(), req.Question, documentBytes)
	writeJSON(w, http.StatusOK, askResponse{Answer: answer})
}

// handleHealth handles GET /healthz and GET /readyz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
