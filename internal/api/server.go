// Package api exposes question answering over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"finqa/internal/artifact"
	"finqa/internal/domain"
	"finqa/internal/logger"
)

// maxQueryBytes bounds the /api/ask request body.
const maxQueryBytes = 64 << 10

// Answerer is the server-facing subset of the answer synthesizer.
type Answerer interface {
	Synthesize(ctx context.Context, query string) (domain.SynthesizedAnswer, error)
}

// ManifestSource returns the manifest of the current index.
type ManifestSource interface {
	LoadManifest() (artifact.Manifest, error)
}

// Server is the HTTP API server.
type Server struct {
	router    chi.Router
	answers   Answerer
	manifests ManifestSource
	log       *zap.Logger
}

func NewServer(answers Answerer, manifests ManifestSource, log *zap.Logger) *Server {
	s := &Server{answers: answers, manifests: manifests, log: logger.OrNop(log)}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Post("/api/ask", s.handleAsk)
	r.Get("/api/manifest", s.handleManifest)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

type askRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQueryBytes)).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	q := strings.TrimSpace(req.Query)
	if q == "" {
		jsonError(w, "query is required", http.StatusBadRequest)
		return
	}

	ans, err := s.answers.Synthesize(r.Context(), q)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			jsonError(w, artifact.ErrIndexNotBuilt.Error(), http.StatusServiceUnavailable)
			return
		}
		s.log.Error("answer failed", zap.String("query", q), zap.Error(err))
		jsonError(w, "failed to answer: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ans)
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	m, err := s.manifests.LoadManifest()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			jsonError(w, artifact.ErrIndexNotBuilt.Error(), http.StatusNotFound)
			return
		}
		jsonError(w, "failed to read manifest: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
