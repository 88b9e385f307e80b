// Package service exposes the refinement engine over HTTP.
package service

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/biograph-labs/episteme/core"
)

// RunFunc executes a full scan-and-refine pass for a disease. A
// maxRetries of zero means "use the configured default".
type RunFunc func(ctx context.Context, diseaseID string, maxRetries int) ([]core.Hypothesis, error)

// HypothesesRequest is the body of POST /hypotheses.
type HypothesesRequest struct {
	DiseaseID  string `json:"disease_id"`
	MaxRetries int    `json:"max_retries,omitempty"`
}

// HypothesesResponse carries the accepted hypotheses for a run.
type HypothesesResponse struct {
	DiseaseID  string            `json:"disease_id"`
	Hypotheses []core.Hypothesis `json:"hypotheses"`
}

// Server handles POST /hypotheses with a JSON request and returns the
// accepted hypotheses.
type Server struct {
	run    RunFunc
	logger *zap.Logger
}

// NewServer creates an HTTP server around a run function.
func NewServer(run RunFunc, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{run: run, logger: logger}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req HypothesesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.DiseaseID == "" {
		http.Error(w, "disease_id is required", http.StatusBadRequest)
		return
	}
	if req.MaxRetries < 0 {
		http.Error(w, "max_retries must be non-negative", http.StatusBadRequest)
		return
	}

	hypotheses, err := s.run(r.Context(), req.DiseaseID, req.MaxRetries)
	if err != nil {
		s.logger.Error("run failed", zap.String("disease_id", req.DiseaseID), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(HypothesesResponse{
		DiseaseID:  req.DiseaseID,
		Hypotheses: hypotheses,
	})
}

// Routes builds the full mux: /hypotheses, /health, /metrics.
func Routes(srv *Server, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/hypotheses", srv)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}
