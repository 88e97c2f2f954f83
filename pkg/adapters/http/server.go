package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/branchmap/internal/metrics"
	"github.com/aretw0/branchmap/internal/presentation/report"
	"github.com/aretw0/branchmap/pkg/config"
	"github.com/aretw0/branchmap/pkg/domain"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// Analyzer defines the subset of branchmap.Analyzer the server needs.
type Analyzer interface {
	AnalyzeSource(filename string, src []byte, function string) (*domain.Result, error)
	Analyze(w *domain.Workflow) (*domain.Result, error)
	Config() config.Config
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	// Filename selects the front end by extension (.go, .yaml, .yml).
	Filename string `json:"filename"`
	Source   string `json:"source"`
	Function string `json:"function,omitempty"`
	Options
}

// ElementsRequest is the body of POST /analyze/elements.
type ElementsRequest struct {
	domain.Workflow
	Options
}

// Options override rendering for one request.
type Options struct {
	Compact  *bool `json:"compact,omitempty"`
	Detailed bool  `json:"detailed,omitempty"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// Server serves analyses over HTTP.
type Server struct {
	Analyzer Analyzer
	Logger   *slog.Logger
}

// NewHandler creates a new HTTP handler for the analyzer. metricsHandler is
// mounted on /metrics when not nil.
func NewHandler(analyzer Analyzer, logger *slog.Logger, metricsHandler http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{Analyzer: analyzer, Logger: logger}

	r := chi.NewRouter()
	r.Use(enableCORS)
	r.Get("/healthz", s.GetHealth)
	r.Post("/analyze", s.Analyze)
	r.Post("/analyze/elements", s.AnalyzeElements)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Analyze handles the POST /analyze request.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	var body AnalyzeRequest
	if !s.decode(w, r, &body) {
		return
	}
	if body.Filename == "" {
		body.Filename = "workflow.go"
	}

	result, err := s.Analyzer.AnalyzeSource(body.Filename, []byte(body.Source), body.Function)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, result, body.Options)
}

// AnalyzeElements handles the POST /analyze/elements request.
func (s *Server) AnalyzeElements(w http.ResponseWriter, r *http.Request) {
	var body ElementsRequest
	if !s.decode(w, r, &body) {
		return
	}
	if body.Name == "" {
		body.Name = "workflow"
	}

	result, err := s.Analyzer.Analyze(&body.Workflow)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, result, body.Options)
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.Logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		writeJSON(w, s.Logger, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error(), Kind: "bad_request"})
		return false
	}
	return true
}

func (s *Server) respond(w http.ResponseWriter, result *domain.Result, opts Options) {
	cfg := s.Analyzer.Config()
	if opts.Compact != nil {
		cfg.Compact = *opts.Compact
	}
	writeJSON(w, s.Logger, http.StatusOK, report.NewSummary(result, cfg, opts.Detailed))
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("Analysis failed", "error", err)
	} else {
		s.Logger.Debug("Analysis rejected", "error", err)
	}
	writeJSON(w, s.Logger, status, ErrorResponse{Error: err.Error(), Kind: metrics.Kind(err)})
}

// StatusFor maps analysis errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrWorkflowNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMalformedSource),
		errors.Is(err, domain.ErrUnsupportedConstruct),
		errors.Is(err, domain.ErrPathExplosion),
		errors.Is(err, domain.ErrPathLimitExceeded):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "error", err)
	}
}
