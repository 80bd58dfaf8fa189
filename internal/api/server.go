// Package api serves a progression session over HTTP for dashboards and
// debugging tools.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/danielpatrickdp/alien-probe/internal/logging"
	"github.com/danielpatrickdp/alien-probe/internal/progression"
	"github.com/danielpatrickdp/alien-probe/internal/puzzle"
	"github.com/danielpatrickdp/alien-probe/internal/state"
)

// Error types returned in the "type" field of error bodies.
const (
	ErrTypeValidation  = "validation_error"
	ErrTypeState       = "invalid_state"
	ErrTypeUnavailable = "unavailable"
	ErrTypeNotFound    = "not_found"
	ErrTypeInternal    = "internal_error"
)

// Session is the slice of the controller the HTTP surface needs.
type Session interface {
	SubmitAnswer(answer string) (correct, applied bool, err error)
	ResetProgress()
	AdjustMeter(m state.Meter, delta float32) error
	Snapshot() progression.Snapshot
	CurrentPuzzle() (puzzle.Definition, bool)
}

// OutcomeLister returns the newest outcomes first.
type OutcomeLister func(limit int) ([]logging.OutcomeRecord, error)

// Server handles HTTP requests
type Server struct {
	session  Session
	outcomes OutcomeLister
	log      *slog.Logger
	started  time.Time
}

// NewServer creates a new API server. outcomes may be nil when no outcome log
// is configured.
func NewServer(session Session, outcomes OutcomeLister, log *slog.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	return &Server{
		session:  session,
		outcomes: outcomes,
		log:      log,
		started:  time.Now(),
	}
}

// Routes sets up the HTTP routes
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/progress", s.handleProgress)
		r.Get("/puzzle", s.handlePuzzle)
		r.Get("/outcomes", s.handleOutcomes)
		r.Post("/answer", s.handleAnswer)
		r.Route("/debug", func(r chi.Router) {
			r.Post("/meter", s.handleAdjustMeter)
			r.Post("/reset", s.handleReset)
		})
	})

	return r
}

// requestLogger logs one line per request with status and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, errType, message string) {
	s.writeJSON(w, status, ErrorResponse{Type: errType, Message: message})
}
