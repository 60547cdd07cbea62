// Package server is the HTTP shell of the root-finding engine: a REST API
// and a JSON-RPC 2.0 endpoint over the same solve operation, plus a bounded
// in-memory history of recent results.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/copyleftdev/rootfinder/internal/config"
	"github.com/copyleftdev/rootfinder/internal/engine"
	apperrors "github.com/copyleftdev/rootfinder/internal/errors"
	"github.com/copyleftdev/rootfinder/internal/logging"
	"github.com/copyleftdev/rootfinder/internal/report"
)

// Logger defines the logging interface used by the server
// This allows us to be flexible with our logging implementation
type Logger interface {
	Debug(msg string, fields ...map[string]interface{})
	Info(msg string, fields ...map[string]interface{})
	Warn(msg string, fields ...map[string]interface{})
	Error(msg string, fields ...map[string]interface{})
	Fatal(msg string, fields ...map[string]interface{})
	WithFields(fields map[string]interface{}) *logging.Logger
}

// component tags errors raised by this package.
const component = "server"

// SolveResponse is the success body of a solve.
type SolveResponse struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result"`
}

// Server implements the HTTP and JSON-RPC server for the solver.
type Server struct {
	cfg     *config.Config
	logger  Logger
	engine  *engine.Engine
	history *history
}

// NewServer creates a new server instance with the given config, logger and
// engine.
func NewServer(cfg *config.Config, logger Logger, eng *engine.Engine) *Server {
	return &Server{
		cfg:     cfg,
		logger:  logger,
		engine:  eng,
		history: newHistory(cfg.History.Size),
	}
}

// Handler returns the complete HTTP handler: middleware, health and metrics
// endpoints, and the API routes. gatherer serves /metrics.
func (s *Server) Handler(base *logging.Logger, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(base))
	r.Use(apperrors.RecoveryMiddleware(base))
	r.Use(apperrors.ErrorHandler(base))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).Debug("Health check")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	s.RegisterRoutes(r)
	return r
}

func (s *Server) RegisterRoutes(r chi.Router) {
	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Get("/solves/{id}", s.handleGetSolve)
		r.Get("/methods", s.handleMethods)
	})

	// JSON-RPC 2.0 endpoint
	r.Post("/rpc", s.handleJSONRPC)
}

// solve validates req, runs it and stores the result. Errors are ready for
// apperrors.Classify.
func (s *Server) solve(ctx context.Context, req SolveRequest) (*SolveRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if s.cfg.HTTP.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.HTTP.RequestTimeout)
		defer cancel()
	}

	res, err := s.engine.Solve(ctx, req.EngineRequest())
	if err != nil {
		return nil, err
	}
	return s.history.add(req, res), nil
}

func (s *Server) lookup(id string) (*SolveRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.BadRequest("malformed solve id %q", id).
			WithOperation("lookup solve").WithComponent(component)
	}
	rec, ok := s.history.get(id)
	if !ok {
		return nil, apperrors.NotFound("solve %s not found", id).
			WithOperation("lookup solve").WithComponent(component)
	}
	return rec, nil
}

// handleSolve handles POST /api/v1/solve.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := s.decode(w, r, &req); err != nil {
		s.renderError(w, r, err)
		return
	}

	rec, err := s.solve(r.Context(), req)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, SolveResponse{ID: rec.ID, Result: rec.Result})
}

// handleGetSolve handles GET /api/v1/solves/{id}.
func (s *Server) handleGetSolve(w http.ResponseWriter, r *http.Request) {
	rec, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, rec)
}

// handleMethods handles GET /api/v1/methods.
func (s *Server) handleMethods(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, r, http.StatusOK, map[string]interface{}{"methods": report.Catalogue()})
}

// decode reads a JSON body of at most HTTP.MaxBodyBytes into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, s.cfg.HTTP.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.BadRequest("invalid request body: %v", err).
			WithOperation("decode request").WithComponent(component)
	}
	if dec.More() {
		return apperrors.BadRequest("invalid request body: trailing data").
			WithOperation("decode request").WithComponent(component)
	}
	return nil
}

// renderError writes err as a JSON error body. Server-side failures are
// logged with their stack; 4xx responses are logged by ErrorHandler.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	e := apperrors.Render(w, err)
	if e.Status < http.StatusInternalServerError {
		return
	}
	fields := map[string]interface{}{
		"error": e.Error(),
		"path":  r.URL.Path,
		"code":  string(e.Code),
	}
	if len(e.Stack) > 0 {
		fields["stack"] = e.Stack
	}
	logging.FromContext(r.Context()).Error("Solve request failed", fields)
}

// respondJSON marshals v before writing the status so that an unencodable
// value becomes a 500 instead of an empty response.
func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		s.renderError(w, r, apperrors.Classify(err).WithOperation("encode response").WithComponent(component))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// Close cleans up resources
func (s *Server) Close() error {
	s.logger.Info("Dropping solve history", map[string]interface{}{"entries": s.history.len()})
	s.history.clear()
	return nil
}
