package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/swerve/internal/logging"
	"github.com/aretw0/swerve/internal/presentation/graph"
	"github.com/aretw0/swerve/pkg/bus"
	"github.com/aretw0/swerve/pkg/domain"
	"github.com/aretw0/swerve/pkg/model"
	"github.com/aretw0/swerve/pkg/space"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Model is the part of the model graph the server exposes.
// *model.Graph satisfies it.
type Model interface {
	Snapshot() (*model.Snapshot, error)
	TransformBetween(from, to string) (space.Transform, error)
	SetJointValue(id string, value float64) error
	Subscribe(opts ...bus.SubscribeOption) *bus.Subscription
	Unsubscribe(s *bus.Subscription) bool
}

// Server serves read-mostly diagnostics for a live model.
type Server struct {
	Model    Model
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	version  string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer exposes the gatherer's metrics on GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewHandler creates the HTTP handler for a model.
func NewHandler(m Model, opts ...Option) http.Handler {
	s := &Server{
		Model:   m,
		logger:  logging.NewNop(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/snapshot", s.GetSnapshot)
	r.Get("/nodes/{id}", s.GetNode)
	r.Get("/transform", s.GetTransform)
	r.Put("/joints/{id}", s.PutJoint)
	r.Get("/graph", s.GetGraph)
	r.Get("/events", s.SubscribeEvents)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusOf maps model errors to HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownIdentity):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotJointed), errors.Is(err, domain.ErrDisconnected):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDimensionMismatch), errors.Is(err, domain.ErrInvalidTransform):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	}
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), status)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "swerve-http",
		"version": s.version,
	})
}

// GetSnapshot handles the GET /snapshot request.
func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Model.Snapshot()
	if err != nil {
		s.fail(w, "Snapshot", err)
		return
	}
	s.writeJSON(w, snap)
}

// GetNode handles the GET /nodes/{id} request.
func (s *Server) GetNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.Model.Snapshot()
	if err != nil {
		s.fail(w, "Snapshot", err)
		return
	}
	node, ok := snap.Node(id)
	if !ok {
		s.fail(w, "Node", fmt.Errorf("%w: %q", domain.ErrUnknownIdentity, id))
		return
	}
	s.writeJSON(w, node)
}

// TransformResponse is the body of GET /transform.
type TransformResponse struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Transform space.Transform `json:"transform"`
}

// GetTransform handles the GET /transform?from=&to= request.
func (s *Server) GetTransform(w http.ResponseWriter, r *http.Request) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" || to == "" {
		http.Error(w, "from and to are required", http.StatusBadRequest)
		return
	}
	t, err := s.Model.TransformBetween(from, to)
	if err != nil {
		s.fail(w, "Transform", err)
		return
	}
	s.writeJSON(w, TransformResponse{From: from, To: to, Transform: t})
}

// JointRequest is the body of PUT /joints/{id}. Value is in radians for
// revolute joints and meters for prismatic ones.
type JointRequest struct {
	Value *float64 `json:"value"`
}

// PutJoint handles the PUT /joints/{id} request.
func (s *Server) PutJoint(w http.ResponseWriter, r *http.Request) {
	var body JointRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Value == nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PutJoint: Invalid request body", "error", err)
		return
	}
	if err := s.Model.SetJointValue(chi.URLParam(r, "id"), *body.Value); err != nil {
		s.fail(w, "Joint", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetGraph handles the GET /graph request. The optional from and to
// parameters highlight the path between two frames.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Model.Snapshot()
	if err != nil {
		s.fail(w, "Snapshot", err)
		return
	}

	var overlay *graph.GraphOverlay
	if from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to"); from != "" && to != "" {
		nodes, err := snap.Path(from, to)
		if err != nil {
			s.fail(w, "Path", err)
			return
		}
		overlay = &graph.GraphOverlay{PathNodes: nodes, Focus: from}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(snap, overlay)))
}
