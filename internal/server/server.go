package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/psantana5/lapse/internal/metrics"
	"github.com/psantana5/lapse/internal/registry"
	"github.com/psantana5/lapse/pkg/logging"
	"github.com/psantana5/lapse/pkg/ratelimit"
)

// Config holds the HTTP server settings
type Config struct {
	ListenAddr string
	Token      string
	RateLimit  float64
	RateBurst  int
}

// Server exposes the timer registry over a small REST API
type Server struct {
	cfg     Config
	reg     *registry.Registry
	metrics *metrics.Metrics
	limiter *ratelimit.Limiter
	log     *logging.Logger
}

// New creates a server around the given registry
func New(cfg Config, reg *registry.Registry, m *metrics.Metrics, log *logging.Logger) *Server {
	return &Server{
		cfg:     cfg,
		reg:     reg,
		metrics: m,
		limiter: ratelimit.NewLimiter(cfg.RateLimit, cfg.RateBurst),
		log:     log,
	}
}

// Limiter exposes the rate limiter so callers can run periodic cleanup
func (s *Server) Limiter() *ratelimit.Limiter {
	return s.limiter
}

// Router builds the route table. Health and metrics stay outside the
// API subtree so probes and scrapers need no token.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.Health).Methods("GET")
	r.Handle("/metrics", s.metrics.Handler()).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(s.observe, s.limiter.Middleware(ratelimit.IPKeyFunc), s.authenticate)
	api.HandleFunc("/timers", s.CreateTimer).Methods("POST")
	api.HandleFunc("/timers", s.ListTimers).Methods("GET")
	api.HandleFunc("/timers/{name}", s.GetTimer).Methods("GET")
	api.HandleFunc("/timers/{name}", s.RemoveTimer).Methods("DELETE")
	api.HandleFunc("/timers/{name}/start", s.StartTimer).Methods("POST")
	api.HandleFunc("/timers/{name}/stop", s.StopTimer).Methods("POST")
	api.HandleFunc("/timers/{name}/reset", s.ResetTimer).Methods("POST")
	return r
}

// Health reports liveness
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	})
}

func (s *Server) syncGauges() {
	active, running := s.reg.Stats()
	s.metrics.SetTimerCounts(active, running)
}
