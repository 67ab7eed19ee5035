package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/psantana5/lapse/internal/registry"
	"github.com/psantana5/lapse/pkg/durfmt"
	"github.com/psantana5/lapse/pkg/stopwatch"
)

type createRequest struct {
	Name   string `json:"name"`
	Start  bool   `json:"start"`
	SeedNS int64  `json:"seed_ns"`
}

type timerResponse struct {
	Name          string `json:"name"`
	Running       bool   `json:"running"`
	ElapsedNanos  int64  `json:"elapsed_ns"`
	ElapsedMillis int64  `json:"elapsed_ms"`
	ElapsedHuman  string `json:"elapsed_human"`
}

func toResponse(v registry.View) timerResponse {
	return timerResponse{
		Name:          v.Name,
		Running:       v.Running,
		ElapsedNanos:  v.Elapsed.Nanoseconds(),
		ElapsedMillis: v.Elapsed.Milliseconds(),
		ElapsedHuman:  durfmt.Duration(v.Elapsed),
	}
}

// writeStateError maps registry and timer state errors onto HTTP status
// codes
func (s *Server) writeStateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrTimerNotFound):
		http.Error(w, "Timer not found", http.StatusNotFound)
	case errors.Is(err, registry.ErrTimerExists):
		http.Error(w, "Timer already exists", http.StatusConflict)
	case errors.Is(err, stopwatch.ErrAlreadyRunning):
		http.Error(w, "Timer already running", http.StatusConflict)
	case errors.Is(err, stopwatch.ErrAlreadyStopped):
		http.Error(w, "Timer already stopped", http.StatusConflict)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// CreateTimer handles timer creation. Negative seeds are clamped to
// zero by the constructor, so no validation happens here.
func (s *Server) CreateTimer(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := s.reg.Create(req.Name, req.Start, time.Duration(req.SeedNS))
	if err != nil {
		s.writeStateError(w, err)
		return
	}
	s.metrics.RecordOperation("create")
	s.syncGauges()
	s.log.Info("Timer created", map[string]interface{}{
		"name":    view.Name,
		"running": view.Running,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toResponse(view))
}

// ListTimers returns snapshots of all registered timers
func (s *Server) ListTimers(w http.ResponseWriter, r *http.Request) {
	views := s.reg.Snapshots()
	timers := make([]timerResponse, 0, len(views))
	for _, v := range views {
		timers = append(timers, toResponse(v))
	}

	response := map[string]interface{}{
		"timers": timers,
		"count":  len(timers),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetTimer returns a single timer snapshot
func (s *Server) GetTimer(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	view, err := s.reg.Snapshot(name)
	if err != nil {
		s.writeStateError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toResponse(view))
}

// StartTimer resumes a stopped timer
func (s *Server) StartTimer(w http.ResponseWriter, r *http.Request) {
	s.applyTransition(w, r, "start", s.reg.Start)
}

// StopTimer pauses a running timer, banking its elapsed time
func (s *Server) StopTimer(w http.ResponseWriter, r *http.Request) {
	s.applyTransition(w, r, "stop", s.reg.Stop)
}

// ResetTimer stops a timer and clears its accumulated time
func (s *Server) ResetTimer(w http.ResponseWriter, r *http.Request) {
	s.applyTransition(w, r, "reset", s.reg.Reset)
}

func (s *Server) applyTransition(w http.ResponseWriter, r *http.Request, op string, fn func(string) error) {
	name := mux.Vars(r)["name"]
	if err := fn(name); err != nil {
		s.writeStateError(w, err)
		return
	}
	s.metrics.RecordOperation(op)
	s.syncGauges()
	s.log.Info("Timer transition", map[string]interface{}{
		"name": name,
		"op":   op,
	})

	view, err := s.reg.Snapshot(name)
	if err != nil {
		s.writeStateError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toResponse(view))
}

// RemoveTimer deletes a timer from the registry
func (s *Server) RemoveTimer(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := s.reg.Remove(name); err != nil {
		s.writeStateError(w, err)
		return
	}
	s.metrics.RecordOperation("remove")
	s.syncGauges()
	s.log.Info("Timer removed", map[string]interface{}{
		"name": name,
	})
	w.WriteHeader(http.StatusNoContent)
}
