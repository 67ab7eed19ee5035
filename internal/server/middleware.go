package server

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/psantana5/lapse/pkg/durfmt"
	"github.com/psantana5/lapse/pkg/stopwatch"
)

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// observe times every API request and feeds the latency histogram. The
// endpoint label uses the route template, not the raw path, to keep
// label cardinality bounded.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tmpl
			}
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		timer := stopwatch.NewStarted("", 0)
		next.ServeHTTP(rec, r)
		elapsed := timer.Elapsed()

		s.metrics.ObserveRequest(r.Method, endpoint, strconv.Itoa(rec.status), elapsed.Seconds())
		s.log.Debug("Request handled", map[string]interface{}{
			"method":   r.Method,
			"endpoint": endpoint,
			"status":   rec.status,
			"elapsed":  durfmt.Duration(elapsed),
		})
	})
}

// authenticate enforces the static bearer token when one is configured
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Token == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.Token)) != 1 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
