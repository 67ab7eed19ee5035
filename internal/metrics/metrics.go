package metrics

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics holds the Prometheus collectors for the timer daemon. Each
// instance carries its own registry so collectors are never registered
// twice on the process-global one.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	active     prometheus.Gauge
	running    prometheus.Gauge
	duration   *prometheus.HistogramVec
}

// New creates and registers the daemon's collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lapse_timer_operations_total",
				Help: "Total timer operations handled by the control API",
			},
			[]string{"op"},
		),
		active: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lapse_timers_active",
				Help: "Number of timers currently registered",
			},
		),
		running: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lapse_timers_running",
				Help: "Number of registered timers currently running",
			},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lapse_http_request_duration_seconds",
				Help:    "Control API request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint", "status"},
		),
	}

	m.registry.MustRegister(m.operations, m.active, m.running, m.duration)
	return m
}

// RecordOperation counts one registry operation by kind
// (create, start, stop, reset, remove)
func (m *Metrics) RecordOperation(op string) {
	m.operations.WithLabelValues(op).Inc()
}

// SetTimerCounts updates the active/running gauges
func (m *Metrics) SetTimerCounts(active, running int) {
	m.active.Set(float64(active))
	m.running.Set(float64(running))
}

// ObserveRequest records the latency of one control API request
func (m *Metrics) ObserveRequest(method, endpoint, status string, seconds float64) {
	m.duration.WithLabelValues(method, endpoint, status).Observe(seconds)
}

// Handler serves everything registered in the text exposition format
func (m *Metrics) Handler() http.Handler {
	format := expfmt.NewFormat(expfmt.TypeTextPlain)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		families, err := m.registry.Gather()
		if err != nil {
			http.Error(w, fmt.Sprintf("gathering metrics: %v", err), http.StatusInternalServerError)
			return
		}

		var buf bytes.Buffer
		encoder := expfmt.NewEncoder(&buf, format)
		for _, mf := range families {
			if err := encoder.Encode(mf); err != nil {
				fmt.Fprintf(&buf, "# Error encoding metric %s: %v\n", mf.GetName(), err)
			}
		}

		w.Header().Set("Content-Type", string(format))
		w.Write(buf.Bytes())
	})
}
