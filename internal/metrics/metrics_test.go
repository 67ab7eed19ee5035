package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("scrape status = %d, want 200", rec.Code)
	}
	return rec.Body.String()
}

func TestOperationCounter(t *testing.T) {
	m := New()
	m.RecordOperation("create")
	m.RecordOperation("create")
	m.RecordOperation("stop")

	body := scrape(t, m)
	if !strings.Contains(body, `lapse_timer_operations_total{op="create"} 2`) {
		t.Errorf("create count missing from exposition:\n%s", body)
	}
	if !strings.Contains(body, `lapse_timer_operations_total{op="stop"} 1`) {
		t.Errorf("stop count missing from exposition:\n%s", body)
	}
}

func TestTimerGauges(t *testing.T) {
	m := New()
	m.SetTimerCounts(5, 2)

	body := scrape(t, m)
	if !strings.Contains(body, "lapse_timers_active 5") {
		t.Errorf("active gauge missing from exposition:\n%s", body)
	}
	if !strings.Contains(body, "lapse_timers_running 2") {
		t.Errorf("running gauge missing from exposition:\n%s", body)
	}
}

func TestRequestHistogram(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/api/v1/timers", "200", 0.042)

	body := scrape(t, m)
	if !strings.Contains(body, "lapse_http_request_duration_seconds") {
		t.Errorf("request histogram missing from exposition:\n%s", body)
	}
	if !strings.Contains(body, `endpoint="/api/v1/timers"`) {
		t.Errorf("endpoint label missing from exposition:\n%s", body)
	}
}

func TestHandlerContentType(t *testing.T) {
	m := New()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	ct := rec.Header().Get("Content-Type")
	if !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain exposition format", ct)
	}
}

func TestFreshInstancesDoNotCollide(t *testing.T) {
	// Each Metrics carries its own registry, so building several in one
	// process must not panic on duplicate registration.
	for i := 0; i < 3; i++ {
		m := New()
		m.RecordOperation("create")
	}
}
