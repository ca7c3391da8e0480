package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCounter(t *testing.T) {
	r := NewRegistry()
	c := r.Counter("photos_processed_total", "help")
	c.Inc()
	c.Add(4)
	if c.Get() != 5 {
		t.Errorf("Get() = %d, want 5", c.Get())
	}

	// Same name returns the same counter.
	if r.Counter("photos_processed_total", "help") != c {
		t.Error("registry should deduplicate by name")
	}
}

func TestHistogram(t *testing.T) {
	r := NewRegistry()
	h := r.Histogram("batch_duration_seconds", "help", []float64{1, 10})
	h.Observe(0.5)
	h.Observe(5)
	h.Observe(100) // lands in the implicit +Inf bucket

	if h.count != 3 {
		t.Errorf("count = %d, want 3", h.count)
	}
}

func TestHandler_Exposition(t *testing.T) {
	r := NewRegistry()
	r.Counter("requests_total", "Requests served").Add(7)
	r.Histogram("latency_seconds", "Latency", []float64{1}).Observe(0.2)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		"# TYPE requests_total counter",
		"requests_total 7",
		"# TYPE latency_seconds histogram",
		`latency_seconds_bucket{le="1"} 1`,
		`latency_seconds_bucket{le="+Inf"} 1`,
		"latency_seconds_count 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q:\n%s", want, body)
		}
	}
}
