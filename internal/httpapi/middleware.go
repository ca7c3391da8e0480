package httpapi

import (
	"net/http"

	"superpicky/pkg/metrics"
)

var (
	httpRequests = metrics.Default.Counter("http_requests_total", "API requests served")
	httpErrors   = metrics.Default.Counter("http_request_errors_total", "API requests answered with 5xx")
	httpDuration = metrics.Default.Histogram("http_request_duration_seconds", "API request duration", []float64{0.005, 0.05, 0.5, 5})
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware counts requests and observes their latency.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := httpDuration.Start()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		timer.Observe()
		httpRequests.Inc()
		if rec.status >= 500 {
			httpErrors.Inc()
		}
	})
}
