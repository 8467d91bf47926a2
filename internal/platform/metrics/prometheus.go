package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "path"},
	)

	artifactLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artifact_loads_total",
			Help: "Model artifact loads by outcome",
		},
		[]string{"artifact", "result"},
	)

	riskAssessments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_assessments_total",
			Help: "Completed assessment traversals by final state",
		},
		[]string{"domain", "state"},
	)

	insuranceEstimates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insurance_estimates_total",
			Help: "Insurance estimates by trigger and availability",
		},
		[]string{"trigger", "available"},
	)

	reportsComposed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reports_composed_total",
			Help: "Health reports rendered by export format",
		},
		[]string{"format"},
	)
)

func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency keyed by the chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		path := routePattern(r)
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func RecordArtifactLoad(artifact, result string) {
	artifactLoads.WithLabelValues(artifact, result).Inc()
}

func RecordAssessment(domain, state string) {
	riskAssessments.WithLabelValues(domain, state).Inc()
}

func RecordInsuranceEstimate(trigger string, available bool) {
	insuranceEstimates.WithLabelValues(trigger, strconv.FormatBool(available)).Inc()
}

func RecordReport(format string) {
	reportsComposed.WithLabelValues(format).Inc()
}
