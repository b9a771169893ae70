package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Export outcome labels.
const (
	OutcomeCreated = "created"
	OutcomeUpdated = "updated"
	OutcomeFailed  = "failed"
)

// ExportMetrics collects per-export counters and timings.
type ExportMetrics struct {
	exports  *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewExportMetrics registers export collectors on the given registerer.
func NewExportMetrics(reg prometheus.Registerer) *ExportMetrics {
	factory := promauto.With(reg)
	return &ExportMetrics{
		exports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "product_exports_total",
			Help: "Product exports by target store and outcome.",
		}, []string{"store", "outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "product_export_duration_seconds",
			Help:    "Wall time of a single product export.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Observe records one export attempt.
func (m *ExportMetrics) Observe(storeID, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(storeID, outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// Middleware instruments HTTP handlers with request count and duration.
func Middleware(reg prometheus.Registerer) func(http.Handler) http.Handler {
	factory := promauto.With(reg)
	requests := factory.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})
	duration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			requests.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(ww.Status())).Inc()
			duration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
		})
	}
}
