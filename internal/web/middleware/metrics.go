package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/contactdesk/internal/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private Prometheus registry and the HTTP collectors.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	submissions *prometheus.CounterVec
}

// otherPlatform labels every platform outside the known set.
const otherPlatform = "Other"

// knownPlatforms bounds the submissions label; platform is free text up to 50
// characters.
var knownPlatforms = map[string]bool{
	core.PlatformDesktop: true,
	core.PlatformTablet:  true,
	core.PlatformMobile:  true,
	core.PlatformUnknown: true,
}

// NewMetrics registers the service collectors plus Go runtime and process
// collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contactdesk",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "contactdesk",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contactdesk",
			Name:      "submissions_created_total",
			Help:      "Contact submissions created, by platform.",
		}, []string{"platform"}),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.submissions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// SubmissionCreated counts one stored submission.
func (m *Metrics) SubmissionCreated(platform string) {
	if !knownPlatforms[platform] {
		platform = otherPlatform
	}
	m.submissions.WithLabelValues(platform).Inc()
}

// Registry exposes the registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records one observation per request, labelled by the matched
// chi route pattern rather than the raw path to keep cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		route := routeOf(r)
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(ww.status)).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
