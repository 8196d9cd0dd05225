package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "momgen"

var (
	// RunsTotal counts pipeline invocations by action (preview, docx, pdf) and outcome.
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "runs_total", Help: "Total pipeline runs by action and status."},
		[]string{"action", "status"},
	)
	// RunDuration observes end-to-end pipeline time in milliseconds.
	RunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_ms",
			Help:      "Pipeline duration in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"action"},
	)
	// SourceKinds counts uploads by detected source format.
	SourceKinds = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "source_kind_total", Help: "Uploads by detected source format."},
		[]string{"kind"},
	)
	RateLimitAllowed = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_allowed_total", Help: "Requests admitted by the rate limiter."},
	)
	RateLimitRejected = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Requests rejected by the rate limiter."},
	)

	registry = newRegistry()
)

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RunsTotal,
		RunDuration,
		SourceKinds,
		RateLimitAllowed,
		RateLimitRejected,
	)
	return reg
}

// Registry returns the registry backing /metrics.
func Registry() *prometheus.Registry {
	return registry
}

// ObserveRun records one finished run.
func ObserveRun(action, status string, elapsed time.Duration) {
	RunsTotal.WithLabelValues(action, status).Inc()
	ms := float64(elapsed) / float64(time.Millisecond)
	if ms < 0 {
		ms = 0
	}
	RunDuration.WithLabelValues(action).Observe(ms)
}

// IncSourceKind counts an upload by detected format. Unknown formats are counted as "other".
func IncSourceKind(kind string) {
	if kind == "" {
		kind = "other"
	}
	SourceKinds.WithLabelValues(kind).Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
