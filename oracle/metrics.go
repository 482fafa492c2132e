package oracle

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Operation labels.
const (
	opExists     = "exists"
	opExpand     = "expand"
	opCategories = "categories"
)

var (
	// callsTotal counts oracle calls by operation and result.
	// result: "ok", "empty" (expand/categories returned nothing), "missing" (exists=false)
	callsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wikiwalk_oracle_calls_total",
		Help: "Oracle calls by operation and result",
	}, []string{"op", "result"})

	// httpDuration observes MediaWiki round trips.
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wikiwalk_oracle_http_duration_seconds",
		Help:    "MediaWiki request latency",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"op"})

	// httpFailures counts transport, status and decoding failures.
	httpFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wikiwalk_oracle_http_failures_total",
		Help: "MediaWiki requests that degraded to an empty answer",
	}, []string{"op", "reason"})
)

var (
	tracerOnce sync.Once
	tracer     trace.Tracer
)

// getTracer returns the package tracer, created on first use so that a
// provider installed at startup is picked up.
func getTracer() trace.Tracer {
	tracerOnce.Do(func() {
		tracer = otel.Tracer("github.com/katalvlaran/wikiwalk/oracle")
	})

	return tracer
}
