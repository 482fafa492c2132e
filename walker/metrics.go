package walker

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var (
	walksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wikiwalk_walks_total",
		Help: "Finished walks by mode and outcome",
	}, []string{"mode", "outcome"})

	walkDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wikiwalk_walk_duration_seconds",
		Help:    "Wall time of a walk",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	}, []string{"mode"})

	walkRequests = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wikiwalk_walk_requests",
		Help:    "Budgeted oracle calls spent per walk",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"mode"})

	// pathLength counts articles, endpoints included.
	pathLength = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wikiwalk_walk_path_length",
		Help:    "Articles on a found path",
		Buckets: prometheus.LinearBuckets(1, 1, 10),
	})
)

func observe(mode string, r *Result) {
	walksTotal.WithLabelValues(mode, r.Outcome.String()).Inc()
	walkDuration.WithLabelValues(mode).Observe(r.Duration.Seconds())
	walkRequests.WithLabelValues(mode).Observe(float64(r.Requests))
	if r.Outcome == Found {
		pathLength.Observe(float64(len(r.Path)))
	}
}

var (
	tracerOnce sync.Once
	tracer     trace.Tracer
)

func getTracer() trace.Tracer {
	tracerOnce.Do(func() {
		tracer = otel.Tracer("github.com/katalvlaran/wikiwalk/walker")
	})

	return tracer
}
