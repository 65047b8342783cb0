// Package server — metrics.go registers all Prometheus metrics for the HTTP
// server and exposes helpers used by handlers and middleware.
package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// serverMetrics holds all Prometheus metrics owned by the HTTP server.
// A single instance is created in New and stored on Server so that tests can
// inject a fresh prometheus.Registry without polluting the default one.
type serverMetrics struct {
	// trainRequestsTotal counts completed /api/train requests, partitioned by
	// outcome: "ok", "bad_request", "conflict", or "error".
	trainRequestsTotal *prometheus.CounterVec

	// trainDurationSeconds records the wall-clock duration of each /api/train
	// request, including extraction and embedding.
	trainDurationSeconds *prometheus.HistogramVec

	// askRequestsTotal counts completed /api/ask requests, partitioned by
	// outcome: "ok", "bad_request", or "error".
	askRequestsTotal *prometheus.CounterVec

	// askDurationSeconds records the wall-clock duration of each /api/ask
	// request, including classification, retrieval, and composition.
	askDurationSeconds *prometheus.HistogramVec

	// corpusChunks is the number of chunks in the currently loaded corpus.
	corpusChunks prometheus.Gauge

	// httpRequestsTotal counts all HTTP requests handled by the server,
	// partitioned by method, path, and status code.
	httpRequestsTotal *prometheus.CounterVec

	// httpDurationSeconds records the latency of all HTTP requests.
	httpDurationSeconds *prometheus.HistogramVec
}

// newServerMetrics registers all server metrics against reg and returns the
// populated serverMetrics. promauto.With(reg) is used so that each call
// registers into the provided registry rather than the global default —
// this keeps unit tests hermetic.
func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	factory := promauto.With(reg)

	return &serverMetrics{
		trainRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docsage",
			Subsystem: "train",
			Name:      "requests_total",
			Help:      "Total number of /api/train requests completed, partitioned by outcome.",
		}, []string{"outcome"}),

		trainDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "docsage",
			Subsystem: "train",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of /api/train requests, including extraction and embedding.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}, []string{"outcome"}),

		askRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docsage",
			Subsystem: "ask",
			Name:      "requests_total",
			Help:      "Total number of /api/ask requests completed, partitioned by outcome.",
		}, []string{"outcome"}),

		askDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "docsage",
			Subsystem: "ask",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of /api/ask requests, from receipt to composed answer.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"outcome"}),

		corpusChunks: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "docsage",
			Subsystem: "corpus",
			Name:      "chunks",
			Help:      "Number of chunks in the currently loaded corpus.",
		}),

		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docsage",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled by the server, partitioned by method, path, and status code.",
		}, []string{"method", "path", "code"}),

		httpDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "docsage",
			Subsystem: "http",
			Name:      "duration_seconds",
			Help:      "Latency of HTTP requests handled by the server.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}
