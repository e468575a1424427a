// Package metrics holds the Prometheus collectors of the catalog service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "autocatalog"

var (
	// HTTPRequests counts served requests by method, route pattern and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Number of HTTP requests served.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by method and route pattern.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// SeedRows counts dataset rows processed by the seeder, by entity and outcome
	// (inserted, existing, skipped).
	SeedRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "seed",
		Name:      "rows_total",
		Help:      "Number of seed dataset rows processed.",
	}, []string{"entity", "outcome"})
)
