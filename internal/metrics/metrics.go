// Package metrics exposes Prometheus metrics for upstream calls and GraphQL
// operations on a private registry.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go.appointy.com/charql"
)

const namespace = "charql"

// Outcomes of a GraphQL operation.
const (
	OperationOK    = "ok"
	OperationError = "error"
)

// Metrics implements catalog.Observer.
type Metrics struct {
	registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	operations       *prometheus.CounterVec
	operationLatency prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Upstream calls by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Latency of upstream calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "graphql",
			Name:      "operations_total",
			Help:      "Executed GraphQL operations by outcome.",
		}, []string{"outcome"}),
		operationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "graphql",
			Name:      "operation_duration_seconds",
			Help:      "Latency of GraphQL operations.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.upstreamRequests,
		m.upstreamDuration,
		m.operations,
		m.operationLatency,
	)
	return m
}

// ObserveUpstream records one upstream call.
func (m *Metrics) ObserveUpstream(endpoint, outcome string, took time.Duration) {
	m.upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	m.upstreamDuration.WithLabelValues(endpoint).Observe(took.Seconds())
}

// Middleware counts executed operations. An operation with any entry in
// its errors list counts as an error.
func (m *Metrics) Middleware() charql.MiddlewareFunc {
	return func(next charql.HandlerFunc) charql.HandlerFunc {
		return func(ctx context.Context, params *charql.Params) *graphql.Result {
			start := time.Now()
			result := next(ctx, params)
			m.operationLatency.Observe(time.Since(start).Seconds())

			outcome := OperationOK
			if result.HasErrors() {
				outcome = OperationError
			}
			m.operations.WithLabelValues(outcome).Inc()
			return result
		}
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
