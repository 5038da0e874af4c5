// Package metrics exposes Prometheus collectors for verification and remote lookups.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds factcheck collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// verificationsTotal counts verdicts by how they were resolved
	verificationsTotal *prometheus.CounterVec

	// remoteQueriesTotal counts SPARQL queries by stage and outcome
	remoteQueriesTotal *prometheus.CounterVec

	// remoteQueryDuration tracks SPARQL query latency
	remoteQueryDuration *prometheus.HistogramVec

	// httpRequestsTotal counts service requests by route and status
	httpRequestsTotal *prometheus.CounterVec
}

// New registers collectors on a fresh registry
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry registers collectors on reg
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		verificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "factcheck_verifications_total",
			Help: "Total verifications by outcome",
		}, []string{"outcome"}),
		remoteQueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "factcheck_remote_queries_total",
			Help: "Total knowledge base queries by stage and outcome",
		}, []string{"stage", "outcome"}),
		remoteQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "factcheck_remote_query_duration_seconds",
			Help:    "Knowledge base query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
		}, []string{"stage"}),
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "factcheck_http_requests_total",
			Help: "Total fact-check service requests by route and status",
		}, []string{"route", "status"}),
	}
}

// ObserveVerification records one verdict
func (m *Metrics) ObserveVerification(outcome string) {
	if m == nil {
		return
	}
	m.verificationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveQuery records one knowledge base query
func (m *Metrics) ObserveQuery(stage, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.remoteQueriesTotal.WithLabelValues(stage, outcome).Inc()
	m.remoteQueryDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// ObserveRequest records one service request
func (m *Metrics) ObserveRequest(route, status string) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(route, status).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
