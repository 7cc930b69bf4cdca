// Package metrics exposes the Prometheus collectors for the ledger server.
// All methods are safe to call on a nil *Metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the registry and collectors.
type Metrics struct {
	registry       *prometheus.Registry
	handler        http.Handler
	rpcTotal       *prometheus.CounterVec
	rpcDuration    *prometheus.HistogramVec
	unresolvedRefs *prometheus.CounterVec
}

// New builds a registry with the RPC and ledger collectors plus the Go runtime collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	rpcTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "splitledger_rpc_requests_total",
		Help: "Connect RPCs handled, by procedure and result code.",
	}, []string{"procedure", "code"})
	rpcDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "splitledger_rpc_duration_seconds",
		Help:    "Connect RPC latency by procedure.",
		Buckets: prometheus.DefBuckets,
	}, []string{"procedure"})
	unresolved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "splitledger_unresolved_member_refs_total",
		Help: "Expense member references dropped because they matched no current member.",
	}, []string{"role"})

	registry.MustRegister(
		rpcTotal,
		rpcDuration,
		unresolved,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:       registry,
		handler:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		rpcTotal:       rpcTotal,
		rpcDuration:    rpcDuration,
		unresolvedRefs: unresolved,
	}
}

// Handler returns the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveRPC records one finished RPC.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rpcTotal.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}

// AddUnresolvedRefs counts dropped member references for a role (payer or involved).
func (m *Metrics) AddUnresolvedRefs(role string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.unresolvedRefs.WithLabelValues(role).Add(float64(count))
}

// Registry exposes the registry for tests and custom collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
