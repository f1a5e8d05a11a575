// Package metrics defines the Prometheus collectors for route queries and
// HTTP traffic.
//
// Collectors are registered on the Registerer passed to New, so tests can use
// an isolated registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "logiroute"

// Route query outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeUnknownNode = "unknown_node"
	OutcomeNoRoute     = "no_route"
	OutcomeTimeout     = "timeout"
	OutcomeError       = "error"
)

type Metrics struct {
	// RouteQueries counts route queries by outcome.
	RouteQueries *prometheus.CounterVec
	// RouteDuration covers cache lookups and searches alike.
	RouteDuration prometheus.Histogram
	// NodesVisited is observed only for searches that ran.
	NodesVisited prometheus.Histogram
	// CacheLookups counts route cache lookups by result (hit, miss).
	CacheLookups *prometheus.CounterVec

	GraphNodes prometheus.Gauge
	GraphEdges prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RouteQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "route",
			Name:      "queries_total",
			Help:      "Route queries by outcome",
		}, []string{"outcome"}),
		RouteDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "route",
			Name:      "query_duration_seconds",
			Help:      "Route query latency in seconds",
			Buckets:   []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		NodesVisited: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "route",
			Name:      "nodes_visited",
			Help:      "Nodes finalized per search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "route",
			Name:      "cache_lookups_total",
			Help:      "Route cache lookups by result",
		}, []string{"result"}),
		GraphNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "nodes",
			Help:      "Nodes in the loaded graph",
		}),
		GraphEdges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "edges",
			Help:      "Directed adjacency entries in the loaded graph",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.RouteQueries,
		m.RouteDuration,
		m.NodesVisited,
		m.CacheLookups,
		m.GraphNodes,
		m.GraphEdges,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

// ObserveRoute records one finished route query.
func (m *Metrics) ObserveRoute(outcome string, took time.Duration, visited int, searched bool) {
	m.RouteQueries.WithLabelValues(outcome).Inc()
	m.RouteDuration.Observe(took.Seconds())
	if searched && outcome == OutcomeOK {
		m.NodesVisited.Observe(float64(visited))
	}
}

func (m *Metrics) ObserveCache(hit bool) {
	if hit {
		m.CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.CacheLookups.WithLabelValues("miss").Inc()
}

func (m *Metrics) SetGraph(nodes, edges int) {
	m.GraphNodes.Set(float64(nodes))
	m.GraphEdges.Set(float64(edges))
}

// HTTPMiddleware records request counts and latency labelled by the chi route
// pattern, so path parameters don't explode cardinality.
func (m *Metrics) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
