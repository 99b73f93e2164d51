// Package monitoring provides Prometheus metrics and OpenTelemetry tracing
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "flavorgraph"

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Similarity engine metrics
	queriesTotal     *prometheus.CounterVec
	queryDuration    *prometheus.HistogramVec
	unknownTotal     prometheus.Counter
	extensionsTotal  *prometheus.CounterVec
	graphNodes       prometheus.Gauge
	graphEdges       prometheus.Gauge
	graphComponents  prometheus.Gauge
	seedReloadsTotal *prometheus.CounterVec

	// Dependencies
	cacheOperations *prometheus.CounterVec
	aiRequestsTotal *prometheus.CounterVec
	aiDuration      *prometheus.HistogramVec
}

// NewMetricsCollector creates a collector backed by its own registry, which
// also carries the Go runtime and process collectors
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &MetricsCollector{
		logger:   logger.Named("metrics"),
		registry: registry,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		queriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "similarity_queries_total",
				Help:      "Similarity queries by action and outcome",
			},
			[]string{"action", "status"},
		),
		queryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "similarity_query_duration_seconds",
				Help:      "Time spent answering similarity queries",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
			},
			[]string{"action"},
		),
		unknownTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unknown_ingredients_total",
				Help:      "Queried ingredients that are not in the graph",
			},
		),
		extensionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "graph_extensions_total",
				Help:      "Ingredients added at runtime",
			},
			[]string{"status"},
		),
		graphNodes: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "graph_nodes",
				Help:      "Ingredients in the live graph",
			},
		),
		graphEdges: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "graph_edges",
				Help:      "Unordered edges in the live graph",
			},
		),
		graphComponents: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "graph_components",
				Help:      "Connected components in the live graph",
			},
		),
		seedReloadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "seed_reloads_total",
				Help:      "Seed file reloads by outcome",
			},
			[]string{"status"},
		),
		cacheOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_operations_total",
				Help:      "Cache operations by result",
			},
			[]string{"operation", "result"},
		),
		aiRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ai_requests_total",
				Help:      "Recipe generation requests",
			},
			[]string{"provider", "status"},
		),
		aiDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ai_request_duration_seconds",
				Help:      "Recipe generation latency",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 8),
			},
			[]string{"provider"},
		),
	}
}

// HTTPMiddleware records request counts and latency. path should be a route
// pattern, not the raw URL, to keep label cardinality bounded.
func (m *MetricsCollector) HTTPMiddleware(route func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			path := route(r)
			m.httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
			m.httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Query records a similarity query
func (m *MetricsCollector) Query(action, status string, duration time.Duration) {
	m.queriesTotal.WithLabelValues(action, status).Inc()
	m.queryDuration.WithLabelValues(action).Observe(duration.Seconds())
}

// UnknownIngredients counts queried names missing from the graph
func (m *MetricsCollector) UnknownIngredients(n int) {
	m.unknownTotal.Add(float64(n))
}

// Extension records an AddIngredient outcome
func (m *MetricsCollector) Extension(status string) {
	m.extensionsTotal.WithLabelValues(status).Inc()
}

// GraphSize publishes the size of the live graph
func (m *MetricsCollector) GraphSize(nodes, edges, components int) {
	m.graphNodes.Set(float64(nodes))
	m.graphEdges.Set(float64(edges))
	m.graphComponents.Set(float64(components))
}

// SeedReload records a seed reload outcome
func (m *MetricsCollector) SeedReload(status string) {
	m.seedReloadsTotal.WithLabelValues(status).Inc()
}

// CacheOperation records a cache lookup or write
func (m *MetricsCollector) CacheOperation(operation, result string) {
	m.cacheOperations.WithLabelValues(operation, result).Inc()
}

// AIRequest records a recipe generation call
func (m *MetricsCollector) AIRequest(provider, status string, duration time.Duration) {
	m.aiRequestsTotal.WithLabelValues(provider, status).Inc()
	m.aiDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// Handler returns the Prometheus metrics handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
