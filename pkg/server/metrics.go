package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/natevvv/bestfirst/pkg/routing"
)

const namespace = "bestfirst"

// Metrics holds the prometheus collectors of one server
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	queries  *prometheus.CounterVec
	expanded *prometheus.HistogramVec
	limited  prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Handled requests by route and status code.",
		}, []string{"route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_queries_total",
			Help:      "Route queries by navigator and outcome.",
		}, []string{"navigator", "reachable"}),
		expanded: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_expanded_nodes",
			Help:      "Expanded nodes per route query.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 10),
		}, []string{"navigator"}),
		limited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}
	m.registry.MustRegister(m.requests, m.duration, m.queries, m.expanded, m.limited)
	m.registry.MustRegister(collectors.NewGoCollector())
	return m
}

// Handler serves the collected metrics in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveRequest(route string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveQuery(navigator string, route routing.Route) {
	m.queries.WithLabelValues(navigator, strconv.FormatBool(route.Exists)).Inc()
	m.expanded.WithLabelValues(navigator).Observe(float64(route.Metrics.NodesExpanded))
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
