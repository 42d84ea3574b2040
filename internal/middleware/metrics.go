package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records request counts and latencies per route
type Metrics struct {
	gatherer prometheus.Gatherer

	totalRequests  *prometheus.CounterVec
	responseStatus *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewMetrics registers the HTTP metrics with reg. A nil reg gets a fresh
// registry, which keeps tests and multiple engines independent.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,
		totalRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of incoming HTTP requests.",
		}, []string{"path"}),
		responseStatus: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_response_status_total",
			Help: "Status of HTTP responses.",
		}, []string{"path", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_response_time_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
	}
}

// Middleware counts requests and observes their latency. Routes are labelled
// by template so ids do not explode cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		m.totalRequests.WithLabelValues(path).Inc()
		timer := prometheus.NewTimer(m.httpDuration.WithLabelValues(path))

		c.Next()

		timer.ObserveDuration()
		m.responseStatus.WithLabelValues(path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
