// Package metrics exposes Prometheus collectors for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "honey_homes",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "honey_homes",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "honey_homes",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	// OrdersCreated counts service orders by how they were created.
	OrdersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "honey_homes",
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Total number of service orders created.",
		},
		[]string{"source"}, // booking | checkout
	)

	// OrderStatusChanges counts status mutations by actor role and new status.
	OrderStatusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "honey_homes",
			Subsystem: "orders",
			Name:      "status_changes_total",
			Help:      "Total number of order status changes.",
		},
		[]string{"role", "status"},
	)

	// CartOperations counts cart mutations.
	CartOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "honey_homes",
			Subsystem: "cart",
			Name:      "operations_total",
			Help:      "Total number of cart operations.",
		},
		[]string{"operation"},
	)

	// AuthAttempts counts sign-in and sign-up attempts by outcome.
	AuthAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "honey_homes",
			Subsystem: "auth",
			Name:      "attempts_total",
			Help:      "Total number of authentication attempts.",
		},
		[]string{"kind", "outcome"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		OrdersCreated,
		OrderStatusChanges,
		CartOperations,
		AuthAttempts,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request count, latency and in-flight requests. The
// route template is used as the path label to keep cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
