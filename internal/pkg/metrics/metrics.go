package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geobridge",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geobridge",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Projection metrics
	Reconciliations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geobridge",
		Subsystem: "projection",
		Name:      "reconciliations_total",
		Help:      "Axis-order reconciliation runs by outcome",
	}, []string{"outcome"})

	Transforms = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geobridge",
		Subsystem: "projection",
		Name:      "transforms_total",
		Help:      "Coordinate transforms served",
	}, []string{"kind"})

	TransformErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geobridge",
		Subsystem: "projection",
		Name:      "transform_errors_total",
		Help:      "Coordinate transforms that failed",
	}, []string{"kind"})

	RegistryDefinitions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "geobridge",
		Subsystem: "projection",
		Name:      "registry_definitions",
		Help:      "CRS definitions currently registered",
	})

	// Capabilities metrics
	CapabilitiesFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geobridge",
		Subsystem: "capabilities",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of capabilities document fetches",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})

	CapabilitiesFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "geobridge",
		Subsystem: "capabilities",
		Name:      "fetch_errors_total",
		Help:      "Total capabilities fetch errors",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geobridge",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geobridge",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
