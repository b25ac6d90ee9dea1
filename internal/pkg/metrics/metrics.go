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
		Namespace: "warehousewatch",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "warehousewatch",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "warehousewatch",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Ingest / mapping metrics
	WarehousesIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warehousewatch",
		Subsystem: "ingest",
		Name:      "warehouses_total",
		Help:      "Total warehouse records ingested",
	}, []string{"source"})

	RecordsMapped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "warehousewatch",
		Subsystem: "mapping",
		Name:      "records_total",
		Help:      "Total external records run through the schema mapper",
	})

	MappingFieldFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warehousewatch",
		Subsystem: "mapping",
		Name:      "field_failures_total",
		Help:      "Total per-field mapping failures, by internal field",
	}, []string{"field"})

	MappingParseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "warehousewatch",
		Subsystem: "mapping",
		Name:      "parse_failures_total",
		Help:      "Total batches rejected as unparseable JSON",
	})

	// Proximity alert metrics
	ProximityAlerts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "warehousewatch",
		Subsystem: "proximity",
		Name:      "alerts_total",
		Help:      "Total proximity alerts published",
	})

	// Data source probe metrics
	ProbeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "warehousewatch",
		Subsystem: "probe",
		Name:      "duration_seconds",
		Help:      "Duration of data source reachability probes",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"category"})

	ProbeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warehousewatch",
		Subsystem: "probe",
		Name:      "failures_total",
		Help:      "Total unreachable data source probes",
	}, []string{"category"})

	// Cache metrics
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warehousewatch",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warehousewatch",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// WebSocket relay
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "warehousewatch",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "warehousewatch",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "warehousewatch",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "warehousewatch",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
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
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

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

// UpdateDBPoolMetrics updates database pool gauges from pgx pool stats.
// Accepts an interface so this package does not import pgxpool.
func UpdateDBPoolMetrics(stat interface{}) {
	type poolStat interface {
		AcquiredConns() int32
		IdleConns() int32
		TotalConns() int32
	}

	if s, ok := stat.(poolStat); ok {
		DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
		DBPoolConnsIdle.Set(float64(s.IdleConns()))
		DBPoolConnsOpen.Set(float64(s.TotalConns()))
	}
}
