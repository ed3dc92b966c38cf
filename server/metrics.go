package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "datasetter"

// httpMetrics holds the request-level Prometheus metrics.
type httpMetrics struct {
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func newHTTPMetrics(reg prometheus.Registerer) *httpMetrics {
	f := promauto.With(reg)
	return &httpMetrics{
		requestTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// middleware records every request. Paths are labelled by route template to
// keep cardinality bounded.
func (m *httpMetrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.requestTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// PrometheusCollector implements datasetter.MetricsCollector with Prometheus
// metrics labelled by dataset.
type PrometheusCollector struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	sampleRows *prometheus.CounterVec
}

// NewPrometheusCollector registers the dataset metrics with reg.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	f := promauto.With(reg)
	return &PrometheusCollector{
		operations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of dataset queries",
			},
			[]string{"dataset", "operation", "status"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Dataset query latency in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 10),
			},
			[]string{"dataset", "operation"},
		),
		sampleRows: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sample_rows_total",
				Help:      "Total number of rows returned by sample queries",
			},
			[]string{"dataset"},
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordCount implements datasetter.MetricsCollector.
func (p *PrometheusCollector) RecordCount(dataset string, duration time.Duration, err error) {
	p.operations.WithLabelValues(dataset, "count", status(err)).Inc()
	p.duration.WithLabelValues(dataset, "count").Observe(duration.Seconds())
}

// RecordCountBy implements datasetter.MetricsCollector. The facet is not a
// label since it comes from the request path.
func (p *PrometheusCollector) RecordCountBy(dataset, _ string, duration time.Duration, err error) {
	p.operations.WithLabelValues(dataset, "count_by", status(err)).Inc()
	p.duration.WithLabelValues(dataset, "count_by").Observe(duration.Seconds())
}

// RecordSample implements datasetter.MetricsCollector.
func (p *PrometheusCollector) RecordSample(dataset string, rows int, duration time.Duration, err error) {
	p.operations.WithLabelValues(dataset, "sample", status(err)).Inc()
	p.duration.WithLabelValues(dataset, "sample").Observe(duration.Seconds())
	p.sampleRows.WithLabelValues(dataset).Add(float64(rows))
}
