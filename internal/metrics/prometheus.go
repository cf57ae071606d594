package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bizmatters/agent-builder/testcase-generator/internal/ratelimit"
)

// StatusSource exposes rate limiter counters.
type StatusSource interface {
	Status() ratelimit.Status
}

// RateLimitCollector exports limiter counters as gauges on every scrape.
type RateLimitCollector struct {
	source StatusSource

	requests  *prometheus.Desc
	remaining *prometheus.Desc
	limit     *prometheus.Desc
	resetIn   *prometheus.Desc
}

// NewRateLimitCollector creates a collector reading from source
func NewRateLimitCollector(source StatusSource) *RateLimitCollector {
	labels := []string{"window"}
	return &RateLimitCollector{
		source: source,
		requests: prometheus.NewDesc("testcase_generator_ratelimit_requests",
			"Completion calls counted in the current window", labels, nil),
		remaining: prometheus.NewDesc("testcase_generator_ratelimit_remaining",
			"Completion calls left in the current window", labels, nil),
		limit: prometheus.NewDesc("testcase_generator_ratelimit_limit",
			"Configured completion calls per window", labels, nil),
		resetIn: prometheus.NewDesc("testcase_generator_ratelimit_reset_seconds",
			"Seconds until the minute window resets", nil, nil),
	}
}

// Describe implements prometheus.Collector
func (c *RateLimitCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.requests
	ch <- c.remaining
	ch <- c.limit
	ch <- c.resetIn
}

// Collect implements prometheus.Collector
func (c *RateLimitCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Status()
	minute := string(ratelimit.WindowMinute)
	day := string(ratelimit.WindowDay)

	ch <- prometheus.MustNewConstMetric(c.requests, prometheus.GaugeValue, float64(s.MinuteRequests), minute)
	ch <- prometheus.MustNewConstMetric(c.requests, prometheus.GaugeValue, float64(s.DayRequests), day)
	ch <- prometheus.MustNewConstMetric(c.remaining, prometheus.GaugeValue, float64(s.MinuteRemaining), minute)
	ch <- prometheus.MustNewConstMetric(c.remaining, prometheus.GaugeValue, float64(s.DayRemaining), day)
	ch <- prometheus.MustNewConstMetric(c.limit, prometheus.GaugeValue, float64(s.MinuteLimit), minute)
	ch <- prometheus.MustNewConstMetric(c.limit, prometheus.GaugeValue, float64(s.DayLimit), day)
	ch <- prometheus.MustNewConstMetric(c.resetIn, prometheus.GaugeValue, float64(s.ResetInSeconds))
}

// HTTPMetrics holds the request counter and latency histogram for the API.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP instruments on reg
func NewHTTPMetrics(reg prometheus.Registerer) (*HTTPMetrics, error) {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "testcase_generator_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "testcase_generator_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if err := reg.Register(m.requests); err != nil {
		return nil, err
	}
	if err := reg.Register(m.latency); err != nil {
		return nil, err
	}
	return m, nil
}

// Middleware records every request under its route template.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
