package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	ServiceName string
	Environment string
}

// Metrics holds the service collectors. A nil *Metrics is a valid no-op.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	proposalsSaved *prometheus.CounterVec
	exports        *prometheus.CounterVec
}

func New(cfg Config) *Metrics {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "proposalcraft"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "proposalcraft_http_requests_total",
				Help:        "HTTP requests served, by route and status code.",
				ConstLabels: constLabels,
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "proposalcraft_http_request_duration_seconds",
				Help:        "HTTP request latency by route.",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: constLabels,
			},
			[]string{"method", "route"},
		),
		proposalsSaved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "proposalcraft_proposals_saved_total",
				Help:        "Saved proposal writes.",
				ConstLabels: constLabels,
			},
			[]string{"op"}, // create | update
		),
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "proposalcraft_exports_total",
				Help:        "Export attempts by format and result.",
				ConstLabels: constLabels,
			},
			[]string{"format", "result"}, // success | failed | busy
		),
	}

	m.registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.proposalsSaved,
		m.exports,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// TrackActiveSessions exposes the number of open editing sessions.
func (m *Metrics) TrackActiveSessions(count func() int) {
	if m == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "proposalcraft_active_sessions",
			Help: "Editing sessions currently open.",
		},
		func() float64 { return float64(count()) },
	))
}

func (m *Metrics) ProposalSaved(op string) {
	if m == nil {
		return
	}
	m.proposalsSaved.WithLabelValues(op).Inc()
}

func (m *Metrics) ExportFinished(format, result string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format, result).Inc()
}

// Middleware records request counts and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
