// Package observability exposes Prometheus metrics for the dashboard API.
package observability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	filteredRecords   prometheus.Histogram
	exportsTotal      *prometheus.CounterVec
	loginsTotal       *prometheus.CounterVec
	datasetAvailable  prometheus.Gauge
}

// NewMetrics registers the dashboard collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "summary_cache_hits_total",
			Help: "Total summary cache hits observed.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "summary_cache_misses_total",
			Help: "Total summary cache misses observed.",
		}),
		filteredRecords: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "filtered_view_records",
			Help:    "Number of records in each computed filtered view.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		exportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exports_total",
			Help: "Total exports built by format.",
		}, []string{"format"}),
		loginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		datasetAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dataset_available",
			Help: "1 when the compensation dataset is loaded, 0 otherwise.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.cacheHits,
		m.cacheMisses,
		m.filteredRecords,
		m.exportsTotal,
		m.loginsTotal,
		m.datasetAvailable,
	)
	return m
}

// Middleware records request counts and durations by route template.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if m == nil {
				return err
			}

			status := c.Response().Status
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

func (m *Metrics) ObserveView(records int) {
	if m == nil {
		return
	}
	m.filteredRecords.Observe(float64(records))
}

func (m *Metrics) Export(format string) {
	if m == nil {
		return
	}
	m.exportsTotal.WithLabelValues(format).Inc()
}

func (m *Metrics) Login(success bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.loginsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetDatasetAvailable(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.datasetAvailable.Set(1)
	} else {
		m.datasetAvailable.Set(0)
	}
}
