// Package metrics exposes Prometheus collectors for the HTTP layer and the
// enquiry pipeline.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	EnquiriesSubmitted   *prometheus.CounterVec
	NotificationsTotal   *prometheus.CounterVec
	InsertRetriesTotal   prometheus.Counter
	LegacyFallbacksTotal prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "careatlas_http_requests_total",
			Help: "Total HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "careatlas_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		EnquiriesSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "careatlas_enquiries_submitted_total",
			Help: "Enquiry submissions by outcome (created, validation_failed, not_found, degraded, error).",
		}, []string{"outcome"}),
		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "careatlas_notifications_total",
			Help: "Notification attempts by channel and result.",
		}, []string{"channel", "result"}),
		InsertRetriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "careatlas_enquiry_insert_retries_total",
			Help: "Insert statements rebuilt after an unknown-column error.",
		}),
		LegacyFallbacksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "careatlas_enquiry_legacy_fallbacks_total",
			Help: "Enquiry inserts that fell back to the legacy column set.",
		}),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.EnquiriesSubmitted,
		m.NotificationsTotal,
		m.InsertRetriesTotal,
		m.LegacyFallbacksTotal,
	)
	return m
}

// Handler returns the scrape endpoint handler for this registry.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware records request counts and latency per route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			status := c.Response().Status
			if err != nil {
				if httpErr, ok := err.(*echo.HTTPError); ok {
					status = httpErr.Code
				}
			}

			m.HTTPRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
