// Package metrics exposes Prometheus collectors for the HTTP API and the quote feed.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wallet"

// Metrics groups the application's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestCount    *prometheus.CounterVec
	quoteLookups    *prometheus.CounterVec
	quoteDuration   prometheus.Histogram
	refreshRuns     *prometheus.CounterVec
}

// New registers all collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method", "status"},
		),
		requestCount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		quoteLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quote_lookups_total",
				Help:      "Quote lookups by outcome (hit, live, unavailable)",
			},
			[]string{"outcome"},
		),
		quoteDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "quote_fetch_duration_seconds",
				Help:      "Duration of upstream quote requests",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),
		refreshRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "price_refresh_runs_total",
				Help:      "Scheduled price refresh runs by result",
			},
			[]string{"result"},
		),
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(route, method, code).Observe(duration.Seconds())
	m.requestCount.WithLabelValues(route, method, code).Inc()
}

// QuoteLookup counts a quote lookup outcome.
func (m *Metrics) QuoteLookup(outcome string) {
	if m == nil {
		return
	}
	m.quoteLookups.WithLabelValues(outcome).Inc()
}

// ObserveQuoteFetch records the duration of an upstream quote request.
func (m *Metrics) ObserveQuoteFetch(duration time.Duration) {
	if m == nil {
		return
	}
	m.quoteDuration.Observe(duration.Seconds())
}

// RefreshRun counts a scheduled refresh run.
func (m *Metrics) RefreshRun(result string) {
	if m == nil {
		return
	}
	m.refreshRuns.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
