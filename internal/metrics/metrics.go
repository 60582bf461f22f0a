// Package metrics exposes Prometheus counters and gauges for media resolution.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache lookup outcomes.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Metrics holds Prometheus collectors for the service.
type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	resolutionsTotal  *prometheus.CounterVec
	providerCalls     *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
	windowRequests    *prometheus.GaugeVec
}

// New creates and registers the collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	httpRequestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mediafetch_http_requests_total",
		Help: "Total number of HTTP requests received",
	}, []string{"status"})
	resolutionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mediafetch_resolutions_total",
		Help: "Resolutions by platform and outcome kind",
	}, []string{"platform", "outcome"})
	providerCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mediafetch_provider_calls_total",
		Help: "Provider calls by provider and result",
	}, []string{"provider", "result"})
	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mediafetch_cache_lookups_total",
		Help: "Resolution cache lookups by result",
	}, []string{"result"})
	windowRequests := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mediafetch_window_requests",
		Help: "Successful requests per platform within the report window",
	}, []string{"platform"})

	registry.MustRegister(
		httpRequestsTotal,
		resolutionsTotal,
		providerCalls,
		cacheLookups,
		windowRequests,
	)

	return &Metrics{
		registry:          registry,
		httpRequestsTotal: httpRequestsTotal,
		resolutionsTotal:  resolutionsTotal,
		providerCalls:     providerCalls,
		cacheLookups:      cacheLookups,
		windowRequests:    windowRequests,
	}
}

// IncHTTPRequests counts one served request by status code.
func (m *Metrics) IncHTTPRequests(status int) {
	m.httpRequestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
}

// IncResolutions counts one resolution outcome. outcome is "success" or an error kind.
func (m *Metrics) IncResolutions(platform, outcome string) {
	m.resolutionsTotal.WithLabelValues(platform, outcome).Inc()
}

// IncProviderCalls counts one provider attempt. result is "success" or a failure kind.
func (m *Metrics) IncProviderCalls(provider, result string) {
	m.providerCalls.WithLabelValues(provider, result).Inc()
}

// IncCacheLookups counts one cache lookup.
func (m *Metrics) IncCacheLookups(result string) {
	m.cacheLookups.WithLabelValues(result).Inc()
}

// SetWindowRequests sets the windowed request gauge for a platform.
func (m *Metrics) SetWindowRequests(platform string, n int64) {
	m.windowRequests.WithLabelValues(platform).Set(float64(n))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
