package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics implements every hook interface on top of Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	ResolveTotal      *prometheus.CounterVec
	ResolveDuration   prometheus.Histogram
	PackagesResolved  *prometheus.CounterVec
	FallbacksTotal    *prometheus.CounterVec
	CacheHitsTotal    *prometheus.CounterVec
	CacheMissesTotal  *prometheus.CounterVec
	CacheWrittenBytes *prometheus.CounterVec
	HTTPRequestsTotal *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	HTTPErrorsTotal   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		ResolveTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pantry_resolve_total",
				Help: "Total number of resolution sessions",
			},
			[]string{"status"},
		),
		ResolveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pantry_resolve_duration_seconds",
				Help:    "Resolution session duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		PackagesResolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pantry_packages_resolved_total",
				Help: "Total number of packages resolved, by origin registry",
			},
			[]string{"origin"},
		),
		FallbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pantry_registry_fallbacks_total",
				Help: "Total number of requests handed to a fallback registry",
			},
			[]string{"from", "to"},
		),
		CacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pantry_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"key_type"},
		),
		CacheMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pantry_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"key_type"},
		),
		CacheWrittenBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pantry_cache_written_bytes_total",
				Help: "Total bytes written to the cache",
			},
			[]string{"key_type"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pantry_http_requests_total",
				Help: "Total number of registry HTTP requests",
			},
			[]string{"method", "host", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pantry_http_request_duration_seconds",
				Help:    "Registry HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "host"},
		),
		HTTPErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pantry_http_errors_total",
				Help: "Total number of registry HTTP transport errors",
			},
			[]string{"method", "host"},
		),
	}

	registry.MustRegister(
		m.ResolveTotal,
		m.ResolveDuration,
		m.PackagesResolved,
		m.FallbacksTotal,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.CacheWrittenBytes,
		m.HTTPRequestsTotal,
		m.HTTPDuration,
		m.HTTPErrorsTotal,
	)
	return m
}

// Install registers m as the resolve, cache and HTTP hooks.
func (m *Metrics) Install() {
	SetResolveHooks(m)
	SetCacheHooks(m)
	SetHTTPHooks(m)
}

// WriteTextfile dumps the current values in the Prometheus text format, for
// node_exporter's textfile collector or a CI artifact.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) OnResolveStart(context.Context, string, int) {}

func (m *Metrics) OnResolveComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.ResolveTotal.WithLabelValues(status).Inc()
	m.ResolveDuration.Observe(d.Seconds())
}

func (m *Metrics) OnPackageResolved(_ context.Context, _, _, origin string) {
	m.PackagesResolved.WithLabelValues(origin).Inc()
}

func (m *Metrics) OnFallback(_ context.Context, from, to, _ string) {
	m.FallbacksTotal.WithLabelValues(from, to).Inc()
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheWrittenBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, host, _ string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, host, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, host).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, method, host, _ string, _ error) {
	m.HTTPErrorsTotal.WithLabelValues(method, host).Inc()
}

var (
	_ ResolveHooks = (*Metrics)(nil)
	_ CacheHooks   = (*Metrics)(nil)
	_ HTTPHooks    = (*Metrics)(nil)
)
