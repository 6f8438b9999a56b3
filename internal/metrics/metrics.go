// Package metrics exports Prometheus metrics for fiducial.
//
// A [Metrics] value implements every hook interface of
// pkg/observability, so registering it is all the wiring a binary needs.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/fiducial/pkg/errors"
	"github.com/matzehuels/fiducial/pkg/observability"
)

const namespace = "fiducial"

// Label values for generation outcomes.
const (
	OutcomeRendered = "rendered"
	OutcomeCached   = "cached"
	OutcomeError    = "error"
)

var (
	generateBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
	httpBuckets     = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
)

// Metrics holds every collector, registered on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	GenerateTotal    *prometheus.CounterVec
	GenerateDuration *prometheus.HistogramVec
	FontFallbacks    *prometheus.CounterVec

	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
	CacheBytes  *prometheus.CounterVec
	CacheErrors *prometheus.CounterVec

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

var (
	_ observability.GenerationHooks = (*Metrics)(nil)
	_ observability.CacheHooks      = (*Metrics)(nil)
	_ observability.HTTPHooks       = (*Metrics)(nil)
)

// New creates a Metrics instance on a fresh registry that also carries the
// Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		GenerateTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "markers_generated_total",
			Help:      "Marker generation requests by mode and outcome",
		}, []string{"mode", "outcome"}),
		GenerateDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "marker_generate_duration_seconds",
			Help:      "Time to produce an encoded marker, cache lookups included",
			Buckets:   generateBuckets,
		}, []string{"mode", "cached"}),
		FontFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "font_fallbacks_total",
			Help:      "Label fonts that could not be loaded, by error code",
		}, []string{"code"}),
		CacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Artifact cache hits",
		}, []string{"backend"}),
		CacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Artifact cache misses",
		}, []string{"backend"}),
		CacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes stored in the artifact cache",
		}, []string{"backend"}),
		CacheErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_errors_total",
			Help:      "Failed artifact cache operations",
		}, []string{"backend", "op"}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   httpBuckets,
		}, []string{"method", "route"}),
		HTTPRequestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served",
		}),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Register installs m as the generation, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetGenerationHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func (m *Metrics) OnGenerateStart(context.Context, int, string) {}

func (m *Metrics) OnGenerateComplete(_ context.Context, _ int, mode string, cached bool, d time.Duration, err error) {
	outcome := OutcomeRendered
	switch {
	case err != nil:
		outcome = OutcomeError
	case cached:
		outcome = OutcomeCached
	}
	m.GenerateTotal.WithLabelValues(mode, outcome).Inc()
	if err == nil {
		m.GenerateDuration.WithLabelValues(mode, strconv.FormatBool(cached)).Observe(d.Seconds())
	}
}

func (m *Metrics) OnFontFallback(_ context.Context, _ string, err error) {
	code := string(errors.GetCode(err))
	if code == "" {
		code = "unknown"
	}
	m.FontFallbacks.WithLabelValues(code).Inc()
}

func (m *Metrics) OnCacheHit(_ context.Context, backend string) {
	m.CacheHits.WithLabelValues(backend).Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, backend string) {
	m.CacheMisses.WithLabelValues(backend).Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, backend string, size int) {
	m.CacheBytes.WithLabelValues(backend).Add(float64(size))
}

func (m *Metrics) OnCacheError(_ context.Context, backend, op string, _ error) {
	m.CacheErrors.WithLabelValues(backend, op).Inc()
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.HTTPRequestsInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.HTTPRequestsInFlight.Dec()
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
