package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/bikebuilder/pkg/observability"
)

// Metrics collects Prometheus series from the observability hooks.
type Metrics struct {
	registry *prometheus.Registry

	sessions   prometheus.Gauge
	selections *prometheus.CounterVec
	navigation *prometheus.CounterVec
	renders    *prometheus.HistogramVec
	renderErrs *prometheus.CounterVec
	assets     *prometheus.HistogramVec
	cache      *prometheus.CounterVec
	cacheBytes prometheus.Counter
}

// NewMetrics registers the server's collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bikebuilder", Name: "sessions_active",
			Help: "Open builder sessions.",
		}),
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bikebuilder", Name: "selections_total",
			Help: "Parts selected, by category.",
		}, []string{"category"}),
		navigation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bikebuilder", Name: "navigation_total",
			Help: "Advance and jump requests, by outcome.",
		}, []string{"action", "outcome"}),
		renders: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bikebuilder", Name: "render_duration_seconds",
			Help:    "Artifact render latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
		renderErrs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bikebuilder", Name: "render_errors_total",
			Help: "Failed renders, by format.",
		}, []string{"format"}),
		assets: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bikebuilder", Name: "asset_load_duration_seconds",
			Help:    "Part image load latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source", "outcome"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bikebuilder", Name: "cache_events_total",
			Help: "Artifact cache hits, misses and writes.",
		}, []string{"type", "event"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bikebuilder", Name: "cache_written_bytes_total",
			Help: "Bytes written to the artifact cache.",
		}),
	}
	m.registry.MustRegister(
		m.sessions, m.selections, m.navigation, m.renders,
		m.renderErrs, m.assets, m.cache, m.cacheBytes,
		collectors.NewGoCollector(),
	)
	return m
}

// Install registers m as the process-wide observability hooks.
func (m *Metrics) Install() {
	observability.SetRenderHooks(m)
	observability.SetCacheHooks(m)
	observability.SetSessionHooks(m)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnRenderStart(context.Context, string, int) {}

func (m *Metrics) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	m.renders.WithLabelValues(format).Observe(d.Seconds())
	if err != nil {
		m.renderErrs.WithLabelValues(format).Inc()
	}
}

func (m *Metrics) OnAssetLoad(_ context.Context, remote bool, d time.Duration, err error) {
	source := "local"
	if remote {
		source = "remote"
	}
	m.assets.WithLabelValues(source, outcome(err)).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cache.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cache.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cache.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.Add(float64(size))
}

func (m *Metrics) OnSessionOpen(context.Context)  { m.sessions.Inc() }
func (m *Metrics) OnSessionClose(context.Context) { m.sessions.Dec() }

func (m *Metrics) OnSelect(_ context.Context, category string) {
	m.selections.WithLabelValues(category).Inc()
}

func (m *Metrics) OnNavigate(_ context.Context, action, _ string, err error) {
	m.navigation.WithLabelValues(action, outcome(err)).Inc()
}

var (
	_ observability.RenderHooks  = (*Metrics)(nil)
	_ observability.CacheHooks   = (*Metrics)(nil)
	_ observability.SessionHooks = (*Metrics)(nil)
)
