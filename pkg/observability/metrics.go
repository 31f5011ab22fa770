package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics implements every hook interface on a private Prometheus registry.
// A CLI run is short-lived, so metrics are flushed to a node_exporter
// textfile instead of being scraped.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPErrorsTotal     *prometheus.CounterVec

	StageDuration *prometheus.HistogramVec
	StageErrors   *prometheus.CounterVec
	LoadedNodes   prometheus.Gauge
	LoadedEdges   prometheus.Gauge

	CacheLookups *prometheus.CounterVec
	CacheBytes   *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance with all collectors registered.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	f := promauto.With(m.registry)

	m.HTTPRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gocyto_cyrest_requests_total",
			Help: "Total number of CyREST requests",
		},
		[]string{"method", "path", "status"},
	)
	m.HTTPRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gocyto_cyrest_request_duration_seconds",
			Help:    "CyREST request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	m.HTTPErrorsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gocyto_cyrest_errors_total",
			Help: "CyREST requests that failed before a response arrived",
		},
		[]string{"method", "path"},
	)

	m.StageDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gocyto_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		},
		[]string{"stage"},
	)
	m.StageErrors = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gocyto_stage_errors_total",
			Help: "Pipeline stages that returned an error",
		},
		[]string{"stage"},
	)
	m.LoadedNodes = f.NewGauge(prometheus.GaugeOpts{
		Name: "gocyto_loaded_nodes",
		Help: "Nodes in the last loaded network",
	})
	m.LoadedEdges = f.NewGauge(prometheus.GaugeOpts{
		Name: "gocyto_loaded_edges",
		Help: "Edges in the last loaded network",
	})

	m.CacheLookups = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gocyto_cache_lookups_total",
			Help: "Cache lookups by key type and result",
		},
		[]string{"key_type", "result"},
	)
	m.CacheBytes = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gocyto_cache_written_bytes_total",
			Help: "Bytes written to the cache",
		},
		[]string{"key_type"},
	)
	return m
}

// Registry exposes the underlying registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes all metrics in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) OnLoad(_ context.Context, nodes, edges int, d time.Duration, err error) {
	m.StageDuration.WithLabelValues("load").Observe(d.Seconds())
	if err != nil {
		m.StageErrors.WithLabelValues("load").Inc()
		return
	}
	m.LoadedNodes.Set(float64(nodes))
	m.LoadedEdges.Set(float64(edges))
}

func (m *Metrics) OnStageStart(context.Context, string) {}

func (m *Metrics) OnStageComplete(_ context.Context, stage string, d time.Duration, err error) {
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		m.StageErrors.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheLookups.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheLookups.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, _, path string, status int, d time.Duration) {
	path = normalizePath(path)
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, method, _, path string, _ error) {
	m.HTTPErrorsTotal.WithLabelValues(method, normalizePath(path)).Inc()
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)
