// Package prom implements the observability hooks with Prometheus metrics.
//
//	reg := prometheus.NewRegistry()
//	m := prom.New(reg)
//	observability.SetPipelineHooks(m)
//	observability.SetCacheHooks(m)
//	observability.SetHTTPHooks(m)
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/gasket/pkg/errors"
	"github.com/matzehuels/gasket/pkg/observability"
)

const namespace = "gasket"

// Metrics holds the collectors. It implements all three hook interfaces.
type Metrics struct {
	Generations      *prometheus.CounterVec
	GenerateDuration *prometheus.HistogramVec
	Circles          prometheus.Counter
	SeedRetries      prometheus.Counter
	Exports          *prometheus.CounterVec
	ExportDuration   prometheus.Histogram
	CacheOps         *prometheus.CounterVec
	CacheBytes       *prometheus.CounterVec
	Requests         *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	InFlight         prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Gasket generations by policy and result code.",
			},
			[]string{"policy", "result"},
		),
		GenerateDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generate_duration_seconds",
				Help:      "Duration of gasket generation.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"policy"},
		),
		Circles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circles_generated_total",
			Help:      "Circles emitted by successful generations.",
		}),
		SeedRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seed_retries_total",
			Help:      "Random seeds rejected as degenerate.",
		}),
		Exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exports_total",
				Help:      "Artifact exports by format and result code.",
			},
			[]string{"format", "result"},
		),
		ExportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_duration_seconds",
			Help:      "Duration of the export stage.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		CacheOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_operations_total",
				Help:      "Cache hits, misses and writes by key type.",
			},
			[]string{"key_type", "op"},
		),
		CacheBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_written_bytes_total",
				Help:      "Bytes written to the cache by key type.",
			},
			[]string{"key_type"},
		),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "API requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "API request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "API requests currently being served.",
		}),
	}

	reg.MustRegister(
		m.Generations, m.GenerateDuration, m.Circles, m.SeedRetries,
		m.Exports, m.ExportDuration,
		m.CacheOps, m.CacheBytes,
		m.Requests, m.RequestDuration, m.InFlight,
	)
	return m
}

// Register installs m as the global pipeline, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func result(err error) string {
	if err == nil {
		return "ok"
	}
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return "error"
}

func (m *Metrics) OnGenerateStart(context.Context, string, int) {}

func (m *Metrics) OnGenerateComplete(_ context.Context, policy string, _ int, circles int, d time.Duration, err error) {
	m.Generations.WithLabelValues(policy, result(err)).Inc()
	m.GenerateDuration.WithLabelValues(policy).Observe(d.Seconds())
	if err == nil {
		m.Circles.Add(float64(circles))
	}
}

func (m *Metrics) OnSeedRetry(context.Context, int, error) {
	m.SeedRetries.Inc()
}

func (m *Metrics) OnExportStart(context.Context, []string) {}

func (m *Metrics) OnExportComplete(_ context.Context, formats []string, d time.Duration, err error) {
	for _, f := range formats {
		m.Exports.WithLabelValues(f, result(err)).Inc()
	}
	m.ExportDuration.Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheOps.WithLabelValues(keyType, "set").Inc()
	m.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.InFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.InFlight.Dec()
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
