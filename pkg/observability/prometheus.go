package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "procflow"

// Metrics records pipeline, cache and HTTP events as Prometheus series.
// It implements PipelineHooks, CacheHooks and HTTPHooks.
//
// Series (all namespaced with "procflow_"):
//   - stage_duration_seconds (histogram): stage, status
//   - edges_routed_total (counter): mode, strategy
//   - edges_unrouted_total (counter): mode
//   - cache_events_total (counter): key_type, event
//   - http_requests_total (counter): method, route, code
//   - http_request_duration_seconds (histogram): method, route
type Metrics struct {
	stageDuration *prometheus.HistogramVec
	routed        *prometheus.CounterVec
	unrouted      *prometheus.CounterVec
	cacheEvents   *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// NewMetrics creates and registers the metrics with registry. A nil
// registry uses prometheus.DefaultRegisterer.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages (parse, layout, render)",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"stage", "status"}),
		routed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_routed_total",
			Help:      "Edges drawn, by layout mode and routing strategy",
		}, []string{"mode", "strategy"}),
		unrouted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_unrouted_total",
			Help:      "Edges left undrawn because no route exists",
		}, []string{"mode"}),
		cacheEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache hits, misses and writes by key type",
		}, []string{"key_type", "event"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests served",
		}, []string{"method", "route", "code"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnParseStart(ctx context.Context, _ string) context.Context { return ctx }

func (m *Metrics) OnParseComplete(_ context.Context, _ string, _, _ int, d time.Duration, err error) {
	m.stageDuration.WithLabelValues("parse", status(err)).Observe(d.Seconds())
}

func (m *Metrics) OnLayoutStart(ctx context.Context, _ string, _ int) context.Context { return ctx }

func (m *Metrics) OnLayoutComplete(_ context.Context, mode string, stats LayoutStats, d time.Duration, err error) {
	m.stageDuration.WithLabelValues("layout", status(err)).Observe(d.Seconds())
	if err != nil {
		return
	}
	for strategy, n := range stats.Strategies {
		m.routed.WithLabelValues(mode, strategy).Add(float64(n))
	}
	if stats.Unrouted > 0 {
		m.unrouted.WithLabelValues(mode).Add(float64(stats.Unrouted))
	}
}

func (m *Metrics) OnRenderStart(ctx context.Context, _ []string) context.Context { return ctx }

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues("render", status(err)).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)
