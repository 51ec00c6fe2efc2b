// Package observability lets the pipeline, cache and API server report what
// they do without depending on a metrics or tracing backend.
//
// Instrumented code asks the registry for the current hooks and calls them;
// until something is registered those calls are no-ops. [Metrics] (Prometheus)
// and [Tracer] (OpenTelemetry) are the two shipped backends, and
// [MultiPipeline] combines several pipeline hooks.
//
//	m := observability.NewMetrics(registry)
//	observability.SetPipelineHooks(observability.MultiPipeline(m, observability.NewTracer(nil)))
//	observability.SetCacheHooks(m)
//
// Start events may return a derived context (a span, say). Pass it on to the
// matching Complete event:
//
//	ctx = observability.Pipeline().OnLayoutStart(ctx, "flow", nodes)
//	d, err := layout.Assemble(m, cfg)
//	observability.Pipeline().OnLayoutComplete(ctx, "flow", stats, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// LayoutStats summarizes one assembled diagram.
type LayoutStats struct {
	Nodes      int
	Edges      int
	Unrouted   int
	Strategies map[string]int // present edges per strategy
}

// PipelineHooks receives events from the layout pipeline.
type PipelineHooks interface {
	// Parse events
	OnParseStart(ctx context.Context, source string) context.Context
	OnParseComplete(ctx context.Context, source string, rows, panels int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, mode string, nodeCount int) context.Context
	OnLayoutComplete(ctx context.Context, mode string, stats LayoutStats, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string) context.Context
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	// OnResponse records a served request. route is the router pattern,
	// not the raw path.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(ctx context.Context, _ string) context.Context { return ctx }
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnLayoutStart(ctx context.Context, _ string, _ int) context.Context {
	return ctx
}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, LayoutStats, time.Duration, error) {
}
func (NoopPipelineHooks) OnRenderStart(ctx context.Context, _ []string) context.Context { return ctx }
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Fan-out
// =============================================================================

type multiPipeline []PipelineHooks

// MultiPipeline returns pipeline hooks that forward every event to each of
// hooks in order. Start events thread the context through all of them.
func MultiPipeline(hooks ...PipelineHooks) PipelineHooks {
	return multiPipeline(hooks)
}

func (m multiPipeline) OnParseStart(ctx context.Context, source string) context.Context {
	for _, h := range m {
		ctx = h.OnParseStart(ctx, source)
	}
	return ctx
}

func (m multiPipeline) OnParseComplete(ctx context.Context, source string, rows, panels int, d time.Duration, err error) {
	for _, h := range m {
		h.OnParseComplete(ctx, source, rows, panels, d, err)
	}
}

func (m multiPipeline) OnLayoutStart(ctx context.Context, mode string, nodeCount int) context.Context {
	for _, h := range m {
		ctx = h.OnLayoutStart(ctx, mode, nodeCount)
	}
	return ctx
}

func (m multiPipeline) OnLayoutComplete(ctx context.Context, mode string, stats LayoutStats, d time.Duration, err error) {
	for _, h := range m {
		h.OnLayoutComplete(ctx, mode, stats, d, err)
	}
}

func (m multiPipeline) OnRenderStart(ctx context.Context, formats []string) context.Context {
	for _, h := range m {
		ctx = h.OnRenderStart(ctx, formats)
	}
	return ctx
}

func (m multiPipeline) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	for _, h := range m {
		h.OnRenderComplete(ctx, formats, d, err)
	}
}

// =============================================================================
// Registry
// =============================================================================

type registry struct {
	mu       sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var hooks = &registry{}

func init() { Reset() }

// SetPipelineHooks installs h for all pipeline runs. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.pipeline = h
	hooks.mu.Unlock()
}

// SetCacheHooks installs h for cache lookups. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.cache = h
	hooks.mu.Unlock()
}

// SetHTTPHooks installs h for API responses. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.http = h
	hooks.mu.Unlock()
}

func Pipeline() PipelineHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.pipeline
}

func Cache() CacheHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.cache
}

func HTTP() HTTPHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.http
}

// Reset puts the no-op hooks back. Tests that install hooks defer it.
func Reset() {
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	hooks.pipeline = NoopPipelineHooks{}
	hooks.cache = NoopCacheHooks{}
	hooks.http = NoopHTTPHooks{}
}
