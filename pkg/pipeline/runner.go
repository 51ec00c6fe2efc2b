package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/procflow/pkg/cache"
	pio "github.com/matzehuels/procflow/pkg/io"
	"github.com/matzehuels/procflow/pkg/layout"
	"github.com/matzehuels/procflow/pkg/observability"
	"github.com/matzehuels/procflow/pkg/process"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
// Every trellis panel of the document is laid out and rendered on its own.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if opts.Refresh {
		r = &Runner{Cache: writeThrough{r.Cache}, Keyer: r.Keyer, Logger: r.Logger}
	}

	result := &Result{CacheInfo: CacheInfo{LayoutHit: true, RenderHit: true}}

	// Stage 1: Parse
	parseStart := time.Now()
	doc, panels, err := r.Parse(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Document = doc
	result.DocHash = DocumentHash(doc)
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.Rows = len(doc.Rows)
	result.Stats.Panels = len(panels)

	r.Logger.Info("parsed document",
		"rows", len(doc.Rows),
		"panels", len(panels),
		"duration", result.Stats.ParseTime)

	cfg := opts.LayoutConfig(doc)
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	for _, p := range panels {
		// Stage 2: Layout
		layoutStart := time.Now()
		d, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, p.Model, result.DocHash, p.Key, cfg)
		if err != nil {
			return nil, fmt.Errorf("layout %s: %w", panelName(p.Key), err)
		}
		result.Stats.LayoutTime += time.Since(layoutStart)
		result.Stats.Nodes += len(d.Nodes)
		result.Stats.Edges += len(d.Edges)
		result.Stats.Unrouted += d.Unrouted
		result.CacheInfo.LayoutHit = result.CacheInfo.LayoutHit && layoutHit

		r.Logger.Info("computed layout",
			"panel", panelName(p.Key),
			"mode", d.Mode,
			"nodes", len(d.Nodes),
			"edges", len(d.Edges),
			"unrouted", d.Unrouted,
			"cached", layoutHit)

		// Stage 3: Render
		renderStart := time.Now()
		artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, d, p.Key, opts.Formats)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", panelName(p.Key), err)
		}
		result.Stats.RenderTime += time.Since(renderStart)
		result.CacheInfo.RenderHit = result.CacheInfo.RenderHit && renderHit

		result.Panels = append(result.Panels, Panel{
			Key:       p.Key,
			Skipped:   p.Skipped,
			Diagram:   d,
			Artifacts: artifacts,
		})
	}

	if len(panels) == 0 {
		result.CacheInfo = CacheInfo{}
	}

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"layout", result.Stats.LayoutTime,
		"render", result.Stats.RenderTime)

	return result, nil
}

// Parse reads the document and splits it into trellis panels.
func (r *Runner) Parse(ctx context.Context, opts Options) (*pio.Document, []process.Panel, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, nil, err
	}

	source := opts.Input
	if opts.Document != nil {
		source = "document"
	}
	hooks := observability.Pipeline()
	ctx = hooks.OnParseStart(ctx, source)
	start := time.Now()

	doc, err := Parse(ctx, opts)
	if err != nil {
		hooks.OnParseComplete(ctx, source, 0, 0, time.Since(start), err)
		return nil, nil, err
	}
	panels, err := Split(doc)
	hooks.OnParseComplete(ctx, source, len(doc.Rows), len(panels), time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}

	for _, p := range panels {
		if p.Skipped > 0 {
			r.Logger.Debug("skipped rows", "panel", panelName(p.Key), "count", p.Skipped)
		}
	}
	return doc, panels, nil
}

// GenerateLayoutWithCacheInfo assembles one panel with caching and returns
// cache hit info. cfg must already carry its defaults so that the cache key
// is stable.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, m *process.Model, docHash, panel string, cfg layout.Config) (*layout.Diagram, bool, error) {
	cacheKey := r.Keyer.LayoutKey(docHash, LayoutKeyOpts(cfg, panel))
	cacheHooks := observability.Cache()

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		cached, err := layout.Unmarshal(data)
		if err == nil {
			cacheHooks.OnCacheHit(ctx, "layout")
			return cached, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompute
	}
	cacheHooks.OnCacheMiss(ctx, "layout")

	hooks := observability.Pipeline()
	ctx = hooks.OnLayoutStart(ctx, string(cfg.Mode), m.Len())
	start := time.Now()

	d, err := GenerateLayout(m, cfg)
	if err != nil {
		hooks.OnLayoutComplete(ctx, string(cfg.Mode), observability.LayoutStats{}, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnLayoutComplete(ctx, string(cfg.Mode), layoutStats(d), time.Since(start), nil)

	// Cache the result
	if data, err := layout.Marshal(d); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			cacheHooks.OnCacheSet(ctx, "layout", len(data))
		}
	}

	return d, false, nil // Cache miss
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d *layout.Diagram, panel string, formats []string) (map[string][]byte, bool, error) {
	if len(formats) == 0 {
		formats = []string{FormatSVG}
	}
	if err := ValidateFormats(formats); err != nil {
		return nil, false, err
	}

	// Compute cache key from layout data
	layoutData, err := layout.Marshal(d)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	cacheHooks := observability.Cache()

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, ArtifactKeyOpts(format, panel))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(formats) {
		cacheHooks.OnCacheHit(ctx, "artifact")
		return artifacts, true, nil // All artifacts from cache
	}
	cacheHooks.OnCacheMiss(ctx, "artifact")

	hooks := observability.Pipeline()
	ctx = hooks.OnRenderStart(ctx, formats)
	start := time.Now()

	rendered, err := Render(ctx, d, formats)
	hooks.OnRenderComplete(ctx, formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, ArtifactKeyOpts(format, panel))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			cacheHooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// writeThrough ignores reads so that a refresh recomputes and overwrites
// cached entries.
type writeThrough struct{ cache.Cache }

func (writeThrough) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// DocumentHash returns the content hash of the document's rows and limits.
// The config section is not part of the hash; it enters layout cache keys
// through LayoutKeyOpts.
func DocumentHash(doc *pio.Document) string {
	data, err := json.Marshal(struct {
		Rows   []process.Row  `json:"rows"`
		Limits process.Limits `json:"limits"`
	}{doc.Rows, doc.Limits.WithDefaults()})
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

func panelName(key string) string {
	if key == "" {
		return "(default)"
	}
	return key
}
