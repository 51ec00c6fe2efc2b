// Package pipeline provides the parse → layout → render pipeline for procflow.
//
// The same pipeline backs the CLI and the HTTP API, so both entry points
// share validation, defaults and caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Read a process document and split its rows into trellis panels
//  2. Layout: Assemble the diagram geometry of every panel
//  3. Render: Generate output in the requested formats (SVG, DOT, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "process.json",
//	    Mode:    "schematic",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Panels[0].Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/procflow/pkg/cache"
	"github.com/matzehuels/procflow/pkg/errors"
	pio "github.com/matzehuels/procflow/pkg/io"
	"github.com/matzehuels/procflow/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatGraphviz = "graphviz" // SVG rendered by Graphviz from pinned DOT
	FormatDOT      = "dot"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
	FormatJSON     = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatGraphviz: true,
	FormatDOT:      true,
	FormatPNG:      true,
	FormatPDF:      true,
	FormatJSON:     true,
}

// DefaultPNGScale is the rsvg-convert zoom used for PNG output.
const DefaultPNGScale = 2.0

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
//
// Layout fields left at their zero value fall back to the document's own
// config section, then to the engine defaults.
type Options struct {
	// Parse options
	Input           string        `json:"input,omitempty"`
	Document        *pio.Document `json:"-"`
	RowLimit        int           `json:"row_limit,omitempty"`
	MaxTrellisCount int           `json:"max_trellis_count,omitempty"`

	// Layout options
	Mode      string  `json:"mode,omitempty"`
	Transpose bool    `json:"transpose,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the parsed input.
	Document *pio.Document

	// DocHash is the content hash of the document rows.
	DocHash string

	// Panels holds one entry per trellis panel, in document order.
	Panels []Panel

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Panel is the layout and artifacts of one trellis panel.
type Panel struct {
	Key       string
	Skipped   int
	Diagram   *layout.Diagram
	Artifacts map[string][]byte
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int
	Panels     int
	Nodes      int
	Edges      int
	Unrouted   int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether every panel layout came from cache
	RenderHit bool // Whether every artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid format: %q (must be one of: svg, graphviz, dot, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if o.Input == "" && o.Document == nil {
		return errors.New(errors.ErrCodeInvalidInput, "input document is required")
	}
	if o.RowLimit < 0 || o.MaxTrellisCount < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "limits must not be negative")
	}
	o.setLogger()
	return nil
}

// ValidateForLayout checks the layout options. The mode is validated but
// not defaulted, so that a document config can still supply it.
func (o *Options) ValidateForLayout() error {
	if o.Mode != "" {
		mode, err := layout.ParseMode(o.Mode)
		if err != nil {
			return err
		}
		o.Mode = string(mode)
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "viewport must not be negative: %vx%v", o.Width, o.Height)
	}
	o.setLogger()
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutConfig resolves the engine configuration for a document: explicit
// options win over the document's config section.
func (o *Options) LayoutConfig(doc *pio.Document) layout.Config {
	var cfg layout.Config
	if doc != nil {
		cfg = doc.Config
	}
	if o.Mode != "" {
		cfg.Mode = layout.Mode(o.Mode)
	}
	if o.Transpose {
		cfg.Transpose = true
	}
	if o.Width > 0 {
		cfg.Viewport.Width = o.Width
	}
	if o.Height > 0 {
		cfg.Viewport.Height = o.Height
	}
	cfg.Logger = o.Logger
	return cfg
}

// LayoutKeyOpts returns cache key options for a resolved configuration.
func LayoutKeyOpts(cfg layout.Config, panel string) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Mode:      string(cfg.Mode),
		Transpose: cfg.Transpose,
		Width:     cfg.Viewport.Width,
		Height:    cfg.Viewport.Height,
		Panel:     panel,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func ArtifactKeyOpts(format, panel string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Panel: panel}
}

func (s Stats) String() string {
	return fmt.Sprintf("%d rows, %d panels, %d nodes, %d edges (%d unrouted)",
		s.Rows, s.Panels, s.Nodes, s.Edges, s.Unrouted)
}
