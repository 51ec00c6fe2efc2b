package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/procflow/pkg/layout"
	"github.com/matzehuels/procflow/pkg/pipeline"
)

// renderCommand creates the render command. It accepts a process document,
// running the full pipeline, or a layout file written by 'layout', which is
// rendered as is.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		refresh    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [document|layout.json]",
		Short: "Render diagrams to SVG, DOT, PNG, PDF or JSON",
		Long: `Render diagrams to SVG, DOT, PNG, PDF or JSON.

Given a process document (.json or .csv), render runs parse, layout and render
in one go. Given a layout file (*.layout.json), it only renders.

Formats:
  svg       native SVG (default)
  graphviz  SVG drawn by Graphviz neato with pinned node positions
  dot       Graphviz DOT source
  png, pdf  converted from SVG (requires rsvg-convert)
  json      layout JSON

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			c.applyConfigDefaults(&opts)
			opts.Input = args[0]
			opts.Refresh = refresh
			if strings.HasSuffix(args[0], layoutExt) {
				return c.runRenderLayout(cmd.Context(), opts, output, noCache)
			}
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single panel and format) or base path")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), graphviz, dot, png, pdf, json (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")
	addLayoutFlags(cmd, &opts)

	return cmd
}

// runRender executes the full pipeline and writes every panel's artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	timer := startStage(loggerFromContext(ctx), "render")
	spin := startSpinner(ctx, os.Stderr, "Rendering...")
	defer spin.Stop()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spin.Fail("Render failed")
		return err
	}
	spin.Stop()
	if spin.Cancelled() {
		return ctx.Err()
	}
	timer.done("rendered", "input", opts.Input, "panels", len(result.Panels), "formats", strings.Join(opts.Formats, ","))

	base := basePath(output, opts.Input)
	multi := len(result.Panels) > 1
	for _, p := range result.Panels {
		if err := writeArtifacts(artifactWriteParams{
			artifacts: p.Artifacts,
			formats:   opts.Formats,
			base:      base,
			output:    output,
			panel:     p.Key,
			multi:     multi,
		}); err != nil {
			return err
		}
		if p.Diagram.Unrouted > 0 {
			printWarning("%s: %d transitions could not be routed", panelLabel(p.Key), p.Diagram.Unrouted)
		}
	}
	printStats(result.Stats, result.CacheInfo.RenderHit)
	return nil
}

// runRenderLayout renders a precomputed layout file.
func (c *CLI) runRenderLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	d, err := layout.ReadFile(opts.Input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", opts.Input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spin := startSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %s diagram...", d.Mode))
	defer spin.Stop()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, d, "", opts.Formats)
	if err != nil {
		spin.Fail("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spin.Stop()

	if err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		base:      basePath(output, opts.Input),
		output:    output,
	}); err != nil {
		return err
	}
	printStats(pipeline.Stats{Panels: 1, Nodes: len(d.Nodes), Edges: len(d.Edges), Unrouted: d.Unrouted}, cacheHit)
	return nil
}

// artifactWriteParams describes where one panel's artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	base      string
	output    string // used verbatim for a single panel in a single format
	panel     string
	multi     bool
}

// writeArtifacts writes each artifact in format order.
func writeArtifacts(p artifactWriteParams) error {
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := artifactPath(p.base, p.panel, format, p.multi)
		if p.output != "" && !p.multi && len(p.formats) == 1 {
			path = p.output
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
