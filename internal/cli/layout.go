package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/procflow/pkg/layout"
	"github.com/matzehuels/procflow/pkg/pipeline"
)

// layoutExt is the suffix of layout files written by the layout command.
const layoutExt = ".layout.json"

// addLayoutFlags registers the flags shared by layout and render.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "", "diagram mode: flow (default), schematic")
	cmd.Flags().BoolVar(&opts.Transpose, "transpose", false, "swap axes (schematic)")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "viewport width (default 800)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "viewport height (default 600)")
	cmd.Flags().IntVar(&opts.RowLimit, "row-limit", 0, "maximum number of rows (default 1000)")
	cmd.Flags().IntVar(&opts.MaxTrellisCount, "max-trellis", 0, "maximum number of trellis panels (default 10)")
}

// layoutCommand creates the layout command for computing diagram layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [document]",
		Short: "Compute diagram layouts from a process document",
		Long: `Compute diagram layouts from a process document.

The layout command routes every transition of the document and writes the
resulting geometry as JSON (same format as 'render -f json'). Documents with
several trellis panels produce one file per panel.

Layout files can be rendered with 'render', queried with 'hittest' and
browsed with 'inspect'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyConfigDefaults(&opts)
			opts.Input = args[0]
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &opts)

	return cmd
}

// runLayout parses the document, lays out every panel and writes the results.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateForParse(); err != nil {
		return err
	}
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	doc, panels, err := runner.Parse(ctx, opts)
	if err != nil {
		return fmt.Errorf("parse %s: %w", opts.Input, err)
	}
	cfg := opts.LayoutConfig(doc)
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return err
	}
	docHash := pipeline.DocumentHash(doc)

	logger := loggerFromContext(ctx)
	timer := startStage(logger, "layout")
	spin := startSpinner(ctx, os.Stderr, fmt.Sprintf("Computing %s layout...", cfg.Mode))
	defer spin.Stop()

	type result struct {
		key    string
		d      *layout.Diagram
		cached bool
	}
	results := make([]result, 0, len(panels))
	for i, p := range panels {
		if len(panels) > 1 {
			spin.Update("Routing %s (%d/%d)...", panelLabel(p.Key), i+1, len(panels))
		}
		d, hit, err := runner.GenerateLayoutWithCacheInfo(ctx, p.Model, docHash, p.Key, cfg)
		if err != nil {
			spin.Fail("Layout failed")
			return fmt.Errorf("layout %s: %w", panelLabel(p.Key), err)
		}
		logger.Debug("panel laid out", "panel", panelLabel(p.Key), "cached", hit, "unrouted", d.Unrouted)
		results = append(results, result{p.Key, d, hit})
	}
	spin.Stop()
	if spin.Cancelled() {
		return ctx.Err()
	}
	timer.done("laid out", "input", opts.Input, "mode", cfg.Mode, "panels", len(results))

	base := basePath(output, opts.Input)
	multi := len(results) > 1
	var first string
	printSuccess("Layout complete")
	for _, r := range results {
		path := output
		if path == "" || multi {
			path = artifactPath(base, r.key, pipeline.FormatJSON, multi)
		}
		if first == "" {
			first = path
		}
		if err := layout.WriteFile(r.d, path); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
		printStats(pipeline.Stats{
			Nodes:    len(r.d.Nodes),
			Edges:    len(r.d.Edges),
			Unrouted: r.d.Unrouted,
		}, r.cached)
	}
	if first != "" {
		printNextStep("Render", "procflow render "+first)
	}

	return nil
}

// =============================================================================
// Output Paths
// =============================================================================

// formatExt maps an output format to its file suffix.
var formatExt = map[string]string{
	pipeline.FormatSVG:      ".svg",
	pipeline.FormatGraphviz: ".gv.svg",
	pipeline.FormatDOT:      ".dot",
	pipeline.FormatPNG:      ".png",
	pipeline.FormatPDF:      ".pdf",
	pipeline.FormatJSON:     layoutExt,
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a known output suffix, it strips that suffix.
func basePath(output, input string) string {
	p := output
	if p == "" {
		p = input
	}
	for _, ext := range []string{layoutExt, ".gv.svg"} {
		if strings.HasSuffix(p, ext) {
			return strings.TrimSuffix(p, ext)
		}
	}
	return strings.TrimSuffix(p, filepath.Ext(p))
}

// artifactPath builds base[_panel].ext. The panel key is only included when
// the document has several panels.
func artifactPath(base, panel, format string, multi bool) string {
	if multi {
		base += "_" + slug(panelLabel(panel))
	}
	return base + formatExt[format]
}

// slug reduces a panel key to characters safe in file names.
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.' || r == '/':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "panel"
	}
	return b.String()
}
