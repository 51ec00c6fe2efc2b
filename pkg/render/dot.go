package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/procflow/pkg/errors"
	"github.com/matzehuels/procflow/pkg/layout"
	"github.com/matzehuels/procflow/pkg/process"
)

// pointsPerPixel converts diagram pixels to Graphviz points.
const pointsPerPixel = 0.75

// ToDOT converts a diagram to Graphviz DOT. Every node is pinned to its
// computed position so neato reproduces the layout instead of recomputing
// it. Dangling arrows become point nodes at the arrow box center. Unrouted
// edges are left out.
func ToDOT(d *layout.Diagram) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=10, fixedsize=true];\n")
	buf.WriteString("\n")

	for _, n := range d.Nodes {
		if n.Kind != process.KindActivity {
			continue
		}
		c := n.Box.Center()
		fmt.Fprintf(&buf, "  %q [label=%q, pos=\"%s,%s!\", width=%s, height=%s, fillcolor=%q];\n",
			n.ID, n.Label, pt(c.X), pt(-c.Y), inch(n.Box.Width), inch(n.Box.Height), fill(n.Color, defaultFill))
	}

	buf.WriteString("\n")
	for _, e := range d.Edges {
		if e.Absent {
			continue
		}
		attrs := fmt.Sprintf("color=%q", fill(e.Color, defaultStroke))
		if e.Conditional {
			attrs += ", style=dashed"
		}
		if e.Label != "" {
			attrs += fmt.Sprintf(", xlabel=%q", e.Label)
		}

		if !e.Dangling() {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Start, e.End, attrs)
			continue
		}
		stub := string(e.Kind) + ":" + e.NodeID()
		c := e.Box.Center()
		fmt.Fprintf(&buf, "  %q [shape=point, width=0.05, pos=\"%s,%s!\"];\n", stub, pt(c.X), pt(-c.Y))
		if e.Kind == layout.EdgeTrigger {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", stub, e.End, attrs)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Start, stub, attrs)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func pt(px float64) string   { return strconv.FormatFloat(px*pointsPerPixel, 'f', 2, 64) }
func inch(px float64) string { return strconv.FormatFloat(px*pointsPerPixel/72, 'f', 3, 64) }

// RenderDOT renders DOT to SVG with the neato engine, honoring pinned
// positions.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz root element to a zero-origin
// viewBox with pixel width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
