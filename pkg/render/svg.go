package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/procflow/pkg/geometry"
	"github.com/matzehuels/procflow/pkg/layout"
	"github.com/matzehuels/procflow/pkg/layout/flow"
	"github.com/matzehuels/procflow/pkg/layout/route"
	"github.com/matzehuels/procflow/pkg/layout/schematic"
	"github.com/matzehuels/procflow/pkg/process"
)

const (
	defaultFill     = "#ffffff"
	defaultStroke   = "#333333"
	highlightStroke = "#1e88e5"
	alertStroke     = "#c62828"
	taskFill        = "#f5f5f5"
)

const svgCSS = `
    .node text, .task text { font-family: sans-serif; font-size: 12px; }
    .edge { fill: none; stroke-linejoin: round; }
    .edge.conditional { stroke-dasharray: 6 4; }
    .hit { fill: none; stroke: ` + highlightStroke + `; stroke-width: 3; }`

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	title      string
	highlight  map[string]bool
}

// WithBackground fills the canvas with color.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithTitle adds a <title> element.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// WithHighlight outlines the nodes and edges with the given IDs.
func WithHighlight(ids ...string) SVGOption {
	return func(r *svgRenderer) {
		for _, id := range ids {
			r.highlight[id] = true
		}
	}
}

// RenderSVG draws d as a standalone SVG document.
func RenderSVG(d *layout.Diagram, opts ...SVGOption) []byte {
	r := svgRenderer{highlight: make(map[string]bool)}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" class="%s">`+"\n",
		d.Width, d.Height, d.Width, d.Height, d.Mode)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.title))
	}
	renderDefs(&buf)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", attr(r.background))
	}

	for _, n := range d.Nodes {
		if n.Kind == process.KindTask {
			r.renderTask(&buf, n)
		}
	}
	for _, e := range d.Edges {
		if e.Absent {
			continue
		}
		if e.Dangling() {
			r.renderArrow(&buf, e)
		} else {
			r.renderLine(&buf, d.Mode, e)
		}
	}
	for _, n := range d.Nodes {
		if n.Kind != process.KindActivity {
			continue
		}
		if d.Mode == layout.ModeSchematic {
			r.renderStation(&buf, n)
		} else {
			r.renderActivity(&buf, n)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="%d" markerHeight="%d" markerUnits="userSpaceOnUse" orient="auto">`+"\n",
		flow.ArrowSize, flow.ArrowSize)
	buf.WriteString(`      <path d="M0,0 L10,5 L0,10 z" fill="context-stroke"/>` + "\n")
	buf.WriteString("    </marker>\n")
	buf.WriteString("  </defs>\n")
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", svgCSS)
}

func (r *svgRenderer) renderTask(buf *bytes.Buffer, n layout.Node) {
	b := n.Box
	fmt.Fprintf(buf, `  <g class="task" id="task-%s">`+"\n", attr(n.ID))
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill="%s" stroke="%s" stroke-dasharray="4 3"/>`+"\n",
		b.X, b.Y, b.Width, b.Height, fill(n.Color, taskFill), r.stroke(n, defaultStroke))
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle">%s</text>`+"\n",
		b.X+b.Width/2, b.Y+18, html.EscapeString(n.Label))
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) renderActivity(buf *bytes.Buffer, n layout.Node) {
	b := n.Box
	stroke := defaultStroke
	if n.SLAViolation || n.Delayed {
		stroke = alertStroke
	}
	bg := fill(n.Color, defaultFill)

	fmt.Fprintf(buf, `  <g class="node" id="activity-%s">`+"\n", attr(n.ID))
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="%s" stroke="%s" stroke-width="%d"/>`+"\n",
		b.X, b.Y, b.Width, b.Height, bg, r.stroke(n, stroke), flow.Border)
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" fill="%s">%s</text>`+"\n",
		b.X+b.Width/2, b.Y+b.Height/2, textColor(bg), html.EscapeString(n.Label))
	if n.HadError {
		fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="5" fill="%s"/>`+"\n", b.Right()-8, b.Y+8, alertStroke)
	}
	buf.WriteString("  </g>\n")
}

// renderStation draws a schematic node: a pill-shaped box with its label
// placed outside on the allocated side.
func (r *svgRenderer) renderStation(buf *bytes.Buffer, n layout.Node) {
	b := n.Box
	stroke := fill(n.Color, defaultStroke)
	if n.SLAViolation || n.HadError {
		stroke = alertStroke
	}

	fmt.Fprintf(buf, `  <g class="node" id="activity-%s">`+"\n", attr(n.ID))
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%d" fill="%s" stroke="%s" stroke-width="%d"/>`+"\n",
		b.X, b.Y, b.Width, b.Height, schematic.CircleOffset, defaultFill, r.stroke(n, stroke), schematic.BorderThickness)

	x, y, anchor := labelAnchor(b, n.LabelSide)
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="%s" dominant-baseline="middle">%s</text>`+"\n",
		x, y, anchor, html.EscapeString(n.Label))
	buf.WriteString("  </g>\n")
}

func labelAnchor(b geometry.Rect, side geometry.Side) (x, y float64, anchor string) {
	const gap = 8
	c := b.Center()
	switch side {
	case geometry.North:
		return c.X, b.Y - gap, "middle"
	case geometry.East:
		return b.Right() + gap, c.Y, "start"
	case geometry.West:
		return b.X - gap, c.Y, "end"
	default:
		return c.X, b.Bottom() + gap, "middle"
	}
}

func (r *svgRenderer) renderLine(buf *bytes.Buffer, mode layout.Mode, e layout.Edge) {
	width := 1.5
	if mode == layout.ModeSchematic {
		width = schematic.LineThickness
	}
	if e.Activated {
		width++
	}

	class := "edge"
	if e.Conditional {
		class += " conditional"
	}
	color := fill(e.Color, defaultStroke)

	fmt.Fprintf(buf, `  <path class="%s" id="edge-%s" d="%s" stroke="%s" stroke-width="%.1f"`,
		class, attr(e.ID), pathData(e.Path), color, width)
	if mode == layout.ModeFlow {
		buf.WriteString(` marker-end="url(#arrow)"`)
	}
	buf.WriteString("/>\n")

	if mode == layout.ModeSchematic && len(e.Path) > 0 {
		for _, p := range []geometry.Point{e.Path[0], e.Path[len(e.Path)-1]} {
			fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="%d" fill="%s" stroke="%s" stroke-width="%d"/>`+"\n",
				p.X, p.Y, schematic.CircleRadius, defaultFill, color, schematic.CircleThickness)
		}
	}
	if r.highlight[e.ID] {
		r.renderHit(buf, e.Box)
	}
}

// renderArrow draws a dangling arrow as a triangle filling its box and
// pointing along the arrow direction.
func (r *svgRenderer) renderArrow(buf *bytes.Buffer, e layout.Edge) {
	b := e.Box
	var pts [3]geometry.Point
	if e.Direction == route.Down {
		pts = [3]geometry.Point{{X: b.X, Y: b.Y}, {X: b.Right(), Y: b.Y}, {X: b.X + b.Width/2, Y: b.Bottom()}}
	} else {
		pts = [3]geometry.Point{{X: b.X, Y: b.Y}, {X: b.Right(), Y: b.Y + b.Height/2}, {X: b.X, Y: b.Bottom()}}
	}

	fmt.Fprintf(buf, `  <polygon class="arrow %s" id="edge-%s" points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"/>`+"\n",
		e.Kind, attr(e.ID), pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y, fill(e.Color, defaultStroke))
	if r.highlight[e.ID] {
		r.renderHit(buf, b)
	}
}

func (r *svgRenderer) renderHit(buf *bytes.Buffer, b geometry.Rect) {
	fmt.Fprintf(buf, `  <rect class="hit" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
		b.X, b.Y, b.Width, b.Height)
}

func (r *svgRenderer) stroke(n layout.Node, def string) string {
	if r.highlight[n.ID] {
		return highlightStroke
	}
	return def
}

func pathData(pts []geometry.Point) string {
	var sb strings.Builder
	for i, p := range pts {
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", p.X, p.Y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", p.X, p.Y)
		}
	}
	return sb.String()
}

// fill returns color, or def when color does not parse.
func fill(color, def string) string {
	c, err := geometry.ParseColor(color)
	if err != nil {
		return def
	}
	return c.Hex()
}

// textColor picks dark text on light backgrounds.
func textColor(bg string) string {
	if light, err := geometry.IsLight(bg); err == nil && !light {
		return "#ffffff"
	}
	return "#000000"
}

func attr(s string) string { return html.EscapeString(s) }
