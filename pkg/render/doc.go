// Package render draws assembled diagrams.
//
// # Overview
//
// This package turns a [layout.Diagram] into output artifacts:
//
//   - SVG drawn directly from the diagram geometry ([RenderSVG])
//   - Graphviz DOT with pinned node positions ([ToDOT]), rendered through
//     neato so Graphviz keeps the computed placement ([RenderDOT])
//   - PDF and PNG converted from SVG with rsvg-convert ([ToPDF], [ToPNG])
//
// Edges the layout could not route are not drawn.
//
//	svg := render.RenderSVG(d)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [layout.Diagram]: github.com/matzehuels/procflow/pkg/layout.Diagram
package render
