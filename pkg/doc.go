// Package pkg provides the core libraries for procflow process diagrams.
//
// # Overview
//
// Procflow turns tabular process data into routed diagrams. Each row of a
// document describes an activity, a task or a transition; activities and
// tasks carry fixed positions, and the engine only decides how transitions
// are drawn. The pkg directory is organized into four areas:
//
//  1. Domain logic: [process], [geometry], [layout] and its routers
//  2. Serialization: [io] documents and layout JSON
//  3. Output: [render]
//  4. Infrastructure: [pipeline], [cache], [store], [observability]
//
// # Architecture
//
// The typical data flow:
//
//	JSON or CSV document
//	         ↓
//	    [io] package (schema validation, row normalization)
//	         ↓
//	    [process] package (trellis panels, activity/task/transition model)
//	         ↓
//	    [layout] package (flow or schematic routing, bounds, centering)
//	         ↓
//	    [render] package (SVG, Graphviz, DOT, PNG, PDF)
//
// # Quick Start
//
//	doc, _ := io.Import("process.csv")
//	panels, _ := process.Split(doc.Rows, doc.Limits)
//	for _, p := range panels {
//	    d, _ := layout.Assemble(p.Model, layout.Config{Mode: layout.ModeSchematic})
//	    svg := render.RenderSVG(d)
//	    _ = svg
//	}
//
// # Main Packages
//
// [process] - Rows, activities, tasks and transitions. Splits a document into
// trellis panels and enforces the row and panel limits.
//
// [geometry] - Points, rectangles, compass sides and quadrants, and color
// parsing.
//
// [layout] - Assembles a [layout.Diagram] from a model. The flow router
// ([layout/flow]) draws orthogonal lines between box sides; the schematic
// router ([layout/schematic]) allocates attachment slots on fixed-size
// stations and draws metro-map style lines. Both share the strategies in
// [layout/route]. Also provides hit testing over the finished geometry.
//
// [io] - Document import and export (JSON validated against an embedded
// schema, or CSV).
//
// [render] - Native SVG, Graphviz DOT with pinned positions, Graphviz SVG,
// and PNG/PDF conversion.
//
// [pipeline] - The parse, layout and render stages used by the CLI and the
// HTTP API, with caching and hooks.
//
// [cache] - File, Redis and null caches plus the cache key scheme.
//
// [store] - Persisted layouts for the HTTP API (memory, file, MongoDB).
//
// [observability] - Pipeline, cache and HTTP hooks with Prometheus and
// OpenTelemetry implementations.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Specific package
//	go test -run Example                 # Examples only
//
// [process]: https://pkg.go.dev/github.com/matzehuels/procflow/pkg/process
// [geometry]: https://pkg.go.dev/github.com/matzehuels/procflow/pkg/geometry
// [layout]: https://pkg.go.dev/github.com/matzehuels/procflow/pkg/layout
// [layout/flow]: https://pkg.go.dev/github.com/matzehuels/procflow/pkg/layout/flow
// [layout/schematic]: https://pkg.go.dev/github.com/matzehuels/procflow/pkg/layout/schematic
// [layout/route]: https://pkg.go.dev/github.com/matzehuels/procflow/pkg/layout/route
// [io]: https://pkg.go.dev/github.com/matzehuels/procflow/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/procflow/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/procflow/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/procflow/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/procflow/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/procflow/pkg/observability
package pkg
