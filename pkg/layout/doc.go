// Package layout assembles a process model into diagram geometry.
//
// [Assemble] takes a [process.Model] whose activities carry their own pixel
// positions and decides, for every transition, where it attaches and what
// shape it takes. Two modes are supported:
//
//   - [ModeFlow]: boxes joined by orthogonal connectors, tasks drawn as boxes
//     around their activities (see package flow)
//   - [ModeSchematic]: rings joined by 45 degree polylines, dangling arrows
//     and labels placed on the sides left free (see package schematic)
//
// # Schematic stages
//
// Schematic layout runs in three explicit stages with typed results:
//
//  1. routeAll produces a [RawLayout]: nodes placed and every line routed,
//     dangling arrows pending
//  2. allocate produces an [AllocatedLayout]: per node, in model order, the
//     attachment registry picks dangling sides and label sides
//  3. finalize produces [FinalGeometry]: dangling arrow boxes derived from
//     the winning directions
//
// # Degenerate edges
//
// An edge the router cannot resolve is kept in the diagram with Absent set,
// no path and no box. It is logged at WARN level and counted in
// [Diagram.Unrouted]; it never aborts the pass.
//
// # Centering
//
// After assembly every element is shifted so the content sits inside the
// viewport with at least the minimum padding on each side.
//
// # Serialization
//
// [Diagram] carries json and bson tags and is written with [Marshal] and
// [WriteFile], read back with [Unmarshal] and [ReadFile].
package layout
