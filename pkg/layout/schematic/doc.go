// Package schematic routes transitions of a node-link schematic diagram and
// allocates the free sides of each node to dangling arrows and labels.
//
// Activities are drawn as rings with a label beside them. A line between two
// activities attaches to the ring on the axis with the larger center delta
// and is drawn as a three-segment polyline whose middle segment runs at 45
// degrees.
//
// Dangling trigger and terminal arrows have no partner node, so their side
// is chosen after all lines are routed: a [Registry] tracks which sides of
// each node are still free and hands them out in a fixed preference order.
// The label takes whichever side is left first.
package schematic
