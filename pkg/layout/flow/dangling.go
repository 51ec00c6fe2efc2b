package flow

import (
	"github.com/matzehuels/procflow/pkg/geometry"
	"github.com/matzehuels/procflow/pkg/layout/route"
)

// Trigger returns the arrow pointing into the activity at top-left end from
// the west.
func Trigger(end geometry.Point) route.Arrow {
	return route.Arrow{
		Side:      geometry.West,
		Direction: route.Right,
		Box: geometry.Rect{
			X:      end.X - DanglingArrowSize - Border - DanglingArrowPadding/2.0,
			Y:      end.Y - DanglingArrowSize + (ActivityHeight / 2.0),
			Width:  DanglingArrowSize,
			Height: DanglingArrowSize,
		},
	}
}

// Terminal returns the arrow leaving the activity at top-left start to the
// east.
func Terminal(start geometry.Point) route.Arrow {
	return route.Arrow{
		Side:      geometry.East,
		Direction: route.Right,
		Box: geometry.Rect{
			X:      start.X + ActivityWidth + Border + DanglingArrowPadding,
			Y:      start.Y - DanglingArrowSize + (ActivityHeight / 2.0),
			Width:  DanglingArrowSize,
			Height: DanglingArrowSize,
		},
	}
}
