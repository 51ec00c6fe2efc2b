package schematic

import (
	"github.com/matzehuels/procflow/pkg/geometry"
	"github.com/matzehuels/procflow/pkg/layout/route"
)

// TriggerBox returns the box of a trigger arrow pointing into the node at
// top-left p.
func TriggerBox(p geometry.Point, dir route.Direction) geometry.Rect {
	if dir == route.Down {
		return arrowBox(p.X+BorderThickness*1.5, p.Y-BorderThickness*3)
	}
	return arrowBox(p.X-CircleThickness*1.5-DanglingArrowPadding, p.Y+BorderThickness*2)
}

// TerminalBox returns the box of a terminal arrow leaving the node at
// top-left p.
func TerminalBox(p geometry.Point, dir route.Direction) geometry.Rect {
	if dir == route.Down {
		return arrowBox(p.X+BorderThickness*1.5, p.Y+CircleOffset*2+DanglingArrowPadding)
	}
	return arrowBox(p.X+CircleRadius*2+CircleThickness+DanglingArrowPadding*2, p.Y+BorderThickness*2)
}

func arrowBox(x, y float64) geometry.Rect {
	return geometry.Rect{X: x, Y: y, Width: DanglingArrowSize, Height: DanglingArrowSize}
}
