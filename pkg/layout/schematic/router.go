package schematic

import (
	"math"

	"github.com/matzehuels/procflow/pkg/geometry"
	"github.com/matzehuels/procflow/pkg/layout/route"
)

// Node geometry constants, in diagram pixels.
const (
	NodeWidth       = 100
	NodeHeight      = 2 * CircleOffset
	CircleRadius    = 10
	CircleThickness = 5
	CircleOffset    = 15
	BorderThickness = 3
	LineThickness   = 5
	LineAngle       = 45

	DanglingArrowSize    = 12
	DanglingArrowPadding = 3
)

// ringRadius is the distance from a node center to its attachment points,
// the middle of the ring stroke.
const ringRadius = CircleRadius + CircleThickness/2.0

// Route routes a line between the nodes whose top-left corners are start
// and end. The coordinates are already transposed if the diagram is.
//
// Coincident centers and non-finite input return route.ErrDegenerate.
func Route(start, end geometry.Point) (route.Line, error) {
	if !start.Finite() || !end.Finite() {
		return route.Line{}, route.ErrDegenerate
	}
	sc, ec := center(start), center(end)
	if sc == ec {
		return route.Line{}, route.ErrDegenerate
	}

	q := geometry.Classify(sc, ec)
	from, to := sides(q, math.Abs(ec.X-sc.X), math.Abs(ec.Y-sc.Y))
	a, b := attach(sc, from), attach(ec, to)
	path := polyline(a, b, from.Horizontal())
	if !finite(path) {
		return route.Line{}, route.ErrDegenerate
	}

	return route.Line{
		StartSide: from,
		EndSide:   to,
		Strategy:  route.Diagonal,
		Quadrant:  q,
		Path:      path,
		Bounds:    geometry.RectFromPoints(path...).Inflate(LineThickness / 2.0),
	}, nil
}

// Footprint returns the rectangle of the node at top-left p: the ring plus
// the label area.
func Footprint(p geometry.Point) geometry.Rect {
	return geometry.Rect{X: p.X, Y: p.Y, Width: NodeWidth, Height: NodeHeight}
}

func center(p geometry.Point) geometry.Point {
	return p.Add(CircleOffset, CircleOffset)
}

// sides picks the attachment pair for the quadrant of the end node. The
// vertical pair wins ties.
func sides(q geometry.Quadrant, dx, dy float64) (geometry.Side, geometry.Side) {
	vertical := dy >= dx
	switch {
	case vertical && q.South():
		return geometry.South, geometry.North
	case vertical:
		return geometry.North, geometry.South
	case q.East():
		return geometry.East, geometry.West
	default:
		return geometry.West, geometry.East
	}
}

func attach(c geometry.Point, side geometry.Side) geometry.Point {
	switch side {
	case geometry.North:
		return c.Add(0, -ringRadius)
	case geometry.East:
		return c.Add(ringRadius, 0)
	case geometry.South:
		return c.Add(0, ringRadius)
	case geometry.West:
		return c.Add(-ringRadius, 0)
	}
	return c
}

// polyline joins a and b with two stubs along the dominant axis and a
// diagonal middle segment. The diagonal covers the whole offset on the other
// axis; the stubs split what is left of the dominant span.
func polyline(a, b geometry.Point, horizontal bool) []geometry.Point {
	span, offset := b.Y-a.Y, b.X-a.X
	if horizontal {
		span, offset = b.X-a.X, b.Y-a.Y
	}

	diag := math.Abs(offset) / math.Tan(LineAngle*math.Pi/180)
	if span < 0 {
		diag = -diag
	}
	stub := (span - diag) / 2

	if horizontal {
		return []geometry.Point{
			a,
			geometry.Pt(a.X+stub, a.Y),
			geometry.Pt(a.X+stub+diag, b.Y),
			b,
		}
	}
	return []geometry.Point{
		a,
		geometry.Pt(a.X, a.Y+stub),
		geometry.Pt(b.X, a.Y+stub+diag),
		b,
	}
}

func finite(pts []geometry.Point) bool {
	for _, p := range pts {
		if !p.Finite() {
			return false
		}
	}
	return true
}
