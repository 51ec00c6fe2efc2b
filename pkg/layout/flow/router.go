package flow

import (
	"fmt"
	"math"

	"github.com/matzehuels/procflow/pkg/geometry"
	"github.com/matzehuels/procflow/pkg/layout/route"
)

// Activity geometry and routing constants, in diagram pixels.
const (
	ActivityWidth  = 120
	ActivityHeight = 65
	Border         = 1
	MinSeparation  = 30
	ArrowSize      = 7

	DanglingArrowSize    = 24
	DanglingArrowPadding = 3
)

// Route routes a transition between the activities whose top-left corners
// are start and end.
//
// It returns route.ErrDegenerate for non-finite input and route.ErrNoRoute
// when the decision table has no row for the placement.
func Route(start, end geometry.Point) (route.Line, error) {
	if !start.Finite() || !end.Finite() {
		return route.Line{}, route.ErrDegenerate
	}

	k := classify(start, end)
	r, ok := table[k]
	if !ok {
		return route.Line{Quadrant: k.quadrant}, fmt.Errorf("%w: quadrant %s, dx wide %t, dy %s, clearance %s",
			route.ErrNoRoute, k.quadrant, k.dxWide, k.dy, k.clear)
	}

	from := attach(start, r.start, false)
	to := attach(end, r.end, true)
	path := connect(r.strategy, r.start, from, to)

	return route.Line{
		StartSide: r.start,
		EndSide:   r.end,
		Strategy:  r.strategy,
		Quadrant:  k.quadrant,
		Path:      path,
		Bounds:    geometry.RectFromPoints(path...).Inflate(ArrowSize / 2.0),
	}, nil
}

// Footprint returns the rectangle of the activity at top-left p.
func Footprint(p geometry.Point) geometry.Rect {
	return geometry.Rect{X: p.X, Y: p.Y, Width: ActivityWidth, Height: ActivityHeight}
}

func center(p geometry.Point) geometry.Point {
	return p.Add(ActivityWidth/2.0, ActivityHeight/2.0)
}

// attach returns the attachment point on the given side of the activity at
// top-left p. The south point of an end activity sits on the border so the
// arrow head touches the box.
func attach(p geometry.Point, side geometry.Side, isEnd bool) geometry.Point {
	switch side {
	case geometry.North:
		return p.Add(ActivityWidth/2.0, -Border)
	case geometry.East:
		return p.Add(ActivityWidth+Border, ActivityHeight/2.0)
	case geometry.South:
		if isEnd {
			return p.Add(ActivityWidth/2.0+Border, ActivityHeight)
		}
		return p.Add(ActivityWidth/2.0, ActivityHeight+Border)
	case geometry.West:
		return p.Add(-Border, ActivityHeight/2.0)
	}
	return p
}

// connect builds the absolute path for a connector shape.
func connect(strategy route.Strategy, startSide geometry.Side, from, to geometry.Point) []geometry.Point {
	switch strategy {
	case route.SBend:
		if startSide.Horizontal() {
			midX := (from.X + to.X) / 2
			return []geometry.Point{from, geometry.Pt(midX, from.Y), geometry.Pt(midX, to.Y), to}
		}
		midY := (from.Y + to.Y) / 2
		return []geometry.Point{from, geometry.Pt(from.X, midY), geometry.Pt(to.X, midY), to}

	case route.LBend:
		if startSide.Vertical() {
			return []geometry.Point{from, geometry.Pt(from.X, to.Y), to}
		}
		return []geometry.Point{from, geometry.Pt(to.X, from.Y), to}

	case route.Center:
		x := math.Max(from.X, to.X) + MinSeparation
		if startSide == geometry.West {
			x = math.Min(from.X, to.X) - MinSeparation
		}
		return []geometry.Point{from, geometry.Pt(x, from.Y), geometry.Pt(x, to.Y), to}
	}
	return []geometry.Point{from, to}
}
