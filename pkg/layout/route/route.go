// Package route holds the vocabulary shared by the flow and schematic
// routers: strategies, routed lines, dangling arrows and the errors a router
// returns when it cannot produce geometry.
package route

import (
	"errors"

	"github.com/matzehuels/procflow/pkg/geometry"
)

var (
	// ErrNoRoute is returned when no rule covers the relative placement of
	// the two nodes. The edge is drawn without a line.
	ErrNoRoute = errors.New("no routing rule for node placement")

	// ErrDegenerate is returned for geometry that cannot be routed, such as
	// non-finite coordinates or coincident nodes.
	ErrDegenerate = errors.New("degenerate edge geometry")
)

// Strategy is the shape of a routed line.
type Strategy string

const (
	// Center is a loop-back leaving and entering on the same side.
	Center Strategy = "C"
	// LBend turns once.
	LBend Strategy = "L"
	// SBend turns twice, with a middle segment halfway between the nodes.
	SBend Strategy = "S"
	// Diagonal is the schematic 45 degree polyline.
	Diagonal Strategy = "D"
	// Dangling is an arrow attached to one node only.
	Dangling Strategy = "dangling"
)

// Line is a routed edge between two nodes.
type Line struct {
	StartSide geometry.Side     `json:"start_side" bson:"start_side"`
	EndSide   geometry.Side     `json:"end_side" bson:"end_side"`
	Strategy  Strategy          `json:"strategy" bson:"strategy"`
	Quadrant  geometry.Quadrant `json:"quadrant" bson:"quadrant"`
	Path      []geometry.Point  `json:"path" bson:"path"`
	Bounds    geometry.Rect     `json:"bounds" bson:"bounds"`
}

// Start returns the first point of the path.
func (l Line) Start() geometry.Point {
	if len(l.Path) == 0 {
		return geometry.Point{}
	}
	return l.Path[0]
}

// End returns the last point of the path.
func (l Line) End() geometry.Point {
	if len(l.Path) == 0 {
		return geometry.Point{}
	}
	return l.Path[len(l.Path)-1]
}

// Segments returns the number of segments in the path.
func (l Line) Segments() int {
	if len(l.Path) < 2 {
		return 0
	}
	return len(l.Path) - 1
}

// Direction is the axis a dangling arrow points along.
type Direction string

const (
	Right Direction = "right"
	Down  Direction = "down"
)

// DirectionOf maps an attachment side to the arrow direction.
func DirectionOf(s geometry.Side) Direction {
	if s.Vertical() {
		return Down
	}
	return Right
}

// Arrow is a dangling trigger or terminal arrow.
type Arrow struct {
	Side      geometry.Side `json:"side" bson:"side"`
	Direction Direction     `json:"direction" bson:"direction"`
	Box       geometry.Rect `json:"box" bson:"box"`
}
