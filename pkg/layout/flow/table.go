package flow

import (
	"github.com/matzehuels/procflow/pkg/geometry"
	"github.com/matzehuels/procflow/pkg/layout/route"
)

// band buckets the vertical gap against the minimum separation.
type band uint8

const (
	narrow band = iota // dy < T
	mid                // T <= dy <= 2T
	wide               // dy > 2T
)

func (b band) String() string {
	return [...]string{"narrow", "mid", "wide"}[b]
}

// clearance tells how far the end center sits from the start footprint
// when both gaps are narrow.
type clearance uint8

const (
	notApplicable clearance = iota
	far                     // past the footprint plus T/2
	near                    // past the footprint
	overlapping             // neither
	boundary                // NW only: level with the start's top edge
)

func (c clearance) String() string {
	return [...]string{"-", "far", "near", "overlap", "boundary"}[c]
}

// key is one row selector of the decision table.
type key struct {
	quadrant geometry.Quadrant
	dxWide   bool
	dy       band
	clear    clearance
}

// rule is the outcome of a table row.
type rule struct {
	start, end geometry.Side
	strategy   route.Strategy
}

const (
	n = geometry.North
	e = geometry.East
	s = geometry.South
	w = geometry.West

	ne = geometry.NorthEast
	se = geometry.SouthEast
	sw = geometry.SouthWest
	nw = geometry.NorthWest
)

// table is the complete routing decision table. Keys absent from the map
// have no route. (NW, narrow, narrow, boundary) is left out on purpose: the
// branch ladder this table replaces never finished that case and let it fall
// into the W->W loop-back. It is kept as an unrouted placement, drawn without
// a line, until the expected shape is settled.
var table = map[key]rule{
	// Wide horizontal gap, end to the east.
	{se, true, narrow, notApplicable}: {e, w, route.SBend},
	{se, true, mid, notApplicable}:    {e, w, route.SBend},
	{se, true, wide, notApplicable}:   {e, w, route.SBend},
	{ne, true, narrow, notApplicable}: {e, w, route.SBend},
	{ne, true, mid, notApplicable}:    {e, w, route.SBend},
	{ne, true, wide, notApplicable}:   {e, w, route.SBend},

	// Wide horizontal gap, end to the west.
	{sw, true, narrow, notApplicable}: {w, e, route.SBend},
	{sw, true, mid, notApplicable}:    {w, e, route.SBend},
	{sw, true, wide, notApplicable}:   {s, n, route.SBend},
	{nw, true, narrow, notApplicable}: {w, e, route.SBend},
	{nw, true, mid, notApplicable}:    {w, e, route.SBend},
	{nw, true, wide, notApplicable}:   {n, s, route.SBend},

	// Narrow horizontal gap, vertical gap of at least T.
	{se, false, mid, notApplicable}:  {s, n, route.SBend},
	{se, false, wide, notApplicable}: {s, n, route.SBend},
	{sw, false, mid, notApplicable}:  {s, n, route.SBend},
	{sw, false, wide, notApplicable}: {s, n, route.SBend},
	{ne, false, mid, notApplicable}:  {n, s, route.SBend},
	{ne, false, wide, notApplicable}: {n, s, route.SBend},
	{nw, false, mid, notApplicable}:  {n, s, route.SBend},
	{nw, false, wide, notApplicable}: {n, s, route.SBend},

	// Both gaps narrow.
	{se, false, narrow, far}:         {e, n, route.LBend},
	{se, false, narrow, near}:        {s, w, route.LBend},
	{se, false, narrow, overlapping}: {e, e, route.Center},
	{ne, false, narrow, far}:         {e, s, route.LBend},
	{ne, false, narrow, near}:        {n, w, route.LBend},
	{ne, false, narrow, overlapping}: {e, e, route.Center},
	{sw, false, narrow, far}:         {w, n, route.LBend},
	{sw, false, narrow, near}:        {s, e, route.LBend},
	{sw, false, narrow, overlapping}: {w, w, route.Center},
	{nw, false, narrow, far}:         {w, s, route.LBend},
	{nw, false, narrow, near}:        {n, e, route.LBend},
	{nw, false, narrow, overlapping}: {w, w, route.Center},
}

// classify builds the table key for activities whose top-left corners are
// start and end.
func classify(start, end geometry.Point) key {
	sc := center(start)
	ec := center(end)
	k := key{quadrant: geometry.Classify(sc, ec)}

	dx := gap(start.X, end.X, ActivityWidth)
	dy := gap(start.Y, end.Y, ActivityHeight)

	k.dxWide = dx >= MinSeparation
	switch {
	case dy < MinSeparation:
		k.dy = narrow
	case dy <= 2*MinSeparation:
		k.dy = mid
	default:
		k.dy = wide
	}

	if !k.dxWide && k.dy == narrow {
		k.clear = clearanceOf(k.quadrant, start, ec)
	}
	return k
}

// gap is the distance between the facing edges of two boxes of the given
// extent on one axis. It is negative when the boxes overlap.
func gap(a, b, extent float64) float64 {
	if a <= b {
		return b - (a + extent)
	}
	return a - (b + extent)
}

// clearanceOf compares the end center ec against the footprint of the start
// activity at top-left s.
func clearanceOf(q geometry.Quadrant, s, ec geometry.Point) clearance {
	const half = MinSeparation / 2
	top, bottom := s.Y, s.Y+ActivityHeight
	left, right := s.X, s.X+ActivityWidth

	switch q {
	case geometry.SouthEast:
		switch {
		case ec.X < right:
			return overlapping
		case ec.Y > bottom+half:
			return far
		case ec.Y > bottom:
			return near
		}
	case geometry.NorthEast:
		switch {
		case ec.X < right:
			return overlapping
		case ec.Y <= top-half:
			return far
		case ec.Y <= top:
			return near
		}
	case geometry.SouthWest:
		switch {
		case ec.X > left:
			return overlapping
		case ec.Y > bottom+half:
			return far
		case ec.Y > bottom:
			return near
		}
	case geometry.NorthWest:
		switch {
		case ec.X > left:
			return overlapping
		case ec.Y <= top-half:
			return far
		case ec.Y < top:
			return near
		case ec.Y == top:
			return boundary
		}
	}
	return overlapping
}
