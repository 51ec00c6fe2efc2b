package schematic

import (
	"slices"

	"github.com/matzehuels/procflow/pkg/geometry"
	"github.com/matzehuels/procflow/pkg/layout/route"
)

// Role is how an edge touches the node being allocated.
type Role uint8

const (
	LineStart Role = iota
	LineEnd
	Trigger
	Terminal
)

// Link is one edge incident to a node. Side is the resolved attachment side
// for lines and SideNone for dangling arrows and unrouted lines.
type Link struct {
	EdgeID string
	Role   Role
	Side   geometry.Side
}

// Assignment is the side and direction chosen for a dangling arrow. Side is
// SideNone when every candidate side was taken.
type Assignment struct {
	EdgeID    string
	Role      Role
	Side      geometry.Side
	Direction route.Direction
}

// Allocation is the result of allocating one node.
type Allocation struct {
	Arrows []Assignment
	Label  geometry.Side
}

// Arrow returns the assignment for the given edge.
func (a Allocation) Arrow(edgeID string) (Assignment, bool) {
	for _, as := range a.Arrows {
		if as.EdgeID == edgeID {
			return as, true
		}
	}
	return Assignment{}, false
}

// registryOrder is the initial order of free sides on every node.
var registryOrder = []geometry.Side{geometry.East, geometry.South, geometry.North, geometry.West}

// Registry tracks the free sides of each node during one layout pass. It is
// not safe for concurrent use; create one per pass.
type Registry struct {
	transpose bool
	points    map[string][]geometry.Side
}

// NewRegistry returns an empty registry. Transposed diagrams prefer vertical
// sides for dangling arrows.
func NewRegistry(transpose bool) *Registry {
	return &Registry{transpose: transpose, points: make(map[string][]geometry.Side)}
}

// Available returns the sides of the node that are still free.
func (r *Registry) Available(nodeID string) []geometry.Side {
	return slices.Clone(r.entry(nodeID))
}

// Allocate consumes the sides of nodeID used by its lines, then assigns
// triggers and terminals in that order, then picks the label side.
// The result depends only on the set of links, not on their order.
func (r *Registry) Allocate(nodeID string, links []Link) Allocation {
	for _, l := range links {
		if l.Role == LineStart || l.Role == LineEnd {
			r.take(nodeID, l.Side)
		}
	}

	var out Allocation
	for _, role := range []Role{Trigger, Terminal} {
		ids := edgeIDs(links, role)
		for _, id := range ids {
			out.Arrows = append(out.Arrows, r.assign(nodeID, id, role))
		}
	}

	out.Label = geometry.South
	if free := r.entry(nodeID); len(free) > 0 {
		out.Label = free[0]
		r.take(nodeID, out.Label)
	}
	return out
}

func (r *Registry) assign(nodeID, edgeID string, role Role) Assignment {
	as := Assignment{EdgeID: edgeID, Role: role, Direction: r.defaultDirection()}
	for _, side := range r.preference(role) {
		if r.take(nodeID, side) {
			as.Side = side
			as.Direction = route.DirectionOf(side)
			break
		}
	}
	return as
}

func (r *Registry) preference(role Role) []geometry.Side {
	var p []geometry.Side
	if role == Trigger {
		p = []geometry.Side{geometry.West, geometry.North}
	} else {
		p = []geometry.Side{geometry.East, geometry.South}
	}
	if r.transpose {
		slices.Reverse(p)
	}
	return p
}

func (r *Registry) defaultDirection() route.Direction {
	if r.transpose {
		return route.Down
	}
	return route.Right
}

func (r *Registry) entry(nodeID string) []geometry.Side {
	pts, ok := r.points[nodeID]
	if !ok {
		pts = slices.Clone(registryOrder)
		r.points[nodeID] = pts
	}
	return pts
}

// take removes side from the node's free sides and reports whether it was
// free.
func (r *Registry) take(nodeID string, side geometry.Side) bool {
	pts := r.entry(nodeID)
	i := slices.Index(pts, side)
	if i < 0 {
		return false
	}
	r.points[nodeID] = slices.Delete(pts, i, i+1)
	return true
}

func edgeIDs(links []Link, role Role) []string {
	var ids []string
	for _, l := range links {
		if l.Role == role {
			ids = append(ids, l.EdgeID)
		}
	}
	slices.Sort(ids)
	return ids
}
