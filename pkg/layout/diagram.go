package layout

import (
	"github.com/matzehuels/procflow/pkg/geometry"
	"github.com/matzehuels/procflow/pkg/layout/route"
	"github.com/matzehuels/procflow/pkg/process"
)

// =============================================================================
// Diagram - Assembled Geometry
// =============================================================================

// Diagram is the assembled geometry of one process model.
type Diagram struct {
	Mode      Mode     `json:"mode" bson:"mode"`
	Transpose bool     `json:"transpose,omitempty" bson:"transpose,omitempty"`
	Viewport  Viewport `json:"viewport" bson:"viewport"`

	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`

	// Bounds covers every node and every present edge after centering.
	Bounds geometry.Rect `json:"bounds" bson:"bounds"`
	// Padding is the offset applied on each axis by centering; after
	// centering Bounds.X == Padding.X and Bounds.Y == Padding.Y.
	Padding geometry.Point `json:"padding" bson:"padding"`
	// Width and Height are the canvas size: the content plus padding on
	// both sides.
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	// Unrouted counts edges left without geometry.
	Unrouted int `json:"unrouted,omitempty" bson:"unrouted,omitempty"`
}

// Node returns the node with the given kind and ID.
func (d *Diagram) Node(kind process.Kind, id string) (*Node, bool) {
	for i := range d.Nodes {
		if d.Nodes[i].Kind == kind && d.Nodes[i].ID == id {
			return &d.Nodes[i], true
		}
	}
	return nil, false
}

// Edge returns the edge with the given ID.
func (d *Diagram) Edge(id string) (*Edge, bool) {
	for i := range d.Edges {
		if d.Edges[i].ID == id {
			return &d.Edges[i], true
		}
	}
	return nil, false
}

// StrategyCounts returns the number of present edges per strategy.
func (d *Diagram) StrategyCounts() map[route.Strategy]int {
	counts := make(map[route.Strategy]int)
	for _, e := range d.Edges {
		if !e.Absent {
			counts[e.Strategy]++
		}
	}
	return counts
}

// =============================================================================
// Node - Activity or Task
// =============================================================================

// Node is a drawn activity or task.
type Node struct {
	ID    string        `json:"id" bson:"id"`
	Kind  process.Kind  `json:"kind" bson:"kind"`
	Label string        `json:"label,omitempty" bson:"label,omitempty"`
	Color string        `json:"color,omitempty" bson:"color,omitempty"`
	Box   geometry.Rect `json:"box" bson:"box"`
	Task  string        `json:"task,omitempty" bson:"task,omitempty"`

	// LabelSide is where a schematic label sits; flow labels are inside the
	// box and leave it unset.
	LabelSide geometry.Side `json:"label_side,omitempty" bson:"label_side,omitempty"`

	Delayed      bool `json:"delayed,omitempty" bson:"delayed,omitempty"`
	SLAViolation bool `json:"sla_violation,omitempty" bson:"sla_violation,omitempty"`
	HadError     bool `json:"had_error,omitempty" bson:"had_error,omitempty"`
	Conditional  bool `json:"conditional,omitempty" bson:"conditional,omitempty"`
}

// =============================================================================
// Edge - Transition Geometry
// =============================================================================

// EdgeKind distinguishes lines from dangling arrows.
type EdgeKind string

const (
	EdgeLine     EdgeKind = "line"
	EdgeTrigger  EdgeKind = "trigger"
	EdgeTerminal EdgeKind = "terminal"
)

// Edge is a drawn transition.
type Edge struct {
	ID    string   `json:"id" bson:"id"`
	Kind  EdgeKind `json:"kind" bson:"kind"`
	Start string   `json:"start,omitempty" bson:"start,omitempty"`
	End   string   `json:"end,omitempty" bson:"end,omitempty"`
	Label string   `json:"label,omitempty" bson:"label,omitempty"`
	Color string   `json:"color,omitempty" bson:"color,omitempty"`

	Activated   bool `json:"activated,omitempty" bson:"activated,omitempty"`
	Conditional bool `json:"conditional,omitempty" bson:"conditional,omitempty"`

	Strategy  route.Strategy    `json:"strategy,omitempty" bson:"strategy,omitempty"`
	StartSide geometry.Side     `json:"start_side,omitempty" bson:"start_side,omitempty"`
	EndSide   geometry.Side     `json:"end_side,omitempty" bson:"end_side,omitempty"`
	Quadrant  geometry.Quadrant `json:"quadrant,omitempty" bson:"quadrant,omitempty"`
	Path      []geometry.Point  `json:"path,omitempty" bson:"path,omitempty"`
	Box       geometry.Rect     `json:"box" bson:"box"`
	Direction route.Direction   `json:"direction,omitempty" bson:"direction,omitempty"`

	// Absent marks an edge the router could not resolve. It has no path
	// and no box, is excluded from bounds and is never hit.
	Absent bool   `json:"absent,omitempty" bson:"absent,omitempty"`
	Reason string `json:"reason,omitempty" bson:"reason,omitempty"`
}

// Dangling reports whether the edge is a trigger or terminal arrow.
func (e *Edge) Dangling() bool { return e.Kind == EdgeTrigger || e.Kind == EdgeTerminal }

// NodeID returns the activity a dangling arrow belongs to.
func (e *Edge) NodeID() string {
	if e.Kind == EdgeTrigger {
		return e.End
	}
	return e.Start
}

func edgeFrom(m *process.Model, t *process.Transition) Edge {
	e := Edge{
		ID:          t.ID(),
		Kind:        EdgeLine,
		Start:       t.Start,
		End:         t.End,
		Label:       t.Label,
		Color:       t.Color,
		Activated:   t.Activated,
		Conditional: m.Conditional(t),
	}
	switch {
	case t.Trigger():
		e.Kind = EdgeTrigger
		e.Strategy = route.Dangling
	case t.Terminal():
		e.Kind = EdgeTerminal
		e.Strategy = route.Dangling
	}
	return e
}

func (e *Edge) setLine(l route.Line) {
	e.Strategy = l.Strategy
	e.StartSide = l.StartSide
	e.EndSide = l.EndSide
	e.Quadrant = l.Quadrant
	e.Path = l.Path
	e.Box = l.Bounds
}

func (e *Edge) setArrow(a route.Arrow) {
	if e.Kind == EdgeTrigger {
		e.EndSide = a.Side
	} else {
		e.StartSide = a.Side
	}
	e.Direction = a.Direction
	e.Box = a.Box
}

func activityNode(a *process.Activity, box geometry.Rect) Node {
	return Node{
		ID:           a.ID,
		Kind:         process.KindActivity,
		Label:        a.DisplayLabel(),
		Color:        a.Color,
		Box:          box,
		Task:         a.TaskID,
		Delayed:      a.Delayed(),
		SLAViolation: a.SLAViolation,
		HadError:     a.HadError,
		Conditional:  a.Conditional,
	}
}

func taskNode(t *process.Task, box geometry.Rect) Node {
	return Node{
		ID:           t.ID,
		Kind:         process.KindTask,
		Label:        t.DisplayLabel(),
		Color:        t.Color,
		Box:          box,
		Delayed:      t.Delayed(),
		SLAViolation: t.SLAViolation,
	}
}
