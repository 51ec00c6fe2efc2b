package layout

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/procflow/pkg/errors"
	"github.com/matzehuels/procflow/pkg/geometry"
	"github.com/matzehuels/procflow/pkg/layout/flow"
	"github.com/matzehuels/procflow/pkg/process"
)

// Assemble computes the geometry of every activity, task and transition of
// m. Node positions are taken from the model; only edges are routed.
//
// A model that breaks its own invariants (unknown activity references,
// duplicate ids) yields an error with code CONTRACT_VIOLATION. Edges the
// routers cannot resolve do not fail the call; see [Edge.Absent].
//
// Assemble keeps no state between calls: equal input gives equal output.
func Assemble(m *process.Model, cfg Config) (*Diagram, error) {
	if m == nil {
		return nil, errors.ContractViolation("nil model")
	}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	var d *Diagram
	switch cfg.Mode {
	case ModeSchematic:
		d = assembleSchematic(m, cfg)
	default:
		d = assembleFlow(m, cfg)
	}
	d.Mode = cfg.Mode
	d.Transpose = cfg.Transpose
	d.Viewport = cfg.Viewport

	center(d)
	return d, nil
}

// assembleFlow places activities, then tasks, then routes every transition
// in a single pass.
func assembleFlow(m *process.Model, cfg Config) *Diagram {
	d := &Diagram{}
	for _, a := range m.Activities() {
		d.Nodes = append(d.Nodes, activityNode(a, flow.Footprint(a.Position())))
	}
	for _, t := range m.Tasks() {
		box, ok := m.TaskBox(t.ID)
		if !ok {
			continue
		}
		d.Nodes = append(d.Nodes, taskNode(t, box))
	}

	for _, t := range m.Transitions() {
		e := edgeFrom(m, t)
		switch e.Kind {
		case EdgeTrigger:
			end, _ := m.Activity(t.End)
			e.setArrow(flow.Trigger(end.Position()))
		case EdgeTerminal:
			start, _ := m.Activity(t.Start)
			e.setArrow(flow.Terminal(start.Position()))
		default:
			start, _ := m.Activity(t.Start)
			end, _ := m.Activity(t.End)
			l, err := flow.Route(start.Position(), end.Position())
			if err != nil {
				e.Quadrant = l.Quadrant
				markAbsent(cfg.Logger, &e, err)
				d.Unrouted++
			} else {
				e.setLine(l)
			}
		}
		d.Edges = append(d.Edges, e)
	}
	return d
}

// markAbsent applies the render-nothing policy to e.
func markAbsent(logger *log.Logger, e *Edge, err error) {
	e.Absent = true
	e.Path = nil
	e.Box = geometry.Rect{}
	e.Reason = err.Error()
	logger.Warn("transition not drawn", "edge", e.ID, "reason", err)
}

// center shifts every element so the content is centered in the viewport
// with at least the minimum padding per axis.
func center(d *Diagram) {
	var b geometry.Bounds
	for _, n := range d.Nodes {
		b.Extend(n.Box)
	}
	for _, e := range d.Edges {
		if !e.Absent {
			b.Extend(e.Box)
		}
	}
	if b.Empty() {
		return
	}

	cw, ch := b.Width(), b.Height()
	var offX, offY float64
	switch d.Mode {
	case ModeSchematic:
		padX := max(d.Viewport.Width-cw, minPadSchematicX)
		padY := max(d.Viewport.Height-ch, minPadSchematicY)
		if ch > cw {
			offX, offY = padX/2, minPadSchematicY/2
		} else {
			offX, offY = minPadSchematicX/2, padY/2
		}
	default:
		offX = max(d.Viewport.Width-cw, minPadFlow) / 2
		offY = max(d.Viewport.Height-ch, minPadFlow) / 2
	}

	dx, dy := offX-b.MinX, offY-b.MinY
	for i := range d.Nodes {
		d.Nodes[i].Box = d.Nodes[i].Box.Translate(dx, dy)
	}
	for i := range d.Edges {
		e := &d.Edges[i]
		if e.Absent {
			continue
		}
		e.Box = e.Box.Translate(dx, dy)
		for j := range e.Path {
			e.Path[j] = e.Path[j].Add(dx, dy)
		}
	}

	d.Bounds = geometry.Rect{X: offX, Y: offY, Width: cw, Height: ch}
	d.Padding = geometry.Pt(offX, offY)
	d.Width = cw + 2*offX
	d.Height = ch + 2*offY
}

// Minimum centering padding per axis, split evenly on both sides.
const (
	minPadFlow       = 20.0
	minPadSchematicX = 70.0
	minPadSchematicY = 50.0
)
