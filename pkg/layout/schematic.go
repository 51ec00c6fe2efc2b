package layout

import (
	"github.com/matzehuels/procflow/pkg/geometry"
	"github.com/matzehuels/procflow/pkg/layout/route"
	"github.com/matzehuels/procflow/pkg/layout/schematic"
	"github.com/matzehuels/procflow/pkg/process"
)

// RawLayout is the first schematic stage: nodes placed and lines routed.
// Dangling arrows are listed in Pending, without geometry.
type RawLayout struct {
	Nodes     []Node
	Edges     []Edge
	Positions map[string]geometry.Point
	Pending   []int // indexes into Edges
	Unrouted  int
}

// AllocatedLayout is the second stage: sides chosen for every node.
type AllocatedLayout struct {
	RawLayout
	Allocations map[string]schematic.Allocation
}

// FinalGeometry is the last stage: every element has its geometry.
type FinalGeometry struct {
	Nodes    []Node
	Edges    []Edge
	Unrouted int
}

func assembleSchematic(m *process.Model, cfg Config) *Diagram {
	raw := routeAll(m, cfg)
	alloc := allocate(m, raw, schematic.NewRegistry(cfg.Transpose))
	final := finalize(alloc)
	return &Diagram{Nodes: final.Nodes, Edges: final.Edges, Unrouted: final.Unrouted}
}

// place returns the schematic position of a, swapping axes when transposed.
func place(a *process.Activity, transpose bool) geometry.Point {
	if transpose {
		return geometry.Pt(a.Y, a.X)
	}
	return geometry.Pt(a.X, a.Y)
}

func routeAll(m *process.Model, cfg Config) RawLayout {
	raw := RawLayout{Positions: make(map[string]geometry.Point)}
	for _, a := range m.Activities() {
		p := place(a, cfg.Transpose)
		raw.Positions[a.ID] = p
		raw.Nodes = append(raw.Nodes, activityNode(a, schematic.Footprint(p)))
	}

	for _, t := range m.Transitions() {
		e := edgeFrom(m, t)
		if e.Dangling() {
			raw.Pending = append(raw.Pending, len(raw.Edges))
			raw.Edges = append(raw.Edges, e)
			continue
		}
		l, err := schematic.Route(raw.Positions[t.Start], raw.Positions[t.End])
		if err != nil {
			e.Quadrant = l.Quadrant
			markAbsent(cfg.Logger, &e, err)
			raw.Unrouted++
		} else {
			e.setLine(l)
		}
		raw.Edges = append(raw.Edges, e)
	}
	return raw
}

func allocate(m *process.Model, raw RawLayout, reg *schematic.Registry) AllocatedLayout {
	links := make(map[string][]schematic.Link)
	for _, e := range raw.Edges {
		switch e.Kind {
		case EdgeTrigger:
			links[e.End] = append(links[e.End], schematic.Link{EdgeID: e.ID, Role: schematic.Trigger})
		case EdgeTerminal:
			links[e.Start] = append(links[e.Start], schematic.Link{EdgeID: e.ID, Role: schematic.Terminal})
		default:
			links[e.Start] = append(links[e.Start], schematic.Link{EdgeID: e.ID, Role: schematic.LineStart, Side: e.StartSide})
			links[e.End] = append(links[e.End], schematic.Link{EdgeID: e.ID, Role: schematic.LineEnd, Side: e.EndSide})
		}
	}

	out := AllocatedLayout{RawLayout: raw, Allocations: make(map[string]schematic.Allocation)}
	for _, a := range m.Activities() {
		out.Allocations[a.ID] = reg.Allocate(a.ID, links[a.ID])
	}
	return out
}

func finalize(al AllocatedLayout) FinalGeometry {
	final := FinalGeometry{
		Nodes:    al.Nodes,
		Edges:    al.Edges,
		Unrouted: al.Unrouted,
	}
	for i := range final.Nodes {
		n := &final.Nodes[i]
		n.LabelSide = al.Allocations[n.ID].Label
	}

	for _, idx := range al.Pending {
		e := &final.Edges[idx]
		nodeID := e.NodeID()
		as, _ := al.Allocations[nodeID].Arrow(e.ID)
		p := al.Positions[nodeID]

		arrow := route.Arrow{Side: as.Side, Direction: as.Direction}
		if e.Kind == EdgeTrigger {
			arrow.Box = schematic.TriggerBox(p, as.Direction)
		} else {
			arrow.Box = schematic.TerminalBox(p, as.Direction)
		}
		e.setArrow(arrow)
	}
	return final
}
