package layout

import (
	"github.com/matzehuels/procflow/pkg/geometry"
	"github.com/matzehuels/procflow/pkg/process"
)

// Hit is one element selected by a rectangle.
type Hit struct {
	ID   string       `json:"id"`
	Kind process.Kind `json:"kind"`
}

// HitTest returns the nodes and edges whose boxes overlap sel, nodes first,
// each in diagram order. Edges without geometry are never hit.
func (d *Diagram) HitTest(sel geometry.Rect) []Hit {
	var hits []Hit
	for _, n := range d.Nodes {
		if geometry.Overlap(sel, n.Box) {
			hits = append(hits, Hit{ID: n.ID, Kind: n.Kind})
		}
	}
	for _, e := range d.Edges {
		if !e.Absent && geometry.Overlap(sel, e.Box) {
			hits = append(hits, Hit{ID: e.ID, Kind: process.KindTransition})
		}
	}
	return hits
}
