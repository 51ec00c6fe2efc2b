package pipeline

import (
	"github.com/matzehuels/procflow/pkg/layout"
	"github.com/matzehuels/procflow/pkg/observability"
	"github.com/matzehuels/procflow/pkg/process"
)

// GenerateLayout assembles one panel model.
func GenerateLayout(m *process.Model, cfg layout.Config) (*layout.Diagram, error) {
	return layout.Assemble(m, cfg)
}

// layoutStats summarizes d for observability hooks.
func layoutStats(d *layout.Diagram) observability.LayoutStats {
	stats := observability.LayoutStats{
		Nodes:      len(d.Nodes),
		Edges:      len(d.Edges),
		Unrouted:   d.Unrouted,
		Strategies: make(map[string]int),
	}
	for s, n := range d.StrategyCounts() {
		stats.Strategies[string(s)] = n
	}
	return stats
}
