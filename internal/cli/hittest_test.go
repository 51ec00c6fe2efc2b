package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/procflow/pkg/errors"
	"github.com/matzehuels/procflow/pkg/geometry"
	"github.com/matzehuels/procflow/pkg/layout"
	"github.com/matzehuels/procflow/pkg/layout/route"
	"github.com/matzehuels/procflow/pkg/process"
)

func hitDiagram() *layout.Diagram {
	return &layout.Diagram{
		Mode: layout.ModeFlow,
		Nodes: []layout.Node{
			{ID: "A", Kind: process.KindActivity, Box: geometry.Rect{X: 0, Y: 0, Width: 100, Height: 40}},
			{ID: "B", Kind: process.KindActivity, Box: geometry.Rect{X: 300, Y: 0, Width: 100, Height: 40}},
			{ID: "T", Kind: process.KindTask, Box: geometry.Rect{X: -10, Y: -10, Width: 420, Height: 60}},
		},
		Edges: []layout.Edge{
			{ID: "A->B", Kind: layout.EdgeLine, Strategy: route.Center, Box: geometry.Rect{X: 100, Y: 18, Width: 200, Height: 4}},
			{ID: "B->A", Kind: layout.EdgeLine, Strategy: route.SBend, Box: geometry.Rect{X: 100, Y: 40, Width: 200, Height: 30}},
			{ID: "A->C", Kind: layout.EdgeLine, Absent: true, Reason: "degenerate"},
		},
	}
}

func TestParseRect(t *testing.T) {
	tests := []struct {
		in      string
		want    geometry.Rect
		wantErr bool
	}{
		{"0,0,10,20", geometry.Rect{Width: 10, Height: 20}, false},
		{" 1.5, -2 , 3,4 ", geometry.Rect{X: 1.5, Y: -2, Width: 3, Height: 4}, false},
		{"0,0,0,0", geometry.Rect{}, false},
		{"1,2,3", geometry.Rect{}, true},
		{"a,b,c,d", geometry.Rect{}, true},
		{"0,0,-1,5", geometry.Rect{}, true},
		{"", geometry.Rect{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseRect(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRect(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("expected INVALID_INPUT, got %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("parseRect(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCompileFilter(t *testing.T) {
	prg, err := compileFilter("  ")
	if err != nil || prg != nil {
		t.Errorf("compileFilter(blank) = %v, %v; want nil, nil", prg, err)
	}

	if _, err := compileFilter(`kind == "transition" && width > 10`); err != nil {
		t.Errorf("valid filter rejected: %v", err)
	}

	for _, bad := range []string{`kind ==`, `colour == "red"`, `width + 1`} {
		if _, err := compileFilter(bad); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("compileFilter(%q) = %v, want INVALID_INPUT", bad, err)
		}
	}
}

func TestSelectHits(t *testing.T) {
	d := hitDiagram()

	tests := []struct {
		name  string
		sel   geometry.Rect
		where string
		want  []string
	}{
		{"everything", geometry.Rect{X: -50, Y: -50, Width: 600, Height: 300}, "", []string{"A", "B", "T", "A->B", "B->A"}},
		{"left corner", geometry.Rect{X: 0, Y: 0, Width: 5, Height: 5}, "", []string{"A", "T"}},
		{"transitions only", geometry.Rect{X: -50, Y: -50, Width: 600, Height: 300}, `kind == "transition"`, []string{"A->B", "B->A"}},
		{"by strategy", geometry.Rect{X: -50, Y: -50, Width: 600, Height: 300}, `strategy == "S"`, []string{"B->A"}},
		{"by geometry", geometry.Rect{X: -50, Y: -50, Width: 600, Height: 300}, `width >= 400`, []string{"T"}},
		{"empty area", geometry.Rect{X: 1000, Y: 1000, Width: 5, Height: 5}, "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compileFilter(tt.where)
			if err != nil {
				t.Fatalf("compileFilter error: %v", err)
			}
			hits, err := selectHits(d, tt.sel, filter)
			if err != nil {
				t.Fatalf("selectHits error: %v", err)
			}
			got := []string{}
			for _, h := range hits {
				got = append(got, h.ID)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("hits mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelectHitsRecord(t *testing.T) {
	hits, err := selectHits(hitDiagram(), geometry.Rect{X: 150, Y: 19, Width: 1, Height: 1}, nil)
	if err != nil {
		t.Fatalf("selectHits error: %v", err)
	}

	want := []hitRecord{
		{ID: "T", Kind: "task", Box: geometry.Rect{X: -10, Y: -10, Width: 420, Height: 60}},
		{ID: "A->B", Kind: "transition", Strategy: "C", Box: geometry.Rect{X: 100, Y: 18, Width: 200, Height: 4}},
	}
	if diff := cmp.Diff(want, hits); diff != "" {
		t.Errorf("hit records mismatch (-want +got):\n%s", diff)
	}
}
