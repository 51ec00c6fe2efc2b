package flow

import (
	"errors"
	"math"
	"testing"

	"github.com/matzehuels/procflow/pkg/geometry"
	"github.com/matzehuels/procflow/pkg/layout/route"
)

func TestRouteEastIsSBend(t *testing.T) {
	start := geometry.Pt(0, 0)
	for _, dy := range []float64{-400, -90, -40, 0, 20, 60, 95, 400} {
		end := geometry.Pt(ActivityWidth+MinSeparation, dy)
		l, err := Route(start, end)
		if err != nil {
			t.Fatalf("Route(dy=%v): %v", dy, err)
		}
		if l.StartSide != geometry.East || l.EndSide != geometry.West || l.Strategy != route.SBend {
			t.Errorf("Route(dy=%v) = %v->%v %s, want E->W S", dy, l.StartSide, l.EndSide, l.Strategy)
		}
	}
}

func TestRouteSameRow(t *testing.T) {
	l, err := Route(geometry.Pt(0, 0), geometry.Pt(200, 0))
	if err != nil {
		t.Fatal(err)
	}
	if l.StartSide != geometry.East || l.EndSide != geometry.West || l.Strategy != route.SBend {
		t.Errorf("got %v->%v %s, want E->W S", l.StartSide, l.EndSide, l.Strategy)
	}
	if l.End().X <= l.Start().X {
		t.Errorf("end x %v should be right of start x %v", l.End().X, l.Start().X)
	}
	if l.Start() != geometry.Pt(121, 32.5) || l.End() != geometry.Pt(199, 32.5) {
		t.Errorf("endpoints = %v, %v; want (121,32.5), (199,32.5)", l.Start(), l.End())
	}
}

func TestRouteNearOverlap(t *testing.T) {
	l, err := Route(geometry.Pt(0, 0), geometry.Pt(5, 5))
	if err != nil {
		t.Fatal(err)
	}
	if l.Strategy == route.SBend {
		t.Fatalf("near-overlap routed as S-bend")
	}
	if l.Strategy != route.Center || l.StartSide != geometry.East || l.EndSide != geometry.East {
		t.Errorf("got %v->%v %s, want E->E C", l.StartSide, l.EndSide, l.Strategy)
	}
	// The loop-back swings T past the rightmost attachment point.
	if got, want := l.Path[1].X, 5+121.0+MinSeparation; got != want {
		t.Errorf("loop x = %v, want %v", got, want)
	}
}

func TestRouteShapes(t *testing.T) {
	tests := []struct {
		name       string
		start, end geometry.Point
		startSide  geometry.Side
		endSide    geometry.Side
		strategy   route.Strategy
		path       []geometry.Point
	}{
		{
			name:  "vertical S-bend",
			start: geometry.Pt(0, 0), end: geometry.Pt(0, 200),
			startSide: geometry.South, endSide: geometry.North, strategy: route.SBend,
			path: []geometry.Point{{X: 60, Y: 66}, {X: 60, Y: 132.5}, {X: 60, Y: 132.5}, {X: 60, Y: 199}},
		},
		{
			name:  "L-bend east to north",
			start: geometry.Pt(0, 0), end: geometry.Pt(70, 60),
			startSide: geometry.East, endSide: geometry.North, strategy: route.LBend,
			path: []geometry.Point{{X: 121, Y: 32.5}, {X: 130, Y: 32.5}, {X: 130, Y: 59}},
		},
		{
			name:  "L-bend south to west",
			start: geometry.Pt(0, 0), end: geometry.Pt(70, 40),
			startSide: geometry.South, endSide: geometry.West, strategy: route.LBend,
			path: []geometry.Point{{X: 60, Y: 66}, {X: 60, Y: 72.5}, {X: 69, Y: 72.5}},
		},
		{
			name:  "west loop-back",
			start: geometry.Pt(100, 0), end: geometry.Pt(90, 10),
			startSide: geometry.West, endSide: geometry.West, strategy: route.Center,
			path: []geometry.Point{{X: 99, Y: 32.5}, {X: 59, Y: 32.5}, {X: 59, Y: 42.5}, {X: 89, Y: 42.5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Route(tt.start, tt.end)
			if err != nil {
				t.Fatal(err)
			}
			if l.StartSide != tt.startSide || l.EndSide != tt.endSide || l.Strategy != tt.strategy {
				t.Fatalf("got %v->%v %s, want %v->%v %s",
					l.StartSide, l.EndSide, l.Strategy, tt.startSide, tt.endSide, tt.strategy)
			}
			if len(l.Path) != len(tt.path) {
				t.Fatalf("path = %v, want %v", l.Path, tt.path)
			}
			for i := range tt.path {
				if l.Path[i] != tt.path[i] {
					t.Errorf("path[%d] = %v, want %v", i, l.Path[i], tt.path[i])
				}
			}
		})
	}
}

func TestRouteNoRoute(t *testing.T) {
	l, err := Route(geometry.Pt(200, 100), geometry.Pt(100, 67.5))
	if !errors.Is(err, route.ErrNoRoute) {
		t.Fatalf("err = %v, want ErrNoRoute", err)
	}
	if l.Quadrant != geometry.NorthWest || len(l.Path) != 0 {
		t.Errorf("line = %+v, want NW quadrant and no path", l)
	}
}

func TestRouteNextToNoRoute(t *testing.T) {
	// Half a pixel lower the end center drops below the start's top edge,
	// the placement counts as overlapping and gets the loop-back.
	l, err := Route(geometry.Pt(200, 100), geometry.Pt(100, 68))
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if l.StartSide != geometry.West || l.EndSide != geometry.West || l.Strategy != route.Center {
		t.Errorf("line = %v->%v %s, want W->W C", l.StartSide, l.EndSide, l.Strategy)
	}
}

func TestRouteDegenerate(t *testing.T) {
	if _, err := Route(geometry.Pt(math.NaN(), 0), geometry.Pt(0, 0)); !errors.Is(err, route.ErrDegenerate) {
		t.Errorf("err = %v, want ErrDegenerate", err)
	}
	if _, err := Route(geometry.Pt(0, 0), geometry.Pt(math.Inf(1), 0)); !errors.Is(err, route.ErrDegenerate) {
		t.Errorf("err = %v, want ErrDegenerate", err)
	}
}

func TestDangling(t *testing.T) {
	p := geometry.Pt(100, 50)

	trig := Trigger(p)
	want := geometry.Rect{X: 100 - 24 - 1 - 1.5, Y: 50 - 24 + 32.5, Width: 24, Height: 24}
	if trig.Box != want || trig.Side != geometry.West || trig.Direction != route.Right {
		t.Errorf("Trigger = %+v, want box %+v on W", trig, want)
	}

	term := Terminal(p)
	want = geometry.Rect{X: 100 + 120 + 1 + 3, Y: 50 - 24 + 32.5, Width: 24, Height: 24}
	if term.Box != want || term.Side != geometry.East {
		t.Errorf("Terminal = %+v, want box %+v on E", term, want)
	}
}
