package geometry

import (
	"math"
	"testing"
)

func TestOverlap(t *testing.T) {
	comp := Rect{X: 100, Y: 100, Width: 50, Height: 40}

	tests := []struct {
		name string
		sel  Rect
		want bool
	}{
		{"containing", Rect{X: 0, Y: 0, Width: 500, Height: 500}, true},
		{"inside", Rect{X: 110, Y: 110, Width: 5, Height: 5}, true},
		{"partial", Rect{X: 140, Y: 130, Width: 50, Height: 50}, true},
		{"touching right edge", Rect{X: 150, Y: 100, Width: 10, Height: 10}, true},
		{"above", Rect{X: 100, Y: 0, Width: 50, Height: 99}, false},
		{"below", Rect{X: 100, Y: 141, Width: 50, Height: 10}, false},
		{"left", Rect{X: 0, Y: 100, Width: 99, Height: 40}, false},
		{"right", Rect{X: 151, Y: 100, Width: 10, Height: 40}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlap(tt.sel, comp); got != tt.want {
				t.Errorf("Overlap(%+v) = %v, want %v", tt.sel, got, tt.want)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	var b Bounds
	if !b.Empty() {
		t.Fatal("zero Bounds should be empty")
	}
	if b.Width() != 0 || b.Height() != 0 {
		t.Errorf("empty bounds size = %vx%v, want 0x0", b.Width(), b.Height())
	}

	b.Extend(Rect{X: 10, Y: 20, Width: 30, Height: 40})
	b.Extend(Rect{X: -5, Y: 50, Width: 10, Height: 100})

	want := Rect{X: -5, Y: 20, Width: 45, Height: 130}
	if got := b.Rect(); got != want {
		t.Errorf("Rect() = %+v, want %+v", got, want)
	}
}

func TestRectFromPoints(t *testing.T) {
	got := RectFromPoints(Pt(5, 5), Pt(-1, 10), Pt(3, -2))
	want := Rect{X: -1, Y: -2, Width: 6, Height: 12}
	if got != want {
		t.Errorf("RectFromPoints = %+v, want %+v", got, want)
	}
	if (RectFromPoints() != Rect{}) {
		t.Error("RectFromPoints() should be zero")
	}
}

func TestClassify(t *testing.T) {
	origin := Pt(0, 0)
	tests := []struct {
		end  Point
		want Quadrant
	}{
		{Pt(10, 10), SouthEast},
		{Pt(0, 0), SouthEast},
		{Pt(10, -10), NorthEast},
		{Pt(-10, -10), NorthWest},
		{Pt(-10, 10), SouthWest},
		{Pt(-10, 0), SouthWest},
		{Pt(math.NaN(), 0), QuadrantNone},
		{Pt(0, math.Inf(1)), QuadrantNone},
	}
	for _, tt := range tests {
		if got := Classify(origin, tt.end); got != tt.want {
			t.Errorf("Classify(origin, %+v) = %v, want %v", tt.end, got, tt.want)
		}
	}
}

func TestSide(t *testing.T) {
	for _, s := range []Side{North, East, South, West} {
		if s.Opposite().Opposite() != s {
			t.Errorf("%v.Opposite().Opposite() != %v", s, s)
		}
		if ParseSide(s.String()) != s {
			t.Errorf("ParseSide(%q) round-trip failed", s.String())
		}
		if s.Vertical() == s.Horizontal() {
			t.Errorf("%v must be exactly one of vertical or horizontal", s)
		}
	}
	if ParseSide("X") != SideNone {
		t.Error("unknown side should parse to SideNone")
	}
}
