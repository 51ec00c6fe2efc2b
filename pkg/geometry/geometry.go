// Package geometry provides the small set of planar primitives shared by the
// layout engine: points, rectangles, running bounds, compass sides and
// relative quadrants.
//
// All coordinates are diagram-space pixels with the origin at the top-left
// corner and y growing downwards.
package geometry

import "math"

// Point is a position in diagram space.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the midpoint of r.
func (r Rect) Center() Point { return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2} }

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Inflate grows r by d on every side.
func (r Rect) Inflate(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// RectFromPoints returns the smallest rectangle enclosing pts.
// It returns the zero Rect when pts is empty.
func RectFromPoints(pts ...Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Overlap reports whether the selection rectangle touches or intersects the
// component rectangle. Rectangles that share only an edge overlap.
func Overlap(sel, comp Rect) bool {
	return !(sel.Bottom() < comp.Y ||
		sel.Y > comp.Bottom() ||
		sel.Right() < comp.X ||
		sel.X > comp.Right())
}

// Bounds accumulates the extent of a set of rectangles.
// The zero value is an empty accumulator.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
	n                      int
}

// Extend grows b to include r.
func (b *Bounds) Extend(r Rect) {
	if b.n == 0 {
		b.MinX, b.MinY, b.MaxX, b.MaxY = r.X, r.Y, r.Right(), r.Bottom()
	} else {
		b.MinX = math.Min(b.MinX, r.X)
		b.MinY = math.Min(b.MinY, r.Y)
		b.MaxX = math.Max(b.MaxX, r.Right())
		b.MaxY = math.Max(b.MaxY, r.Bottom())
	}
	b.n++
}

// Empty reports whether no rectangle has been added.
func (b Bounds) Empty() bool { return b.n == 0 }

// Width returns the horizontal extent, or 0 when empty.
func (b Bounds) Width() float64 {
	if b.n == 0 {
		return 0
	}
	return b.MaxX - b.MinX
}

// Height returns the vertical extent, or 0 when empty.
func (b Bounds) Height() float64 {
	if b.n == 0 {
		return 0
	}
	return b.MaxY - b.MinY
}

// Rect returns the accumulated extent as a rectangle.
func (b Bounds) Rect() Rect {
	if b.n == 0 {
		return Rect{}
	}
	return Rect{X: b.MinX, Y: b.MinY, Width: b.MaxX - b.MinX, Height: b.MaxY - b.MinY}
}
