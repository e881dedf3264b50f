// Package geom provides the small value types shared by the scheme layout
// engine: points, owner-tagged axis-aligned boxes, a running bounds
// accumulator and the affine symbol transform.
//
// All coordinates are screen-space user units with y growing downward.
package geom

import "math"

// Point is a 2D position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(q.X-p.X, q.Y-p.Y) }

// Segment is a straight line between two points.
type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// Len returns the segment length.
func (s Segment) Len() float64 { return s.A.Dist(s.B) }

// Bbox is an axis-aligned rectangle. Owner ties a region back to the symbol
// (or callout, or bearing) that produced it; geometry providers leave it empty.
type Bbox struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"width"`
	H     float64 `json:"height"`
	Owner string  `json:"owner,omitempty"`
}

// Rect builds an unowned box.
func Rect(x, y, w, h float64) Bbox { return Bbox{X: x, Y: y, W: w, H: h} }

// Right returns the maximum x.
func (b Bbox) Right() float64 { return b.X + b.W }

// Bottom returns the maximum y.
func (b Bbox) Bottom() float64 { return b.Y + b.H }

// Center returns the midpoint.
func (b Bbox) Center() Point { return Point{X: b.X + b.W/2, Y: b.Y + b.H/2} }

// Area returns W*H.
func (b Bbox) Area() float64 { return b.W * b.H }

// WithOwner returns a copy of b tagged with owner.
func (b Bbox) WithOwner(owner string) Bbox {
	b.Owner = owner
	return b
}

// Expand grows the box by d on every side.
func (b Bbox) Expand(d float64) Bbox {
	return Bbox{X: b.X - d, Y: b.Y - d, W: b.W + 2*d, H: b.H + 2*d, Owner: b.Owner}
}

// Contains reports whether p lies inside b (edges included).
func (b Bbox) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.Right() && p.Y >= b.Y && p.Y <= b.Bottom()
}

// Intersects is the separating-axis test on axis-aligned boxes. Boxes that
// only touch along an edge do not intersect.
func (b Bbox) Intersects(o Bbox) bool {
	return b.X < o.Right() && o.X < b.Right() && b.Y < o.Bottom() && o.Y < b.Bottom()
}

// OverlapArea returns the area of the intersection of b and o.
func (b Bbox) OverlapArea(o Bbox) float64 {
	w := math.Min(b.Right(), o.Right()) - math.Max(b.X, o.X)
	h := math.Min(b.Bottom(), o.Bottom()) - math.Max(b.Y, o.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Distance returns the gap between b and o, zero when they touch or overlap.
func (b Bbox) Distance(o Bbox) float64 {
	dx := math.Max(0, math.Max(o.X-b.Right(), b.X-o.Right()))
	dy := math.Max(0, math.Max(o.Y-b.Bottom(), b.Y-o.Bottom()))
	return math.Hypot(dx, dy)
}

// Union returns the smallest box containing b and o. The owner of b is kept.
func (b Bbox) Union(o Bbox) Bbox {
	x0, y0 := math.Min(b.X, o.X), math.Min(b.Y, o.Y)
	x1, y1 := math.Max(b.Right(), o.Right()), math.Max(b.Bottom(), o.Bottom())
	return Bbox{X: x0, Y: y0, W: x1 - x0, H: y1 - y0, Owner: b.Owner}
}

// SegmentBox returns the axis-aligned box around a segment, thickened by half
// a stroke so horizontal and vertical lines have a non-zero area.
func SegmentBox(s Segment, stroke float64) Bbox {
	x0, x1 := math.Min(s.A.X, s.B.X), math.Max(s.A.X, s.B.X)
	y0, y1 := math.Min(s.A.Y, s.B.Y), math.Max(s.A.Y, s.B.Y)
	h := stroke / 2
	return Bbox{X: x0 - h, Y: y0 - h, W: x1 - x0 + stroke, H: y1 - y0 + stroke}
}

// Bounds accumulates the extent of placed geometry.
// The zero value is empty.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
	valid      bool
}

// Empty reports whether nothing has been added yet.
func (b *Bounds) Empty() bool { return !b.valid }

// AddPoint grows the bounds to include p.
func (b *Bounds) AddPoint(p Point) {
	if !b.valid {
		b.MinX, b.MaxX, b.MinY, b.MaxY = p.X, p.X, p.Y, p.Y
		b.valid = true
		return
	}
	b.MinX = math.Min(b.MinX, p.X)
	b.MaxX = math.Max(b.MaxX, p.X)
	b.MinY = math.Min(b.MinY, p.Y)
	b.MaxY = math.Max(b.MaxY, p.Y)
}

// AddBox grows the bounds to include r.
func (b *Bounds) AddBox(r Bbox) {
	b.AddPoint(Point{X: r.X, Y: r.Y})
	b.AddPoint(Point{X: r.Right(), Y: r.Bottom()})
}

// Merge grows the bounds to include o.
func (b *Bounds) Merge(o Bounds) {
	if !o.valid {
		return
	}
	b.AddPoint(Point{X: o.MinX, Y: o.MinY})
	b.AddPoint(Point{X: o.MaxX, Y: o.MaxY})
}

// Box returns the accumulated extent, or a zero box when empty.
func (b Bounds) Box() Bbox {
	if !b.valid {
		return Bbox{}
	}
	return Bbox{X: b.MinX, Y: b.MinY, W: b.MaxX - b.MinX, H: b.MaxY - b.MinY}
}

// Padded returns the extent grown by pad on every side.
func (b Bounds) Padded(pad float64) Bbox { return b.Box().Expand(pad) }
