package geom

import "math"

// Transform places a symbol's local geometry in the world.
//
// Two forms are supported and selected by the fields set:
//
//   - Rotation != 0 and InternalOffsetY != 0: the local point is first shifted
//     by InternalOffsetY (so the symbol axis sits on local y=0), rotated about
//     the origin, then translated.
//   - Otherwise: the point is rotated and scaled about (CenterX, CenterY) and
//     then translated.
//
// Rotation is in degrees, clockwise on screen (y-down).
type Transform struct {
	TranslateX      float64 `json:"translate_x"`
	TranslateY      float64 `json:"translate_y"`
	Rotation        float64 `json:"rotation"`
	InternalOffsetY float64 `json:"internal_offset_y,omitempty"`
	CenterX         float64 `json:"center_x,omitempty"`
	CenterY         float64 `json:"center_y,omitempty"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	ScaleX          float64 `json:"scale_x,omitempty"`
	ScaleY          float64 `json:"scale_y,omitempty"`
}

// Translation returns an identity-rotation transform.
func Translation(x, y float64) Transform {
	return Transform{TranslateX: x, TranslateY: y}
}

func (t Transform) scale() (float64, float64) {
	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return sx, sy
}

// ToWorld maps a local point to world coordinates.
func (t Transform) ToWorld(p Point) Point {
	if t.Rotation != 0 && t.InternalOffsetY != 0 {
		x, y := Rotate(p.X, p.Y+t.InternalOffsetY, t.Rotation)
		return Point{X: x + t.TranslateX, Y: y + t.TranslateY}
	}
	sx, sy := t.scale()
	x := (p.X - t.CenterX) * sx
	y := (p.Y - t.CenterY) * sy
	x, y = Rotate(x, y, t.Rotation)
	return Point{X: x + t.CenterX + t.TranslateX, Y: y + t.CenterY + t.TranslateY}
}

// BoxToWorld maps a local box to the axis-aligned world box enclosing its
// four transformed corners. The owner is preserved.
func (t Transform) BoxToWorld(b Bbox) Bbox {
	var bounds Bounds
	for _, c := range [4]Point{
		{X: b.X, Y: b.Y},
		{X: b.Right(), Y: b.Y},
		{X: b.X, Y: b.Bottom()},
		{X: b.Right(), Y: b.Bottom()},
	} {
		bounds.AddPoint(t.ToWorld(c))
	}
	out := bounds.Box()
	out.Owner = b.Owner
	return out
}

// SegmentToWorld maps both endpoints of s.
func (t Transform) SegmentToWorld(s Segment) Segment {
	return Segment{A: t.ToWorld(s.A), B: t.ToWorld(s.B)}
}

// Rotate turns (x, y) by deg degrees about the origin. Quarter turns are
// computed exactly.
func Rotate(x, y, deg float64) (float64, float64) {
	switch normalize(deg) {
	case 0:
		return x, y
	case 90:
		return -y, x
	case 180:
		return -x, -y
	case 270:
		return y, -x
	}
	rad := deg * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)
	return x*c - y*s, x*s + y*c
}

func normalize(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}
