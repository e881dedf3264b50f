package symbol

import (
	"math"

	"github.com/matzehuels/drivetrain/pkg/geom"
	"github.com/matzehuels/drivetrain/pkg/transmission"
)

// ShaftSpacing is the perpendicular offset of the output shaft of a reversed
// parallel pair from its input shaft line.
const ShaftSpacing = 20.0

// ParallelSpec holds the footprint constants of a parallel-axis kind.
type ParallelSpec struct {
	// Span is the total height shared by the two rectangles.
	Span float64
	// Width is the extent along the flow direction.
	Width float64
	// Gap separates the two rectangles (room for a belt or chain).
	Gap float64
	// MinAbs is the absolute minimum rectangle height.
	MinAbs float64
}

// MinHeight is the floor applied to each rectangle: 15% of the span or the
// absolute minimum, whichever is larger.
func (s ParallelSpec) MinHeight() float64 { return math.Max(0.15*s.Span, s.MinAbs) }

var parallelSpecs = map[transmission.Kind]ParallelSpec{
	transmission.KindGear:        {Span: 60, Width: 30, Gap: 0, MinAbs: 8},
	transmission.KindBelt:        {Span: 70, Width: 30, Gap: 20, MinAbs: 10},
	transmission.KindToothedBelt: {Span: 70, Width: 30, Gap: 20, MinAbs: 10},
	transmission.KindChain:       {Span: 70, Width: 30, Gap: 20, MinAbs: 10},
}

// SpecFor returns the footprint constants of a parallel kind. Non-parallel
// kinds get the gear constants.
func SpecFor(kind transmission.Kind) ParallelSpec {
	if s, ok := parallelSpecs[kind]; ok {
		return s
	}
	return parallelSpecs[transmission.KindGear]
}

// SplitHeights divides spec.Span between a driver of size a and a driven
// element of size b. Sizes below 1 are treated as 1. Equal sizes split 50/50;
// otherwise the split is proportional and each part is held at or above
// spec.MinHeight. The two heights always sum to spec.Span.
func SplitHeights(a, b float64, spec ParallelSpec) (h1, h2 float64) {
	a, b = math.Max(a, 1), math.Max(b, 1)
	s := spec.Span
	if a == b {
		return s / 2, s / 2
	}
	floor := math.Min(spec.MinHeight(), s/2)
	h1 = clamp(s*a/(a+b), floor, s-floor)
	return h1, s - h1
}

// Sizes returns the driver and driven size values used for the height split.
// Gear, chain and toothed belt prefer teeth counts, belt prefers diameters;
// each falls back to the other pair when its preferred pair is missing.
func Sizes(kind transmission.Kind, in transmission.Inputs) (float64, float64) {
	teeth := func() (float64, float64) { return float64(in.Z1), float64(in.Z2) }
	diam := func() (float64, float64) { return in.D1, in.D2 }
	first, second := teeth, diam
	if kind == transmission.KindBelt {
		first, second = diam, teeth
	}
	if a, b := first(); a > 0 || b > 0 {
		return a, b
	}
	return second()
}

func parallelProvider(kind transmission.Kind) Provider {
	spec := SpecFor(kind)
	return func(p Params) Geometry {
		a, b := Sizes(kind, p.Inputs)
		h1, h2 := SplitHeights(a, b, spec)
		return parallelGeometry(kind, spec, h1, h2, p)
	}
}

// parallelGeometry lays out the pair with the driver above the shaft line
// and the driven element below it; Inverted swaps the sides.
func parallelGeometry(kind transmission.Kind, spec ParallelSpec, h1, h2 float64, p Params) Geometry {
	w, gap := spec.Width, spec.Gap
	top, bottom := h1, h2
	if p.Layout == transmission.LayoutInverted {
		top, bottom = h2, h1
	}
	upper := geom.Rect(0, 0, w, top)
	lower := geom.Rect(0, top+gap, w, bottom)
	axis := top + gap/2

	g := Geometry{
		Width:  w,
		Height: top + gap + bottom,
		AxisY:  axis,
		Input:  geom.Point{X: 0, Y: axis},
		Output: geom.Point{X: w, Y: axis},
		Boxes:  []geom.Bbox{upper, lower},
	}
	g.Marks = append(g.Marks, boxMark(RoleBody, upper), boxMark(RoleBody, lower))

	if gap > 0 {
		switch kind {
		case transmission.KindChain:
			strip := geom.Rect(w/2-1, top, 2, gap)
			g.Boxes = append(g.Boxes, strip)
			g.Marks = append(g.Marks, boxMark(RoleChain, strip))
		case transmission.KindToothedBelt:
			strip := geom.Rect(w/4, top, w/2, gap)
			g.Boxes = append(g.Boxes, strip)
			g.Marks = append(g.Marks, boxMark(RoleHatch, strip))
		default:
			strip := geom.Rect(w/4, top, w/2, gap)
			g.Boxes = append(g.Boxes, strip)
			g.Marks = append(g.Marks, boxMark(RoleBelt, strip))
		}
	}

	g.Marks = append(g.Marks, lineMark(RoleShaft, 0, axis, w, axis))
	if p.Reversed {
		dy := ShaftSpacing
		if p.Layout == transmission.LayoutInverted {
			dy = -ShaftSpacing
		}
		g.Output = geom.Point{X: 0, Y: axis + dy}
		g.FreeEnds = []geom.Point{{X: w, Y: axis}}
		g.Marks = append(g.Marks, lineMark(RoleShaft, 0, axis+dy, w/2, axis+dy))
	}
	g.Anchors = boxAnchors(upper, lower)
	return g
}
