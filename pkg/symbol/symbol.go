// Package symbol provides the per-kind geometry of scheme symbols.
//
// Every provider is a pure, total function of a variant's numeric inputs and
// layout flags: it returns the symbol's local silhouette as a list of
// sub-boxes, the marks a renderer paints, its shaft terminals and a set of
// anchor candidates for callout leaders. Providers know nothing about where
// the symbol ends up; placement is the job of package layout.
//
// Local frames have the input shaft entering at x=0 heading in +x, with y
// growing downward.
package symbol

import (
	"github.com/matzehuels/drivetrain/pkg/geom"
	"github.com/matzehuels/drivetrain/pkg/transmission"
)

// Params are the provider inputs for one variant.
type Params struct {
	Inputs   transmission.Inputs
	Layout   transmission.Layout
	Reversed bool
}

// ParamsOf extracts provider inputs from a variant.
func ParamsOf(v transmission.Variant) Params {
	return Params{Inputs: v.Inputs, Layout: v.Layout, Reversed: v.Reversed}
}

// Role tells a renderer how to paint a mark.
type Role string

const (
	RoleBody    Role = "body"  // gear, pulley, sprocket or wheel outline
	RoleBelt    Role = "belt"  // smooth belt strip
	RoleHatch   Role = "hatch" // toothed belt strip
	RoleChain   Role = "chain" // chain centerline
	RoleShaft   Role = "shaft"
	RoleDash    Role = "dash" // bevel pitch-cone dash
	RoleJoint   Role = "joint"
	RoleMotor   Role = "motor"
	RoleRing    Role = "ring"
	RoleCarrier Role = "carrier"
)

// Mark is one drawable primitive in local coordinates. Exactly one of Box or
// Line is set.
type Mark struct {
	Role Role          `json:"role"`
	Box  *geom.Bbox    `json:"box,omitempty"`
	Line *geom.Segment `json:"line,omitempty"`
}

func boxMark(r Role, b geom.Bbox) Mark { return Mark{Role: r, Box: &b} }

func lineMark(r Role, x0, y0, x1, y1 float64) Mark {
	return Mark{Role: r, Line: &geom.Segment{A: geom.Point{X: x0, Y: y0}, B: geom.Point{X: x1, Y: y1}}}
}

// Geometry is the local description of a symbol.
type Geometry struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// AxisY is the local y of the input shaft line.
	AxisY float64 `json:"axis_y"`
	// Input and Output are the local shaft terminals. For turning kinds
	// Output is the base orientation (heading +y); for a reversed parallel
	// pair it lies on the input side.
	Input  geom.Point `json:"input"`
	Output geom.Point `json:"output"`
	// FreeEnds are shaft ends that need a bearing but connect to nothing.
	FreeEnds []geom.Point `json:"free_ends,omitempty"`
	// Boxes is the occupied silhouette used for overlap and callout checks.
	Boxes   []geom.Bbox  `json:"boxes"`
	Marks   []Mark       `json:"marks"`
	Anchors []geom.Point `json:"anchors"`
}

// Bounds returns the local extent of the symbol.
func (g Geometry) Bounds() geom.Bbox { return geom.Rect(0, 0, g.Width, g.Height) }

// Provider computes the geometry of one kind.
type Provider func(Params) Geometry

// providers is the single kind dispatch table.
var providers = map[transmission.Kind]Provider{
	transmission.KindGear:        parallelProvider(transmission.KindGear),
	transmission.KindBelt:        parallelProvider(transmission.KindBelt),
	transmission.KindChain:       parallelProvider(transmission.KindChain),
	transmission.KindToothedBelt: parallelProvider(transmission.KindToothedBelt),
	transmission.KindBevel:       bevel,
	transmission.KindWorm:        worm,
	transmission.KindPlanetary:   planetary,
}

// For returns the provider for kind. Unknown kinds fall back to the gear
// provider so that a half-edited definition still draws.
func For(kind transmission.Kind) Provider {
	if p, ok := providers[kind]; ok {
		return p
	}
	return providers[transmission.KindGear]
}

// Of computes the local geometry of a variant of the given kind.
func Of(kind transmission.Kind, p Params) Geometry { return For(kind)(p) }

// SubBboxes returns the local occupied sub-boxes of a symbol.
func SubBboxes(kind transmission.Kind, p Params) []geom.Bbox {
	return Of(kind, p).Boxes
}

// AnchorCandidates returns the world-space leader anchors of a placed symbol.
func AnchorCandidates(kind transmission.Kind, p Params, t geom.Transform) []geom.Point {
	return WorldAnchors(Of(kind, p), t)
}

// WorldAnchors maps the anchors of g through t.
func WorldAnchors(g Geometry, t geom.Transform) []geom.Point {
	out := make([]geom.Point, len(g.Anchors))
	for i, a := range g.Anchors {
		out[i] = t.ToWorld(a)
	}
	return out
}

// boxAnchors returns the top and bottom edge midpoints of each box.
func boxAnchors(boxes ...geom.Bbox) []geom.Point {
	out := make([]geom.Point, 0, 2*len(boxes))
	for _, b := range boxes {
		c := b.Center()
		out = append(out, geom.Point{X: c.X, Y: b.Y}, geom.Point{X: c.X, Y: b.Bottom()})
	}
	return out
}

func atLeastOne(n int) float64 {
	if n < 1 {
		return 1
	}
	return float64(n)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
