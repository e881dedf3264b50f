package symbol

import (
	"github.com/matzehuels/drivetrain/pkg/geom"
	"github.com/matzehuels/drivetrain/pkg/transmission"
)

const (
	planetHeight   = 60.0
	ringThickness  = 8.0
	planetBodyX    = 12.0
	planetBodyW    = 20.0
	carrierX       = 38.0
	sunMinHalf     = 4.0
	sunMaxHalf     = 14.0
	motorBodyW     = 40.0
	motorBodyH     = 30.0
	motorShaftStub = 10.0
	jointLength    = 14.0
	jointHeight    = 12.0
	cardanMiddle   = 40.0
)

// DefaultSpacerLength is used for spacers whose length is zero or negative.
const DefaultSpacerLength = 40.0

// CardanLength is the fixed intrinsic length of a cardan spacer: two joints
// and the straight middle run.
const CardanLength = 2*jointLength + cardanMiddle

// planetary is coaxial: input and output share the axis. The sun size
// follows z1/z2 (sun over ring teeth); the planets fill the remaining space
// up to the ring.
func planetary(p Params) Geometry {
	w, h := TurnSize, planetHeight
	c := h / 2
	inner := c - ringThickness
	half := clamp(inner*atLeastOne(p.Inputs.Z1)/atLeastOne(p.Inputs.Z2), sunMinHalf, sunMaxHalf)

	ringTop := geom.Rect(planetBodyX-2, 0, planetBodyW+4, ringThickness)
	ringBottom := geom.Rect(planetBodyX-2, h-ringThickness, planetBodyW+4, ringThickness)
	planetTop := geom.Rect(planetBodyX, ringThickness, planetBodyW, inner-half)
	planetBottom := geom.Rect(planetBodyX, c+half, planetBodyW, inner-half)
	sun := geom.Rect(planetBodyX, c-half, planetBodyW, 2*half)

	ptc, pbc := planetTop.Center().Y, planetBottom.Center().Y
	return Geometry{
		Width:  w,
		Height: h,
		AxisY:  c,
		Input:  geom.Point{X: 0, Y: c},
		Output: geom.Point{X: w, Y: c},
		Boxes:  []geom.Bbox{ringTop, planetTop, sun, planetBottom, ringBottom},
		Marks: []Mark{
			boxMark(RoleRing, ringTop),
			boxMark(RoleRing, ringBottom),
			boxMark(RoleBody, planetTop),
			boxMark(RoleBody, planetBottom),
			boxMark(RoleBody, sun),
			lineMark(RoleShaft, 0, c, planetBodyX, c),
			lineMark(RoleCarrier, planetBodyX+planetBodyW, ptc, carrierX, ptc),
			lineMark(RoleCarrier, planetBodyX+planetBodyW, pbc, carrierX, pbc),
			lineMark(RoleCarrier, carrierX, ptc, carrierX, pbc),
			lineMark(RoleShaft, carrierX, c, w, c),
		},
		Anchors: boxAnchors(ringTop, ringBottom),
	}
}

// Motor returns the power source symbol: a housing with a shaft stub whose
// end is the output terminal. The motor has no input.
func Motor() Geometry {
	c := motorBodyH / 2
	body := geom.Rect(0, 0, motorBodyW, motorBodyH)
	w := motorBodyW + motorShaftStub
	return Geometry{
		Width:   w,
		Height:  motorBodyH,
		AxisY:   c,
		Input:   geom.Point{X: 0, Y: c},
		Output:  geom.Point{X: w, Y: c},
		Boxes:   []geom.Bbox{body},
		Marks:   []Mark{boxMark(RoleMotor, body), lineMark(RoleShaft, motorBodyW, c, w, c)},
		Anchors: boxAnchors(body),
	}
}

// SpacerLength returns the advance of a spacer along the flow direction.
func SpacerLength(s transmission.Spacer) float64 {
	if s.Style == transmission.SpacerCardan {
		return CardanLength
	}
	if s.Length <= 0 {
		return DefaultSpacerLength
	}
	return s.Length
}

// Spacer returns the local geometry of a spacer shaft. Spacers occupy no
// silhouette: their boxes are empty so they never take part in overlap
// detection.
func Spacer(s transmission.Spacer) Geometry {
	l := SpacerLength(s)
	g := Geometry{
		Width:   l,
		Height:  jointHeight,
		AxisY:   jointHeight / 2,
		Input:   geom.Point{X: 0, Y: jointHeight / 2},
		Output:  geom.Point{X: l, Y: jointHeight / 2},
		Anchors: []geom.Point{{X: l / 2, Y: jointHeight / 2}},
	}
	c := g.AxisY
	switch s.Style {
	case transmission.SpacerCardan:
		left := geom.Rect(0, 0, jointLength, jointHeight)
		right := geom.Rect(l-jointLength, 0, jointLength, jointHeight)
		g.Marks = []Mark{
			boxMark(RoleJoint, left),
			lineMark(RoleShaft, jointLength, c, l-jointLength, c),
			boxMark(RoleJoint, right),
		}
	case transmission.SpacerDashed:
		g.Marks = []Mark{lineMark(RoleDash, 0, c, l, c)}
	default:
		g.Marks = []Mark{lineMark(RoleShaft, 0, c, l, c)}
	}
	return g
}
