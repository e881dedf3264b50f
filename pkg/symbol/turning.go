package symbol

import (
	"math"

	"github.com/matzehuels/drivetrain/pkg/geom"
)

// TurnSize is the side of the square footprint shared by bevel, worm and
// planetary symbols.
const TurnSize = 50.0

const (
	bevelInset     = 4.0
	bevelThickness = 6.0
	bevelMinAngle  = 15.0
	bevelMaxAngle  = 75.0

	wormThickness = 12.0
	wormWheelH    = 8.0
	wormMinTeeth  = 20.0
	wormMaxTeeth  = 80.0
	wormMinWidth  = 16.0
	wormMaxWidth  = 40.0
)

// BevelAngle returns the pinion pitch-cone half-angle atan(z1/z2) in
// degrees, clamped to [15, 75].
func BevelAngle(z1, z2 int) float64 {
	deg := math.Atan(atLeastOne(z1)/atLeastOne(z2)) * 180 / math.Pi
	return clamp(deg, bevelMinAngle, bevelMaxAngle)
}

// WormWheelWidth scales the visible wheel width linearly with its teeth
// count, clamped to [16, 40] for 20..80 teeth.
func WormWheelWidth(z2 int) float64 {
	t := (clamp(atLeastOne(z2), wormMinTeeth, wormMaxTeeth) - wormMinTeeth) / (wormMaxTeeth - wormMinTeeth)
	return wormMinWidth + t*(wormMaxWidth-wormMinWidth)
}

// turningFrame is the base orientation of a turning symbol: input entering
// at the middle of the left edge heading right, output leaving at the middle
// of the bottom edge heading down.
func turningFrame() Geometry {
	l := TurnSize
	return Geometry{
		Width:  l,
		Height: l,
		AxisY:  l / 2,
		Input:  geom.Point{X: 0, Y: l / 2},
		Output: geom.Point{X: l / 2, Y: l},
	}
}

// bevel draws the pinion face perpendicular to the input shaft and the gear
// face perpendicular to the output shaft. Both faces meet at the pitch point,
// which the cone dash joins to the apex at the centre of the footprint.
func bevel(p Params) Geometry {
	g := turningFrame()
	l := TurnSize
	c := l / 2
	r := c - bevelInset
	delta := BevelAngle(p.Inputs.Z1, p.Inputs.Z2) * math.Pi / 180
	px, py := c-r*math.Cos(delta), c+r*math.Sin(delta)
	halfPinion := math.Max(r*math.Sin(delta), 1)
	halfGear := math.Max(r*math.Cos(delta), 1)

	pinion := geom.Rect(px-bevelThickness/2, c-halfPinion, bevelThickness, 2*halfPinion)
	gear := geom.Rect(c-halfGear, py-bevelThickness/2, 2*halfGear, bevelThickness)

	g.Boxes = []geom.Bbox{pinion, gear}
	g.Marks = []Mark{
		boxMark(RoleBody, pinion),
		boxMark(RoleBody, gear),
		lineMark(RoleDash, c, c, px, py),
		lineMark(RoleShaft, 0, c, px, c),
		lineMark(RoleShaft, c, py, c, l),
	}
	g.Anchors = []geom.Point{
		{X: px, Y: pinion.Y},
		{X: gear.Right(), Y: py},
		{X: gear.X, Y: gear.Bottom()},
		{X: pinion.Right(), Y: pinion.Bottom()},
	}
	return g
}

// worm draws the worm along the input shaft and the wheel beneath it. The
// worm shaft runs through to the far edge, where it ends free.
func worm(p Params) Geometry {
	g := turningFrame()
	l := TurnSize
	c := l / 2
	w := WormWheelWidth(p.Inputs.Z2)

	screw := geom.Rect(6, c-wormThickness/2, l-12, wormThickness)
	wheel := geom.Rect(c-w/2, c+wormThickness/2, w, wormWheelH)

	g.Boxes = []geom.Bbox{screw, wheel}
	g.FreeEnds = []geom.Point{{X: l, Y: c}}
	g.Marks = []Mark{
		boxMark(RoleBody, screw),
		boxMark(RoleBody, wheel),
		lineMark(RoleShaft, 0, c, l, c),
		lineMark(RoleShaft, c, wheel.Bottom(), c, l),
	}
	g.Anchors = boxAnchors(screw, wheel)
	return g
}
