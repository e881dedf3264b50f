package layout

import "github.com/matzehuels/drivetrain/pkg/transmission"

// Orientation is the (rotation, mirror) pair applied to a turning symbol's
// base frame, which enters heading right and leaves heading down. Mirrors
// are applied before the rotation, about the footprint centre.
type Orientation struct {
	Rotation float64
	MirrorX  bool
	MirrorY  bool
}

type turnKey struct{ in, out transmission.Direction }

var turnTable = map[turnKey]Orientation{
	{transmission.Right, transmission.Down}: {Rotation: 0},
	{transmission.Right, transmission.Up}:   {Rotation: 0, MirrorY: true},
	{transmission.Left, transmission.Down}:  {Rotation: 0, MirrorX: true},
	{transmission.Left, transmission.Up}:    {Rotation: 0, MirrorX: true, MirrorY: true},
	{transmission.Down, transmission.Left}:  {Rotation: 90},
	{transmission.Down, transmission.Right}: {Rotation: 90, MirrorY: true},
	{transmission.Up, transmission.Right}:   {Rotation: -90},
	{transmission.Up, transmission.Left}:    {Rotation: -90, MirrorY: true},
}

// Turn resolves the orientation for a turn from in to out. Turns that are
// not a quarter turn (unset, straight on or back) fall back to a clockwise
// turn; the resolved output direction is returned alongside.
func Turn(in, out transmission.Direction) (Orientation, transmission.Direction) {
	if o, ok := turnTable[turnKey{in, out}]; ok {
		return o, out
	}
	out = in.Clockwise()
	return turnTable[turnKey{in, out}], out
}

func (o Orientation) scale() (float64, float64) {
	sx, sy := 1.0, 1.0
	if o.MirrorX {
		sx = -1
	}
	if o.MirrorY {
		sy = -1
	}
	return sx, sy
}
