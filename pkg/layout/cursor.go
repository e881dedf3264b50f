package layout

import (
	"github.com/matzehuels/drivetrain/pkg/geom"
	"github.com/matzehuels/drivetrain/pkg/transmission"
)

// Cursor is the drafting position of the walk: where the next element's
// input shaft attaches and which way power flows from there. Step functions
// take a Cursor by value and return the advanced one; nothing mutates it in
// place.
type Cursor struct {
	X   float64                `json:"x" toml:"x"`
	Y   float64                `json:"y" toml:"y"`
	Dir transmission.Direction `json:"direction" toml:"direction"`
}

// Point returns the cursor position.
func (c Cursor) Point() geom.Point { return geom.Point{X: c.X, Y: c.Y} }

// At returns a cursor at p with the same direction.
func (c Cursor) At(p geom.Point) Cursor { return Cursor{X: p.X, Y: p.Y, Dir: c.Dir} }

// Facing returns the cursor turned to d.
func (c Cursor) Facing(d transmission.Direction) Cursor { return Cursor{X: c.X, Y: c.Y, Dir: d} }

// Advance moves the cursor by dist along its direction.
func (c Cursor) Advance(dist float64) Cursor {
	dx, dy := c.Dir.Vector()
	return Cursor{X: c.X + dx*dist, Y: c.Y + dy*dist, Dir: c.Dir}
}

// Offset moves the cursor by dist perpendicular to its direction, positive
// to the right-hand side of the flow (down for a rightward cursor).
func (c Cursor) Offset(dist float64) Cursor {
	dx, dy := c.Dir.Clockwise().Vector()
	return Cursor{X: c.X + dx*dist, Y: c.Y + dy*dist, Dir: c.Dir}
}

func (c Cursor) direction() transmission.Direction {
	if c.Dir.Valid() {
		return c.Dir
	}
	return transmission.Right
}
