package transmission

import "fmt"

// Direction is a cardinal drafting direction in screen space (y grows downward).
// The zero value means "unset" and is only meaningful for Stage.Turn.
type Direction uint8

const (
	DirNone Direction = iota
	Right
	Down
	Left
	Up
)

var directionNames = map[Direction]string{
	Right: "right",
	Down:  "down",
	Left:  "left",
	Up:    "up",
}

func (d Direction) String() string {
	if s, ok := directionNames[d]; ok {
		return s
	}
	return "none"
}

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool { return d >= Right && d <= Up }

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Right:
		return Left
	case Left:
		return Right
	case Up:
		return Down
	case Down:
		return Up
	}
	return DirNone
}

// Clockwise returns the direction rotated a quarter turn clockwise on screen.
func (d Direction) Clockwise() Direction {
	switch d {
	case Right:
		return Down
	case Down:
		return Left
	case Left:
		return Up
	case Up:
		return Right
	}
	return DirNone
}

// Horizontal reports whether d runs along the x axis.
func (d Direction) Horizontal() bool { return d == Right || d == Left }

// Angle returns the rotation in degrees that maps +x onto d.
func (d Direction) Angle() float64 {
	switch d {
	case Down:
		return 90
	case Left:
		return 180
	case Up:
		return -90
	}
	return 0
}

// Vector returns the unit step for d.
func (d Direction) Vector() (dx, dy float64) {
	switch d {
	case Right:
		return 1, 0
	case Left:
		return -1, 0
	case Down:
		return 0, 1
	case Up:
		return 0, -1
	}
	return 0, 0
}

// ParseDirection converts "right", "left", "up", "down" (or "" for none).
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "":
		return DirNone, nil
	case "right", "r", "east":
		return Right, nil
	case "left", "l", "west":
		return Left, nil
	case "up", "u", "north":
		return Up, nil
	case "down", "d", "south":
		return Down, nil
	}
	return DirNone, fmt.Errorf("unknown direction %q", s)
}

func (d Direction) MarshalText() ([]byte, error) {
	if d == DirNone {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
