// Package support places bearing marks on shaft terminals.
package support

import (
	"math"
	"sort"

	"github.com/matzehuels/drivetrain/pkg/geom"
	"github.com/matzehuels/drivetrain/pkg/layout"
)

// JunctionTolerance is the distance below which two terminals are treated as
// the same shaft junction and share one bearing.
const JunctionTolerance = 0.5

// Bearing footprint, measured along and across its shaft.
const (
	Length = 10.0
	Depth  = 16.0
)

// Bearing is a support mark centred on one or more coincident terminals.
type Bearing struct {
	ID     string     `json:"id"`
	Center geom.Point `json:"center"`
	// Horizontal is the orientation of the supported shaft; the bearing is
	// drawn across it.
	Horizontal bool `json:"horizontal"`
	// Shared marks a junction between two or more elements.
	Shared bool `json:"shared"`
	// Free marks a shaft end nothing else attaches to.
	Free      bool     `json:"free"`
	Terminals []string `json:"terminals"`
}

// Box returns the world footprint of the bearing, owned by its id.
func (b Bearing) Box() geom.Bbox {
	w, h := Length, Depth
	if !b.Horizontal {
		w, h = h, w
	}
	return geom.Bbox{X: b.Center.X - w/2, Y: b.Center.Y - h/2, W: w, H: h, Owner: b.ID}
}

// Place derives bearings from terminals. Terminals whose positions agree
// within JunctionTolerance form one junction and get a single bearing; every
// other terminal, free or connecting, gets its own. Bearings come out in the
// order their first terminal appears.
func Place(terms []layout.Terminal) []Bearing {
	var groups [][]int
	for i, t := range terms {
		joined := false
		for g := range groups {
			if near(terms[groups[g][0]].Point, t.Point) {
				groups[g] = append(groups[g], i)
				joined = true
				break
			}
		}
		if !joined {
			groups = append(groups, []int{i})
		}
	}

	out := make([]Bearing, 0, len(groups))
	for _, g := range groups {
		first := terms[g[0]]
		b := Bearing{
			ID:         "bearing:" + first.ID,
			Center:     first.Point,
			Horizontal: first.Horizontal,
			Shared:     len(g) > 1,
		}
		for _, i := range g {
			b.Terminals = append(b.Terminals, terms[i].ID)
			if !terms[i].Connection {
				b.Free = true
			}
		}
		sort.Strings(b.Terminals)
		out = append(out, b)
	}
	return out
}

// Footprints returns the boxes of bs in order.
func Footprints(bs []Bearing) []geom.Bbox {
	out := make([]geom.Bbox, len(bs))
	for i, b := range bs {
		out[i] = b.Box()
	}
	return out
}

func near(a, b geom.Point) bool {
	return math.Abs(a.X-b.X) <= JunctionTolerance && math.Abs(a.Y-b.Y) <= JunctionTolerance
}
