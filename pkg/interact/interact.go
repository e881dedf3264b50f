// Package interact maps user navigation back to placed scheme elements.
//
// The index is a flat draw-order list; lookups are linear scans, which is
// fine for schemes of a few dozen symbols.
package interact

import (
	"math"

	"github.com/matzehuels/drivetrain/pkg/geom"
)

// Entry is one navigable element.
type Entry struct {
	// ID is the owner id of the placed symbol.
	ID     string     `json:"id"`
	Center geom.Point `json:"center"`
	Bounds geom.Bbox  `json:"bounds"`
	// Element is the index into the element list, -1 for the power source.
	Element int `json:"element"`
	// Variant is the variant index within a stage, -1 for spacers and the source.
	Variant int    `json:"variant"`
	Label   string `json:"label,omitempty"`
}

// Index is the draw-order list of entries.
type Index struct {
	Entries []Entry `json:"entries"`
}

// Len returns the number of entries.
func (x *Index) Len() int { return len(x.Entries) }

// Next returns the index after i, wrapping around. An empty index returns -1.
func (x *Index) Next(i int) int { return x.step(i, 1) }

// Prev returns the index before i, wrapping around. An empty index returns -1.
func (x *Index) Prev(i int) int { return x.step(i, -1) }

func (x *Index) step(i, d int) int {
	n := len(x.Entries)
	if n == 0 {
		return -1
	}
	return ((i+d)%n + n) % n
}

// Find returns the position of the entry with the given id.
func (x *Index) Find(id string) (int, bool) {
	for i, e := range x.Entries {
		if e.ID == id {
			return i, true
		}
	}
	return -1, false
}

// At returns the entry at i.
func (x *Index) At(i int) (Entry, bool) {
	if i < 0 || i >= len(x.Entries) {
		return Entry{}, false
	}
	return x.Entries[i], true
}

// Hit returns the topmost (last drawn) entry whose bounds contain p.
func (x *Index) Hit(p geom.Point) (int, bool) {
	for i := len(x.Entries) - 1; i >= 0; i-- {
		if x.Entries[i].Bounds.Contains(p) {
			return i, true
		}
	}
	return -1, false
}

// Nearest returns the entry whose centre is closest to p within radius.
// Ties go to the earlier entry.
func (x *Index) Nearest(p geom.Point, radius float64) (int, bool) {
	best, bestD := -1, math.Inf(1)
	for i, e := range x.Entries {
		if d := e.Center.Dist(p); d <= radius && d < bestD {
			best, bestD = i, d
		}
	}
	return best, best >= 0
}
