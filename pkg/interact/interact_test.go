package interact

import (
	"testing"

	"github.com/matzehuels/drivetrain/pkg/geom"
)

func index() *Index {
	return &Index{Entries: []Entry{
		{ID: "source", Center: geom.Point{X: -25, Y: 0}, Bounds: geom.Rect(-50, -15, 50, 30)},
		{ID: "s1", Center: geom.Point{X: 15, Y: 15}, Bounds: geom.Rect(0, -15, 30, 60)},
		{ID: "sp1", Center: geom.Point{X: 50, Y: 0}, Bounds: geom.Rect(30, -6, 40, 12)},
		{ID: "s2", Center: geom.Point{X: 85, Y: 15}, Bounds: geom.Rect(70, -15, 30, 60)},
	}}
}

func TestNextPrev(t *testing.T) {
	x := index()
	tests := []struct {
		name string
		fn   func(int) int
		in   int
		want int
	}{
		{"next", x.Next, 0, 1},
		{"next wraps", x.Next, 3, 0},
		{"prev", x.Prev, 2, 1},
		{"prev wraps", x.Prev, 0, 3},
		{"prev from unset", x.Prev, -1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}

	empty := &Index{}
	if empty.Next(0) != -1 || empty.Prev(0) != -1 {
		t.Error("empty index should return -1")
	}
}

func TestFind(t *testing.T) {
	x := index()
	if i, ok := x.Find("sp1"); !ok || i != 2 {
		t.Errorf("Find(sp1) = %d, %v", i, ok)
	}
	if _, ok := x.Find("missing"); ok {
		t.Error("Find(missing) should fail")
	}
	if _, ok := x.At(9); ok {
		t.Error("At(9) should fail")
	}
}

func TestHitAndNearest(t *testing.T) {
	x := index()
	if i, ok := x.Hit(geom.Point{X: 31, Y: 0}); !ok || x.Entries[i].ID != "sp1" {
		t.Errorf("Hit = %d, %v", i, ok)
	}
	if i, ok := x.Hit(geom.Point{X: 30, Y: 0}); !ok || x.Entries[i].ID != "sp1" {
		t.Errorf("Hit on shared edge should prefer the later entry, got %d", i)
	}
	if _, ok := x.Hit(geom.Point{X: 500, Y: 0}); ok {
		t.Error("Hit outside should fail")
	}
	if i, ok := x.Nearest(geom.Point{X: 80, Y: 10}, 20); !ok || x.Entries[i].ID != "s2" {
		t.Errorf("Nearest = %d, %v", i, ok)
	}
	if _, ok := x.Nearest(geom.Point{X: 80, Y: 200}, 20); ok {
		t.Error("Nearest beyond radius should fail")
	}
}
