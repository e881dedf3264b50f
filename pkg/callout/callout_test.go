package callout

import (
	"reflect"
	"testing"

	"github.com/matzehuels/drivetrain/pkg/geom"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		u    float64
		want string
	}{
		{3, "u=3.00"},
		{2.5, "u=2.50"},
		{12.3456, "u=12.35"},
		{0, "u=1.00"},
		{-4, "u=1.00"},
	}
	for _, tt := range tests {
		if got := Label(tt.u); got != tt.want {
			t.Errorf("Label(%v) = %q, want %q", tt.u, got, tt.want)
		}
	}
}

func TestMeasureBasic(t *testing.T) {
	w, h := MeasureBasic("u=1.00")
	if w != 42 || h != 13 {
		t.Errorf("MeasureBasic = (%v, %v), want (42, 13)", w, h)
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{VerticalPenalty: 10}.WithDefaults()
	if cfg.VerticalPenalty != 10 {
		t.Errorf("explicit weight overwritten: %v", cfg.VerticalPenalty)
	}
	if cfg.TextOverlapWeight != 50 || cfg.ElbowInsidePenalty != 200 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if len(cfg.Offsets) != 18 {
		t.Errorf("palette has %d offsets, want 18", len(cfg.Offsets))
	}
	vertical := 0
	for _, o := range cfg.Offsets {
		if o.Vertical() {
			vertical++
		}
	}
	if vertical != 2 {
		t.Errorf("palette has %d vertical offsets, want 2", vertical)
	}
}

func subject(id string, x, y float64) Subject {
	b := geom.Bbox{X: x, Y: y, W: 30, H: 60, Owner: id}
	return Subject{
		ID:     id,
		Text:   Label(3),
		Bounds: b,
		Anchors: []geom.Point{
			{X: x + 15, Y: y},
			{X: x + 15, Y: y + 60},
		},
	}
}

func TestReservationCount(t *testing.T) {
	subjects := []Subject{subject("a", 0, 0), subject("b", 40, 0), subject("c", 80, 0), subject("d", 120, 0)}
	var base []geom.Bbox
	for _, s := range subjects {
		base = append(base, s.Bounds)
	}
	base = append(base, geom.Bbox{X: 0, Y: 80, W: 10, H: 16, Owner: "bearing:x"})

	callouts, reserved := PlaceAll(NewGreedy(DefaultConfig(), nil), subjects, base)
	if len(callouts) != len(subjects) {
		t.Fatalf("got %d callouts, want %d", len(callouts), len(subjects))
	}
	if len(reserved) != len(base)+len(subjects) {
		t.Errorf("reserved has %d entries, want %d", len(reserved), len(base)+len(subjects))
	}
	if !reflect.DeepEqual(reserved[:len(base)], base) {
		t.Error("baseline regions were modified")
	}
	for i, c := range callouts {
		r := reserved[len(base)+i]
		if r.Owner != ReservedPrefix+c.ID {
			t.Errorf("reserved entry %d owned by %q", i, r.Owner)
		}
		if r != c.TextBox.Expand(DefaultConfig().ReserveBuffer).WithOwner(r.Owner) {
			t.Errorf("reserved entry %d = %+v, want expanded text box", i, r)
		}
	}
}

func TestPlaceDoesNotAliasInput(t *testing.T) {
	base := make([]geom.Bbox, 1, 8)
	base[0] = geom.Rect(500, 500, 1, 1)
	g := NewGreedy(DefaultConfig(), nil)
	_, r1 := g.Place(subject("a", 0, 0), base)
	_, r2 := g.Place(subject("b", 200, 0), base)
	if r1[1].Owner == r2[1].Owner {
		t.Error("second placement overwrote the first result")
	}
}

func TestPlaceAvoidsObstacles(t *testing.T) {
	s := subject("s", 0, 0)
	obstacle := geom.Bbox{X: -200, Y: -300, W: 400, H: 295, Owner: "x"}
	c, _ := NewGreedy(DefaultConfig(), nil).Place(s, []geom.Bbox{s.Bounds, obstacle})

	if c.TextBox.Intersects(obstacle) {
		t.Errorf("text box %+v overlaps obstacle", c.TextBox)
	}
	if c.TextBox.Intersects(s.Bounds) {
		t.Errorf("text box %+v overlaps its own symbol", c.TextBox)
	}
	if c.Anchor != (geom.Point{X: 15, Y: 60}) {
		t.Errorf("anchor = %+v, want the bottom anchor", c.Anchor)
	}
	if c.Path[0] != c.Anchor || c.Path[1].Y != c.Path[2].Y {
		t.Errorf("path %+v should start at the anchor and end in a horizontal shelf", c.Path)
	}
}

func TestShelfSide(t *testing.T) {
	s := Subject{
		ID:      "s",
		Text:    "u=2.00",
		Bounds:  geom.Bbox{X: 0, Y: 0, W: 30, H: 60, Owner: "s"},
		Anchors: []geom.Point{{X: 30, Y: 30}},
	}
	c, _ := NewGreedy(DefaultConfig(), nil).Place(s, []geom.Bbox{s.Bounds})
	if c.Path[1].X <= c.Anchor.X {
		t.Errorf("elbow %+v should be right of a right-side anchor", c.Path[1])
	}
	if c.Path[2].X <= c.Path[1].X {
		t.Errorf("shelf %+v should extend to the right", c.Path)
	}
}

func TestVerticalFallbackIsPenalised(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Offsets = []Offset{{0, -40}, {25, -25}}
	s := Subject{ID: "s", Text: "u=1.00", Bounds: geom.Rect(0, 0, 10, 10), Anchors: []geom.Point{{X: 5, Y: 0}}}
	c, _ := NewGreedy(cfg, nil).Place(s, nil)
	if c.Path[1] != (geom.Point{X: 30, Y: -25}) {
		t.Errorf("elbow = %+v, want the diagonal offset", c.Path[1])
	}
}

func TestPlaceDeterministic(t *testing.T) {
	subjects := []Subject{subject("a", 0, 0), subject("b", 20, 10), subject("c", 35, -5)}
	g := NewGreedy(DefaultConfig(), nil)
	c1, r1 := PlaceAll(g, subjects, nil)
	c2, r2 := PlaceAll(g, subjects, nil)
	if !reflect.DeepEqual(c1, c2) || !reflect.DeepEqual(r1, r2) {
		t.Error("placement is not deterministic")
	}
}

func TestCustomMeasure(t *testing.T) {
	g := NewGreedy(DefaultConfig(), func(string) (float64, float64) { return 100, 20 })
	c, _ := g.Place(subject("a", 0, 0), nil)
	cfg := g.Config()
	if c.TextBox.W != 100+2*cfg.TextPadding || c.TextBox.H != 20+cfg.TextPadding {
		t.Errorf("text box = %+v", c.TextBox)
	}
}
