package layout

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/drivetrain/pkg/geom"
	"github.com/matzehuels/drivetrain/pkg/symbol"
	"github.com/matzehuels/drivetrain/pkg/transmission"
)

func gear(id string, z1, z2 int) transmission.Element {
	return transmission.StageElement(transmission.Stage{ID: id, Variants: []transmission.Variant{
		{ID: id + ".v1", Kind: transmission.KindGear, Inputs: transmission.Inputs{Z1: z1, Z2: z2}, U: float64(z2) / float64(z1)},
	}})
}

func variantStage(id string, v transmission.Variant) transmission.Element {
	if v.ID == "" {
		v.ID = id + ".v1"
	}
	return transmission.StageElement(transmission.Stage{ID: id, Variants: []transmission.Variant{v}})
}

func turning(id string, kind transmission.Kind, turn transmission.Direction) transmission.Element {
	e := variantStage(id, transmission.Variant{Kind: kind, Inputs: transmission.Inputs{Z1: 2, Z2: 40}})
	e.Stage.Turn = turn
	return e
}

func spacer(id string, length float64) transmission.Element {
	return transmission.SpacerElement(transmission.Spacer{ID: id, Length: length})
}

func reversed(e transmission.Element) transmission.Element {
	e = transmission.Clone([]transmission.Element{e})[0]
	e.Stage.Variants[0].Reversed = !e.Stage.Variants[0].Reversed
	return e
}

func bare(start transmission.Direction) Options {
	return Options{Start: Cursor{Dir: start}}
}

func walked(r Result) []Placement {
	var out []Placement
	for _, p := range r.Placements {
		if p.Walked() {
			out = append(out, p)
		}
	}
	return out
}

func TestSingleGearScenario(t *testing.T) {
	r := Walk([]transmission.Element{gear("s1", 20, 60)}, bare(transmission.Right))
	if len(r.Placements) != 1 {
		t.Fatalf("got %d placements, want 1", len(r.Placements))
	}
	p := r.Placements[0]
	span := symbol.SpecFor(transmission.KindGear).Span
	if h := p.Geometry.Boxes[0].H; h != 0.25*span {
		t.Errorf("H1 = %v, want %v", h, 0.25*span)
	}
	if h := p.Geometry.Boxes[1].H; h != 0.75*span {
		t.Errorf("H2 = %v, want %v", h, 0.75*span)
	}
	want := Cursor{X: p.Geometry.Width, Y: 0, Dir: transmission.Right}
	if p.Out != want || r.End != want {
		t.Errorf("output = %+v, end = %+v, want %+v", p.Out, r.End, want)
	}
}

func chainOf() []transmission.Element {
	return []transmission.Element{
		gear("g1", 20, 40),
		spacer("sp1", 25),
		reversed(variantStage("b1", transmission.Variant{Kind: transmission.KindBelt, Inputs: transmission.Inputs{D1: 90, D2: 180}})),
		variantStage("c1", transmission.Variant{Kind: transmission.KindChain, Inputs: transmission.Inputs{Z1: 17, Z2: 51}}),
		turning("bv", transmission.KindBevel, transmission.DirNone),
		variantStage("pl", transmission.Variant{Kind: transmission.KindPlanetary, Inputs: transmission.Inputs{Z1: 24, Z2: 72}}),
		variantStage("g2", transmission.Variant{Kind: transmission.KindGear, Layout: transmission.LayoutInverted, Inputs: transmission.Inputs{Z1: 30, Z2: 20}}),
		transmission.SpacerElement(transmission.Spacer{ID: "cd", Style: transmission.SpacerCardan}),
		turning("w1", transmission.KindWorm, transmission.DirNone),
		gear("g3", 13, 13),
	}
}

func TestTerminalContinuity(t *testing.T) {
	for _, dir := range []transmission.Direction{transmission.Right, transmission.Down, transmission.Left, transmission.Up} {
		t.Run(dir.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Start = Cursor{X: 12.5, Y: -7.25, Dir: dir}
			r := Walk(chainOf(), opts)
			ps := walked(r)
			for i := 0; i+1 < len(ps); i++ {
				if ps[i].Out != ps[i+1].In {
					t.Errorf("%s out %+v != %s in %+v", ps[i].ID, ps[i].Out, ps[i+1].ID, ps[i+1].In)
				}
			}
			autos := 0
			for _, p := range r.Placements {
				if p.Type == TypeAutoSpacer {
					autos++
				}
			}
			spanned := 0
			for _, s := range r.Shafts {
				switch l := s.Length(); {
				case l == 0:
				case math.Abs(l-opts.AutoSpacerLength) < 1e-9:
					spanned++
				default:
					t.Errorf("shaft %s -> %s has length %v", s.FromID, s.ToID, l)
				}
			}
			if autos != 2 || spanned != autos {
				t.Errorf("auto spacers = %d, spanning shafts = %d, want 2 each", autos, spanned)
			}
			if ps[0].Type != TypeSource || ps[0].Out != opts.Start {
				t.Errorf("source should end at the start cursor, got %+v", ps[0].Out)
			}
		})
	}
}

func TestReversalRoundTrip(t *testing.T) {
	elems := chainOf()
	before := Walk(elems, DefaultOptions())

	toggled := transmission.Clone(elems)
	for i := 0; i < 2; i++ {
		for _, e := range toggled {
			if e.Stage != nil && e.Stage.Selected().Kind.IsParallel() {
				e.Stage.Selected().Reversed = !e.Stage.Selected().Reversed
			}
		}
		if i == 0 {
			mid := Walk(toggled, DefaultOptions())
			if mid.End == before.End {
				t.Error("a single toggle should move the end cursor")
			}
		}
	}
	after := Walk(toggled, DefaultOptions())
	if after.End != before.End {
		t.Errorf("end after double toggle = %+v, want %+v", after.End, before.End)
	}
	if !reflect.DeepEqual(after.Terminals, before.Terminals) {
		t.Error("terminals differ after double toggle")
	}
}

func TestDeterminism(t *testing.T) {
	a := Walk(chainOf(), DefaultOptions())
	b := Walk(chainOf(), DefaultOptions())
	if !reflect.DeepEqual(a, b) {
		t.Error("two walks over the same input differ")
	}
}

func TestReversedThenPlain(t *testing.T) {
	elems := []transmission.Element{reversed(gear("a", 20, 40)), gear("b", 20, 40)}
	r := Walk(elems, bare(transmission.Right))
	a, _ := r.Find("a")
	b, _ := r.Find("b")
	if a.Out.Dir != transmission.Left {
		t.Fatalf("reversed stage should leave heading left, got %v", a.Out.Dir)
	}
	if b.In.Dir != a.Out.Dir || b.In.Dir != a.In.Dir.Opposite() {
		t.Errorf("b enters heading %v, want %v", b.In.Dir, a.Out.Dir)
	}
	if len(r.Shafts) != 1 || r.Shafts[0].Length() != 0 {
		t.Errorf("shafts = %+v, want one zero-length shaft", r.Shafts)
	}
	if want := (geom.Point{X: 0, Y: symbol.ShaftSpacing}); a.Out.Point() != want {
		t.Errorf("reversed output = %+v, want %+v", a.Out.Point(), want)
	}
}

func TestReversalFoldsBackOntoEarlierStage(t *testing.T) {
	elems := []transmission.Element{
		reversed(gear("a", 20, 40)),
		reversed(gear("b", 20, 40)),
		gear("c", 20, 40),
	}
	r := Walk(elems, bare(transmission.Right))
	a, _ := r.Find("a")
	c, _ := r.Find("c")
	if !a.Bounds.Intersects(c.Bounds) {
		t.Fatalf("a %+v and c %+v should collide", a.Bounds, c.Bounds)
	}

	spaced := []transmission.Element{elems[0], elems[1], spacer("sp", 40), elems[2]}
	r = Walk(spaced, bare(transmission.Right))
	a, _ = r.Find("a")
	c, _ = r.Find("c")
	if a.Bounds.Intersects(c.Bounds) {
		t.Errorf("a %+v and c %+v should be clear after a spacer", a.Bounds, c.Bounds)
	}
}

func TestAutoSpacer(t *testing.T) {
	inv := gear("b", 20, 40)
	inv.Stage.Variants[0].Layout = transmission.LayoutInverted
	elems := []transmission.Element{
		gear("a", 20, 40),
		turning("bv", transmission.KindBevel, transmission.Down),
		inv,
		gear("c", 20, 40),
	}
	r := Walk(elems, bare(transmission.Right))

	var autos []string
	for _, p := range r.Placements {
		if p.Type == TypeAutoSpacer {
			autos = append(autos, p.ID)
			if len(p.Boxes) != 0 {
				t.Errorf("auto spacer %s occupies boxes", p.ID)
			}
		}
	}
	if want := []string{"auto-spacer-1", "auto-spacer-2"}; !reflect.DeepEqual(autos, want) {
		t.Errorf("auto spacers = %v, want %v", autos, want)
	}
}

func TestTurnTable(t *testing.T) {
	dirs := []transmission.Direction{transmission.Right, transmission.Down, transmission.Left, transmission.Up}
	half := symbol.TurnSize / 2
	for _, in := range dirs {
		for _, out := range []transmission.Direction{in.Clockwise(), in.Clockwise().Opposite()} {
			t.Run(in.String()+"-"+out.String(), func(t *testing.T) {
				r := Walk([]transmission.Element{turning("t", transmission.KindBevel, out)}, bare(in))
				p := r.Placements[0]
				if p.Out.Dir != out {
					t.Fatalf("output heading %v, want %v", p.Out.Dir, out)
				}
				ix, iy := in.Vector()
				ox, oy := out.Vector()
				want := geom.Point{X: half*ix + half*ox, Y: half*iy + half*oy}
				if p.Out.Point() != want {
					t.Errorf("output at %+v, want %+v", p.Out.Point(), want)
				}
				if !p.Bounds.Contains(p.In.Point()) || !p.Bounds.Contains(p.Out.Point()) {
					t.Errorf("terminals %+v / %+v outside footprint %+v", p.In.Point(), p.Out.Point(), p.Bounds)
				}
			})
		}
	}
}

func TestInvalidTurnDefaultsClockwise(t *testing.T) {
	for _, turn := range []transmission.Direction{transmission.DirNone, transmission.Right, transmission.Left} {
		r := Walk([]transmission.Element{turning("t", transmission.KindWorm, turn)}, bare(transmission.Right))
		if got := r.End.Dir; got != transmission.Down {
			t.Errorf("turn %v: heading %v, want down", turn, got)
		}
	}
}

func TestCoaxialKeepsDirection(t *testing.T) {
	for _, dir := range []transmission.Direction{transmission.Right, transmission.Down, transmission.Left, transmission.Up} {
		e := variantStage("p", transmission.Variant{Kind: transmission.KindPlanetary, Reversed: true})
		r := Walk([]transmission.Element{e}, bare(dir))
		if r.End.Dir != dir {
			t.Errorf("%v: planetary changed heading to %v", dir, r.End.Dir)
		}
		if r.Placements[0].Transform.Rotation != dir.Angle() {
			t.Errorf("%v: rotation %v, want %v", dir, r.Placements[0].Transform.Rotation, dir.Angle())
		}
	}
}

func TestCardanSpacerLength(t *testing.T) {
	e := transmission.SpacerElement(transmission.Spacer{ID: "cd", Length: 5, Style: transmission.SpacerCardan})
	r := Walk([]transmission.Element{e}, bare(transmission.Down))
	if want := (Cursor{X: 0, Y: symbol.CardanLength, Dir: transmission.Down}); r.End != want {
		t.Errorf("end = %+v, want %+v", r.End, want)
	}
}

func TestMultiVariantStage(t *testing.T) {
	st := transmission.Stage{ID: "m", Variants: []transmission.Variant{
		{ID: "m.gear", Kind: transmission.KindGear, Inputs: transmission.Inputs{Z1: 20, Z2: 60}},
		{ID: "m.belt", Kind: transmission.KindBelt, Inputs: transmission.Inputs{D1: 80, D2: 160}, Selected: true},
		{ID: "m.chain", Kind: transmission.KindChain, Inputs: transmission.Inputs{Z1: 19, Z2: 38}},
	}}
	r := Walk([]transmission.Element{transmission.StageElement(st)}, bare(transmission.Right))

	single := Walk([]transmission.Element{variantStage("m", st.Variants[1])}, bare(transmission.Right))
	if r.End != single.End {
		t.Errorf("end = %+v, want the selected variant's %+v", r.End, single.End)
	}

	sel, ok := r.Find("m")
	if !ok || sel.Variant.ID != "m.belt" {
		t.Fatalf("selected placement missing or wrong: %+v", sel)
	}
	var alts []Placement
	for _, p := range r.Placements {
		if p.Type == TypeVariant {
			alts = append(alts, p)
		}
	}
	if len(alts) != 2 || alts[0].ID != "m.gear" || alts[1].ID != "m.chain" {
		t.Fatalf("alternatives = %+v", alts)
	}
	all := append([]Placement{*sel}, alts...)
	for i := range all {
		for j := i + 1; j < len(all); j++ {
			if all[i].Bounds.Intersects(all[j].Bounds) {
				t.Errorf("%s and %s overlap", all[i].ID, all[j].ID)
			}
		}
	}
	for _, a := range alts {
		if a.Bounds.Bottom() > sel.Bounds.Y {
			t.Errorf("%s should stack above the selected variant", a.ID)
		}
	}
	for _, term := range r.Terminals {
		if term.Owner == "m.gear" || term.Owner == "m.chain" {
			t.Errorf("alternative %s produced terminal %s", term.Owner, term.ID)
		}
	}
}

func TestFreeTerminals(t *testing.T) {
	elems := []transmission.Element{reversed(gear("a", 20, 40)), turning("w", transmission.KindWorm, transmission.Down)}
	r := Walk(elems, DefaultOptions())

	free := map[string]bool{}
	for _, term := range r.Terminals {
		if !term.Connection {
			free[term.ID] = true
		}
	}
	for _, id := range []string{"a.free0", "w.free0", "w.out"} {
		if !free[id] {
			t.Errorf("terminal %s should be free, free set = %v", id, free)
		}
	}
	if len(free) != 3 {
		t.Errorf("free terminals = %v, want 3", free)
	}
}

func TestOccupiedOwners(t *testing.T) {
	r := Walk(chainOf(), DefaultOptions())
	for _, b := range r.Occupied {
		if b.Owner == "" {
			t.Fatalf("occupied box %+v has no owner", b)
		}
		if b.Owner == "sp1" || b.Owner == "cd" {
			t.Errorf("spacer %s should not occupy boxes", b.Owner)
		}
	}
	if r.Bounds.Empty() {
		t.Fatal("bounds empty")
	}
	canvas := r.Canvas(40)
	for _, p := range r.Placements {
		if p.Bounds.X < canvas.X || p.Bounds.Right() > canvas.Right() {
			t.Errorf("%s outside canvas", p.ID)
		}
	}
}
