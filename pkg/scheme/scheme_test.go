package scheme

import (
	"reflect"
	"testing"

	"github.com/matzehuels/drivetrain/pkg/geom"
	"github.com/matzehuels/drivetrain/pkg/layout"
	"github.com/matzehuels/drivetrain/pkg/transmission"
)

func gear(id string, z1, z2 int, rev bool) transmission.Element {
	return transmission.StageElement(transmission.Stage{ID: id, Variants: []transmission.Variant{{
		ID:       id + ".v1",
		Kind:     transmission.KindGear,
		Inputs:   transmission.Inputs{Z1: z1, Z2: z2},
		U:        float64(z2) / float64(z1),
		Reversed: rev,
	}}})
}

func gearbox() []transmission.Element {
	inv := gear("s3", 18, 54, false)
	inv.Stage.Variants[0].Layout = transmission.LayoutInverted
	bevel := transmission.StageElement(transmission.Stage{ID: "s4", Turn: transmission.Down, Variants: []transmission.Variant{
		{ID: "s4.v1", Kind: transmission.KindBevel, Inputs: transmission.Inputs{Z1: 15, Z2: 30}, U: 2},
	}})
	alt := transmission.StageElement(transmission.Stage{ID: "s2", Variants: []transmission.Variant{
		{ID: "s2.gear", Kind: transmission.KindGear, Inputs: transmission.Inputs{Z1: 20, Z2: 40}, U: 2},
		{ID: "s2.belt", Kind: transmission.KindBelt, Inputs: transmission.Inputs{D1: 100, D2: 250}, U: 2.5, Selected: true},
	}})
	return []transmission.Element{
		gear("s1", 20, 60, false),
		transmission.SpacerElement(transmission.Spacer{ID: "sp1", Length: 30}),
		alt,
		inv,
		bevel,
	}
}

func TestBuildGearbox(t *testing.T) {
	sc := Build(gearbox(), DefaultOptions(), ViewState{})

	// four walked stages plus one stacked alternative
	if len(sc.Callouts) != 5 {
		t.Errorf("got %d callouts, want 5", len(sc.Callouts))
	}
	base := 0
	for _, p := range sc.Placements {
		base += len(p.Boxes)
	}
	base += len(sc.Bearings)
	if len(sc.Reserved) != base+len(sc.Callouts) {
		t.Errorf("reserved = %d entries, want %d baseline + %d callouts", len(sc.Reserved), base, len(sc.Callouts))
	}

	for _, c := range sc.Callouts {
		if !contains(sc.Canvas, c.TextBox.X, c.TextBox.Y) || !contains(sc.Canvas, c.TextBox.Right(), c.TextBox.Bottom()) {
			t.Errorf("callout %s outside canvas", c.ID)
		}
	}
	for _, b := range sc.Bearings {
		if !contains(sc.Canvas, b.Center.X, b.Center.Y) {
			t.Errorf("bearing %s outside canvas", b.ID)
		}
	}

	if sc.OverallRatio != 3*2.5*3*2 {
		t.Errorf("overall ratio = %v, want %v", sc.OverallRatio, 3*2.5*3*2)
	}

	var ids []string
	for _, e := range sc.Index.Entries {
		ids = append(ids, e.ID)
	}
	want := []string{layout.SourceID, "s1", "sp1", "s2", "s2.gear", "s3", "s4"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("index = %v, want %v", ids, want)
	}
}

func contains(b geom.Bbox, x, y float64) bool { return b.Contains(geom.Point{X: x, Y: y}) }

func TestBuildDeterministic(t *testing.T) {
	a := Build(gearbox(), DefaultOptions(), ViewState{})
	b := Build(gearbox(), DefaultOptions(), ViewState{})
	if !reflect.DeepEqual(a, b) {
		t.Error("two passes over the same input differ")
	}
}

func TestOverlapScenario(t *testing.T) {
	opts := DefaultOptions()
	opts.Layout.Source = false

	folded := []transmission.Element{
		gear("a", 20, 40, true),
		gear("b", 20, 40, true),
		gear("c", 20, 40, false),
	}
	sc := Build(folded, opts, ViewState{})
	if !sc.Overlapping("a") || !sc.Overlapping("c") {
		t.Fatalf("overlaps = %v, want a and c", sc.Overlaps)
	}
	if !sc.Warn || sc.Fingerprint == "" {
		t.Errorf("warn = %v, fingerprint = %q", sc.Warn, sc.Fingerprint)
	}

	dismissed := Build(folded, opts, ViewState{Dismissed: sc.Fingerprint})
	if dismissed.Warn {
		t.Error("dismissed overlap set should not warn")
	}

	spaced := []transmission.Element{
		folded[0],
		folded[1],
		transmission.SpacerElement(transmission.Spacer{ID: "sp", Length: 40}),
		folded[2],
	}
	sc = Build(spaced, opts, ViewState{})
	if sc.Overlapping("a") || sc.Overlapping("c") {
		t.Errorf("overlaps after spacer = %v, want none of a, c", sc.Overlaps)
	}
	if sc.Warn {
		t.Error("no overlaps should not warn")
	}
}

func TestSourceCallout(t *testing.T) {
	elems := []transmission.Element{gear("s1", 10, 40, false)}

	sc := Build(elems, DefaultOptions(), ViewState{})
	for _, c := range sc.Callouts {
		if c.ID == layout.SourceID {
			t.Error("source callout should be off by default")
		}
	}

	opts := DefaultOptions()
	opts.SourceCallout = true
	sc = Build(elems, opts, ViewState{})
	if len(sc.Callouts) != 2 || sc.Callouts[0].ID != layout.SourceID || sc.Callouts[0].Text != "u=4.00" {
		t.Errorf("callouts = %+v", sc.Callouts)
	}
}

func TestNoCallouts(t *testing.T) {
	opts := DefaultOptions()
	opts.NoCallouts = true
	sc := Build(gearbox(), opts, ViewState{})
	if len(sc.Callouts) != 0 {
		t.Errorf("got %d callouts, want 0", len(sc.Callouts))
	}
}

func TestEmptyTransmission(t *testing.T) {
	sc := Build(nil, DefaultOptions(), ViewState{})
	if len(sc.Placements) != 1 || sc.Placements[0].Type != layout.TypeSource {
		t.Fatalf("placements = %+v, want only the source", sc.Placements)
	}
	if len(sc.Bearings) != 1 || !sc.Bearings[0].Free {
		t.Errorf("bearings = %+v, want one free bearing on the motor shaft", sc.Bearings)
	}
	if sc.Canvas.W <= 2*DefaultPadding {
		t.Errorf("canvas %+v should cover the motor", sc.Canvas)
	}
}
