package sink

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/drivetrain/pkg/scheme"
	"github.com/matzehuels/drivetrain/pkg/transmission"
)

func gear(id string, z1, z2 int, rev bool) transmission.Element {
	return transmission.StageElement(transmission.Stage{ID: id, Variants: []transmission.Variant{{
		ID: id + ".v1", Kind: transmission.KindGear,
		Inputs:   transmission.Inputs{Z1: z1, Z2: z2},
		U:        float64(z2) / float64(z1),
		Reversed: rev,
	}}})
}

func gearbox() *scheme.Scene {
	elems := []transmission.Element{
		gear("s1", 20, 60, false),
		transmission.SpacerElement(transmission.Spacer{ID: "sp1", Length: 40, Style: transmission.SpacerCardan}),
		transmission.StageElement(transmission.Stage{ID: "s2", Variants: []transmission.Variant{
			{ID: "s2.gear", Kind: transmission.KindGear, Inputs: transmission.Inputs{Z1: 20, Z2: 40}, U: 2},
			{ID: "s2.belt", Kind: transmission.KindToothedBelt, Inputs: transmission.Inputs{Z1: 18, Z2: 36}, U: 2, Selected: true},
		}}),
		transmission.StageElement(transmission.Stage{ID: "s3", Turn: transmission.Down, Variants: []transmission.Variant{
			{ID: "s3.v1", Kind: transmission.KindBevel, Inputs: transmission.Inputs{Z1: 15, Z2: 30}, U: 2},
		}}),
	}
	return scheme.Build(elems, scheme.DefaultOptions(), scheme.ViewState{})
}

func folded() *scheme.Scene {
	opts := scheme.DefaultOptions()
	opts.Layout.Source = false
	return scheme.Build([]transmission.Element{
		gear("a", 20, 40, true),
		gear("b", 20, 40, true),
		gear("c", 20, 40, false),
	}, opts, scheme.ViewState{})
}

func TestRenderSVG(t *testing.T) {
	out := string(RenderSVG(gearbox()))

	for _, want := range []string{
		"<svg",
		`id="sym-source"`,
		`id="sym-s1"`,
		`id="sym-sp1"`,
		`id="sym-s2.gear"`,
		"alternative",
		`id="` + hatchID + `"`,
		"url(#" + hatchID + ")",
		`class="bearing`,
		`class="callout"`,
		"u=3.00",
		"</svg>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "<script") {
		t.Error("script embedded without WithInteraction")
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	a := RenderSVG(gearbox(), WithGrid(), WithInteraction())
	b := RenderSVG(gearbox(), WithGrid(), WithInteraction())
	if !bytes.Equal(a, b) {
		t.Error("two renders of the same scene differ")
	}
}

func TestRenderSVGHighlight(t *testing.T) {
	sc := folded()

	plain := string(RenderSVG(sc))
	if strings.Contains(plain, `class="overlap"`) || strings.Contains(plain, "overlap: ") {
		t.Error("overlaps painted without WithHighlight")
	}

	hl := string(RenderSVG(sc, WithHighlight()))
	if !strings.Contains(hl, `class="overlap"`) {
		t.Error("overlapping boxes not painted")
	}
	if !strings.Contains(hl, "overlap: a, c") {
		t.Error("warning banner missing")
	}

	sc.Warn = false
	if strings.Contains(string(RenderSVG(sc, WithHighlight())), "overlap: ") {
		t.Error("banner shown for a dismissed warning")
	}
}

func TestRenderSVGSelection(t *testing.T) {
	sc := gearbox()
	if strings.Contains(string(RenderSVG(sc)), `class="selection"`) {
		t.Error("selection drawn with nothing selected")
	}
	sc.View.Selected = "s1"
	if !strings.Contains(string(RenderSVG(sc)), `class="selection"`) {
		t.Error("view state selection not drawn")
	}
	if strings.Contains(string(RenderSVG(sc, WithSelected(""))), `class="selection"`) {
		t.Error("WithSelected should override the view state")
	}
}

func TestStyleNamed(t *testing.T) {
	if s, err := StyleNamed(""); err != nil || s.Name != "simple" {
		t.Errorf("StyleNamed(\"\") = %v, %v", s.Name, err)
	}
	if _, err := StyleNamed("blueprint"); err != nil {
		t.Error(err)
	}
	if _, err := StyleNamed("neon"); err == nil {
		t.Error("unknown style accepted")
	}
	bp, _ := StyleNamed("blueprint")
	if !strings.Contains(string(RenderSVG(gearbox(), WithStyle(bp))), bp.Background) {
		t.Error("style background not used")
	}
}

func TestRenderJSON(t *testing.T) {
	sc := gearbox()
	data, err := RenderJSON(sc, WithJSONStyle("simple"))
	if err != nil {
		t.Fatal(err)
	}
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Width != sc.Canvas.W || out.Style != "simple" || out.OverallRatio != 12 {
		t.Errorf("header = %+v", out)
	}
	if len(out.Symbols) != len(sc.Placements) || len(out.Bearings) != len(sc.Bearings) {
		t.Errorf("got %d symbols, %d bearings", len(out.Symbols), len(out.Bearings))
	}
	for _, s := range out.Symbols {
		if s.Bounds.X < 0 || s.Bounds.Y < 0 || s.Bounds.Right() > out.Width || s.Bounds.Bottom() > out.Height {
			t.Errorf("symbol %s at %+v is outside the %vx%v canvas", s.ID, s.Bounds, out.Width, out.Height)
		}
	}
	var alt bool
	for _, s := range out.Symbols {
		if s.ID == "s2.gear" {
			alt = s.Alternative && s.Kind == "gear" && s.Label == "gear 20/40"
		}
	}
	if !alt {
		t.Error("stacked alternative not flagged")
	}

	pretty, _ := RenderJSON(sc, WithJSONIndent())
	if !bytes.Contains(pretty, []byte("\n  ")) {
		t.Error("WithJSONIndent did not indent")
	}
}
