package chain

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/drivetrain/pkg/scheme"
	"github.com/matzehuels/drivetrain/pkg/transmission"
)

func scene(t *testing.T) *scheme.Scene {
	t.Helper()
	inv := transmission.Variant{ID: "s2.v1", Kind: transmission.KindGear, Inputs: transmission.Inputs{Z1: 18, Z2: 54}, U: 3, Layout: transmission.LayoutInverted}
	elems := []transmission.Element{
		transmission.StageElement(transmission.Stage{ID: "s1", Variants: []transmission.Variant{
			{ID: "s1.gear", Kind: transmission.KindGear, Inputs: transmission.Inputs{Z1: 20, Z2: 40}, U: 2},
			{ID: "s1.chain", Kind: transmission.KindChain, Inputs: transmission.Inputs{Z1: 15, Z2: 45}, U: 3, Selected: true},
		}}),
		transmission.SpacerElement(transmission.Spacer{ID: "sp", Length: 30, Style: transmission.SpacerDashed}),
		transmission.StageElement(transmission.Stage{ID: "s2", Variants: []transmission.Variant{inv}}),
	}
	return scheme.Build(elems, scheme.DefaultOptions(), scheme.ViewState{Selected: "s2"})
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(scene(t), Options{})

	tests := []struct {
		name string
		want string
	}{
		{"source", `"source" [label="M"`},
		{"first edge", `"source" -> "s1" [label="u=1.00"]`},
		{"spacer edge", `"s1" -> "sp" [label="u=3.00"]`},
		{"next stage", `"sp" -> "s2" [label="u=3.00"]`},
		{"overall", `"s2" -> "_out" [label="u=9.00"]`},
		{"alternative", `"s1" -> "s1.gear" [style=dotted`},
		{"selected", "penwidth=2.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(dot, tt.want) {
				t.Errorf("DOT missing %s\n%s", tt.want, dot)
			}
		})
	}
	if strings.Contains(dot, "auto-spacer") {
		t.Error("automatic spacers should not appear in the chain")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(scene(t), Options{Detailed: true, Vertical: true})
	if !strings.Contains(dot, "rankdir=TB") {
		t.Error("vertical layout not applied")
	}
	if !strings.Contains(dot, `chain 15/45\nu=3.00`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `sp\ndashed`) {
		t.Errorf("spacer style missing:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(scene(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	s := string(svg)
	if !strings.Contains(s, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("root element not normalised: %.200s", s)
	}
	if !strings.Contains(s, "s1.gear") {
		t.Error("alternative node missing from output")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("got %s", out)
	}
	if string(normalizeViewBox([]byte("<svg></svg>"))) != "<svg></svg>" {
		t.Error("input without viewBox should pass through")
	}
}
