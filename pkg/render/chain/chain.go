// Package chain renders the kinematic chain of a scene as a node-link
// diagram: the power source, every stage and spacer in flow order, and the
// stacked alternatives hanging off their stage.
//
// [ToDOT] builds a Graphviz DOT description; [RenderSVG] lays it out with
// the embedded Graphviz engine.
package chain

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/drivetrain/pkg/layout"
	"github.com/matzehuels/drivetrain/pkg/scheme"
	"github.com/matzehuels/drivetrain/pkg/transmission"
)

// Options configures chain rendering.
type Options struct {
	// Detailed adds teeth counts or diameters to stage labels.
	Detailed bool
	// Vertical stacks the chain top to bottom instead of left to right.
	Vertical bool
}

// ToDOT converts a scene to DOT. Edges between walked elements carry the
// cumulative ratio at that shaft; overlapping elements are drawn in red.
func ToDOT(sc *scheme.Scene, opts Options) string {
	var buf bytes.Buffer
	rankdir := "LR"
	if opts.Vertical {
		rankdir = "TB"
	}
	buf.WriteString("digraph chain {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\", fontsize=12];\n")
	buf.WriteString("  edge [fontname=\"monospace\", fontsize=10];\n\n")

	u := 1.0
	prev := ""
	for _, p := range sc.Placements {
		if p.Type == layout.TypeAutoSpacer {
			continue
		}
		attrs := nodeAttrs(p, opts.Detailed)
		if sc.Overlapping(p.ID) {
			attrs = append(attrs, "color=red", "fontcolor=red")
		}
		if p.ID == sc.View.Selected {
			attrs = append(attrs, "penwidth=2.5")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", p.ID, strings.Join(attrs, ", "))

		if !p.Walked() {
			if owner := stageOf(sc, p.Element); owner != "" {
				fmt.Fprintf(&buf, "  %q -> %q [style=dotted, arrowhead=none, constraint=false];\n", owner, p.ID)
			}
			continue
		}
		if prev != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", prev, p.ID, fmt.Sprintf("u=%.2f", u))
		}
		if p.Type == layout.TypeStage && p.Variant.U > 0 {
			u *= p.Variant.U
		}
		prev = p.ID
	}

	if prev != "" {
		buf.WriteString("\n  \"_out\" [shape=point, width=0.08];\n")
		fmt.Fprintf(&buf, "  %q -> \"_out\" [label=%q];\n", prev, fmt.Sprintf("u=%.2f", u))
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(p layout.Placement, detailed bool) []string {
	switch p.Type {
	case layout.TypeSource:
		return []string{`label="M"`, "shape=circle", "fillcolor=\"#e8eef7\""}
	case layout.TypeSpacer:
		label := p.ID
		if detailed {
			label += "\n" + p.Spacer.Style.String()
		}
		return []string{fmt.Sprintf("label=%q", label), "shape=plain", "style=\"\""}
	}

	label := p.ID
	if p.Variant != nil {
		label += "\n" + kindLabel(*p.Variant, detailed)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !p.Walked() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

func kindLabel(v transmission.Variant, detailed bool) string {
	if detailed {
		return fmt.Sprintf("%s\nu=%.2f", transmission.Describe(v), v.U)
	}
	return v.Kind.String()
}

// stageOf finds the walked placement of element index i.
func stageOf(sc *scheme.Scene, i int) string {
	for _, p := range sc.Placements {
		if p.Element == i && p.Type == layout.TypeStage {
			return p.ID
		}
	}
	return ""
}

// RenderSVG lays out a DOT graph with Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// user-unit one so the chain scales like the scheme SVG.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
