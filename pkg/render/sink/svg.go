package sink

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/drivetrain/pkg/geom"
	"github.com/matzehuels/drivetrain/pkg/layout"
	"github.com/matzehuels/drivetrain/pkg/scheme"
	"github.com/matzehuels/drivetrain/pkg/symbol"
	"github.com/matzehuels/drivetrain/pkg/transmission"
)

// Unit is the number of svgo user units per canvas unit.
const Unit = 10

const (
	hatchID     = "hatch"
	hatchPitch  = 4.0
	gridPitch   = 10.0
	dashPattern = "40,25"
)

const interactionCSS = `
    .symbol { cursor: pointer; }
    .symbol.highlight rect, .symbol.highlight line { stroke-width: 25; }
    .callout.highlight text { font-weight: bold; }`

const interactionJS = `
    function highlight(id) {
      document.querySelectorAll('[data-owner]').forEach(el => el.classList.toggle('highlight', el.dataset.owner === id));
    }
    document.querySelectorAll('.symbol').forEach(el => {
      el.addEventListener('mouseenter', () => highlight(el.dataset.owner));
      el.addEventListener('mouseleave', () => highlight(''));
    });`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style       Style
	highlight   bool
	interactive bool
	grid        bool
	boxes       bool
	selected    *string

	ox, oy float64
}

// WithStyle sets the palette.
func WithStyle(s Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithHighlight paints overlapping symbols and, when the scene warns, a
// banner naming them.
func WithHighlight() SVGOption { return func(r *svgRenderer) { r.highlight = true } }

// WithInteraction embeds hover highlighting.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// WithGrid draws a light background grid.
func WithGrid() SVGOption { return func(r *svgRenderer) { r.grid = true } }

// WithBoxes outlines every reserved region, for debugging callout placement.
func WithBoxes() SVGOption { return func(r *svgRenderer) { r.boxes = true } }

// WithSelected overrides the selection recorded in the scene's view state.
func WithSelected(id string) SVGOption { return func(r *svgRenderer) { r.selected = &id } }

// RenderSVG draws the scene.
func RenderSVG(sc *scheme.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{style: DefaultStyle()}
	for _, opt := range opts {
		opt(&r)
	}
	r.ox, r.oy = sc.Canvas.X, sc.Canvas.Y
	selected := sc.View.Selected
	if r.selected != nil {
		selected = *r.selected
	}

	var buf bytes.Buffer
	c := svg.New(&buf)
	w, h := sc.Canvas.W, sc.Canvas.H
	c.Startview(int(math.Ceil(w)), int(math.Ceil(h)), 0, 0, r.u(w), r.u(h))
	c.Title("drivetrain scheme")
	r.defs(c)
	c.Rect(0, 0, r.u(w), r.u(h), "fill:"+r.style.Background)
	if r.grid {
		r.drawGrid(c, sc.Canvas)
	}

	c.Gstyle(fmt.Sprintf("stroke:%s;stroke-width:%d;fill:none;stroke-linecap:round", r.style.Ink, r.u(r.style.Stroke)))
	for _, s := range sc.Shafts {
		if s.Length() > 0 {
			r.line(c, geom.Segment{A: s.From, B: s.To}, `class="shaft"`, fmt.Sprintf("stroke-width:%d", r.u(r.style.ShaftWidth)))
		}
	}
	for _, p := range sc.Placements {
		r.drawSymbol(c, p)
	}
	for _, b := range sc.Bearings {
		r.drawBearing(c, b.Box(), b.Shared, b.Free)
	}
	for _, co := range sc.Callouts {
		r.drawCallout(c, co.ID, co.Text, co.Path, co.TextBox)
	}
	c.Gend()

	if r.highlight {
		r.drawOverlaps(c, sc)
	}
	if selected != "" {
		r.drawSelection(c, sc, selected)
	}
	if r.boxes {
		for _, b := range sc.Reserved {
			r.rect(c, b, "fill:none;stroke:#999999;stroke-width:5;stroke-dasharray:20,20")
		}
	}
	if r.interactive {
		c.Style("text/css", interactionCSS)
		c.Script("application/javascript", interactionJS)
	}
	c.End()
	return buf.Bytes()
}

func (r *svgRenderer) defs(c *svg.SVG) {
	c.Def()
	p := r.u(hatchPitch)
	c.Pattern(hatchID, 0, 0, p, p, "user")
	c.Line(0, p, p, 0, fmt.Sprintf("stroke:%s;stroke-width:%d", r.style.Ink, r.u(r.style.Stroke)))
	c.PatternEnd()
	c.DefEnd()
}

func (r *svgRenderer) drawGrid(c *svg.SVG, canvas geom.Bbox) {
	c.Gstyle("stroke:#eeeeee;stroke-width:5")
	for x := math.Ceil(canvas.X/gridPitch) * gridPitch; x <= canvas.Right(); x += gridPitch {
		c.Line(r.x(x), 0, r.x(x), r.u(canvas.H))
	}
	for y := math.Ceil(canvas.Y/gridPitch) * gridPitch; y <= canvas.Bottom(); y += gridPitch {
		c.Line(0, r.y(y), r.u(canvas.W), r.y(y))
	}
	c.Gend()
}

func (r *svgRenderer) drawSymbol(c *svg.SVG, p layout.Placement) {
	classes := "symbol " + string(p.Type)
	attrs := []string{
		fmt.Sprintf(`id="sym-%s"`, p.ID),
		fmt.Sprintf(`data-owner="%s"`, p.ID),
	}
	if !p.Walked() {
		classes += " alternative"
		attrs = append(attrs, "opacity:0.55")
	}
	attrs = append(attrs, fmt.Sprintf(`class="%s"`, classes))

	c.Group(attrs...)
	if p.Variant != nil {
		c.Title(transmission.Describe(*p.Variant))
	}
	for _, m := range p.Geometry.Marks {
		r.drawMark(c, p.Transform, m)
	}
	c.Gend()
}

func (r *svgRenderer) drawMark(c *svg.SVG, t geom.Transform, m symbol.Mark) {
	st := r.style
	switch {
	case m.Box != nil:
		b := t.BoxToWorld(*m.Box)
		switch m.Role {
		case symbol.RoleJoint:
			ctr := b.Center()
			c.Circle(r.x(ctr.X), r.y(ctr.Y), r.u(math.Min(b.W, b.H)/2), "fill:"+st.Fill)
		case symbol.RoleRing:
			r.rect(c, b, "fill:"+st.Ring)
		case symbol.RoleMotor:
			r.rect(c, b, "fill:"+st.Motor)
		case symbol.RoleHatch:
			r.rect(c, b, "fill:url(#"+hatchID+")")
		case symbol.RoleBelt:
			r.rect(c, b, "fill:none")
		case symbol.RoleChain:
			r.rect(c, b, "fill:none;stroke-dasharray:"+dashPattern)
		default:
			r.rect(c, b, "fill:"+st.Fill)
		}
	case m.Line != nil:
		s := t.SegmentToWorld(*m.Line)
		switch m.Role {
		case symbol.RoleShaft:
			r.line(c, s, fmt.Sprintf("stroke-width:%d", r.u(st.ShaftWidth)))
		case symbol.RoleDash:
			r.line(c, s, "stroke-dasharray:"+dashPattern)
		default:
			r.line(c, s)
		}
	}
}

func (r *svgRenderer) drawBearing(c *svg.SVG, b geom.Bbox, shared, free bool) {
	class := "bearing"
	style := "fill:" + r.style.Fill
	if shared {
		class += " shared"
		style = "fill:" + r.style.Ink
	}
	if free {
		class += " free"
		style += ";stroke-dasharray:20,15"
	}
	r.rect(c, b, fmt.Sprintf(`class="%s"`, class), fmt.Sprintf(`data-owner="%s"`, b.Owner), style)
}

func (r *svgRenderer) drawCallout(c *svg.SVG, id, text string, path [3]geom.Point, box geom.Bbox) {
	c.Group(`class="callout"`, fmt.Sprintf(`data-owner="%s"`, id))
	xs := make([]int, len(path))
	ys := make([]int, len(path))
	for i, p := range path {
		xs[i], ys[i] = r.x(p.X), r.y(p.Y)
	}
	c.Polyline(xs, ys, "fill:none;stroke:"+r.style.Callout)
	ctr := box.Center()
	c.Text(r.x(ctr.X), r.y(ctr.Y+r.style.FontSize*0.35), text, r.textStyle(r.style.Callout, "middle"))
	c.Gend()
}

func (r *svgRenderer) drawOverlaps(c *svg.SVG, sc *scheme.Scene) {
	if len(sc.Overlaps) == 0 {
		return
	}
	c.Gstyle(fmt.Sprintf("fill:%s;fill-opacity:0.25;stroke:%s;stroke-width:%d", r.style.Overlap, r.style.Overlap, r.u(r.style.Stroke)))
	for _, p := range sc.Placements {
		if !sc.Overlapping(p.ID) {
			continue
		}
		for _, b := range p.Boxes {
			r.rect(c, b, `class="overlap"`)
		}
	}
	c.Gend()

	if sc.Warn {
		c.Text(r.u(8), r.u(16), "overlap: "+strings.Join(sc.Overlaps, ", "),
			`class="warning"`, r.textStyle(r.style.Overlap, "start"))
	}
}

func (r *svgRenderer) drawSelection(c *svg.SVG, sc *scheme.Scene, id string) {
	for _, p := range sc.Placements {
		if p.ID != id {
			continue
		}
		r.rect(c, p.Bounds.Expand(3), `class="selection"`,
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:%d;stroke-dasharray:30,20", r.style.Selected, r.u(r.style.Stroke)))
		return
	}
}

func (r *svgRenderer) textStyle(color, anchor string) string {
	return fmt.Sprintf("fill:%s;stroke:none;font-family:%s;font-size:%dpx;text-anchor:%s",
		color, r.style.Font, r.u(r.style.FontSize), anchor)
}

func (r *svgRenderer) rect(c *svg.SVG, b geom.Bbox, s ...string) {
	c.Rect(r.x(b.X), r.y(b.Y), r.u(b.W), r.u(b.H), s...)
}

func (r *svgRenderer) line(c *svg.SVG, s geom.Segment, style ...string) {
	c.Line(r.x(s.A.X), r.y(s.A.Y), r.x(s.B.X), r.y(s.B.Y), style...)
}

func (r *svgRenderer) x(v float64) int { return r.u(v - r.ox) }
func (r *svgRenderer) y(v float64) int { return r.u(v - r.oy) }
func (r *svgRenderer) u(v float64) int { return int(math.Round(v * Unit)) }
