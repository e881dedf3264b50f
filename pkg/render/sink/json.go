package sink

import (
	"encoding/json"

	"github.com/matzehuels/drivetrain/pkg/geom"
	"github.com/matzehuels/drivetrain/pkg/layout"
	"github.com/matzehuels/drivetrain/pkg/scheme"
	"github.com/matzehuels/drivetrain/pkg/symbol"
	"github.com/matzehuels/drivetrain/pkg/transmission"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	style  string
	indent bool
}

// WithJSONStyle records the style name so a consumer can match the SVG output.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// jsonOutput flattens a scene into canvas coordinates: every mark is already
// transformed and shifted so that the canvas origin is (0, 0).
type jsonOutput struct {
	Width        float64        `json:"width"`
	Height       float64        `json:"height"`
	Style        string         `json:"style,omitempty"`
	OverallRatio float64        `json:"overall_ratio"`
	Warn         bool           `json:"warn"`
	Fingerprint  string         `json:"fingerprint,omitempty"`
	Overlaps     []string       `json:"overlaps,omitempty"`
	Selected     string         `json:"selected,omitempty"`
	Symbols      []jsonSymbol   `json:"symbols"`
	Shafts       []geom.Segment `json:"shafts,omitempty"`
	Bearings     []jsonBearing  `json:"bearings"`
	Callouts     []jsonCallout  `json:"callouts,omitempty"`
}

type jsonSymbol struct {
	ID          string      `json:"id"`
	Type        layout.Type `json:"type"`
	Kind        string      `json:"kind,omitempty"`
	Label       string      `json:"label,omitempty"`
	Bounds      geom.Bbox   `json:"bounds"`
	Marks       []jsonMark  `json:"marks"`
	Alternative bool        `json:"alternative,omitempty"`
	Overlapping bool        `json:"overlapping,omitempty"`
}

type jsonMark struct {
	Role symbol.Role   `json:"role"`
	Box  *geom.Bbox    `json:"box,omitempty"`
	Line *geom.Segment `json:"line,omitempty"`
}

type jsonBearing struct {
	ID     string    `json:"id"`
	Box    geom.Bbox `json:"box"`
	Shared bool      `json:"shared,omitempty"`
	Free   bool      `json:"free,omitempty"`
}

type jsonCallout struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Path    []geom.Point `json:"path"`
	TextBox geom.Bbox    `json:"text_box"`
}

// RenderJSON describes the scene as flat JSON.
func RenderJSON(sc *scheme.Scene, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	dx, dy := sc.Origin()
	shift := func(p geom.Point) geom.Point { return p.Add(dx, dy) }
	shiftBox := func(b geom.Bbox) geom.Bbox { b.X += dx; b.Y += dy; return b }

	out := jsonOutput{
		Width:        sc.Canvas.W,
		Height:       sc.Canvas.H,
		Style:        r.style,
		OverallRatio: sc.OverallRatio,
		Warn:         sc.Warn,
		Fingerprint:  sc.Fingerprint,
		Overlaps:     sc.Overlaps,
		Selected:     sc.View.Selected,
		Symbols:      make([]jsonSymbol, 0, len(sc.Placements)),
		Bearings:     make([]jsonBearing, 0, len(sc.Bearings)),
	}

	for _, p := range sc.Placements {
		s := jsonSymbol{
			ID:          p.ID,
			Type:        p.Type,
			Bounds:      shiftBox(p.Bounds),
			Alternative: !p.Walked(),
			Overlapping: sc.Overlapping(p.ID),
		}
		if p.Variant != nil {
			s.Kind = p.Variant.Kind.String()
			s.Label = transmission.Describe(*p.Variant)
		}
		for _, m := range p.Geometry.Marks {
			jm := jsonMark{Role: m.Role}
			if m.Box != nil {
				b := shiftBox(p.Transform.BoxToWorld(*m.Box))
				jm.Box = &b
			}
			if m.Line != nil {
				seg := p.Transform.SegmentToWorld(*m.Line)
				seg.A, seg.B = shift(seg.A), shift(seg.B)
				jm.Line = &seg
			}
			s.Marks = append(s.Marks, jm)
		}
		out.Symbols = append(out.Symbols, s)
	}

	for _, sh := range sc.Shafts {
		if sh.Length() > 0 {
			out.Shafts = append(out.Shafts, geom.Segment{A: shift(sh.From), B: shift(sh.To)})
		}
	}
	for _, b := range sc.Bearings {
		out.Bearings = append(out.Bearings, jsonBearing{ID: b.ID, Box: shiftBox(b.Box()), Shared: b.Shared, Free: b.Free})
	}
	for _, c := range sc.Callouts {
		out.Callouts = append(out.Callouts, jsonCallout{
			ID:      c.ID,
			Text:    c.Text,
			Path:    []geom.Point{shift(c.Path[0]), shift(c.Path[1]), shift(c.Path[2])},
			TextBox: shiftBox(c.TextBox),
		})
	}

	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}
