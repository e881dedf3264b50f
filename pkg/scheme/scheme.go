// Package scheme runs a complete layout pass over a transmission: the cursor
// walk, overlap detection, bearing placement, callout placement and the
// interaction index, assembled into one renderable Scene.
//
// Build is pure and deterministic. Everything the pass reads about the
// interactive surface (selection, the dismissed overlap warning) arrives
// through an explicit ViewState.
package scheme

import (
	"github.com/matzehuels/drivetrain/pkg/callout"
	"github.com/matzehuels/drivetrain/pkg/geom"
	"github.com/matzehuels/drivetrain/pkg/interact"
	"github.com/matzehuels/drivetrain/pkg/layout"
	"github.com/matzehuels/drivetrain/pkg/overlap"
	"github.com/matzehuels/drivetrain/pkg/support"
	"github.com/matzehuels/drivetrain/pkg/symbol"
	"github.com/matzehuels/drivetrain/pkg/transmission"
)

// DefaultPadding is the canvas margin around all placed geometry.
const DefaultPadding = 40.0

// Options configures a pass.
type Options struct {
	Layout  layout.Options `toml:"layout" json:"layout"`
	Callout callout.Config `toml:"callout" json:"callout"`
	Padding float64        `toml:"padding" json:"padding"`
	// SourceCallout labels the power source with the overall ratio.
	SourceCallout bool `toml:"source_callout" json:"source_callout"`
	// NoCallouts skips callout placement entirely.
	NoCallouts bool `toml:"no_callouts" json:"no_callouts"`
	// Placer overrides the greedy callout solver.
	Placer callout.Placer `toml:"-" json:"-"`
}

// DefaultOptions returns the standard pass configuration.
func DefaultOptions() Options {
	return Options{
		Layout:  layout.DefaultOptions(),
		Callout: callout.DefaultConfig(),
		Padding: DefaultPadding,
	}
}

// ViewState carries the interactive state a pass may depend on.
type ViewState struct {
	// Selected is the owner id the user has focused, if any.
	Selected string `json:"selected,omitempty"`
	// Dismissed is the overlap fingerprint whose warning the user dismissed.
	Dismissed string `json:"dismissed,omitempty"`
}

// Scene is the output of one pass.
type Scene struct {
	Placements []layout.Placement `json:"placements"`
	Shafts     []layout.Shaft     `json:"shafts"`
	Terminals  []layout.Terminal  `json:"terminals"`
	Bearings   []support.Bearing  `json:"bearings"`
	Callouts   []callout.Callout  `json:"callouts"`
	// Reserved is every region the callout solver saw or committed:
	// symbol boxes, bearing footprints, then one entry per callout.
	Reserved []geom.Bbox `json:"reserved"`

	Overlaps     []string       `json:"overlaps"`
	OverlapPairs []overlap.Pair `json:"overlap_pairs,omitempty"`
	Fingerprint  string         `json:"fingerprint,omitempty"`
	// Warn is set when overlaps exist and are not the dismissed set.
	Warn bool `json:"warn"`

	Canvas       geom.Bbox      `json:"canvas"`
	Index        interact.Index `json:"index"`
	View         ViewState      `json:"view"`
	OverallRatio float64        `json:"overall_ratio"`
}

// Overlapping reports whether id is part of a detected overlap.
func (s *Scene) Overlapping(id string) bool {
	for _, o := range s.Overlaps {
		if o == id {
			return true
		}
	}
	return false
}

// Origin returns the translation that maps world coordinates onto a canvas
// whose top-left corner is (0, 0).
func (s *Scene) Origin() (dx, dy float64) { return -s.Canvas.X, -s.Canvas.Y }

// Build runs the full pass.
func Build(elems []transmission.Element, opts Options, view ViewState) *Scene {
	if opts.Padding <= 0 {
		opts.Padding = DefaultPadding
	}
	res := layout.Walk(elems, opts.Layout)

	set := overlap.Detect(res.Occupied)
	sc := &Scene{
		Placements:   res.Placements,
		Shafts:       res.Shafts,
		Terminals:    res.Terminals,
		Overlaps:     set.IDs(),
		OverlapPairs: overlap.Pairs(res.Occupied),
		Fingerprint:  overlap.Fingerprint(set),
		View:         view,
		OverallRatio: transmission.OverallRatio(elems),
	}
	sc.Warn = sc.Fingerprint != "" && sc.Fingerprint != view.Dismissed

	sc.Bearings = support.Place(res.Terminals)
	reserved := make([]geom.Bbox, 0, len(res.Occupied)+len(sc.Bearings))
	reserved = append(reserved, res.Occupied...)
	reserved = append(reserved, support.Footprints(sc.Bearings)...)

	if opts.NoCallouts {
		sc.Reserved = reserved
	} else {
		placer := opts.Placer
		if placer == nil {
			placer = callout.NewGreedy(opts.Callout, nil)
		}
		sc.Callouts, sc.Reserved = callout.PlaceAll(placer, subjects(res.Placements, opts, sc.OverallRatio), reserved)
	}

	bounds := res.Bounds
	for _, b := range sc.Bearings {
		bounds.AddBox(b.Box())
	}
	for _, c := range sc.Callouts {
		bounds.AddBox(c.TextBox)
		for _, p := range c.Path {
			bounds.AddPoint(p)
		}
	}
	sc.Canvas = bounds.Padded(opts.Padding)
	sc.Index = buildIndex(res.Placements)
	return sc
}

func subjects(ps []layout.Placement, opts Options, overall float64) []callout.Subject {
	var out []callout.Subject
	for _, p := range ps {
		var text string
		switch {
		case p.Annotated():
			text = callout.Label(p.Variant.U)
		case p.Type == layout.TypeSource && opts.SourceCallout:
			text = callout.Label(overall)
		default:
			continue
		}
		out = append(out, callout.Subject{
			ID:      p.ID,
			Text:    text,
			Anchors: symbol.WorldAnchors(p.Geometry, p.Transform),
			Bounds:  p.Bounds,
		})
	}
	return out
}

func buildIndex(ps []layout.Placement) interact.Index {
	var x interact.Index
	for _, p := range ps {
		if p.Type == layout.TypeAutoSpacer {
			continue
		}
		e := interact.Entry{
			ID:      p.ID,
			Center:  p.Center(),
			Bounds:  p.Bounds,
			Element: p.Element,
			Variant: -1,
		}
		switch p.Type {
		case layout.TypeSource:
			e.Label = "motor"
		case layout.TypeSpacer:
			e.Label = "spacer " + p.Spacer.Style.String()
		default:
			e.Variant = p.VariantIndex
			e.Label = transmission.Describe(*p.Variant)
		}
		x.Entries = append(x.Entries, e)
	}
	return x
}
