// Package layout implements the cursor walk that turns an ordered list of
// transmission elements into positioned symbols.
//
// The walk is a fold: each step takes the current Cursor and one element and
// returns the advanced Cursor plus the placements it produced. Walk strings
// the steps together and derives the terminals, connecting shafts, owner
// tagged occupied boxes and the running bounds the rest of the scheme pass
// consumes. The walk is deterministic and has no failure mode; malformed
// elements are skipped.
package layout

import (
	"fmt"

	"github.com/matzehuels/drivetrain/pkg/geom"
	"github.com/matzehuels/drivetrain/pkg/symbol"
	"github.com/matzehuels/drivetrain/pkg/transmission"
)

// SourceID is the owner id of the power source symbol.
const SourceID = "source"

// Options configures a walk.
type Options struct {
	// Start is where the power source's output shaft ends and the first
	// element attaches.
	Start Cursor `toml:"start" json:"start"`
	// Source places a motor symbol behind Start.
	Source bool `toml:"source" json:"source"`
	// AutoSpacerLength is the straight run inserted before a parallel stage
	// whose layout differs from the previous parallel stage.
	AutoSpacerLength float64 `toml:"auto_spacer_length" json:"auto_spacer_length"`
	// VariantGap separates stacked alternative variants of one stage.
	VariantGap float64 `toml:"variant_gap" json:"variant_gap"`
}

// DefaultOptions returns the standard walk configuration.
func DefaultOptions() Options {
	return Options{
		Start:            Cursor{Dir: transmission.Right},
		Source:           true,
		AutoSpacerLength: 30,
		VariantGap:       12,
	}
}

func (o *Options) setDefaults() {
	d := DefaultOptions()
	if !o.Start.Dir.Valid() {
		o.Start.Dir = d.Start.Dir
	}
	if o.AutoSpacerLength <= 0 {
		o.AutoSpacerLength = d.AutoSpacerLength
	}
	if o.VariantGap <= 0 {
		o.VariantGap = d.VariantGap
	}
}

// Type classifies a placement.
type Type string

const (
	TypeSource     Type = "source"
	TypeStage      Type = "stage"
	TypeVariant    Type = "variant" // a non-selected alternative, drawn but not walked
	TypeSpacer     Type = "spacer"
	TypeAutoSpacer Type = "auto_spacer"
)

// Placement is one positioned symbol.
type Placement struct {
	// ID is the owner id: the stage id for a walked stage, the variant id for
	// a stacked alternative, the spacer id, or a synthetic id.
	ID   string `json:"id"`
	Type Type   `json:"type"`
	// Element is the index into the element list, -1 for synthetic placements.
	Element      int                   `json:"element"`
	VariantIndex int                   `json:"variant_index"`
	Kind         transmission.Kind     `json:"kind,omitempty"`
	Variant      *transmission.Variant `json:"variant,omitempty"`
	Spacer       *transmission.Spacer  `json:"spacer,omitempty"`
	Turn         Orientation           `json:"-"`
	Transform    geom.Transform        `json:"transform"`
	Geometry     symbol.Geometry       `json:"geometry"`
	// Boxes are the owner-tagged world sub-boxes.
	Boxes []geom.Bbox `json:"boxes"`
	// Bounds is the world extent of the whole symbol.
	Bounds geom.Bbox `json:"bounds"`
	In     Cursor    `json:"in"`
	Out    Cursor    `json:"out"`
	// FreeEnds are world positions of shaft ends that need a bearing.
	FreeEnds []geom.Point `json:"free_ends,omitempty"`
}

// Walked reports whether the placement is part of the power flow (as
// opposed to a stacked alternative).
func (p Placement) Walked() bool { return p.Type != TypeVariant }

// Annotated reports whether the placement carries a ratio callout subject.
func (p Placement) Annotated() bool {
	return p.Type == TypeStage || p.Type == TypeVariant
}

// Center returns the centre of the placement's world bounds.
func (p Placement) Center() geom.Point { return p.Bounds.Center() }

// Terminal is a shaft end in world space.
type Terminal struct {
	ID         string     `json:"id"`
	Owner      string     `json:"owner"`
	Point      geom.Point `json:"point"`
	Horizontal bool       `json:"horizontal"`
	// Connection marks a boundary another element attaches to. Free ends
	// get a bearing and nothing else.
	Connection bool `json:"connection"`
}

// Shaft connects the output of one model element to the input of the next.
// Its length is zero unless an automatic spacer was inserted between them.
type Shaft struct {
	From   geom.Point `json:"from"`
	To     geom.Point `json:"to"`
	FromID string     `json:"from_id"`
	ToID   string     `json:"to_id"`
}

// Length returns the shaft length.
func (s Shaft) Length() float64 { return s.From.Dist(s.To) }

// Result is the outcome of a walk.
type Result struct {
	Placements []Placement `json:"placements"`
	Terminals  []Terminal  `json:"terminals"`
	Shafts     []Shaft     `json:"shafts"`
	// Occupied lists every owner-tagged sub-box of every placed symbol, in
	// draw order. Spacers occupy nothing.
	Occupied []geom.Bbox `json:"occupied"`
	Bounds   geom.Bounds `json:"-"`
	End      Cursor      `json:"end"`
}

// Find returns the placement with the given owner id.
func (r *Result) Find(id string) (*Placement, bool) {
	for i := range r.Placements {
		if r.Placements[i].ID == id {
			return &r.Placements[i], true
		}
	}
	return nil, false
}

// Canvas returns the running bounds grown by pad on every side.
func (r *Result) Canvas(pad float64) geom.Bbox { return r.Bounds.Padded(pad) }

// Walk places every element in order starting from opts.Start.
func Walk(elems []transmission.Element, opts Options) Result {
	opts.setDefaults()
	w := walker{opts: opts, cursor: opts.Start}

	if opts.Source {
		w.addModel(StepSource(w.cursor))
	}
	for i, e := range elems {
		switch e.Type {
		case transmission.ElementSpacer:
			if e.Spacer == nil {
				continue
			}
			next, p := StepSpacer(w.cursor, *e.Spacer)
			p.Element = i
			w.cursor = next
			w.addModel(p)
		case transmission.ElementStage:
			if e.Stage == nil || len(e.Stage.Variants) == 0 {
				continue
			}
			w.stage(i, e.Stage)
		}
	}
	w.finish()
	return w.res
}

type walker struct {
	opts   Options
	cursor Cursor
	res    Result

	lastLayout *transmission.Layout
	autoN      int

	// Output terminal of the last model element, for shafts.
	lastOut   *geom.Point
	lastOutID string
	// Index of the most recent output terminal.
	lastOutTerm int
}

func (w *walker) stage(index int, st *transmission.Stage) {
	sel := st.SelectedIndex()
	v := st.Variants[sel]

	if v.Kind.Class() == transmission.ClassParallel {
		if w.lastLayout != nil && *w.lastLayout != v.Layout {
			w.autoN++
			next, p := StepSpacer(w.cursor, transmission.Spacer{
				ID:     fmt.Sprintf("auto-spacer-%d", w.autoN),
				Length: w.opts.AutoSpacerLength,
			})
			p.Type = TypeAutoSpacer
			p.Element = -1
			w.cursor = next
			w.add(p)
		}
		l := v.Layout
		w.lastLayout = &l
	}

	in := w.cursor
	next, p := StepVariant(in, st.ID, v, st.Turn)
	p.Element, p.VariantIndex = index, sel
	w.cursor = next
	w.addModel(p)

	if len(st.Variants) > 1 {
		for _, alt := range StackAlternatives(in, st, w.opts.VariantGap) {
			alt.Element = index
			w.add(alt)
		}
	}
}

// addModel appends a placement that belongs to the power flow and links it
// to the previous one with a shaft.
func (w *walker) addModel(p Placement) {
	if w.lastOut != nil && p.Type != TypeSource {
		w.res.Shafts = append(w.res.Shafts, Shaft{
			From: *w.lastOut, To: p.In.Point(), FromID: w.lastOutID, ToID: p.ID,
		})
	}
	out := p.Out.Point()
	w.lastOut, w.lastOutID = &out, p.ID
	w.add(p)
}

func (w *walker) add(p Placement) {
	r := &w.res
	r.Placements = append(r.Placements, p)
	r.Occupied = append(r.Occupied, p.Boxes...)
	r.Bounds.AddBox(p.Bounds)
	if !p.Walked() {
		return
	}
	if p.Type != TypeSource {
		r.Terminals = append(r.Terminals, Terminal{
			ID: p.ID + ".in", Owner: p.ID, Point: p.In.Point(),
			Horizontal: p.In.Dir.Horizontal(), Connection: true,
		})
	}
	w.lastOutTerm = len(r.Terminals)
	r.Terminals = append(r.Terminals, Terminal{
		ID: p.ID + ".out", Owner: p.ID, Point: p.Out.Point(),
		Horizontal: p.Out.Dir.Horizontal(), Connection: true,
	})
	for i, f := range p.FreeEnds {
		r.Terminals = append(r.Terminals, Terminal{
			ID: fmt.Sprintf("%s.free%d", p.ID, i), Owner: p.ID, Point: f,
			Horizontal: p.In.Dir.Horizontal(),
		})
	}
}

// finish frees the last output shaft: nothing attaches after the final element.
func (w *walker) finish() {
	w.res.End = w.cursor
	if len(w.res.Terminals) > 0 {
		w.res.Terminals[w.lastOutTerm].Connection = false
	}
}
