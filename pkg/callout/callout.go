// Package callout places ratio labels with leader lines next to placed
// symbols.
//
// Placement is greedy and order dependent: subjects are processed in draw
// order, each one picks the cheapest of a fixed set of candidates against
// the regions reserved so far, and its text box is reserved before the next
// subject is considered. The Placer interface isolates the strategy so a
// global optimiser can replace it without touching the layout.
package callout

import (
	"math"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/drivetrain/pkg/geom"
)

// ReservedPrefix is prepended to a subject id to own its committed text box.
const ReservedPrefix = "callout:"

// Subject is a placed symbol that needs a callout.
type Subject struct {
	ID   string
	Text string
	// Anchors are the world-space leader attachment candidates.
	Anchors []geom.Point
	// Bounds is the world extent of the symbol.
	Bounds geom.Bbox
}

// Callout is a committed label.
type Callout struct {
	ID     string     `json:"id"`
	Text   string     `json:"text"`
	Anchor geom.Point `json:"anchor"`
	// Path is anchor, elbow and shelf end.
	Path    [3]geom.Point `json:"path"`
	TextBox geom.Bbox     `json:"text_box"`
	Penalty float64       `json:"penalty"`
}

// Placer commits one callout against the reserved regions and returns the
// regions extended by what the callout now occupies.
type Placer interface {
	Place(s Subject, reserved []geom.Bbox) (Callout, []geom.Bbox)
}

// PlaceAll runs p over subjects in order, threading the reserved regions.
func PlaceAll(p Placer, subjects []Subject, reserved []geom.Bbox) ([]Callout, []geom.Bbox) {
	out := make([]Callout, 0, len(subjects))
	for _, s := range subjects {
		var c Callout
		c, reserved = p.Place(s, reserved)
		out = append(out, c)
	}
	return out, reserved
}

// Label formats a ratio as "u=<value>" with two decimals. Missing or
// non-positive ratios read as 1.
func Label(u float64) string {
	if !(u > 0) || math.IsInf(u, 0) {
		u = 1
	}
	return "u=" + strconv.FormatFloat(u, 'f', 2, 64)
}

// MeasureFunc returns the width and height of a rendered label.
type MeasureFunc func(text string) (w, h float64)

// MeasureBasic measures text set in the 7x13 fixed bitmap face.
func MeasureBasic(text string) (float64, float64) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil()
	return float64(w), float64(face.Height)
}

// Greedy is the default Placer.
type Greedy struct {
	cfg     Config
	measure MeasureFunc
}

// NewGreedy returns a greedy placer. A nil measure uses MeasureBasic.
func NewGreedy(cfg Config, measure MeasureFunc) *Greedy {
	if measure == nil {
		measure = MeasureBasic
	}
	return &Greedy{cfg: cfg.WithDefaults(), measure: measure}
}

// Config returns the effective configuration.
func (g *Greedy) Config() Config { return g.cfg }

type candidate struct {
	anchor  geom.Point
	path    [3]geom.Point
	textBox geom.Bbox
	penalty float64
}

// Place scores every anchor and elbow offset combination and commits the
// cheapest; on ties the first candidate generated wins. Exactly one region,
// the text box grown by the reserve buffer, is appended to reserved.
func (g *Greedy) Place(s Subject, reserved []geom.Bbox) (Callout, []geom.Bbox) {
	tw, th := g.measure(s.Text)
	center := s.Bounds.Center()

	anchors := s.Anchors
	if len(anchors) == 0 {
		anchors = []geom.Point{center}
	}

	var best *candidate
	for _, a := range anchors {
		side := sign(a.X - center.X)
		for _, o := range g.cfg.Offsets {
			if side != 0 && !o.Vertical() && sign(o.DX) != side {
				continue
			}
			c := g.candidate(s, a, o, side, tw, th, reserved)
			if best == nil || c.penalty < best.penalty {
				cc := c
				best = &cc
			}
		}
	}
	if best == nil {
		// Every offset was filtered out: fall back to the first one unfiltered.
		c := g.candidate(s, anchors[0], g.cfg.Offsets[0], 0, tw, th, reserved)
		best = &c
	}

	out := Callout{
		ID:      s.ID,
		Text:    s.Text,
		Anchor:  best.anchor,
		Path:    best.path,
		TextBox: best.textBox,
		Penalty: best.penalty,
	}
	res := make([]geom.Bbox, len(reserved), len(reserved)+1)
	copy(res, reserved)
	res = append(res, best.textBox.Expand(g.cfg.ReserveBuffer).WithOwner(ReservedPrefix+s.ID))
	return out, res
}

// candidate builds and scores the leader anchor -> elbow -> shelf end. The
// shelf runs horizontally away from the symbol on the anchor's side; for
// anchors on the centre line it follows the offset.
func (g *Greedy) candidate(s Subject, a geom.Point, o Offset, side, tw, th float64, reserved []geom.Bbox) candidate {
	cfg := g.cfg
	dir := side
	if dir == 0 {
		dir = sign(o.DX)
	}
	if dir == 0 {
		dir = 1
	}
	shelf := tw + 2*cfg.TextPadding
	elbow := a.Add(o.DX, o.DY)
	end := elbow.Add(dir*shelf, 0)
	text := geom.Bbox{
		X: math.Min(elbow.X, end.X),
		Y: elbow.Y - th - cfg.TextPadding,
		W: shelf,
		H: th + cfg.TextPadding,
	}

	var pen float64
	if o.Vertical() {
		pen += cfg.VerticalPenalty
	}
	legs := [2]geom.Bbox{
		geom.SegmentBox(geom.Segment{A: a, B: elbow}, cfg.LeaderStroke),
		geom.SegmentBox(geom.Segment{A: elbow, B: end}, cfg.LeaderStroke),
	}
	for _, r := range reserved {
		if area := text.OverlapArea(r); area > 0 {
			pen += cfg.TextOverlapWeight * area
		} else if d := text.Distance(r); d < cfg.ProximityRange {
			pen += cfg.ProximityWeight * (cfg.ProximityRange - d)
		}
		if r.Owner == s.ID {
			continue
		}
		for _, leg := range legs {
			pen += cfg.LeaderOverlapWeight * leg.OverlapArea(r)
		}
	}
	pen += cfg.LengthWeight * (a.Dist(elbow) + elbow.Dist(end))
	if s.Bounds.Expand(cfg.OwnerMargin).Contains(elbow) {
		pen += cfg.ElbowInsidePenalty
	}

	return candidate{
		anchor:  a,
		path:    [3]geom.Point{a, elbow, end},
		textBox: text,
		penalty: pen,
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
