// Package transmission defines the model consumed by the scheme layout engine:
// an ordered list of stages and spacer shafts, each stage holding one or more
// alternative module variants.
//
// The numeric fields of a variant (teeth counts, diameters, the ratio u) are
// produced by an external calculation layer and are read-only here. Only the
// layout flags (Reversed, Layout) and Selected are expected to change between
// layout passes.
package transmission

import "fmt"

// Layout mirrors a parallel-axis pair across its flow axis.
type Layout uint8

const (
	LayoutStandard Layout = iota
	LayoutInverted
)

func (l Layout) String() string {
	if l == LayoutInverted {
		return "inverted"
	}
	return "standard"
}

// Toggle returns the other layout.
func (l Layout) Toggle() Layout {
	if l == LayoutInverted {
		return LayoutStandard
	}
	return LayoutInverted
}

func (l Layout) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *Layout) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "standard":
		*l = LayoutStandard
	case "inverted":
		*l = LayoutInverted
	default:
		return fmt.Errorf("unknown layout %q", string(b))
	}
	return nil
}

// SpacerStyle selects how a spacer shaft is drawn.
type SpacerStyle uint8

const (
	SpacerSolid SpacerStyle = iota
	SpacerDashed
	SpacerCardan
)

func (s SpacerStyle) String() string {
	switch s {
	case SpacerDashed:
		return "dashed"
	case SpacerCardan:
		return "cardan"
	}
	return "solid"
}

func (s SpacerStyle) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *SpacerStyle) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "solid":
		*s = SpacerSolid
	case "dashed":
		*s = SpacerDashed
	case "cardan":
		*s = SpacerCardan
	default:
		return fmt.Errorf("unknown spacer style %q", string(b))
	}
	return nil
}

// Inputs holds the raw numeric parameters of a variant. Which fields matter
// depends on the kind; unused fields stay zero.
type Inputs struct {
	Z1     int     `json:"z1,omitempty" toml:"z1" yaml:"z1,omitempty"`
	Z2     int     `json:"z2,omitempty" toml:"z2" yaml:"z2,omitempty"`
	D1     float64 `json:"d1,omitempty" toml:"d1" yaml:"d1,omitempty"`
	D2     float64 `json:"d2,omitempty" toml:"d2" yaml:"d2,omitempty"`
	Module float64 `json:"module,omitempty" toml:"module" yaml:"module,omitempty"`
	Width  float64 `json:"width,omitempty" toml:"width" yaml:"width,omitempty"`
	Q      float64 `json:"q,omitempty" toml:"q" yaml:"q,omitempty"` // worm diametral quotient
}

// Variant is one concrete alternative for a stage.
type Variant struct {
	ID       string  `json:"id"`
	Label    string  `json:"label,omitempty"`
	Kind     Kind    `json:"kind"`
	Inputs   Inputs  `json:"inputs"`
	U        float64 `json:"u"`
	Reversed bool    `json:"reversed,omitempty"`
	Layout   Layout  `json:"layout"`
	Selected bool    `json:"selected,omitempty"`
}

// Stage is one position in the transmission. Variants is never empty for a
// valid stage. Turn is the desired output direction for turning kinds.
type Stage struct {
	ID       string    `json:"id"`
	Variants []Variant `json:"variants"`
	Turn     Direction `json:"turn,omitempty"`
}

// SelectedIndex returns the index of the variant feeding the diagram. A
// single-variant stage is implicitly selected; if no variant is flagged the
// first one is used.
func (s *Stage) SelectedIndex() int {
	if len(s.Variants) <= 1 {
		return 0
	}
	for i, v := range s.Variants {
		if v.Selected {
			return i
		}
	}
	return 0
}

// Selected returns the selected variant. The stage must have at least one variant.
func (s *Stage) Selected() *Variant {
	return &s.Variants[s.SelectedIndex()]
}

// Select marks variant i as selected and clears the flag on the others.
func (s *Stage) Select(i int) {
	if i < 0 || i >= len(s.Variants) {
		return
	}
	for j := range s.Variants {
		s.Variants[j].Selected = j == i
	}
}

// Spacer is a passive shaft segment with no effect on ratios.
type Spacer struct {
	ID     string      `json:"id"`
	Length float64     `json:"length"`
	Style  SpacerStyle `json:"style"`
}

// ElementType discriminates the Element union.
type ElementType string

const (
	ElementStage  ElementType = "stage"
	ElementSpacer ElementType = "spacer"
)

// Element is a tagged union over Stage and Spacer. Exactly one of Stage or
// Spacer is non-nil, matching Type.
type Element struct {
	Type   ElementType `json:"type"`
	Stage  *Stage      `json:"stage,omitempty"`
	Spacer *Spacer     `json:"spacer,omitempty"`
}

// StageElement wraps a stage.
func StageElement(s Stage) Element { return Element{Type: ElementStage, Stage: &s} }

// SpacerElement wraps a spacer.
func SpacerElement(s Spacer) Element { return Element{Type: ElementSpacer, Spacer: &s} }

// ID returns the id of the wrapped stage or spacer.
func (e Element) ID() string {
	switch {
	case e.Stage != nil:
		return e.Stage.ID
	case e.Spacer != nil:
		return e.Spacer.ID
	}
	return ""
}

// Clone returns a deep copy so that flag toggles never alias the source.
func Clone(elems []Element) []Element {
	out := make([]Element, len(elems))
	for i, e := range elems {
		out[i] = Element{Type: e.Type}
		if e.Stage != nil {
			st := *e.Stage
			st.Variants = append([]Variant(nil), e.Stage.Variants...)
			out[i].Stage = &st
		}
		if e.Spacer != nil {
			sp := *e.Spacer
			out[i].Spacer = &sp
		}
	}
	return out
}

// OverallRatio multiplies the ratios of the selected variants. Non-positive
// ratios count as 1.
func OverallRatio(elems []Element) float64 {
	u := 1.0
	for _, e := range elems {
		if e.Stage == nil || len(e.Stage.Variants) == 0 {
			continue
		}
		if v := e.Stage.Selected().U; v > 0 {
			u *= v
		}
	}
	return u
}
