package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/drivetrain/pkg/errors"
	"github.com/matzehuels/drivetrain/pkg/transmission"
)

// Format is a definition file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	if err := errors.ValidateDefinitionPath(path); err != nil {
		return "", err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return FormatJSON, nil
}

// ParseFormat maps a format name ("toml", "yaml", "yml", "json") to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown definition format %q (must be toml, yaml or json)", name)
}

// Definition is the on-disk form of a transmission.
type Definition struct {
	Name     string       `toml:"name" yaml:"name" json:"name,omitempty"`
	Elements []ElementDef `toml:"elements" yaml:"elements" json:"elements"`
}

// ElementDef is one stage or spacer. Stage fields and spacer fields share
// the record; which ones apply depends on Type.
type ElementDef struct {
	Type     string       `toml:"type" yaml:"type" json:"type,omitempty"`
	ID       string       `toml:"id" yaml:"id" json:"id,omitempty"`
	Turn     string       `toml:"turn" yaml:"turn" json:"turn,omitempty"`
	Variants []VariantDef `toml:"variants" yaml:"variants" json:"variants,omitempty"`
	Length   float64      `toml:"length" yaml:"length" json:"length,omitempty"`
	Style    string       `toml:"style" yaml:"style" json:"style,omitempty"`
}

// VariantDef is one alternative of a stage.
type VariantDef struct {
	ID       string  `toml:"id" yaml:"id" json:"id,omitempty"`
	Label    string  `toml:"label" yaml:"label" json:"label,omitempty"`
	Kind     string  `toml:"kind" yaml:"kind" json:"kind"`
	Z1       int     `toml:"z1" yaml:"z1" json:"z1,omitempty"`
	Z2       int     `toml:"z2" yaml:"z2" json:"z2,omitempty"`
	D1       float64 `toml:"d1" yaml:"d1" json:"d1,omitempty"`
	D2       float64 `toml:"d2" yaml:"d2" json:"d2,omitempty"`
	Module   float64 `toml:"module" yaml:"module" json:"module,omitempty"`
	Width    float64 `toml:"width" yaml:"width" json:"width,omitempty"`
	Q        float64 `toml:"q" yaml:"q" json:"q,omitempty"`
	U        float64 `toml:"u" yaml:"u" json:"u,omitempty"`
	Reversed bool    `toml:"reversed" yaml:"reversed" json:"reversed,omitempty"`
	Layout   string  `toml:"layout" yaml:"layout" json:"layout,omitempty"`
	Selected bool    `toml:"selected" yaml:"selected" json:"selected,omitempty"`
}

// Decode parses a definition in the given format. It does not validate.
func Decode(r io.Reader, f Format) (*Definition, error) {
	var def Definition
	var err error
	switch f {
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&def)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&def)
		if err == io.EOF {
			err = nil
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&def)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown definition format %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s definition", f)
	}
	return &def, nil
}

// Model converts the definition into the layout model, filling in ids
// and ratios, then validates it.
func (d *Definition) Model() ([]transmission.Element, error) {
	out := make([]transmission.Element, 0, len(d.Elements))
	for i, ed := range d.Elements {
		e, err := ed.element(i + 1)
		if err != nil {
			return nil, errors.Annotate(err, "element %d", i+1)
		}
		out = append(out, e)
	}
	if err := transmission.Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (ed ElementDef) element(n int) (transmission.Element, error) {
	typ := transmission.ElementType(ed.Type)
	if typ == "" {
		typ = transmission.ElementSpacer
		if len(ed.Variants) > 0 {
			typ = transmission.ElementStage
		}
	}

	switch typ {
	case transmission.ElementSpacer:
		style := new(transmission.SpacerStyle)
		if err := style.UnmarshalText([]byte(ed.Style)); err != nil {
			return transmission.Element{}, errors.Wrap(errors.ErrCodeInvalidElement, err, "spacer")
		}
		id := ed.ID
		if id == "" {
			id = fmt.Sprintf("spacer-%d", n)
		}
		return transmission.SpacerElement(transmission.Spacer{ID: id, Length: ed.Length, Style: *style}), nil

	case transmission.ElementStage:
		turn, err := transmission.ParseDirection(ed.Turn)
		if err != nil {
			return transmission.Element{}, errors.Wrap(errors.ErrCodeInvalidElement, err, "stage")
		}
		st := transmission.Stage{ID: ed.ID, Turn: turn}
		if st.ID == "" {
			st.ID = fmt.Sprintf("stage-%d", n)
		}
		for m, vd := range ed.Variants {
			v, err := vd.variant()
			if err != nil {
				return transmission.Element{}, errors.Annotate(err, "variant %d", m+1)
			}
			if v.ID == "" {
				v.ID = fmt.Sprintf("%s.v%d", st.ID, m+1)
			}
			st.Variants = append(st.Variants, v)
		}
		return transmission.StageElement(st), nil
	}
	return transmission.Element{}, errors.New(errors.ErrCodeInvalidElement, "unknown type %q", ed.Type)
}

func (vd VariantDef) variant() (transmission.Variant, error) {
	kind, err := transmission.ParseKind(vd.Kind)
	if err != nil {
		return transmission.Variant{}, errors.Wrap(errors.ErrCodeInvalidKind, err, "kind")
	}
	var lay transmission.Layout
	if err := lay.UnmarshalText([]byte(vd.Layout)); err != nil {
		return transmission.Variant{}, errors.Wrap(errors.ErrCodeInvalidElement, err, "layout")
	}
	v := transmission.Variant{
		ID:    vd.ID,
		Label: vd.Label,
		Kind:  kind,
		Inputs: transmission.Inputs{
			Z1: vd.Z1, Z2: vd.Z2,
			D1: vd.D1, D2: vd.D2,
			Module: vd.Module, Width: vd.Width, Q: vd.Q,
		},
		U:        vd.U,
		Reversed: vd.Reversed,
		Layout:   lay,
		Selected: vd.Selected,
	}
	if v.U == 0 {
		v.U = ratioOf(v.Inputs)
	}
	return v, nil
}

func ratioOf(in transmission.Inputs) float64 {
	switch {
	case in.Z1 > 0 && in.Z2 > 0:
		return float64(in.Z2) / float64(in.Z1)
	case in.D1 > 0 && in.D2 > 0:
		return in.D2 / in.D1
	}
	return 1
}

// ReadDefinition decodes and validates a definition from r.
func ReadDefinition(r io.Reader, f Format) ([]transmission.Element, error) {
	def, err := Decode(r, f)
	if err != nil {
		return nil, err
	}
	return def.Model()
}

// ParseDefinition is ReadDefinition over a byte slice.
func ParseDefinition(data []byte, f Format) ([]transmission.Element, error) {
	return ReadDefinition(bytes.NewReader(data), f)
}

// ImportDefinition reads the definition file at path.
func ImportDefinition(path string) ([]transmission.Element, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "definition %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	elems, err := ParseDefinition(data, f)
	if err != nil {
		return nil, errors.Annotate(err, "%s", path)
	}
	return elems, nil
}
