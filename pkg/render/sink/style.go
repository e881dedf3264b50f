package sink

import (
	"fmt"
	"sort"
)

// Style is the palette and stroke set of a rendering.
type Style struct {
	Name       string
	Background string
	Ink        string
	Fill       string
	Ring       string
	Motor      string
	Overlap    string
	Selected   string
	Callout    string
	Font       string
	FontSize   float64
	Stroke     float64
	ShaftWidth float64
}

var styles = map[string]Style{
	"simple": {
		Name:       "simple",
		Background: "white",
		Ink:        "#222222",
		Fill:       "white",
		Ring:       "#cfcfcf",
		Motor:      "#e8eef7",
		Overlap:    "#d62728",
		Selected:   "#1f77b4",
		Callout:    "#444444",
		Font:       "monospace",
		FontSize:   11,
		Stroke:     1,
		ShaftWidth: 2,
	},
	"blueprint": {
		Name:       "blueprint",
		Background: "#0b3d91",
		Ink:        "#f0f4ff",
		Fill:       "#0b3d91",
		Ring:       "#3a63b8",
		Motor:      "#1c4fa8",
		Overlap:    "#ffb000",
		Selected:   "#7fffd4",
		Callout:    "#f0f4ff",
		Font:       "monospace",
		FontSize:   11,
		Stroke:     1,
		ShaftWidth: 2,
	},
}

// DefaultStyle is the plain black-on-white palette.
func DefaultStyle() Style { return styles["simple"] }

// StyleNamed looks up a built-in style.
func StyleNamed(name string) (Style, error) {
	if name == "" {
		return DefaultStyle(), nil
	}
	s, ok := styles[name]
	if !ok {
		return Style{}, fmt.Errorf("unknown style %q (available: %v)", name, StyleNames())
	}
	return s, nil
}

// StyleNames lists the built-in styles.
func StyleNames() []string {
	names := make([]string, 0, len(styles))
	for n := range styles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
