// Package pipeline runs the layout → render pipeline for transmission
// schemes and is shared by the CLI and the HTTP server.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Layout: one deterministic scheme pass (cursor walk, overlap detection,
//     bearings, callouts, interaction index) producing a scheme.Scene
//  2. Render: serialize the scene into the requested formats
//
// Both stages are cached under content-addressed keys. A scene depends on the
// elements, the pass options and the view state; an artifact depends on the
// scene and the render options only.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, elems, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drivetrain/pkg/cache"
	"github.com/matzehuels/drivetrain/pkg/errors"
	"github.com/matzehuels/drivetrain/pkg/render/sink"
	"github.com/matzehuels/drivetrain/pkg/scheme"
)

// Format constants for output formats.
const (
	// FormatSVG is the scheme drawing.
	FormatSVG = "svg"
	// FormatJSON is the flat, canvas-relative description of the drawing.
	FormatJSON = "json"
	// FormatScene is the complete scene in world coordinates.
	FormatScene = "scene"
	// FormatChain is the power-flow chain rendered by Graphviz.
	FormatChain = "chain"
	// FormatDOT is the power-flow chain as Graphviz source.
	FormatDOT = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatJSON:  true,
	FormatScene: true,
	FormatChain: true,
	FormatDOT:   true,
}

// FormatNames lists the formats in display order.
var FormatNames = []string{FormatSVG, FormatJSON, FormatScene, FormatChain, FormatDOT}

// ContentType returns the MIME type of a rendered format.
func ContentType(format string) string {
	switch format {
	case FormatSVG, FormatChain:
		return "image/svg+xml"
	case FormatJSON, FormatScene:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	}
	return "application/octet-stream"
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Scheme scheme.Options   `json:"scheme"`
	View   scheme.ViewState `json:"view"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Style       string   `json:"style,omitempty"`
	Highlight   bool     `json:"highlight,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	Grid        bool     `json:"grid,omitempty"`
	Boxes       bool     `json:"boxes,omitempty"`
	Detailed    bool     `json:"detailed,omitempty"` // chain/dot: full variant labels
	Vertical    bool     `json:"vertical,omitempty"` // chain/dot: top-to-bottom
	Indent      bool     `json:"indent,omitempty"`   // json: pretty-print

	// Refresh bypasses cache reads. Results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// DefaultOptions returns options with the standard pass configuration and a
// single SVG output.
func DefaultOptions() Options {
	return Options{
		Scheme:  scheme.DefaultOptions(),
		Formats: []string{FormatSVG},
		Style:   sink.DefaultStyle().Name,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Scene *scheme.Scene

	// DefinitionHash is the content hash of the element list.
	DefinitionHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Elements   int
	Placements int
	Callouts   int
	Overlaps   int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the scene came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(FormatNames, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if _, err := sink.StyleNamed(style); err != nil || style == "" {
		return errors.New(errors.ErrCodeInvalidInput, "invalid style: %q (must be one of: %s)",
			style, strings.Join(sink.StyleNames(), ", "))
	}
	return nil
}

// ValidateSchemeOptions checks pass options that would otherwise be clamped
// silently.
func ValidateSchemeOptions(o scheme.Options) error {
	if o.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "padding cannot be negative")
	}
	if o.Layout.AutoSpacerLength < 0 || o.Layout.VariantGap < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout lengths cannot be negative")
	}
	if o.Layout.Start.Dir != 0 && !o.Layout.Start.Dir.Valid() {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid start direction")
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetRenderDefaults()
	if err := ValidateSchemeOptions(o.Scheme); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if o.View.Dismissed != "" {
		if err := errors.ValidateFingerprint(o.View.Dismissed); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = sink.DefaultStyle().Name
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Cacheable reports whether the scene can be cached. A custom callout
// placer is code and cannot be part of a key.
func (o *Options) Cacheable() bool { return o.Scheme.Placer == nil }

// SceneKeyOpts returns cache key options for the layout stage.
func (o *Options) SceneKeyOpts() (cache.SceneKeyOpts, error) {
	h, err := cache.HashJSON(o.Scheme)
	if err != nil {
		return cache.SceneKeyOpts{}, err
	}
	return cache.SceneKeyOpts{
		OptionsHash: h,
		Selected:    o.View.Selected,
		Dismissed:   o.View.Dismissed,
	}, nil
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG:
		k.Style = o.Style
		k.Highlight = o.Highlight
		k.Interactive = o.Interactive
		k.Grid = o.Grid
		k.Boxes = o.Boxes
	case FormatJSON:
		k.Style = o.Style
		k.Indent = o.Indent
	case FormatChain, FormatDOT:
		k.Detailed = o.Detailed
		k.Vertical = o.Vertical
	}
	return k
}
