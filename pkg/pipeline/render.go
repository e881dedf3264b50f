package pipeline

import (
	"bytes"
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/drivetrain/pkg/errors"
	pkgio "github.com/matzehuels/drivetrain/pkg/io"
	"github.com/matzehuels/drivetrain/pkg/render/chain"
	"github.com/matzehuels/drivetrain/pkg/render/sink"
	"github.com/matzehuels/drivetrain/pkg/scheme"
)

// Render generates output artifacts for a scene in the requested formats.
// Formats are rendered concurrently; the scene is only read.
func Render(ctx context.Context, sc *scheme.Scene, opts Options) (map[string][]byte, error) {
	out := make([][]byte, len(opts.Formats))
	g, ctx := errgroup.WithContext(ctx)
	for i, format := range opts.Formats {
		g.Go(func() error {
			data, err := RenderFormat(ctx, sc, format, opts)
			if err != nil {
				return err
			}
			out[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(out))
	for i, format := range opts.Formats {
		artifacts[format] = out[i]
	}
	return artifacts, nil
}

// RenderFormat renders one format.
func RenderFormat(ctx context.Context, sc *scheme.Scene, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		svgOpts, err := buildSVGOptions(opts)
		if err != nil {
			return nil, err
		}
		return sink.RenderSVG(sc, svgOpts...), nil

	case FormatJSON:
		jsonOpts := []sink.JSONOption{sink.WithJSONStyle(opts.Style)}
		if opts.Indent {
			jsonOpts = append(jsonOpts, sink.WithJSONIndent())
		}
		data, err := sink.RenderJSON(sc, jsonOpts...)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render json")
		}
		return data, nil

	case FormatScene:
		var buf bytes.Buffer
		if err := pkgio.WriteScene(&buf, sc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	case FormatDOT:
		return []byte(chain.ToDOT(sc, chainOptions(opts))), nil

	case FormatChain:
		data, err := chain.RenderSVG(ctx, chain.ToDOT(sc, chainOptions(opts)))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render chain")
		}
		return data, nil
	}
	return nil, ValidateFormat(format)
}

func buildSVGOptions(opts Options) ([]sink.SVGOption, error) {
	style, err := sink.StyleNamed(opts.Style)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "style")
	}
	svgOpts := []sink.SVGOption{sink.WithStyle(style)}
	if opts.Highlight {
		svgOpts = append(svgOpts, sink.WithHighlight())
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	if opts.Grid {
		svgOpts = append(svgOpts, sink.WithGrid())
	}
	if opts.Boxes {
		svgOpts = append(svgOpts, sink.WithBoxes())
	}
	return svgOpts, nil
}

func chainOptions(opts Options) chain.Options {
	return chain.Options{Detailed: opts.Detailed, Vertical: opts.Vertical}
}
