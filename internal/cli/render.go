package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/drivetrain/pkg/io"
	"github.com/matzehuels/drivetrain/pkg/pipeline"
	"github.com/matzehuels/drivetrain/pkg/render/sink"
	"github.com/matzehuels/drivetrain/pkg/scheme"
)

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		fromScene  bool
		flags      passFlags
	)
	opts := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "render [definition|scene]",
		Short: "Render a transmission definition to SVG, JSON or a chain view",
		Long: `Render a transmission definition to SVG, JSON or a chain view.

Formats:
  svg     the scheme diagram
  json    flat, canvas-relative description of the drawing
  scene   the full scene in world coordinates
  chain   the power-flow chain laid out by Graphviz (SVG)
  dot     the power-flow chain as Graphviz source

With --scene the input is a scene file written by 'drivetrain layout' and
the layout pass is skipped.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDefinitions,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := flags.options(cmd)
			if err != nil {
				return err
			}
			opts.Scheme, opts.View, opts.Refresh = pass.Scheme, pass.View, pass.Refresh
			opts.Formats = parseFormats(formatsStr)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, fromScene, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.FormatNames, ", ")+" (comma-separated)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	cmd.Flags().BoolVar(&fromScene, "scene", false, "input is a scene file from 'layout'")
	cmd.Flags().StringVar(&opts.Style, "style", opts.Style, "visual style: "+strings.Join(sink.StyleNames(), ", "))
	cmd.Flags().BoolVar(&opts.Highlight, "highlight", false, "outline overlapping symbols in red")
	cmd.Flags().BoolVar(&opts.Interactive, "interactive", false, "embed hover highlighting (svg)")
	cmd.Flags().BoolVar(&opts.Grid, "grid", false, "draw a background grid (svg)")
	cmd.Flags().BoolVar(&opts.Boxes, "boxes", false, "draw reserved regions (svg, debugging)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "full variant labels (chain, dot)")
	cmd.Flags().BoolVar(&opts.Vertical, "vertical", false, "top-to-bottom chain (chain, dot)")
	cmd.Flags().BoolVar(&opts.Indent, "indent", false, "pretty-print json")
	flags.register(cmd)

	return cmd
}

// runRender lays out (or loads) the scene and writes every requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, fromScene, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if !fromScene {
		applyFileSession(ctx, input, &opts)
	}

	spin := newSpinner(ctx, "Laying out "+input, "Rendering "+strings.Join(opts.Formats, ", "))
	spin.Start()

	var (
		sc  *scheme.Scene
		hit bool
	)
	if fromScene {
		sc, err = pkgio.ImportScene(input)
	} else {
		sc, hit, err = layoutFile(ctx, runner, input, opts)
	}
	if err != nil {
		spin.Fail("Layout failed")
		return err
	}

	spin.Next()
	artifacts, renderHit, err := runner.RenderWithCacheInfo(ctx, sc, opts)
	if err != nil {
		spin.Fail("Render failed")
		return err
	}
	elapsed := spin.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifacts, opts.Formats, output, input)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s in %s", input, elapsed.Round(time.Millisecond))
	for _, p := range paths {
		printFile(p)
	}
	printStats(sc, hit && renderHit)
	if sc.Warn {
		printOverlapWarning(sc)
		printDetail("dismiss with: %s check --dismiss %s", appName, input)
	}
	return nil
}

func layoutFile(ctx context.Context, runner *pipeline.Runner, path string, opts pipeline.Options) (*scheme.Scene, bool, error) {
	elems, err := pkgio.ImportDefinition(path)
	if err != nil {
		return nil, false, err
	}
	return runner.LayoutWithCacheInfo(ctx, elems, opts)
}

// writeArtifacts writes each format. A single format goes to output as
// given; several formats share a base path with per-format extensions.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	var paths []string
	if len(formats) == 1 && output != "" {
		if err := os.WriteFile(output, artifacts[formats[0]], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", output, err)
		}
		return []string{output}, nil
	}

	base := basePath(output, input)
	for _, f := range formats {
		path := base + formatExt(f)
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
