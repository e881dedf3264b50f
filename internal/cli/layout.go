package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/drivetrain/pkg/io"
	"github.com/matzehuels/drivetrain/pkg/pipeline"
)

// layoutCommand creates the layout command, which writes the scene JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  passFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [definition]",
		Short: "Compute the scheme layout of a transmission definition",
		Long: `Compute the scheme layout of a transmission definition.

The definition may be TOML, YAML or JSON. The output is a scene file
(<input>.scene.json by default) holding every placed symbol, shaft, bearing
and callout in world coordinates, plus the overlap set and its fingerprint.
Render it later with 'drivetrain render --scene'.

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDefinitions,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.scene.json)")
	flags.register(cmd)

	return cmd
}

// runLayout loads the definition, computes the scene, and writes it.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	elems, err := pkgio.ImportDefinition(input)
	if err != nil {
		return err
	}

	applyFileSession(ctx, input, &opts)

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	sc, hit, err := runner.LayoutWithCacheInfo(ctx, elems, opts)
	if err != nil {
		return err
	}
	prog.done("computed layout", "elements", len(elems))

	outputPath := output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".scene.json"
	}
	if err := pkgio.ExportScene(sc, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(sc, hit)
	if sc.Warn {
		printOverlapWarning(sc)
	}
	printNextStep("Render", appName+" render --scene "+outputPath)

	return nil
}
