// Package cli implements the drivetrain command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/drivetrain/pkg/buildinfo"
	"github.com/matzehuels/drivetrain/pkg/cache"
	pkgio "github.com/matzehuels/drivetrain/pkg/io"
	"github.com/matzehuels/drivetrain/pkg/pipeline"
	"github.com/matzehuels/drivetrain/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "drivetrain"

// Log levels accepted by New and SetLogLevel.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Drivetrain lays out transmission scheme diagrams",
		Long: `Drivetrain turns an ordered list of transmission stages (gears, belts,
chains, bevel and worm sets, planetary sets) and spacers into a kinematic
scheme diagram: positioned symbols, shafts, bearings and ratio callouts,
with overlap detection and a dismissible warning.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	var verbose, quiet bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug detail (cache keys, timings)")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "log warnings and errors only")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")
	root.PersistentPreRun = func(*cobra.Command, []string) {
		switch {
		case verbose:
			c.SetLogLevel(LogDebug)
		case quiet:
			c.SetLogLevel(LogWarn)
		}
	}

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newSessionStore opens the on-disk warning sessions.
func newSessionStore() (*session.FileStore, error) {
	dir, err := stateDir()
	if err != nil {
		return nil, err
	}
	return session.NewFileStore(filepath.Join(dir, "sessions"))
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/drivetrain/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// stateDir returns the state directory using XDG standard (~/.local/state/drivetrain/).
func stateDir() (string, error) {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// passFlags are the flags shared by every command that runs a layout pass.
type passFlags struct {
	config   string
	selected string
	noCache  bool
	refresh  bool
	source   bool
	callouts bool
	labelSrc bool
}

func (f *passFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "tuning file (TOML) with layout and callout options")
	cmd.Flags().StringVar(&f.selected, "select", "", "element id to focus")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&f.source, "motor", true, "draw the power source")
	cmd.Flags().BoolVar(&f.callouts, "callouts", true, "place ratio callouts")
	cmd.Flags().BoolVar(&f.labelSrc, "label-motor", false, "label the power source with the overall ratio")
}

// options loads the tuning file and applies the flag overrides on top.
func (f *passFlags) options(cmd *cobra.Command) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()
	tuning, err := pkgio.LoadOptions(f.config)
	if err != nil {
		return opts, err
	}
	opts.Scheme = tuning
	if cmd.Flags().Changed("motor") {
		opts.Scheme.Layout.Source = f.source
	}
	if cmd.Flags().Changed("callouts") {
		opts.Scheme.NoCallouts = !f.callouts
	}
	if cmd.Flags().Changed("label-motor") {
		opts.Scheme.SourceCallout = f.labelSrc
	}
	opts.View.Selected = f.selected
	opts.Refresh = f.refresh
	return opts, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// formatExt is the file extension written for each output format.
func formatExt(format string) string {
	switch format {
	case pipeline.FormatChain:
		return ".chain.svg"
	case pipeline.FormatScene:
		return ".scene.json"
	case pipeline.FormatDOT:
		return ".dot"
	}
	return "." + format
}

// basePath derives the base output path. If output is empty the input
// extension is stripped; a known output extension on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		if strings.HasSuffix(input, ".scene.json") {
			return strings.TrimSuffix(input, ".scene.json")
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	// Compound extensions first so "x.chain.svg" loses ".chain.svg", not ".svg".
	for _, ext := range []string{".chain.svg", ".scene.json", ".svg", ".json", ".dot"} {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// formatCompletions extends a partial comma-separated format list with each
// format not yet named.
func formatCompletions(partial string) []string {
	prefix := ""
	if i := strings.LastIndex(partial, ","); i >= 0 {
		prefix = partial[:i+1]
	}
	used := make(map[string]bool)
	for _, f := range strings.Split(prefix, ",") {
		used[strings.TrimSpace(f)] = true
	}
	var out []string
	for _, f := range pipeline.FormatNames {
		if !used[f] {
			out = append(out, prefix+f)
		}
	}
	return out
}
