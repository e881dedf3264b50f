package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/drivetrain/pkg/interact"
	pkgio "github.com/matzehuels/drivetrain/pkg/io"
	"github.com/matzehuels/drivetrain/pkg/pipeline"
	"github.com/matzehuels/drivetrain/pkg/scheme"
	"github.com/matzehuels/drivetrain/pkg/session"
	"github.com/matzehuels/drivetrain/pkg/transmission"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	bannerStyle       = lipgloss.NewStyle().Foreground(colorRed).Bold(true).
				Border(lipgloss.RoundedBorder()).BorderForeground(colorRed).Padding(0, 1)
)

// browseCommand opens an interactive editor over a definition.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		flags  passFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "browse [definition]",
		Short: "Step through a scheme and toggle stage flags interactively",
		Long: `Step through a scheme and toggle stage flags interactively.

Keys: j/k or arrows move the focus, r reverses the focused stage, l toggles
its layout, v cycles its variants (enter selects a focused alternative),
d dismisses the overlap warning, s saves the SVG, q quits.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDefinitions,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			return c.runBrowse(cmd.Context(), args[0], opts, output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file written by s (default: <input>.svg)")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	elems, err := pkgio.ImportDefinition(input)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	store, err := newSessionStore()
	if err != nil {
		return fmt.Errorf("open sessions: %w", err)
	}
	sess, err := loadFileSession(ctx, store, input)
	if err != nil {
		return err
	}
	if output == "" {
		output = basePath("", input) + ".svg"
	}

	m := newBrowseModel(ctx, runner, elems, opts, sess)
	m.store, m.output = store, output
	if err := m.relayout(); err != nil {
		return err
	}

	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(browseModel); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

// =============================================================================
// browseModel - Interactive scheme editor
// =============================================================================

// browseModel is the bubbletea model for the interactive editor. Every edit
// runs a fresh layout pass; focus follows the edited element by id.
type browseModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	opts   pipeline.Options
	elems  []transmission.Element

	sess   *session.Session
	store  session.Store
	output string

	scene  *scheme.Scene
	cursor int
	status string
	err    error
}

func newBrowseModel(ctx context.Context, runner *pipeline.Runner, elems []transmission.Element, opts pipeline.Options, sess *session.Session) browseModel {
	if sess == nil {
		sess = session.New(session.DefaultTTL)
	}
	if opts.View.Selected == "" {
		opts.View.Selected = sess.Selected
	}
	return browseModel{
		ctx:    ctx,
		runner: runner,
		opts:   opts,
		elems:  transmission.Clone(elems),
		sess:   sess,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	x := &m.scene.Index

	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.save()
		return m, tea.Quit
	case "down", "j", "tab":
		m.focus(x.Next(m.cursor))
	case "up", "k", "shift+tab":
		m.focus(x.Prev(m.cursor))
	case "r":
		m.edit(func(st *transmission.Stage, v int) string {
			st.Variants[v].Reversed = !st.Variants[v].Reversed
			return "reversed " + st.Variants[v].ID
		})
	case "l":
		m.edit(func(st *transmission.Stage, v int) string {
			st.Variants[v].Layout = st.Variants[v].Layout.Toggle()
			return fmt.Sprintf("%s layout %s", st.Variants[v].ID, st.Variants[v].Layout)
		})
	case "v":
		m.edit(func(st *transmission.Stage, _ int) string {
			st.Select((st.SelectedIndex() + 1) % len(st.Variants))
			return "selected " + st.Selected().ID
		})
	case "enter", " ":
		m.edit(func(st *transmission.Stage, v int) string {
			st.Select(v)
			return "selected " + st.Variants[v].ID
		})
	case "d":
		if m.scene.Fingerprint == "" {
			m.status = "nothing to dismiss"
			break
		}
		m.sess.Dismiss()
		m.status = "overlap warning dismissed"
		m.rerun()
	case "s":
		data, err := pipeline.RenderFormat(m.ctx, m.scene, pipeline.FormatSVG, m.opts)
		if err == nil {
			err = os.WriteFile(m.output, data, 0o644)
		}
		if err != nil {
			m.status = "save failed: " + err.Error()
			break
		}
		m.status = "saved " + m.output
	}
	return m, nil
}

func (m *browseModel) focus(i int) {
	m.cursor = i
	if e, ok := m.scene.Index.At(i); ok {
		m.opts.View.Selected = e.ID
	}
}

// edit applies fn to the stage behind the focused entry and lays out again.
func (m *browseModel) edit(fn func(st *transmission.Stage, variant int) string) {
	e, ok := m.scene.Index.At(m.cursor)
	if !ok {
		return
	}
	var st *transmission.Stage
	if e.Element >= 0 && e.Element < len(m.elems) {
		st = m.elems[e.Element].Stage
	}
	if st == nil || e.Variant < 0 || e.Variant >= len(st.Variants) {
		m.status = e.ID + " is not a stage"
		return
	}
	m.status = fn(st, e.Variant)
	m.rerun()
}

func (m *browseModel) rerun() {
	if err := m.relayout(); err != nil {
		m.status = "layout failed: " + err.Error()
	}
}

// relayout runs a pass with the current elements and restores the focus.
func (m *browseModel) relayout() error {
	m.opts.View.Dismissed = m.sess.Dismissed
	sc, err := m.runner.Layout(m.ctx, m.elems, m.opts)
	if err != nil {
		return err
	}
	m.sess.Observe(sc.Fingerprint)

	prev, hadPrev := interact.Entry{}, false
	if m.scene != nil {
		prev, hadPrev = m.scene.Index.At(m.cursor)
	}
	m.scene = sc
	m.cursor = 0
	switch {
	case m.opts.View.Selected != "":
		if i, ok := sc.Index.Find(m.opts.View.Selected); ok {
			m.cursor = i
			break
		}
		fallthrough
	case hadPrev:
		m.cursor = nearestByElement(sc.Index, prev)
		if e, ok := sc.Index.At(m.cursor); ok && m.opts.View.Selected != "" {
			m.opts.View.Selected = e.ID
		}
	}
	return nil
}

// nearestByElement finds the walked entry of the element prev belonged to.
func nearestByElement(x interact.Index, prev interact.Entry) int {
	for i, e := range x.Entries {
		if e.Element == prev.Element && e.ID == prev.ID {
			return i
		}
	}
	for i, e := range x.Entries {
		if e.Element == prev.Element {
			return i
		}
	}
	return 0
}

func (m *browseModel) save() {
	if m.store == nil {
		return
	}
	m.sess.Selected = m.opts.View.Selected
	m.sess.Touch(session.DefaultTTL)
	if err := m.store.Set(m.ctx, m.sess); err != nil {
		m.err = fmt.Errorf("save session: %w", err)
	}
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Drivetrain"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  u=%.3f", m.scene.OverallRatio)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  r reverse  l layout  v variant  ⏎ select  d dismiss  s save  q quit"))
	b.WriteString("\n\n")

	for i, e := range m.scene.Index.Entries {
		cursor := "  "
		style := listNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		if e.Variant >= 0 && !m.walked(e) {
			style = listDimStyle
			if i == m.cursor {
				style = style.Bold(true)
			}
		}
		line := fmt.Sprintf("%s%-14s %s", cursor, e.ID, e.Label)
		if m.scene.Overlapping(e.ID) {
			line += " " + StyleOverlap.Render("overlap")
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	if m.scene.Warn {
		b.WriteString("\n")
		b.WriteString(bannerStyle.Render("Symbols overlap: " + strings.Join(m.scene.Overlaps, ", ") + "  (d to dismiss)"))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("  " + m.status))
		b.WriteString("\n")
	}
	return b.String()
}

// walked reports whether the entry is the selected variant of its stage.
func (m browseModel) walked(e interact.Entry) bool {
	if e.Element < 0 || e.Element >= len(m.elems) {
		return true
	}
	st := m.elems[e.Element].Stage
	return st == nil || st.SelectedIndex() == e.Variant
}
