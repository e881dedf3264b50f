package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/drivetrain/pkg/scheme"
)

// stdout receives all status output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // teal
	colorOK     = lipgloss.Color("35")  // green
	colorWarn   = lipgloss.Color("220") // amber
	colorClash  = lipgloss.Color("167") // soft red, overlaps and failures
	colorCmd    = lipgloss.Color("75")  // light blue
	colorValue  = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleDim       = lipgloss.NewStyle().Foreground(colorMuted)
	// StyleOverlap marks ids that take part in an overlap.
	StyleOverlap = lipgloss.NewStyle().Foreground(colorClash).Bold(true)

	styleValue   = lipgloss.NewStyle().Foreground(colorValue)
	styleLabel   = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorCmd)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarn)
	styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)
)

// =============================================================================
// Status lines
// =============================================================================

// mark is the leading glyph of a status line.
type mark struct {
	glyph string
	style lipgloss.Style
	body  *lipgloss.Style
}

var (
	markOK   = mark{glyph: "✓", style: lipgloss.NewStyle().Foreground(colorOK)}
	markFail = mark{glyph: "✗", style: lipgloss.NewStyle().Foreground(colorClash)}
	markWarn = mark{glyph: "!", style: lipgloss.NewStyle().Foreground(colorWarn), body: &styleWarning}
	markInfo = mark{glyph: "›", style: lipgloss.NewStyle().Foreground(colorLabel)}
)

func (m mark) say(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if m.body != nil {
		msg = m.body.Render(msg)
	}
	fmt.Fprintln(stdout, m.style.Render(m.glyph)+" "+msg)
}

func printSuccess(format string, args ...any) { markOK.say(format, args...) }
func printError(format string, args ...any)   { markFail.say(format, args...) }
func printWarning(format string, args ...any) { markWarn.say(format, args...) }
func printInfo(format string, args ...any)    { markInfo.say(format, args...) }

// printDetail prints an indented, muted line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleLabel.Render(key)+" "+styleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, "\n"+StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Scene summaries
// =============================================================================

// printStats summarises a scene on one line.
func printStats(sc *scheme.Scene, cached bool) {
	parts := []string{
		fmt.Sprintf("%d symbols", len(sc.Placements)),
		fmt.Sprintf("%d bearings", len(sc.Bearings)),
		fmt.Sprintf("%d callouts", len(sc.Callouts)),
	}
	if n := len(sc.Overlaps); n > 0 {
		parts = append(parts, StyleOverlap.Render(fmt.Sprintf("%d overlapping", n)))
	}
	if cached {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorOK).Render("cached"))
	} else {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorLabel).Render("fresh"))
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printOverlapWarning prints the overlap banner, one line per colliding pair.
func printOverlapWarning(sc *scheme.Scene) {
	styled := make([]string, len(sc.Overlaps))
	for i, id := range sc.Overlaps {
		styled[i] = StyleOverlap.Render(id)
	}
	printWarning("Symbols overlap: %s", strings.Join(styled, ", "))
	for _, p := range sc.OverlapPairs {
		printDetail("%s collides with %s", p.A, p.B)
	}
	printDetail("insert a spacer or change a stage layout to separate them")
}
