package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/fiducial/pkg/pipeline"
)

// Terminal palette (ANSI 256).
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	styleSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// statusKind selects the icon and color of a status line.
type statusKind int

const (
	statusOK statusKind = iota
	statusFail
	statusWarn
	statusInfo
)

var statusIcons = [...]struct {
	icon  string
	style lipgloss.Style
}{
	statusOK:   {"✓", lipgloss.NewStyle().Foreground(colorGreen)},
	statusFail: {"✗", lipgloss.NewStyle().Foreground(colorRed)},
	statusWarn: {"!", lipgloss.NewStyle().Foreground(colorYellow)},
	statusInfo: {"›", lipgloss.NewStyle().Foreground(colorGray)},
}

// uiOut receives human-readable status output. Machine output (grids,
// JSON, stdout images) goes through cmd.OutOrStdout instead.
var uiOut io.Writer = os.Stdout

func status(kind statusKind, format string, args ...any) {
	s := statusIcons[kind]
	msg := fmt.Sprintf(format, args...)
	if kind == statusWarn {
		msg = StyleWarning.Render(msg)
	}
	fmt.Fprintln(uiOut, s.style.Render(s.icon)+" "+msg)
}

func printSuccess(format string, args ...any) { status(statusOK, format, args...) }
func printError(format string, args ...any)   { status(statusFail, format, args...) }
func printWarning(format string, args ...any) { status(statusWarn, format, args...) }
func printInfo(format string, args ...any)    { status(statusInfo, format, args...) }

// printDetail prints an indented, dimmed line under the previous status.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(uiOut, styleLabel.Render(key)+" "+StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(uiOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// printStats prints one line of marker facts, e.g.
// "hash 1a2b3c4d · 512×512 · 3.1 KB · cached".
func printStats(res *pipeline.Result) {
	fmt.Fprintln(uiOut, "  "+statsLine(res))
}

func statsLine(res *pipeline.Result) string {
	sep := StyleDim.Render(" · ")
	parts := []string{
		StyleDim.Render("hash " + res.Hash.String()),
		StyleDim.Render(fmt.Sprintf("%d×%d", res.Width, res.Height)),
		StyleDim.Render(formatBytes(len(res.Data))),
	}
	if res.Cached {
		parts = append(parts, statusIcons[statusOK].style.Render("cached"))
	} else {
		parts = append(parts, statusIcons[statusInfo].style.Render("fresh"))
	}
	return strings.Join(parts, sep)
}

// formatBytes renders n as B, KB or MB.
func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
