package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/procflow/pkg/layout/route"
	"github.com/matzehuels/procflow/pkg/pipeline"
)

// stdout receives all status output of the commands.
var stdout io.Writer = os.Stdout

// =============================================================================
// Palette & Styles
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorViolet = lipgloss.Color("141")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleWarning for warnings and unrouted edges.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// strategyStyles colors edges by how they were routed, so the hittest list
// and the inspector read the same way as the rendered diagram legend.
var strategyStyles = map[route.Strategy]lipgloss.Style{
	route.Center:   lipgloss.NewStyle().Foreground(colorViolet),
	route.LBend:    lipgloss.NewStyle().Foreground(colorBlue),
	route.SBend:    lipgloss.NewStyle().Foreground(colorCyan),
	route.Diagonal: lipgloss.NewStyle().Foreground(colorGreen),
	route.Dangling: lipgloss.NewStyle().Foreground(colorGray),
}

// renderStrategy renders s in its strategy color.
func renderStrategy(s route.Strategy) string {
	if st, ok := strategyStyles[s]; ok {
		return st.Render(string(s))
	}
	return string(s)
}

// =============================================================================
// Status Lines
// =============================================================================

type statusKind struct {
	icon  string
	style lipgloss.Style
}

var (
	statusSuccess = statusKind{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	statusError   = statusKind{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	statusWarning = statusKind{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	statusInfo    = statusKind{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func printStatus(k statusKind, msg string) {
	fmt.Fprintln(stdout, k.style.Render(k.icon)+" "+msg)
}

func printSuccess(format string, args ...any) {
	printStatus(statusSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printStatus(statusError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printStatus(statusWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printStatus(statusInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints panel, node and edge counts on one line, with unrouted
// edges highlighted.
func printStats(stats pipeline.Stats, cached bool) {
	var parts []string
	if stats.Panels > 1 {
		parts = append(parts, fmt.Sprintf("%d panels", stats.Panels))
	}
	parts = append(parts,
		fmt.Sprintf("%d nodes", stats.Nodes),
		fmt.Sprintf("%d edges", stats.Edges))
	if stats.Unrouted > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d unrouted", stats.Unrouted)))
	}
	if cached {
		parts = append(parts, statusSuccess.style.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
