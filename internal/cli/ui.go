package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/qswap/pkg/route"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings, swaps
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - free swaps
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleKey = lipgloss.NewStyle().Foreground(colorGray).Width(14)

	styleEntangle = lipgloss.NewStyle().Foreground(colorGreen)
	styleFree     = lipgloss.NewStyle().Foreground(colorBlue)
	styleSwap     = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printCacheStatus prints problem size and whether the result came from the
// cache on one line.
func printCacheStatus(w io.Writer, qubits, interactions int, cached bool) {
	status, style := iconFresh, styleComputed
	if cached {
		status, style = iconCached, styleCached
	}
	sep := StyleDim.Render(" · ")
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf("%d qubits", qubits))+sep+
		StyleDim.Render(fmt.Sprintf("%d interactions", interactions))+sep+style.Render(status))
}

// =============================================================================
// Solutions
// =============================================================================

// headerRow is the row index lipgloss/table passes for the header.
const headerRow = -1

// moveAction describes a move the way the summary table shows it.
func moveAction(k route.MoveKind) string {
	switch k {
	case route.MoveEntangle:
		return "Apply gate"
	case route.MoveFree:
		return "Apply gate with free swap"
	case route.MoveSwap:
		return "Swap"
	}
	return k.String()
}

func qubitLabel(q int) string {
	if q == route.Empty {
		return "·"
	}
	return strconv.Itoa(q)
}

// renderMoves renders the move list as a table.
func renderMoves(moves []route.Move) string {
	rows := make([][]string, len(moves))
	for i, m := range moves {
		rows[i] = []string{
			strconv.Itoa(i),
			qubitLabel(m.A) + ", " + qubitLabel(m.B),
			fmt.Sprintf("%d ↔ %d", m.SiteA, m.SiteB),
			moveAction(m.Kind),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Qubits", "Sites", "Action").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return headerStyle
			}
			if col == 0 {
				return cell.Foreground(colorDim)
			}
			if col != 3 || row >= len(moves) {
				return cell
			}
			switch moves[row].Kind {
			case route.MoveSwap:
				return cell.Inherit(styleSwap)
			case route.MoveFree:
				return cell.Inherit(styleFree)
			}
			return cell.Inherit(styleEntangle)
		})
	return t.Render()
}

// formatCounts summarizes move kinds, e.g. "12 gates · 3 free · 5 swaps".
func formatCounts(c route.MoveCounts) string {
	parts := []string{
		styleEntangle.Render(fmt.Sprintf("%d gates", c.Entangle)),
		styleFree.Render(fmt.Sprintf("%d free", c.Free)),
		styleSwap.Render(fmt.Sprintf("%d swaps", c.Swap)),
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

// perTrial formats the average wall time per trial in milliseconds.
func perTrial(d time.Duration, trials int) string {
	if trials == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.3f ms", float64(d.Microseconds())/1000/float64(trials))
}
