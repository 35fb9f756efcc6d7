package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/depstatus/pkg/manifest"
	"github.com/matzehuels/depstatus/pkg/status"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
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

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for failures and stale dependencies.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
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
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// =============================================================================
// Reports
// =============================================================================

// statusIcon returns the icon and style for st.
func statusIcon(st status.Status) (string, lipgloss.Style) {
	switch st {
	case status.UpToDate:
		return iconSuccess, StyleSuccess
	case status.OutOfDate:
		return iconError, StyleError
	default:
		return iconWarning, StyleWarning
	}
}

// printReport prints the aggregate status followed by one line per
// dependency.
func printReport(repo string, class manifest.Class, report *status.Report) {
	fmt.Print(formatReport(repo, class, report))
}

func formatReport(repo string, class manifest.Class, report *status.Report) string {
	var b strings.Builder

	icon, style := statusIcon(report.Status)
	b.WriteString(StyleTitle.Render(repo) + " " + StyleDim.Render("["+string(class)+"]") + "\n")
	b.WriteString(style.Render(icon+" "+report.Status.Label()) + "\n")

	if len(report.Entries) == 0 {
		b.WriteString("  " + StyleDim.Render("no dependencies declared") + "\n")
		return b.String()
	}

	width := 0
	for _, e := range report.Entries {
		width = max(width, len(e.Name))
	}
	nameStyle := lipgloss.NewStyle().Width(width + 2)

	for _, e := range report.Entries {
		icon, style := statusIcon(e.Status)
		line := "  " + style.Render(icon) + " " + nameStyle.Render(e.Name)
		line += StyleValue.Render(orDash(e.Declared))
		if e.Resolved != "" && e.Resolved != e.Declared {
			line += " " + StyleDim.Render(iconArrow) + " " + style.Render(e.Resolved)
		}
		if e.Reason != "" && e.Status != status.OutOfDate {
			line += "  " + StyleDim.Render("("+e.Reason+")")
		}
		b.WriteString(line + "\n")
	}

	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d up to date · %d out of date · %d unknown",
		report.Count(status.UpToDate), report.Count(status.OutOfDate), report.Count(status.Unknown))) + "\n")
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
