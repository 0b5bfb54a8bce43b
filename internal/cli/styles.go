// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/finbrains/finbrains/internal/budget"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#42A5F5")
	// SuccessColor indicates successful operations and nominal budgets.
	SuccessColor = lipgloss.Color("#66BB6A")
	// WarningColor indicates budgets in the warning band.
	WarningColor = lipgloss.Color("#FFA500")
	// ErrorColor indicates errors and exceeded budgets.
	ErrorColor = lipgloss.Color("#FF6767")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().Bold(true)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// BandStyle returns the style for a budget severity band.
func BandStyle(b budget.Band) lipgloss.Style {
	switch b {
	case budget.BandOver:
		return ErrorStyle
	case budget.BandWarning:
		return WarningStyle
	default:
		return SuccessStyle
	}
}

// RenderBudgetBar renders a fixed-width consumption bar colored by band.
// The fill is clamped to 100% but the caption shows the raw percentage.
func RenderBudgetBar(percentage float64, width int) string {
	if width <= 0 {
		width = 30
	}
	display := budget.DisplayPercentage(percentage)
	fill := display
	if fill > 100 {
		fill = 100
	}
	filled := int(fill / 100 * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	style := BandStyle(budget.Classify(percentage))
	return fmt.Sprintf("%s %s", style.Render(bar), BoldStyle.Render(fmt.Sprintf("%.0f%%", display)))
}
