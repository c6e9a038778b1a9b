// Package styles defines the visual styling for the application.
package styles

import "github.com/charmbracelet/lipgloss"

// Usage thresholds shared by the bar renderer and the footer.
const (
	WarnPercent  = 70.0
	AlertPercent = 90.0
)

// Color definitions for the monitor theme.
var (
	Primary = lipgloss.Color("39")  // Blue
	Subtle  = lipgloss.Color("240") // Gray

	// Status colors
	Ok      = lipgloss.Color("42")  // Green
	Warning = lipgloss.Color("220") // Yellow
	Alert   = lipgloss.Color("196") // Red

	// Background colors
	BgDark = lipgloss.Color("235")

	// Text colors
	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")
)

// TitleStyle is used for the header line.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary)

// PlatformStyle styles the platform tag next to the title.
var PlatformStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// HeaderBarStyle draws the separator under the header.
var HeaderBarStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true).
	BorderForeground(Subtle)

// ErrorTextStyle for error messages.
var ErrorTextStyle = lipgloss.NewStyle().
	Foreground(Alert)

// LimitTitleStyle styles the per-limit heading.
var LimitTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(TextPrimary)

// DetailStyle styles indented detail lines under a limit.
var DetailStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// FooterStyle styles the status line at the bottom.
var FooterStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// FooterKeyStyle styles keyboard hints in the footer.
var FooterKeyStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// SpinnerStyle colors the loading spinner.
var SpinnerStyle = lipgloss.NewStyle().
	Foreground(Primary)

// HelpPanelStyle creates the help overlay panel.
var HelpPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(Primary).
	Padding(1, 3).
	Background(BgDark)

// HelpStyle is the base style for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// ForPercent returns the status style for a usage percentage.
func ForPercent(percent float64) lipgloss.Style {
	switch {
	case percent >= AlertPercent:
		return lipgloss.NewStyle().Foreground(Alert)
	case percent >= WarnPercent:
		return lipgloss.NewStyle().Foreground(Warning)
	default:
		return lipgloss.NewStyle().Foreground(Ok)
	}
}

// CenterHorizontal centers content horizontally within a given width.
func CenterHorizontal(content string, width int) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(content)
}

// CenterBoth centers content both horizontally and vertically.
func CenterBoth(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}
