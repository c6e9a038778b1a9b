package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/glm-tools/glm-usage-tui/internal/models"
	"github.com/glm-tools/glm-usage-tui/internal/ui/components"
	"github.com/glm-tools/glm-usage-tui/internal/ui/styles"
)

const (
	minWidth  = 40
	minHeight = 10
)

// View renders the full dashboard frame.
func (m *Model) View() string {
	if !m.ready {
		return fmt.Sprintf("\n  %s Initializing...\n", m.spinner.View())
	}

	if m.width < minWidth || m.height < minHeight {
		msg := fmt.Sprintf("Terminal too small\nminimum %dx%d, got %dx%d",
			minWidth, minHeight, m.width, m.height)
		return styles.CenterBoth(styles.ErrorTextStyle.Render(msg), m.width, m.height)
	}

	header := m.renderHeader()
	footer := m.renderFooter()

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body := lipgloss.NewStyle().Height(bodyHeight).Render(m.renderBody(bodyHeight))

	view := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)

	if m.showHelp {
		view = m.overlayCentered(view, m.renderHelp())
	}

	return view
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("GLM Usage Monitor")
	platform := styles.PlatformStyle.Render(fmt.Sprintf("[%s]", m.cfg.Platform()))

	domain, err := m.cfg.Domain()
	if err != nil {
		domain = m.cfg.BaseURL
	}
	settings := styles.PlatformStyle.Render(fmt.Sprintf("%s · every %s · timeout %s",
		domain, m.state.RefreshInterval, m.cfg.HTTPTimeout))

	left := title + " " + platform + "  " + settings
	if m.state.IsLoading {
		left += " " + m.spinner.View()
	}

	lastUpdate := "never"
	if !m.state.LastUpdate.IsZero() {
		lastUpdate = m.state.LastUpdate.Format("15:04:05")
	}
	right := styles.PlatformStyle.Render(fmt.Sprintf("updated %s · next in %ds",
		lastUpdate, m.state.SecondsUntilRefresh(time.Now())))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return styles.HeaderBarStyle.Width(m.width).Render(left)
	}
	return styles.HeaderBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderBody picks the main pane. Loading wins over a previous error, the
// error wins over stale data, and an empty snapshot gets its own message.
func (m *Model) renderBody(height int) string {
	if m.showHistory {
		return m.renderHistory(height)
	}

	switch {
	case m.state.IsLoading:
		return styles.CenterBoth(
			fmt.Sprintf("%s Fetching quota data...", m.spinner.View()),
			m.width, height)

	case m.state.LastError != nil:
		msg := styles.ErrorTextStyle.Render(m.state.LastError.Error()) +
			"\n\n" + styles.HelpStyle.Render("Press r to retry")
		return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Render(msg)

	case m.state.Snapshot == nil || len(m.state.Snapshot.Limits) == 0:
		return styles.CenterBoth(
			styles.HelpStyle.Render("No quota data available"),
			m.width, height)
	}

	var blocks []string
	for i := range m.state.Snapshot.Limits {
		blocks = append(blocks, m.renderLimit(&m.state.Snapshot.Limits[i]))
	}
	content := strings.Join(blocks, "\n\n")

	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

func (m *Model) renderLimit(limit *models.Limit) string {
	num := "N/A"
	if limit.Number != nil {
		num = fmt.Sprintf("%d", *limit.Number)
	}

	title := styles.LimitTitleStyle.Render(fmt.Sprintf("%s: %s/%s",
		limit.Type,
		models.FormatInt(limit.CurrentValue),
		models.FormatInt(limit.Usage)))

	lines := []string{
		fmt.Sprintf("%s %s (%s)", title, components.Bar(limit.Percentage, 20), num),
		styles.DetailStyle.Render(fmt.Sprintf("    Remaining: %s", models.FormatInt(limit.Remaining))),
	}

	if limit.NextResetTime != nil {
		lines = append(lines, styles.DetailStyle.Render(
			"    "+models.FormatResetTime(*limit.NextResetTime, time.Now())))
	}

	if len(limit.UsageDetails) > 0 {
		lines = append(lines, styles.DetailStyle.Render("    Details:"))
		for _, detail := range limit.UsageDetails {
			model := "unknown"
			if detail.ModelCode != nil {
				model = *detail.ModelCode
			}
			lines = append(lines, styles.DetailStyle.Render(
				fmt.Sprintf("      - %s: %s", model, models.FormatInt(detail.Usage))))
		}
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderHistory(height int) string {
	if m.historyErr != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(
			styles.ErrorTextStyle.Render(fmt.Sprintf("Failed to load history: %v", m.historyErr)))
	}
	if m.historyType == "" {
		return styles.CenterBoth(
			styles.HelpStyle.Render("No usage history to chart yet"),
			m.width, height)
	}

	title := styles.LimitTitleStyle.Render(fmt.Sprintf("%s usage, last %s", m.historyType, historyWindow))

	chartHeight := height - 6
	if chartHeight < 3 {
		chartHeight = 3
	}
	chart := components.RenderHistoryChart(m.historyData, m.width-4, chartHeight, "")

	lines := []string{title, "", chart}

	if m.hasProjection {
		lines = append(lines, "", styles.DetailStyle.Render(
			fmt.Sprintf("At the current rate the quota depletes in %s", formatDuration(m.projection))))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	hints := strings.Join([]string{
		styles.FooterKeyStyle.Render("r") + " refresh",
		styles.FooterKeyStyle.Render("h") + " history",
		styles.FooterKeyStyle.Render("?") + " help",
		styles.FooterKeyStyle.Render("q") + " quit",
	}, "  ")

	return styles.FooterStyle.Width(m.width).Render(m.statusWord() + " | " + hints)
}

// statusWord summarizes the connection state for the footer.
func (m *Model) statusWord() string {
	switch {
	case m.state.IsLoading:
		return "Loading"
	case m.state.LastError != nil:
		return "Error"
	case m.state.Snapshot != nil:
		return "Connected"
	default:
		return "Waiting"
	}
}

func (m *Model) renderHelp() string {
	lines := []string{
		styles.TitleStyle.Render("Keyboard Shortcuts"),
		"",
		"  r          Refresh now",
		"  h          Toggle history chart",
		"  ?          Toggle help",
		"  q/Ctrl+C   Quit",
		"  Esc        Close overlay",
		"",
		styles.HelpStyle.Render("Press ? or Esc to close"),
	}
	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}

// overlayCentered splices the overlay into the center of the main view,
// cutting the underlying lines at ANSI-aware cell boundaries.
func (m *Model) overlayCentered(mainView, overlay string) string {
	mainLines := strings.Split(mainView, "\n")
	overlayLines := strings.Split(overlay, "\n")

	overlayWidth := lipgloss.Width(overlay)
	y := (m.height - len(overlayLines)) / 2
	x := (m.width - overlayWidth) / 2
	if y < 0 {
		y = 0
	}
	if x < 0 {
		x = 0
	}

	for i, overlayLine := range overlayLines {
		mainY := y + i
		if mainY >= len(mainLines) {
			break
		}

		mainLine := mainLines[mainY]
		left := ansi.Truncate(mainLine, x, "")
		right := ansi.TruncateLeft(mainLine, x+overlayWidth, "")

		if lipgloss.Width(left) < x {
			left += strings.Repeat(" ", x-lipgloss.Width(left))
		}

		mainLines[mainY] = left + overlayLine + right
	}

	return strings.Join(mainLines, "\n")
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
