// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/glm-tools/glm-usage-tui/internal/ui/styles"
)

// Bar renders a colored usage bar with a trailing percentage. The color of
// the filled segment tracks the usage thresholds. A nil percentage renders
// an empty bar with an N/A marker.
func Bar(percent *float64, width int) string {
	if width < 1 {
		return ""
	}

	empty := lipgloss.NewStyle().Foreground(styles.Subtle)

	if percent == nil {
		bar := empty.Render(strings.Repeat("░", width))
		return fmt.Sprintf("[%s] %s", bar, styles.HelpStyle.Render("N/A"))
	}

	p := *percent
	filled := int(math.Round(p / 100 * float64(width)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	fillStyle := styles.ForPercent(p)
	var b strings.Builder
	if filled > 0 {
		b.WriteString(fillStyle.Render(strings.Repeat("█", filled)))
	}
	if filled < width {
		b.WriteString(empty.Render(strings.Repeat("░", width-filled)))
	}

	percentStr := fillStyle.Render(fmt.Sprintf("%.0f%%", p))
	return fmt.Sprintf("[%s] %s", b.String(), percentStr)
}

// Sparkline renders a compact inline chart of the given values using block
// characters, sampled to fit the requested width.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width < 1 {
		return ""
	}

	sparkChars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	step := float64(len(values)) / float64(width)
	if step < 1 {
		step = 1
	}

	var result strings.Builder
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		idx := int(val / maxVal * float64(len(sparkChars)-1))
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		if idx < 0 {
			idx = 0
		}
		result.WriteRune(sparkChars[idx])
	}

	return result.String()
}
