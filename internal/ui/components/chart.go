package components

import (
	"github.com/guptarohit/asciigraph"

	"github.com/glm-tools/glm-usage-tui/internal/ui/styles"
)

// RenderHistoryChart creates an ASCII line chart of sampled usage
// percentages over time.
func RenderHistoryChart(data []float64, width, height int, caption string) string {
	if len(data) < 2 {
		return styles.HelpStyle.Render("Not enough history recorded yet")
	}

	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	// asciigraph's width is the plot area, excluding the axis labels.
	plotWidth := width - 10
	if plotWidth < 10 {
		plotWidth = 10
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(plotWidth),
		asciigraph.LowerBound(0),
		asciigraph.Caption(caption),
	)
}
