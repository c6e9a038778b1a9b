// Package waybar renders a one-shot status snapshot as waybar JSON.
package waybar

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/glm-tools/glm-usage-tui/internal/models"
)

// CSS classes waybar uses to color the module.
const (
	ClassNormal   = "normal"
	ClassWarning  = "warning"
	ClassCritical = "critical"
)

// Output is the JSON object waybar expects on stdout. Percentage is omitted
// on fetch failure so waybar does not render a stale gauge.
type Output struct {
	Text       string `json:"text"`
	Tooltip    string `json:"tooltip"`
	Class      string `json:"class"`
	Percentage *int64 `json:"percentage,omitempty"`
}

// FromSnapshot builds the waybar output for a successful fetch. The text and
// class track the limit with the highest percentage; the tooltip carries the
// full rendering of every limit.
func FromSnapshot(snap *models.QuotaSnapshot) Output {
	var tooltip []string
	for i := range snap.Limits {
		tooltip = append(tooltip, strings.Join(models.FormatLimit(&snap.Limits[i]), "\n"))
	}

	top := snap.TopLimit()
	if top == nil {
		zero := int64(0)
		return Output{
			Text:       "GLM: N/A",
			Tooltip:    strings.Join(tooltip, "\n\n"),
			Class:      ClassNormal,
			Percentage: &zero,
		}
	}

	pct := *top.Percentage
	rounded := int64(math.Round(pct))

	return Output{
		Text:       fmt.Sprintf("GLM: %.0f%%", pct),
		Tooltip:    strings.Join(tooltip, "\n\n"),
		Class:      classFor(pct),
		Percentage: &rounded,
	}
}

// FromError builds the waybar output for a failed fetch.
func FromError(err error) Output {
	return Output{
		Text:    "GLM: Err",
		Tooltip: err.Error(),
		Class:   ClassCritical,
	}
}

// Render marshals the output as a single JSON line.
func (o Output) Render() (string, error) {
	data, err := json.Marshal(o)
	if err != nil {
		return "", fmt.Errorf("failed to marshal waybar output: %w", err)
	}
	return string(data), nil
}

func classFor(pct float64) string {
	switch {
	case pct > 90:
		return ClassCritical
	case pct > 75:
		return ClassWarning
	default:
		return ClassNormal
	}
}
