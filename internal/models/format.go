package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatInt renders an optional integer with a single space as the thousands
// separator, e.g. 1234567 -> "1 234 567". A nil value renders as "N/A".
func FormatInt(val *int64) string {
	if val == nil {
		return "N/A"
	}

	s := fmt.Sprintf("%d", *val)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// ProgressBar renders a fixed-width bar of filled/empty block glyphs followed
// by the rounded percentage. The percentage is clamped to [0, 100] before the
// filled width is computed; nil counts as zero.
func ProgressBar(percentage *float64, width int) string {
	pct := 0.0
	if percentage != nil {
		pct = *percentage
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	filled := int(math.Round(pct / 100 * float64(width)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return fmt.Sprintf("[%s%s] %.0f%%",
		strings.Repeat("█", filled),
		strings.Repeat("░", width-filled),
		pct)
}

// FormatLimit renders a limit as display lines: title, remaining, optional
// reset time and optional per-model usage details.
func FormatLimit(limit *Limit) []string {
	num := "N/A"
	if limit.Number != nil {
		num = fmt.Sprintf("%d", *limit.Number)
	}

	lines := []string{
		fmt.Sprintf("%s: %s/%s %s (%s)",
			limit.Type,
			FormatInt(limit.CurrentValue),
			FormatInt(limit.Usage),
			ProgressBar(limit.Percentage, 20),
			num),
		fmt.Sprintf("    Remaining: %s", FormatInt(limit.Remaining)),
	}

	if limit.NextResetTime != nil {
		lines = append(lines, "    "+FormatResetTime(*limit.NextResetTime, time.Now()))
	}

	if len(limit.UsageDetails) > 0 {
		lines = append(lines, "    Details:")
		for _, detail := range limit.UsageDetails {
			model := "unknown"
			if detail.ModelCode != nil {
				model = *detail.ModelCode
			}
			lines = append(lines, fmt.Sprintf("      - %s: %s", model, FormatInt(detail.Usage)))
		}
	}

	return lines
}

// FormatResetTime renders a reset timestamp (ms since epoch) in local time
// with a countdown relative to now, e.g. "Resets: 14:30:00 (in 2h 15m)".
func FormatResetTime(ms int64, now time.Time) string {
	reset := time.UnixMilli(ms).Local()

	var countdown string
	if reset.After(now) {
		secs := int64(reset.Sub(now).Seconds())
		switch {
		case secs < 60:
			countdown = fmt.Sprintf("in %ds", secs)
		case secs < 3600:
			countdown = fmt.Sprintf("in %dm %ds", secs/60, secs%60)
		default:
			countdown = fmt.Sprintf("in %dh %dm", secs/3600, (secs%3600)/60)
		}
	} else {
		countdown = "passed"
	}

	return fmt.Sprintf("Resets: %s (%s)", reset.Format("15:04:05"), countdown)
}
