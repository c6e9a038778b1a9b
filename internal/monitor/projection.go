package monitor

import (
	"time"

	"github.com/glm-tools/glm-usage-tui/internal/db"
)

// ProjectDepletion fits a linear usage rate through the sampled percentages
// and estimates how long until the limit reaches 100%. It reports false when
// there is not enough data, the trend is flat or falling, or the estimate is
// in the past (a reset happened between samples).
func ProjectDepletion(samples []db.Sample, now time.Time) (time.Duration, bool) {
	first, last, ok := firstAndLast(samples)
	if !ok {
		return 0, false
	}

	elapsed := last.Timestamp.Sub(first.Timestamp)
	if elapsed <= 0 {
		return 0, false
	}

	delta := *last.Percentage - *first.Percentage
	if delta <= 0 {
		return 0, false
	}

	ratePerHour := delta / elapsed.Hours()
	remaining := 100 - *last.Percentage
	if remaining <= 0 {
		return 0, false
	}

	toFull := time.Duration(remaining / ratePerHour * float64(time.Hour))
	eta := last.Timestamp.Add(toFull)
	if !eta.After(now) {
		return 0, false
	}

	return eta.Sub(now), true
}

// firstAndLast picks the oldest and newest samples that carry a percentage.
func firstAndLast(samples []db.Sample) (first, last *db.Sample, ok bool) {
	for i := range samples {
		if samples[i].Percentage == nil {
			continue
		}
		if first == nil {
			first = &samples[i]
		}
		last = &samples[i]
	}
	return first, last, first != nil && last != nil && first != last
}
