package components

import (
	"strings"
	"testing"
)

func pct(v float64) *float64 { return &v }

func TestBar(t *testing.T) {
	tests := []struct {
		name    string
		percent *float64
		width   int
		want    string
	}{
		{"half", pct(50), 10, "50%"},
		{"full", pct(100), 10, "100%"},
		{"zero", pct(0), 10, "0%"},
		{"over", pct(150), 10, "150%"},
		{"missing", nil, 10, "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bar(tt.percent, tt.width)
			if !strings.Contains(got, tt.want) {
				t.Errorf("Bar() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestBarGlyphCount(t *testing.T) {
	got := Bar(pct(50), 10)
	filled := strings.Count(got, "█")
	empty := strings.Count(got, "░")
	if filled != 5 || empty != 5 {
		t.Errorf("Bar(50, 10) has %d filled and %d empty cells, want 5/5", filled, empty)
	}
}

func TestBarZeroWidth(t *testing.T) {
	if got := Bar(pct(50), 0); got != "" {
		t.Errorf("Bar() with zero width = %q, want empty", got)
	}
}

func TestSparkline(t *testing.T) {
	got := Sparkline([]float64{0, 25, 50, 75, 100}, 5)
	if len([]rune(got)) != 5 {
		t.Errorf("Sparkline() = %q, want 5 cells", got)
	}
	if !strings.HasSuffix(got, "█") {
		t.Errorf("Sparkline() = %q, want the max value rendered as a full block", got)
	}
}

func TestSparklineEmpty(t *testing.T) {
	if got := Sparkline(nil, 10); got != "" {
		t.Errorf("Sparkline(nil) = %q, want empty", got)
	}
}

func TestRenderHistoryChart(t *testing.T) {
	data := []float64{10, 20, 30, 40, 50}
	got := RenderHistoryChart(data, 60, 8, "last hour")
	if !strings.Contains(got, "last hour") {
		t.Errorf("chart missing caption: %q", got)
	}
	if !strings.Contains(got, "50") {
		t.Errorf("chart missing axis label for max value: %q", got)
	}
}

func TestRenderHistoryChartTooLittleData(t *testing.T) {
	got := RenderHistoryChart([]float64{42}, 60, 8, "")
	if !strings.Contains(got, "Not enough history") {
		t.Errorf("got %q, want the placeholder message", got)
	}
}
