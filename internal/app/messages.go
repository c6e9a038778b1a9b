package app

import (
	"time"

	"github.com/glm-tools/glm-usage-tui/internal/config"
	"github.com/glm-tools/glm-usage-tui/internal/models"
)

// TickMsg drives the UI clock. It redraws countdowns and checks whether the
// refresh deadline has been reached.
type TickMsg struct {
	Time time.Time
}

// QuotaFetchedMsg carries the result of one quota fetch.
type QuotaFetchedMsg struct {
	Snapshot *models.QuotaSnapshot
	Err      error
	At       time.Time
}

// ConfigChangedMsg signals that the watched .env file was modified.
type ConfigChangedMsg struct{}

// ConfigReloadedMsg carries the result of re-reading the configuration.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// HistoryLoadedMsg carries sampled percentages for the history chart,
// plus the linear depletion estimate when the trend supports one.
type HistoryLoadedMsg struct {
	LimitType string
	Data      []float64
	Err       error

	Projection    time.Duration
	HasProjection bool
}

// ToggleHelpMsg toggles the help overlay.
type ToggleHelpMsg struct{}
