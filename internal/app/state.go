// Package app implements the Bubble Tea application model for the monitor.
package app

import (
	"time"

	"github.com/glm-tools/glm-usage-tui/internal/models"
)

// AppState holds the data the dashboard renders. It is owned by the model
// and only ever mutated from Update, so it needs no locking.
type AppState struct {
	Snapshot  *models.QuotaSnapshot
	LastError error

	LastUpdate  time.Time
	NextRefresh time.Time

	RefreshInterval time.Duration

	// IsLoading is true from startup or a forced refresh until the next
	// fetch completes.
	IsLoading bool
}

// NewAppState creates the initial state. The refresh deadline starts at now
// so the first tick triggers an immediate fetch.
func NewAppState(interval time.Duration, now time.Time) *AppState {
	return &AppState{
		RefreshInterval: interval,
		NextRefresh:     now,
		IsLoading:       true,
	}
}

// UpdateQuota records a successful fetch. The previous error is cleared and
// the refresh deadline advances by one interval.
func (s *AppState) UpdateQuota(snap *models.QuotaSnapshot, now time.Time) {
	s.Snapshot = snap
	s.LastError = nil
	s.LastUpdate = now
	s.NextRefresh = now.Add(s.RefreshInterval)
	s.IsLoading = false
}

// SetError records a failed fetch. The last good snapshot is kept so stale
// data stays on screen, and the deadline still advances so the poll loop
// retries on schedule.
func (s *AppState) SetError(err error, now time.Time) {
	s.LastError = err
	s.NextRefresh = now.Add(s.RefreshInterval)
	s.IsLoading = false
}

// ForceRefresh pulls the deadline to now so the next tick fetches
// immediately, and shows the loading indicator until it completes.
func (s *AppState) ForceRefresh(now time.Time) {
	s.NextRefresh = now
	s.IsLoading = true
}

// ShouldRefreshNow reports whether the refresh deadline has been reached.
func (s *AppState) ShouldRefreshNow(now time.Time) bool {
	return !now.Before(s.NextRefresh)
}

// SecondsUntilRefresh returns the whole seconds remaining before the next
// refresh, never negative.
func (s *AppState) SecondsUntilRefresh(now time.Time) int {
	d := s.NextRefresh.Sub(now)
	if d < 0 {
		return 0
	}
	return int(d.Round(time.Second).Seconds())
}

// SetRefreshInterval changes the poll interval, applied from the next
// completed fetch onward.
func (s *AppState) SetRefreshInterval(interval time.Duration) {
	s.RefreshInterval = interval
}
