package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glm-tools/glm-usage-tui/internal/api"
	"github.com/glm-tools/glm-usage-tui/internal/config"
	"github.com/glm-tools/glm-usage-tui/internal/models"
	"github.com/glm-tools/glm-usage-tui/internal/monitor"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func newTestModel(t *testing.T) *Model {
	t.Helper()
	cfg := &config.Config{
		BaseURL:         "https://api.z.ai/api/anthropic",
		AuthToken:       "tok",
		RefreshInterval: time.Minute,
		HTTPTimeout:     time.Second,
	}
	svc := monitor.New(api.New("http://127.0.0.1:0", "tok", time.Second), nil, false)
	return NewModel(cfg, svc, nil, DefaultTickRate)
}

func sized(t *testing.T, m *Model) *Model {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(*Model)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestQuitKey(t *testing.T) {
	m := sized(t, newTestModel(t))

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestRefreshKeyForcesDeadline(t *testing.T) {
	m := sized(t, newTestModel(t))
	m.State().UpdateQuota(&models.QuotaSnapshot{}, time.Now())

	if m.State().ShouldRefreshNow(time.Now()) {
		t.Fatal("deadline should not be due right after a fetch")
	}

	if _, cmd := m.Update(keyMsg("r")); cmd != nil {
		t.Error("the refresh key only moves the deadline, the tick fetches")
	}
	if !m.State().ShouldRefreshNow(time.Now()) {
		t.Error("r should make the deadline due")
	}
	if !m.State().IsLoading {
		t.Error("r should show the loading indicator")
	}
}

func TestTickIssuesFetchOnce(t *testing.T) {
	m := sized(t, newTestModel(t))

	if _, cmd := m.Update(TickMsg{Time: time.Now()}); cmd == nil {
		t.Fatal("tick should always return at least the next tick")
	}
	if !m.fetchInFlight {
		t.Error("a due deadline should start a fetch")
	}

	// A second tick while the fetch is in flight must not start another.
	before := m.fetchInFlight
	m.Update(TickMsg{Time: time.Now()})
	if m.fetchInFlight != before {
		t.Error("overlapping fetch started")
	}
}

func TestQuotaFetchedSuccess(t *testing.T) {
	m := sized(t, newTestModel(t))
	m.fetchInFlight = true

	snap := &models.QuotaSnapshot{Limits: []models.Limit{
		{Type: "TOKENS", Percentage: f64(25), CurrentValue: i64(1000), Usage: i64(4000)},
	}}
	m.Update(QuotaFetchedMsg{Snapshot: snap, At: time.Now()})

	if m.fetchInFlight {
		t.Error("fetch should be marked complete")
	}
	if m.State().Snapshot != snap {
		t.Error("snapshot not applied")
	}

	view := m.View()
	if !strings.Contains(view, "TOKENS") {
		t.Errorf("view should show the limit, got:\n%s", view)
	}
	if !strings.Contains(view, "1 000") {
		t.Errorf("view should show grouped numbers, got:\n%s", view)
	}
	if !strings.Contains(view, "Connected") {
		t.Errorf("footer should report Connected, got:\n%s", view)
	}
}

func TestQuotaFetchedError(t *testing.T) {
	m := sized(t, newTestModel(t))
	m.fetchInFlight = true

	m.Update(QuotaFetchedMsg{Err: errors.New("HTTP 401: failed to fetch quota limit"), At: time.Now()})

	view := m.View()
	if !strings.Contains(view, "HTTP 401") {
		t.Errorf("view should show the fetch error, got:\n%s", view)
	}
	if !strings.Contains(view, "Press r to retry") {
		t.Errorf("error view should hint at retrying, got:\n%s", view)
	}
}

func TestViewLoading(t *testing.T) {
	m := sized(t, newTestModel(t))

	view := m.View()
	if !strings.Contains(view, "Fetching quota data") {
		t.Errorf("initial view should show the loading pane, got:\n%s", view)
	}
}

func TestViewNoData(t *testing.T) {
	m := sized(t, newTestModel(t))
	m.Update(QuotaFetchedMsg{Snapshot: &models.QuotaSnapshot{}, At: time.Now()})

	view := m.View()
	if !strings.Contains(view, "No quota data available") {
		t.Errorf("empty snapshot should show the no-data pane, got:\n%s", view)
	}
}

func TestViewTooSmall(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 30, Height: 8})
	m = updated.(*Model)

	view := m.View()
	if !strings.Contains(view, "Terminal too small") {
		t.Errorf("undersized terminal should show the size warning, got:\n%s", view)
	}
}

func TestHelpOverlay(t *testing.T) {
	m := sized(t, newTestModel(t))

	m.Update(keyMsg("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("? should show the help overlay")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("esc should close the help overlay")
	}
}

func TestHistoryToggle(t *testing.T) {
	m := sized(t, newTestModel(t))
	snap := &models.QuotaSnapshot{Limits: []models.Limit{{Type: "TOKENS", Percentage: f64(50)}}}
	m.Update(QuotaFetchedMsg{Snapshot: snap, At: time.Now()})

	_, cmd := m.Update(keyMsg("h"))
	if !m.showHistory {
		t.Fatal("h should open the history view")
	}
	if cmd == nil {
		t.Error("opening history should load samples")
	}

	m.Update(HistoryLoadedMsg{LimitType: "TOKENS", Data: []float64{10, 20, 30}})
	if !strings.Contains(m.View(), "TOKENS usage") {
		t.Errorf("history view missing title, got:\n%s", m.View())
	}

	m.Update(keyMsg("h"))
	if m.showHistory {
		t.Error("h should close the history view")
	}
}

func TestConfigReloadedAppliesInterval(t *testing.T) {
	m := sized(t, newTestModel(t))

	next := &config.Config{
		BaseURL:         "https://open.bigmodel.cn/api/anthropic",
		AuthToken:       "tok2",
		RefreshInterval: 10 * time.Second,
		HTTPTimeout:     time.Second,
	}
	m.Update(ConfigReloadedMsg{Config: next})

	if m.cfg != next {
		t.Error("reloaded config not applied")
	}
	if m.State().RefreshInterval != 10*time.Second {
		t.Errorf("RefreshInterval = %v, want 10s", m.State().RefreshInterval)
	}
	if !strings.Contains(m.View(), "ZHIPU") {
		t.Error("header should show the platform of the reloaded base URL")
	}
}

func TestConfigReloadErrorKeepsOldConfig(t *testing.T) {
	m := sized(t, newTestModel(t))
	old := m.cfg

	m.Update(ConfigReloadedMsg{Err: errors.New("bad file")})
	if m.cfg != old {
		t.Error("a failed reload must keep the previous config")
	}
}
