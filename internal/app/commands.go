package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glm-tools/glm-usage-tui/internal/config"
	"github.com/glm-tools/glm-usage-tui/internal/monitor"
)

// historyWindow is how far back the history chart looks.
const historyWindow = 2 * time.Hour

// tickCmd returns a command that sends a TickMsg after the tick rate.
func tickCmd(rate time.Duration) tea.Cmd {
	return tea.Tick(rate, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// fetchQuotaCmd performs one quota fetch off the UI goroutine. The HTTP
// timeout is enforced by the client.
func fetchQuotaCmd(svc *monitor.Service) tea.Cmd {
	return func() tea.Msg {
		snap, err := svc.Refresh(context.Background())
		return QuotaFetchedMsg{Snapshot: snap, Err: err, At: time.Now()}
	}
}

// waitForConfigChangeCmd blocks until the .env watcher signals a change.
// It is re-armed after every ConfigChangedMsg.
func waitForConfigChangeCmd(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return ConfigChangedMsg{}
	}
}

// reloadConfigCmd re-reads the .env file and environment.
func reloadConfigCmd(cfg *config.Config) tea.Cmd {
	return func() tea.Msg {
		reloaded, err := cfg.Reload()
		return ConfigReloadedMsg{Config: reloaded, Err: err}
	}
}

// loadHistoryCmd loads recent samples for the chart and computes the
// depletion projection from them.
func loadHistoryCmd(svc *monitor.Service, limitType string) tea.Cmd {
	return func() tea.Msg {
		samples, err := svc.History(limitType, historyWindow)
		if err != nil {
			return HistoryLoadedMsg{LimitType: limitType, Err: err}
		}

		data := make([]float64, 0, len(samples))
		for _, s := range samples {
			if s.Percentage != nil {
				data = append(data, *s.Percentage)
			}
		}

		proj, ok := monitor.ProjectDepletion(samples, time.Now())
		return HistoryLoadedMsg{
			LimitType:     limitType,
			Data:          data,
			Projection:    proj,
			HasProjection: ok,
		}
	}
}
