package app

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glm-tools/glm-usage-tui/internal/api"
	"github.com/glm-tools/glm-usage-tui/internal/config"
	"github.com/glm-tools/glm-usage-tui/internal/logger"
	"github.com/glm-tools/glm-usage-tui/internal/monitor"
	"github.com/glm-tools/glm-usage-tui/internal/ui/styles"
)

// DefaultTickRate is the UI clock interval.
const DefaultTickRate = 250 * time.Millisecond

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	Refresh key.Binding
	History key.Binding
	Help    key.Binding
	Quit    key.Binding
	Escape  key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Refresh: key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refresh")),
		History: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Escape:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

// Model is the root Bubble Tea model.
type Model struct {
	state *AppState
	svc   *monitor.Service
	cfg   *config.Config

	configChanges <-chan struct{}

	keymap  KeyMap
	spinner spinner.Model

	tickRate time.Duration

	width  int
	height int
	ready  bool

	showHelp    bool
	showHistory bool

	// fetchInFlight guards against overlapping fetches when ticks arrive
	// faster than the server responds.
	fetchInFlight bool

	historyType   string
	historyData   []float64
	historyErr    error
	projection    time.Duration
	hasProjection bool
}

// NewModel initializes the application model. configChanges may be nil when
// no .env file is watched.
func NewModel(cfg *config.Config, svc *monitor.Service, configChanges <-chan struct{}, tickRate time.Duration) *Model {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return &Model{
		state:         NewAppState(cfg.RefreshInterval, time.Now()),
		svc:           svc,
		cfg:           cfg,
		configChanges: configChanges,
		keymap:        DefaultKeyMap(),
		spinner:       s,
		tickRate:      tickRate,
	}
}

// State returns the application state, used by tests.
func (m *Model) State() *AppState {
	return m.state
}

// Init starts the UI clock and the config watcher wait.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		tickCmd(m.tickRate),
	}
	if cmd := waitForConfigChangeCmd(m.configChanges); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		return m, m.handleTick(msg.Time)

	case QuotaFetchedMsg:
		return m, m.handleQuotaFetched(msg)

	case ConfigChangedMsg:
		logger.Info("configuration file changed, reloading")
		return m, tea.Batch(
			reloadConfigCmd(m.cfg),
			waitForConfigChangeCmd(m.configChanges),
		)

	case ConfigReloadedMsg:
		m.handleConfigReloaded(msg)
		return m, nil

	case HistoryLoadedMsg:
		m.historyType = msg.LimitType
		m.historyData = msg.Data
		m.historyErr = msg.Err
		m.projection = msg.Projection
		m.hasProjection = msg.HasProjection
		return m, nil

	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
		return m, nil
	}

	return m, nil
}

func (m *Model) handleTick(now time.Time) tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.tickRate)}

	if m.state.ShouldRefreshNow(now) && !m.fetchInFlight {
		m.fetchInFlight = true
		cmds = append(cmds, fetchQuotaCmd(m.svc))
	}

	return tea.Batch(cmds...)
}

func (m *Model) handleQuotaFetched(msg QuotaFetchedMsg) tea.Cmd {
	m.fetchInFlight = false

	if msg.Err != nil {
		logger.Error("quota fetch failed", "error", msg.Err)
		m.state.SetError(msg.Err, msg.At)
		return nil
	}

	m.state.UpdateQuota(msg.Snapshot, msg.At)

	if m.showHistory && m.historyType != "" {
		return loadHistoryCmd(m.svc, m.historyType)
	}
	return nil
}

func (m *Model) handleConfigReloaded(msg ConfigReloadedMsg) {
	if msg.Err != nil {
		logger.Error("config reload failed", "error", msg.Err)
		return
	}

	m.cfg = msg.Config
	m.state.SetRefreshInterval(msg.Config.RefreshInterval)

	quotaURL, err := msg.Config.QuotaLimitURL()
	if err != nil {
		logger.Error("reloaded config has invalid base URL", "error", err)
		return
	}
	m.svc.SetClient(api.New(quotaURL, msg.Config.AuthToken, msg.Config.HTTPTimeout))
	logger.Info("configuration reloaded", "base_url", msg.Config.BaseURL)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return nil

	case key.Matches(msg, m.keymap.Escape):
		switch {
		case m.showHelp:
			m.showHelp = false
		case m.showHistory:
			m.showHistory = false
		}
		return nil

	case key.Matches(msg, m.keymap.Refresh):
		m.state.ForceRefresh(time.Now())
		return nil

	case key.Matches(msg, m.keymap.History):
		return m.toggleHistory()
	}

	return nil
}

func (m *Model) toggleHistory() tea.Cmd {
	if m.showHistory {
		m.showHistory = false
		return nil
	}

	m.showHistory = true
	m.historyData = nil
	m.historyErr = nil
	m.historyType = ""
	if top := m.state.Snapshot.TopLimit(); top != nil {
		m.historyType = top.Type
	}
	if m.historyType == "" {
		return nil
	}
	return loadHistoryCmd(m.svc, m.historyType)
}
