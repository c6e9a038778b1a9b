// Package main is the entry point for the GLM usage monitor. It runs either
// the live Bubble Tea dashboard or a one-shot waybar JSON snapshot.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glm-tools/glm-usage-tui/internal/api"
	"github.com/glm-tools/glm-usage-tui/internal/app"
	"github.com/glm-tools/glm-usage-tui/internal/config"
	"github.com/glm-tools/glm-usage-tui/internal/db"
	"github.com/glm-tools/glm-usage-tui/internal/logger"
	"github.com/glm-tools/glm-usage-tui/internal/monitor"
	"github.com/glm-tools/glm-usage-tui/internal/version"
	"github.com/glm-tools/glm-usage-tui/internal/waybar"
)

type options struct {
	refreshSec int
	timeoutSec int
	tickRateMS int
	waybarMode bool
}

func main() {
	var opts options
	var showVersion bool

	flag.IntVar(&opts.refreshSec, "refresh-sec", 0, "poll interval in seconds (overrides REFRESH_SEC)")
	flag.IntVar(&opts.timeoutSec, "timeout-sec", 0, "HTTP timeout in seconds (overrides HTTP_TIMEOUT_SEC)")
	flag.IntVar(&opts.tickRateMS, "tick-rate", 250, "UI tick rate in milliseconds")
	flag.BoolVar(&opts.waybarMode, "waybar", false, "print one waybar JSON line and exit")
	flag.BoolVar(&showVersion, "version", false, "show version information")
	flag.BoolVar(&showVersion, "v", false, "show version information")
	flag.Usage = printUsage
	flag.Parse()

	if showVersion {
		fmt.Println(version.Info())
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if opts.refreshSec > 0 {
		cfg.RefreshInterval = time.Duration(opts.refreshSec) * time.Second
	}
	if opts.timeoutSec > 0 {
		cfg.HTTPTimeout = time.Duration(opts.timeoutSec) * time.Second
	}

	quotaURL, err := cfg.QuotaLimitURL()
	if err != nil {
		return err
	}
	client := api.New(quotaURL, cfg.AuthToken, cfg.HTTPTimeout)

	if opts.waybarMode {
		return runWaybar(client, cfg.HTTPTimeout)
	}

	store, err := db.New(cfg.DatabasePath)
	if err != nil {
		// The dashboard works without history, so a broken database only
		// costs the chart.
		logger.Warn("failed to open sample database, history disabled", "error", err)
		store = nil
	}

	svc := monitor.New(client, store, cfg.Notifications)
	defer func() {
		if closeErr := svc.Close(); closeErr != nil {
			logger.Error("failed to close monitor service", "error", closeErr)
		}
	}()

	watcher, err := config.NewWatcher(cfg.EnvFile)
	if err != nil {
		logger.Warn("failed to watch config file, hot reload disabled", "error", err)
		watcher = nil
	} else {
		defer func() {
			if closeErr := watcher.Close(); closeErr != nil {
				logger.Error("failed to close config watcher", "error", closeErr)
			}
		}()
	}

	var changes <-chan struct{}
	if watcher != nil {
		changes = watcher.Changes()
	}

	model := app.NewModel(cfg, svc, changes, time.Duration(opts.tickRateMS)*time.Millisecond)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// runWaybar performs a single fetch and prints the waybar JSON line. A fetch
// failure still prints valid JSON and exits zero so waybar shows the error
// state instead of dropping the module.
func runWaybar(client *api.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var out waybar.Output
	if snap, err := client.FetchQuotaLimits(ctx); err != nil {
		out = waybar.FromError(err)
	} else {
		out = waybar.FromSnapshot(snap)
	}

	line, err := out.Render()
	if err != nil {
		return err
	}
	fmt.Println(line)
	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`GLM Usage Monitor - terminal dashboard for GLM coding-plan quota

Usage:
  glmmon [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information
  --refresh-sec   Poll interval in seconds (overrides REFRESH_SEC)
  --timeout-sec   HTTP timeout in seconds (overrides HTTP_TIMEOUT_SEC)
  --tick-rate     UI tick rate in milliseconds (default: 250)
  --waybar        Print one waybar JSON line and exit

Keyboard Shortcuts:
  r               Refresh now
  h               Toggle history chart
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  ANTHROPIC_BASE_URL    API base URL (default: https://api.z.ai/api/anthropic)
  ANTHROPIC_AUTH_TOKEN  API token (required)
  REFRESH_SEC           Poll interval in seconds (default: 60)
  HTTP_TIMEOUT_SEC      HTTP timeout in seconds (default: 20)
  DATABASE_PATH         SQLite history database path
  GLM_NOTIFICATIONS     Set to "off" to disable desktop notifications
  GLM_LOG_FILE          Write logs to this file instead of stderr

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/glm-usage-monitor/.env
  - ~/.glm/.env`)
}
