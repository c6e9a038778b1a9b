// Package config contains everything related to configuration
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Default values
const (
	defaultBaseURL         = "https://api.z.ai/api/anthropic"
	defaultRefreshInterval = 60 * time.Second
	defaultHTTPTimeout     = 20 * time.Second
)

// QuotaLimitPath is the upstream endpoint path for quota limit data.
const QuotaLimitPath = "/api/monitor/usage/quota/limit"

// Config holds the application configuration.
type Config struct {
	BaseURL         string
	AuthToken       string
	RefreshInterval time.Duration
	HTTPTimeout     time.Duration
	DatabasePath    string
	Notifications   bool

	// EnvFile is the .env file that was loaded, if any. Watched for hot
	// reload.
	EnvFile string
}

// Load reads configuration from .env files and environment variables.
// Environment variables take precedence over .env file values; godotenv
// never overrides variables that are already set.
func Load() (*Config, error) {
	envFile := ""
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			envFile = path
			break
		}
	}

	cfg := &Config{
		BaseURL:         getEnvString("ANTHROPIC_BASE_URL", defaultBaseURL),
		AuthToken:       getEnvString("ANTHROPIC_AUTH_TOKEN", ""),
		RefreshInterval: getEnvSeconds("REFRESH_SEC", defaultRefreshInterval),
		HTTPTimeout:     getEnvSeconds("HTTP_TIMEOUT_SEC", defaultHTTPTimeout),
		DatabasePath:    getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		Notifications:   getEnvString("GLM_NOTIFICATIONS", "on") != "off",
		EnvFile:         envFile,
	}

	if cfg.AuthToken == "" {
		return nil, fmt.Errorf(
			"ANTHROPIC_AUTH_TOKEN is not set (export it, or add it to %s)",
			filepath.Join("~", ".config", "glm-usage-monitor", ".env"))
	}

	if _, err := cfg.Domain(); err != nil {
		return nil, err
	}

	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Reload re-reads the .env file that Load picked and rebuilds the config.
// Unlike Load it lets the file override already-set variables: a reload only
// happens because the user edited that file, so the file wins.
func (c *Config) Reload() (*Config, error) {
	if c.EnvFile != "" {
		if err := godotenv.Overload(c.EnvFile); err != nil {
			return nil, fmt.Errorf("failed to reload %s: %w", c.EnvFile, err)
		}
	}
	next, err := Load()
	if err != nil {
		return nil, err
	}
	next.EnvFile = c.EnvFile
	return next, nil
}

// Domain returns the scheme://authority part of the base URL.
func (c *Config) Domain() (string, error) {
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse ANTHROPIC_BASE_URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("ANTHROPIC_BASE_URL %q has no scheme or host", c.BaseURL)
	}
	return parsed.Scheme + "://" + parsed.Host, nil
}

// QuotaLimitURL returns the full URL of the quota limit endpoint.
func (c *Config) QuotaLimitURL() (string, error) {
	domain, err := c.Domain()
	if err != nil {
		return "", err
	}
	return domain + QuotaLimitPath, nil
}

// Platform identifies the upstream platform serving the base URL.
type Platform int

const (
	// PlatformUnknown is any base URL we do not recognize.
	PlatformUnknown Platform = iota
	// PlatformZai is the api.z.ai international platform.
	PlatformZai
	// PlatformZhipu is the bigmodel.cn mainland platform.
	PlatformZhipu
)

// String returns the display name of the platform.
func (p Platform) String() string {
	switch p {
	case PlatformZai:
		return "ZAI"
	case PlatformZhipu:
		return "ZHIPU"
	default:
		return "UNKNOWN"
	}
}

// Platform detects the upstream platform from the base URL.
func (c *Config) Platform() Platform {
	switch {
	case strings.Contains(c.BaseURL, "api.z.ai"):
		return PlatformZai
	case strings.Contains(c.BaseURL, "open.bigmodel.cn"),
		strings.Contains(c.BaseURL, "dev.bigmodel.cn"):
		return PlatformZhipu
	default:
		return PlatformUnknown
	}
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "glm-usage-monitor", ".env"),
			filepath.Join(home, ".glm", ".env"),
		)
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "usage.db"
	}
	return filepath.Join(home, ".config", "glm-usage-monitor", "usage.db")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvSeconds retrieves a duration env var expressed as whole seconds
// ("300"), also accepting Go duration syntax ("5m") for convenience.
func getEnvSeconds(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
