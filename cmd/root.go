package cmd

import (
	"bufio"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"foodwagen/internal/api"
	"foodwagen/internal/logging"
	"foodwagen/internal/ui"
)

const defaultTimeout = 10 * time.Second

// Config holds CLI configuration.
type Config struct {
	APIBaseURL  string
	Timeout     time.Duration
	LogPath     string
	LogLevel    string
	ConfigDir   string
	PrefsPath   string
	ShowVersion bool
	Version     string
}

// Validate checks the API URL, the timeout and the log level.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API base URL: %q (must be an absolute http(s) URL)", c.APIBaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s (must be positive)", c.Timeout)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseFlags parses command-line flags and returns configuration.
func ParseFlags(version string) (*Config, error) {
	// Load .env files first so env-based defaults work with existing flag parsing.
	loadDotEnv(".env")
	loadDotEnv(".env.local")

	config, err := parseArgs(os.Args[1:], version)
	if err != nil {
		return nil, err
	}
	if config.ShowVersion {
		return config, nil
	}

	if config.ConfigDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		config.ConfigDir = filepath.Join(home, ".foodwagen")
	}
	if err := os.MkdirAll(config.ConfigDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if config.LogPath == "" {
		config.LogPath = filepath.Join(config.ConfigDir, "foodwagen.log")
	}
	config.PrefsPath = ui.PrefsPath(config.ConfigDir)

	if config.APIBaseURL == "" {
		settings, err := loadSettings(config.ConfigDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}

		if shouldRunOnboarding(settings) {
			settings, err = runOnboarding(config.ConfigDir)
			if err != nil {
				return nil, fmt.Errorf("failed to run onboarding: %w", err)
			}
		}
		config.APIBaseURL = settings.APIBaseURL
	}
	if config.APIBaseURL == "" {
		config.APIBaseURL = api.DefaultBaseURL
	}
	config.APIBaseURL = strings.TrimRight(config.APIBaseURL, "/")

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// parseArgs reads flags with env fallbacks. Flags win over the environment.
func parseArgs(args []string, version string) (*Config, error) {
	config := &Config{Version: version}

	fs := flag.NewFlagSet("foodwagen", flag.ContinueOnError)
	fs.StringVar(&config.APIBaseURL, "api", "", "Base URL of the food API (or set FOODWAGEN_API_URL)")
	fs.DurationVar(&config.Timeout, "timeout", 0, "Per-request timeout (or set FOODWAGEN_TIMEOUT, default 10s)")
	fs.StringVar(&config.LogPath, "log-file", "", "Path to the log file (default: ~/.foodwagen/foodwagen.log)")
	fs.StringVar(&config.LogLevel, "log-level", "", "Log level: debug, info, warn or error (or set FOODWAGEN_LOG_LEVEL)")
	fs.StringVar(&config.ConfigDir, "config-dir", "", "Directory for settings and prefs (default: ~/.foodwagen)")
	fs.BoolVar(&config.ShowVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if config.APIBaseURL == "" {
		config.APIBaseURL = os.Getenv("FOODWAGEN_API_URL")
	}
	if config.Timeout == 0 {
		if raw := os.Getenv("FOODWAGEN_TIMEOUT"); raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid FOODWAGEN_TIMEOUT %q: %w", raw, err)
			}
			config.Timeout = d
		}
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	if config.LogLevel == "" {
		config.LogLevel = os.Getenv("FOODWAGEN_LOG_LEVEL")
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	return config, nil
}

func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}

		value = strings.Trim(value, `"'`)
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}
