// Package config loads the dashboard configuration from YAML, with
// defaults matching the page's original constants.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete dashboard configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Feed     FeedConfig     `yaml:"feed"`
	Shell    ShellConfig    `yaml:"shell"`
	Worker   WorkerConfig   `yaml:"worker"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig holds the embedded database settings.
type DatabaseConfig struct {
	Name    string `yaml:"name"`
	Path    string `yaml:"path"`
	Version int    `yaml:"version"`
}

// FeedConfig holds the paginated feed settings.
type FeedConfig struct {
	BaseURL  string `yaml:"base_url"`
	PageSize int    `yaml:"page_size"`
}

// ShellConfig holds the offline cache shell settings. Bump Version when
// the static assets change.
type ShellConfig struct {
	Version string   `yaml:"version"`
	Assets  []string `yaml:"assets"`
}

// WorkerConfig holds the background computation settings.
type WorkerConfig struct {
	Total int `yaml:"total"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration the dashboard ships with.
func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Name:    "dashboardDB",
			Path:    "dashboard.db",
			Version: 1,
		},
		Feed: FeedConfig{
			BaseURL:  "https://jsonplaceholder.typicode.com/posts",
			PageSize: 10,
		},
		Shell: ShellConfig{
			Version: "dashboard-cache-v2",
			Assets: []string{
				"./",
				"./index.html",
				"./style.css?v=1.0.2",
				"./script.js?v=1.0.2",
				"./favicon.ico",
			},
		},
		Worker: WorkerConfig{
			Total: 10_000_000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file over the defaults. A missing file is not an
// error; the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants the components rely on.
func (c Config) Validate() error {
	if c.Database.Name == "" {
		return fmt.Errorf("config: database name is required")
	}
	if c.Database.Version < 1 {
		return fmt.Errorf("config: database version must be at least 1, got %d", c.Database.Version)
	}
	if c.Feed.PageSize < 1 {
		return fmt.Errorf("config: feed page size must be positive, got %d", c.Feed.PageSize)
	}
	if c.Shell.Version == "" {
		return fmt.Errorf("config: shell cache version is required")
	}
	if c.Worker.Total < 1 {
		return fmt.Errorf("config: worker total must be positive, got %d", c.Worker.Total)
	}
	return nil
}

// LogLevel maps the configured level onto slog, defaulting to info.
func (c Config) LogLevel() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
