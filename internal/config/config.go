// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const defaultRefreshCron = "*/30 * * * *"

type ServerConfig struct {
	// BaseURL of the admin console serving the theme endpoint.
	BaseURL string `yaml:"base_url"`
	// TimeoutSeconds bounds a single theme fetch. Zero means the client
	// default.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

type CacheConfig struct {
	Filename string `yaml:"filename"`
}

type RefreshConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
}

type OverrideConfig struct {
	// File is an optional local theme-override file; empty disables the
	// watcher.
	File string `yaml:"file"`
}

type SessionConfig struct {
	// Roles held by the current user, for the search visibility rule.
	Roles []string `yaml:"roles"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
	} `yaml:"app"`

	Server   ServerConfig   `yaml:"server"`
	Cache    CacheConfig    `yaml:"cache"`
	Refresh  RefreshConfig  `yaml:"refresh"`
	Override OverrideConfig `yaml:"override"`
	Session  SessionConfig  `yaml:"session"`
}

// Load loads both .env and yaml configuration.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides lets deployments override file values without editing
// the config file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DESK_THEME_SERVER_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("DESK_THEME_CACHE_FILE"); v != "" {
		c.Cache.Filename = v
	}
	if v := os.Getenv("DESK_THEME_OVERRIDE_FILE"); v != "" {
		c.Override.File = v
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.App.Environment = v
	}
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "frappe-desk-theme"
	}
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.Refresh.Cron == "" {
		c.Refresh.Cron = defaultRefreshCron
	}
}

func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server base_url is required")
	}
	parsed, err := url.Parse(c.Server.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("server base_url must be an absolute URL")
	}
	if c.Server.TimeoutSeconds < 0 {
		return fmt.Errorf("server timeout_seconds must not be negative")
	}
	if c.Cache.Filename == "" {
		return fmt.Errorf("cache filename is required")
	}
	if c.Refresh.Enabled {
		// Same grammar gocron evaluates at run time; rejecting bad
		// expressions here fails startup instead of the first tick.
		if _, err := cron.ParseStandard(c.Refresh.Cron); err != nil {
			return fmt.Errorf("invalid refresh cron %q: %w", c.Refresh.Cron, err)
		}
	}
	return nil
}
