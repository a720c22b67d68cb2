package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: https://desk.example.com
cache:
  filename: /tmp/theme_cache.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Name != "frappe-desk-theme" {
		t.Errorf("App.Name = %q, want default", cfg.App.Name)
	}
	if cfg.App.Environment != "development" {
		t.Errorf("App.Environment = %q, want development", cfg.App.Environment)
	}
	if cfg.Refresh.Cron != defaultRefreshCron {
		t.Errorf("Refresh.Cron = %q, want default", cfg.Refresh.Cron)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: https://desk.example.com
cache:
  filename: /tmp/theme_cache.db
`)

	t.Setenv("DESK_THEME_SERVER_URL", "https://other.example.com")
	t.Setenv("DESK_THEME_CACHE_FILE", "/tmp/override_cache.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.BaseURL != "https://other.example.com" {
		t.Errorf("Server.BaseURL = %q, want env override", cfg.Server.BaseURL)
	}
	if cfg.Cache.Filename != "/tmp/override_cache.db" {
		t.Errorf("Cache.Filename = %q, want env override", cfg.Cache.Filename)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Server.BaseURL = "https://desk.example.com"
		cfg.Cache.Filename = "/tmp/theme_cache.db"
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: ""},
		{
			name:    "missing_base_url",
			mutate:  func(c *Config) { c.Server.BaseURL = "" },
			wantErr: "base_url",
		},
		{
			name:    "relative_base_url",
			mutate:  func(c *Config) { c.Server.BaseURL = "desk.example.com" },
			wantErr: "absolute",
		},
		{
			name:    "negative_timeout",
			mutate:  func(c *Config) { c.Server.TimeoutSeconds = -1 },
			wantErr: "timeout_seconds",
		},
		{
			name:    "missing_cache_filename",
			mutate:  func(c *Config) { c.Cache.Filename = "" },
			wantErr: "cache filename",
		},
		{
			name: "bad_refresh_cron",
			mutate: func(c *Config) {
				c.Refresh.Enabled = true
				c.Refresh.Cron = "every day at noon"
			},
			wantErr: "refresh cron",
		},
		{
			name: "bad_cron_ignored_when_disabled",
			mutate: func(c *Config) {
				c.Refresh.Enabled = false
				c.Refresh.Cron = "every day at noon"
			},
			wantErr: "",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := valid()
			test.mutate(cfg)
			err := cfg.Validate()
			if test.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, test.wantErr)
			}
		})
	}
}
