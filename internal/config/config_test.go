package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"logograb/internal/config"
)

func TestLoadDefaultConfigExpandsPathsAndUsesEnvToken(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("GITHUB_TOKEN", "env-token")
	t.Setenv("DISPATCHARR_LOGO_DIR", filepath.Join(tempHome, "host-logos"))
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "logograb")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Paths.LogoDir != filepath.Join(tempHome, "host-logos") {
		t.Fatalf("expected logo dir from DISPATCHARR_LOGO_DIR, got %q", cfg.Paths.LogoDir)
	}
	if cfg.IndexCachePath() != filepath.Join(tempHome, "host-logos", ".tvlogos_index.json") {
		t.Fatalf("unexpected index cache path: %q", cfg.IndexCachePath())
	}
	if cfg.Catalog.Token != "env-token" {
		t.Fatalf("expected token from env, got %q", cfg.Catalog.Token)
	}
	if cfg.Catalog.Owner != "jesmannstl" || cfg.Catalog.Repo != "tvlogos" || cfg.Catalog.Branch != "main" {
		t.Fatalf("unexpected catalog location: %+v", cfg.Catalog)
	}
	if cfg.RequestTimeout() != 45*time.Second {
		t.Fatalf("unexpected request timeout: %s", cfg.RequestTimeout())
	}
	if cfg.WriteTimeout() != 10*time.Second {
		t.Fatalf("unexpected write timeout: %s", cfg.WriteTimeout())
	}
	if cfg.StartupDelay() != 2*time.Second {
		t.Fatalf("unexpected startup delay: %s", cfg.StartupDelay())
	}
	if cfg.AutorunInterval() != 6*time.Hour {
		t.Fatalf("unexpected autorun interval: %s", cfg.AutorunInterval())
	}
	if !cfg.Assign.UseTVGID {
		t.Fatal("expected tvg id lookups enabled by default")
	}
	if cfg.Assign.Download || cfg.Assign.DryRun {
		t.Fatal("expected download and dry run disabled by default")
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "logograb.toml")

	type payload struct {
		Paths struct {
			LogoDir string `toml:"logo_dir"`
		} `toml:"paths"`
		Catalog struct {
			Owner      string `toml:"owner"`
			APIBaseURL string `toml:"api_base_url"`
			Token      string `toml:"token"`
			MaxRetries int    `toml:"max_retries"`
		} `toml:"catalog"`
		Assign struct {
			Download bool `toml:"download"`
		} `toml:"assign"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.LogoDir = filepath.Join(tempDir, "logos")
	custom.Catalog.Owner = "someone"
	custom.Catalog.APIBaseURL = "https://example.com/api/"
	custom.Catalog.Token = "file-token"
	custom.Catalog.MaxRetries = 4
	custom.Assign.Download = true
	custom.Logging.Format = "JSON"
	custom.Logging.Level = "Debug"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}
	t.Setenv("GITHUB_TOKEN", "env-token")

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.LogoDir != filepath.Join(tempDir, "logos") {
		t.Fatalf("unexpected logo dir: %q", cfg.Paths.LogoDir)
	}
	if cfg.Catalog.Owner != "someone" {
		t.Fatalf("expected owner from file, got %q", cfg.Catalog.Owner)
	}
	if cfg.Catalog.APIBaseURL != "https://example.com/api" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Catalog.APIBaseURL)
	}
	if cfg.Catalog.Token != "file-token" {
		t.Fatalf("expected file token to win over env, got %q", cfg.Catalog.Token)
	}
	if cfg.Catalog.MaxRetries != 4 {
		t.Fatalf("expected max retries 4, got %d", cfg.Catalog.MaxRetries)
	}
	if !cfg.Assign.Download {
		t.Fatal("expected download enabled")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging normalized, got %+v", cfg.Logging)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "logograb.toml")
	if err := os.WriteFile(configPath, []byte("[catalog\nowner = 1"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "jesmannstl") {
		t.Fatalf("sample config missing catalog owner: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Catalog.RequestTimeoutSeconds != 45 {
		t.Fatalf("unexpected sample timeout: %d", cfg.Catalog.RequestTimeoutSeconds)
	}
	if cfg.Paths.LogoDir != "/data/logos" {
		t.Fatalf("unexpected sample logo dir: %q", cfg.Paths.LogoDir)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogoDir = filepath.Join(base, "logos")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Host.DatabasePath = filepath.Join(base, "db", "host.db")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{"logos", "state", "logs", "db"} {
		info, err := os.Stat(filepath.Join(base, dir))
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s, err=%v", dir, err)
		}
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty owner", func(c *config.Config) { c.Catalog.Owner = "" }},
		{"empty repo", func(c *config.Config) { c.Catalog.Repo = "" }},
		{"empty branch", func(c *config.Config) { c.Catalog.Branch = "" }},
		{"bad api url", func(c *config.Config) { c.Catalog.APIBaseURL = "ftp://example.com" }},
		{"raw url without host", func(c *config.Config) { c.Catalog.RawBaseURL = "https://" }},
		{"too many retries", func(c *config.Config) { c.Catalog.MaxRetries = 9 }},
		{"negative retries", func(c *config.Config) { c.Catalog.MaxRetries = -1 }},
		{"zero timeout", func(c *config.Config) { c.Catalog.RequestTimeoutSeconds = 0 }},
		{"zero write timeout", func(c *config.Config) { c.Host.WriteTimeoutSeconds = 0 }},
		{"empty database", func(c *config.Config) { c.Host.DatabasePath = " " }},
		{"bad level", func(c *config.Config) { c.Logging.Level = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}
