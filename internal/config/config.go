package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogoDir  string `toml:"logo_dir"`
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Catalog contains configuration for the remote logo repository.
type Catalog struct {
	Owner                 string `toml:"owner"`
	Repo                  string `toml:"repo"`
	Branch                string `toml:"branch"`
	APIBaseURL            string `toml:"api_base_url"`
	RawBaseURL            string `toml:"raw_base_url"`
	Token                 string `toml:"token"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	MaxRetries            int    `toml:"max_retries"`
	UserAgent             string `toml:"user_agent"`
}

// Host contains configuration for the channel/logo data store.
type Host struct {
	DatabasePath        string `toml:"database_path"`
	WriteTimeoutSeconds int    `toml:"write_timeout_seconds"`
}

// Assign contains configuration for logo assignment behaviour.
type Assign struct {
	// Download stores the logo file in paths.logo_dir and links the local path
	// instead of the remote URL.
	Download bool `toml:"download"`
	// DryRun matches channels without writing to the host.
	DryRun bool `toml:"dry_run"`
	// UseTVGID tries the channel's tvg id before its display name.
	UseTVGID bool `toml:"use_tvg_id"`
}

// Schedule contains timing for the daemon's startup and autorun passes.
type Schedule struct {
	StartupDelaySeconds    int `toml:"startup_delay_seconds"`
	AutorunIntervalMinutes int `toml:"autorun_interval_minutes"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for logograb.
//
// Configuration sections by subsystem:
//   - Paths: logo storage, state (lock, database) and log directories
//   - Catalog: remote GitHub repository holding the logo files
//   - Host: channel/logo data store
//   - Assign: download, dry-run and identity key settings
//   - Schedule: daemon startup delay and autorun interval
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Catalog  Catalog  `toml:"catalog"`
	Host     Host     `toml:"host"`
	Assign   Assign   `toml:"assign"`
	Schedule Schedule `toml:"schedule"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/logograb/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("logograb.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a pass writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogoDir, c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if dir := filepath.Dir(c.Host.DatabasePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create database directory %q: %w", dir, err)
		}
	}
	return nil
}

// IndexCachePath returns the location of the catalog index cache artifact.
func (c *Config) IndexCachePath() string {
	return filepath.Join(c.Paths.LogoDir, indexCacheFileName)
}

// LockPath returns the run lock file shared by startup and autorun passes.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "logograb.lock")
}

// RequestTimeout returns the catalog HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Catalog.RequestTimeoutSeconds) * time.Second
}

// WriteTimeout returns the bound applied to each host write.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Host.WriteTimeoutSeconds) * time.Second
}

// StartupDelay returns the wait before the daemon's startup pass.
func (c *Config) StartupDelay() time.Duration {
	return time.Duration(c.Schedule.StartupDelaySeconds) * time.Second
}

// AutorunInterval returns the period between autorun passes.
func (c *Config) AutorunInterval() time.Duration {
	return time.Duration(c.Schedule.AutorunIntervalMinutes) * time.Minute
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
