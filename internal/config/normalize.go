package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCatalog()
	if err := c.normalizeHost(); err != nil {
		return err
	}
	c.normalizeSchedule()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	c.Paths.LogoDir = strings.TrimSpace(c.Paths.LogoDir)
	if c.Paths.LogoDir == "" || c.Paths.LogoDir == defaultLogoDir {
		// The host exports its logo directory; an explicit config value other
		// than the default wins over it.
		if value, ok := os.LookupEnv("DISPATCHARR_LOGO_DIR"); ok && strings.TrimSpace(value) != "" {
			c.Paths.LogoDir = strings.TrimSpace(value)
		}
	}
	if c.Paths.LogoDir == "" {
		c.Paths.LogoDir = defaultLogoDir
	}
	if c.Paths.LogoDir, err = expandPath(c.Paths.LogoDir); err != nil {
		return fmt.Errorf("paths.logo_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	c.Catalog.Owner = strings.TrimSpace(c.Catalog.Owner)
	c.Catalog.Repo = strings.TrimSpace(c.Catalog.Repo)
	c.Catalog.Branch = strings.TrimSpace(c.Catalog.Branch)
	c.Catalog.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.APIBaseURL), "/")
	if c.Catalog.APIBaseURL == "" {
		c.Catalog.APIBaseURL = defaultCatalogAPIBaseURL
	}
	c.Catalog.RawBaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.RawBaseURL), "/")
	if c.Catalog.RawBaseURL == "" {
		c.Catalog.RawBaseURL = defaultCatalogRawBaseURL
	}
	c.Catalog.Token = strings.TrimSpace(c.Catalog.Token)
	if c.Catalog.Token == "" {
		if value, ok := os.LookupEnv("GITHUB_TOKEN"); ok {
			c.Catalog.Token = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("GH_TOKEN"); ok {
			c.Catalog.Token = strings.TrimSpace(value)
		}
	}
	if c.Catalog.RequestTimeoutSeconds <= 0 {
		c.Catalog.RequestTimeoutSeconds = defaultCatalogRequestTimeout
	}
	c.Catalog.UserAgent = strings.TrimSpace(c.Catalog.UserAgent)
	if c.Catalog.UserAgent == "" {
		c.Catalog.UserAgent = defaultCatalogUserAgent
	}
}

func (c *Config) normalizeHost() error {
	var err error
	if strings.TrimSpace(c.Host.DatabasePath) == "" {
		c.Host.DatabasePath = defaultHostDatabasePath
	}
	if c.Host.DatabasePath, err = expandPath(c.Host.DatabasePath); err != nil {
		return fmt.Errorf("host.database_path: %w", err)
	}
	if c.Host.WriteTimeoutSeconds <= 0 {
		c.Host.WriteTimeoutSeconds = defaultHostWriteTimeout
	}
	return nil
}

func (c *Config) normalizeSchedule() {
	if c.Schedule.StartupDelaySeconds < 0 {
		c.Schedule.StartupDelaySeconds = 0
	}
	if c.Schedule.AutorunIntervalMinutes <= 0 {
		c.Schedule.AutorunIntervalMinutes = defaultAutorunIntervalMinutes
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
