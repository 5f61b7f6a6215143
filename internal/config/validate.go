package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateHost(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.Owner == "" {
		return errors.New("catalog.owner must be set")
	}
	if c.Catalog.Repo == "" {
		return errors.New("catalog.repo must be set")
	}
	if c.Catalog.Branch == "" {
		return errors.New("catalog.branch must be set")
	}
	if err := validateHTTPURL("catalog.api_base_url", c.Catalog.APIBaseURL); err != nil {
		return err
	}
	if err := validateHTTPURL("catalog.raw_base_url", c.Catalog.RawBaseURL); err != nil {
		return err
	}
	if c.Catalog.MaxRetries < 0 || c.Catalog.MaxRetries > maxCatalogRetries {
		return fmt.Errorf("catalog.max_retries must be between 0 and %d", maxCatalogRetries)
	}
	return ensurePositiveMap(map[string]int{
		"catalog.request_timeout_seconds": c.Catalog.RequestTimeoutSeconds,
	})
}

func (c *Config) validateHost() error {
	if strings.TrimSpace(c.Host.DatabasePath) == "" {
		return errors.New("host.database_path must be set")
	}
	return ensurePositiveMap(map[string]int{
		"host.write_timeout_seconds": c.Host.WriteTimeoutSeconds,
	})
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

func validateHTTPURL(key, value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) url, got %q", key, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", key, value)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
