package testsupport

import (
	"path/filepath"
	"testing"

	"logograb/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogoDir = filepath.Join(base, "logos")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Host.DatabasePath = filepath.Join(base, "state", "host.db")
	cfgVal.Catalog.Owner = "owner"
	cfgVal.Catalog.Repo = "tvlogos"
	cfgVal.Catalog.MaxRetries = 0
	cfgVal.Catalog.RequestTimeoutSeconds = 5
	cfgVal.Schedule.StartupDelaySeconds = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCatalogServer points both catalog base URLs at server.
func WithCatalogServer(server *CatalogServer) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.APIBaseURL = server.URL()
		b.cfg.Catalog.RawBaseURL = server.URL() + "/raw"
	}
}

// WithDownload enables local logo downloads on the test config.
func WithDownload() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Assign.Download = true
	}
}

// WithDryRun enables dry-run mode on the test config.
func WithDryRun() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Assign.DryRun = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogoDir)
}
