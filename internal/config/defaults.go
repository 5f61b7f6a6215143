package config

const (
	defaultLogoDir                = "/data/logos"
	defaultStateDir               = "~/.local/share/logograb"
	defaultLogDir                 = "~/.local/share/logograb/logs"
	defaultCatalogOwner           = "jesmannstl"
	defaultCatalogRepo            = "tvlogos"
	defaultCatalogBranch          = "main"
	defaultCatalogAPIBaseURL      = "https://api.github.com"
	defaultCatalogRawBaseURL      = "https://raw.githubusercontent.com"
	defaultCatalogRequestTimeout  = 45
	defaultCatalogMaxRetries      = 2
	defaultCatalogUserAgent       = "logograb/dev"
	defaultHostDatabasePath       = "~/.local/share/logograb/host.db"
	defaultHostWriteTimeout       = 10
	defaultStartupDelaySeconds    = 2
	defaultAutorunIntervalMinutes = 360
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	maxCatalogRetries             = 5

	indexCacheFileName = ".tvlogos_index.json"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogoDir:  defaultLogoDir,
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Catalog: Catalog{
			Owner:                 defaultCatalogOwner,
			Repo:                  defaultCatalogRepo,
			Branch:                defaultCatalogBranch,
			APIBaseURL:            defaultCatalogAPIBaseURL,
			RawBaseURL:            defaultCatalogRawBaseURL,
			RequestTimeoutSeconds: defaultCatalogRequestTimeout,
			MaxRetries:            defaultCatalogMaxRetries,
			UserAgent:             defaultCatalogUserAgent,
		},
		Host: Host{
			DatabasePath:        defaultHostDatabasePath,
			WriteTimeoutSeconds: defaultHostWriteTimeout,
		},
		Assign: Assign{
			UseTVGID: true,
		},
		Schedule: Schedule{
			StartupDelaySeconds:    defaultStartupDelaySeconds,
			AutorunIntervalMinutes: defaultAutorunIntervalMinutes,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
