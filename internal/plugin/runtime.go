package plugin

import (
	"fmt"
	"log/slog"

	"logograb/internal/catalog"
	"logograb/internal/catalog/github"
	"logograb/internal/config"
	"logograb/internal/store"
)

// Runtime holds the concrete collaborators built from config: the SQLite
// host store, the GitHub catalog client and the cached index builder.
type Runtime struct {
	Store   *store.Store
	Client  *github.Client
	Builder *catalog.Builder
	Plugin  *Plugin
}

// NewCatalogClient builds the GitHub client described by cfg.
func NewCatalogClient(cfg *config.Config) (*github.Client, error) {
	opts := []github.Option{
		github.WithHTTPClient(github.NewHTTPClient(cfg.RequestTimeout(), cfg.Catalog.MaxRetries)),
		github.WithUserAgent(cfg.Catalog.UserAgent),
		github.WithRawBaseURL(cfg.Catalog.RawBaseURL),
	}
	if cfg.Catalog.Token != "" {
		opts = append(opts, github.WithToken(cfg.Catalog.Token))
	}
	client, err := github.New(github.Repository{
		Owner:      cfg.Catalog.Owner,
		Repo:       cfg.Catalog.Repo,
		Branch:     cfg.Catalog.Branch,
		APIBaseURL: cfg.Catalog.APIBaseURL,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("catalog client: %w", err)
	}
	return client, nil
}

// NewRuntime opens the host store and wires the catalog and plugin.
func NewRuntime(cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	client, err := NewCatalogClient(cfg)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open host store: %w", err)
	}
	builder := catalog.NewBuilder(client, catalog.NewCache(cfg.IndexCachePath(), logger), logger)
	p, err := New(cfg, st, builder, client, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return &Runtime{Store: st, Client: client, Builder: builder, Plugin: p}, nil
}

// Close releases the host store.
func (r *Runtime) Close() error {
	if r == nil || r.Store == nil {
		return nil
	}
	return r.Store.Close()
}
