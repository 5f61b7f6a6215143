package preflight

import (
	"context"

	"logograb/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
// The catalog check is skipped when remote is nil.
func RunAll(ctx context.Context, cfg *config.Config, remote RevisionSource) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))

	// Logo directory holds the index cache and downloaded files.
	results = append(results, CheckDirectoryAccess("Logo directory", cfg.Paths.LogoDir))

	results = append(results, CheckHostDatabase(ctx, cfg.Host.DatabasePath))

	if remote != nil {
		results = append(results, CheckCatalog(ctx, remote))
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
