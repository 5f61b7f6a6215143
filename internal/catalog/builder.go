package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"logograb/internal/catalog/github"
	"logograb/internal/logging"
	"logograb/internal/services"
)

// Remote is the catalog source: a branch revision and its file tree.
type Remote interface {
	Revision(ctx context.Context) (string, error)
	Tree(ctx context.Context, revision string) ([]github.TreeNode, error)
}

// Outcome describes how Build produced its index.
type Outcome string

const (
	OutcomeCacheHit   Outcome = "cache_hit"
	OutcomeRebuilt    Outcome = "rebuilt"
	OutcomeStaleCache Outcome = "stale_cache"
)

// BuildResult is the index produced by a build and how it was obtained.
type BuildResult struct {
	Index     *Index
	Outcome   Outcome
	Malformed int
	// Warning is set for a stale fallback (wraps services.ErrStaleCache) or a
	// cache persist failure. The index is still usable.
	Warning error
}

// Builder produces catalog indexes from a remote and a cache.
type Builder struct {
	remote Remote
	cache  *Cache
	logger *slog.Logger
	now    func() time.Time
}

// NewBuilder wires a builder. cache may be nil to disable persistence.
func NewBuilder(remote Remote, cache *Cache, logger *slog.Logger) *Builder {
	return &Builder{
		remote: remote,
		cache:  cache,
		logger: logging.NewComponentLogger(logger, "catalog"),
		now:    time.Now,
	}
}

// Build returns an index for the current remote revision. Unless force is
// set, an unchanged revision reuses the cached artifact without listing the
// tree.
func (b *Builder) Build(ctx context.Context, force bool) (BuildResult, error) {
	logger := logging.WithContext(ctx, b.logger)

	cached, err := b.cache.Load()
	if err != nil {
		logging.WarnWithContext(logger, "index cache load failed", "index_cache_load_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the logo directory"),
			logging.String(logging.FieldImpact, "no stale fallback available for this run"))
		cached = nil
	}

	if b.remote == nil {
		return b.fallback(logger, cached, errors.New("no catalog remote configured"))
	}

	revision, err := b.remote.Revision(ctx)
	if err != nil {
		return b.fallback(logger, cached, err)
	}

	if !force && cached != nil && cached.SourceRevision == revision {
		logger.Info("index: cache hit",
			logging.Int("entry_count", cached.EntryCount()),
			logging.String("source_revision", revision))
		return BuildResult{Index: cached, Outcome: OutcomeCacheHit}, nil
	}

	nodes, err := b.remote.Tree(ctx, revision)
	if err != nil {
		return b.fallback(logger, cached, err)
	}

	entries, malformed := entriesFromTree(nodes)
	index := NewIndex(entries, revision, b.now())
	result := BuildResult{Index: index, Outcome: OutcomeRebuilt, Malformed: malformed}

	if err := b.cache.Save(index); err != nil {
		result.Warning = services.Wrap(services.ErrTransient, "catalog", "persist index", "index cache not written", err)
		logging.WarnWithContext(logger, "index cache persist failed", "index_cache_persist_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check free space and permissions on the logo directory"),
			logging.String(logging.FieldImpact, "next run will list the catalog again"))
	}

	logger.Info("index: rebuilt",
		logging.Int("entry_count", index.EntryCount()),
		logging.String("source_revision", revision),
		logging.Int("malformed", malformed),
		logging.Bool("forced", force))
	return result, nil
}

func (b *Builder) fallback(logger *slog.Logger, cached *Index, cause error) (BuildResult, error) {
	if cached == nil {
		return BuildResult{}, services.Wrap(services.ErrCatalogUnavailable, "catalog", "build index", "remote unreachable and no cached index", cause)
	}
	warning := services.Wrap(services.ErrStaleCache, "catalog", "build index", "remote unreachable", cause)
	logging.WarnWithContext(logger, "index: using stale cache", "index_stale_cache",
		logging.Int("entry_count", cached.EntryCount()),
		logging.String("source_revision", cached.SourceRevision),
		logging.Error(cause),
		logging.String(logging.FieldErrorHint, "check network access to GitHub or set a token"),
		logging.String(logging.FieldImpact, "matches use the last cached catalog"))
	return BuildResult{Index: cached, Outcome: OutcomeStaleCache, Warning: warning}, nil
}

// entriesFromTree keeps image files and counts malformed ones.
func entriesFromTree(nodes []github.TreeNode) ([]Entry, int) {
	entries := make([]Entry, 0, len(nodes))
	malformed := 0
	for _, node := range nodes {
		kind := strings.ToLower(node.Type)
		if kind != "blob" && kind != "file" {
			continue
		}
		if !IsImagePath(node.Path) {
			continue
		}
		entry, err := EntryFromPath(node.Path)
		if err != nil {
			malformed++
			continue
		}
		entries = append(entries, entry)
	}
	return entries, malformed
}
