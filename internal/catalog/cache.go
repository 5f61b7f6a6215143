package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"logograb/internal/fileutil"
	"logograb/internal/logging"
)

// ArtifactVersion tags the cache file layout. Artifacts with another version
// are ignored and rebuilt.
const ArtifactVersion = 1

type artifact struct {
	Version        int       `json:"version"`
	SourceRevision string    `json:"source_revision"`
	BuiltAt        time.Time `json:"built_at"`
	Entries        []Entry   `json:"entries"`
}

// Cache persists an Index as a JSON artifact.
type Cache struct {
	path   string
	logger *slog.Logger
}

// NewCache creates a cache backed by path. An empty path disables persistence.
func NewCache(path string, logger *slog.Logger) *Cache {
	return &Cache{path: path, logger: logging.NewComponentLogger(logger, "catalog")}
}

// Path returns the artifact location.
func (c *Cache) Path() string {
	return c.path
}

// Load reads the cached index. A missing, empty, unreadable or
// version-mismatched artifact yields a nil index and no error; only I/O
// failures other than absence are returned.
func (c *Cache) Load() (*Index, error) {
	if c == nil || c.path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read index cache: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		logging.WarnWithContext(c.logger, "index cache unreadable", "index_cache_corrupt",
			logging.String("path", c.path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the index will be rebuilt from the catalog"),
			logging.String(logging.FieldImpact, "no stale fallback available for this run"))
		return nil, nil
	}
	if art.Version != ArtifactVersion {
		c.logger.Debug("index cache version mismatch",
			logging.Int("found_version", art.Version),
			logging.Int("want_version", ArtifactVersion))
		return nil, nil
	}
	return NewIndex(art.Entries, art.SourceRevision, art.BuiltAt), nil
}

// Save writes the index atomically: a temp file is written then renamed
// over the artifact, so readers see either the old or the new file.
func (c *Cache) Save(ix *Index) error {
	if c == nil || c.path == "" || ix == nil {
		return nil
	}
	art := artifact{
		Version:        ArtifactVersion,
		SourceRevision: ix.SourceRevision,
		BuiltAt:        ix.BuiltAt,
		Entries:        ix.Entries(),
	}
	data, err := json.Marshal(art)
	if err != nil {
		return fmt.Errorf("marshal index cache: %w", err)
	}

	if err := fileutil.WriteFileAtomic(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write index cache: %w", err)
	}
	return nil
}
