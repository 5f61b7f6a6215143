package catalog

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"logograb/internal/services"
	"logograb/internal/textutil"
)

// imageExtensions lists the file types treated as logos.
var imageExtensions = map[string]struct{}{
	".png":  {},
	".webp": {},
	".jpg":  {},
	".jpeg": {},
	".svg":  {},
}

// Entry is one logo file of the remote catalog. Path is its identity.
type Entry struct {
	Path          string `json:"path"`
	FileName      string `json:"file_name"`
	NormalizedKey string `json:"normalized_key"`
}

// IsImagePath reports whether p has a recognised image extension.
func IsImagePath(p string) bool {
	_, ok := imageExtensions[strings.ToLower(path.Ext(p))]
	return ok
}

// EntryFromPath derives an Entry from a repository path. Paths whose file
// stem normalizes to nothing are malformed.
func EntryFromPath(p string) (Entry, error) {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return Entry{}, fmt.Errorf("%w: empty path", services.ErrMalformedEntry)
	}
	fileName := path.Base(p)
	stem := strings.TrimSuffix(fileName, path.Ext(fileName))
	key := textutil.Normalize(stem)
	if key == "" {
		return Entry{}, fmt.Errorf("%w: %q has no usable name", services.ErrMalformedEntry, p)
	}
	return Entry{Path: p, FileName: fileName, NormalizedKey: key}, nil
}

// Index is an immutable snapshot of the catalog at one source revision.
type Index struct {
	BuiltAt        time.Time
	SourceRevision string

	entries []Entry
	byKey   map[string][]Entry
}

// NewIndex builds an index over entries, sorted by path. Entries with an
// empty path or key are dropped.
func NewIndex(entries []Entry, revision string, builtAt time.Time) *Index {
	kept := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Path == "" || entry.NormalizedKey == "" {
			continue
		}
		kept = append(kept, entry)
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Path < kept[j].Path })

	byKey := make(map[string][]Entry, len(kept))
	for _, entry := range kept {
		byKey[entry.NormalizedKey] = append(byKey[entry.NormalizedKey], entry)
	}
	return &Index{
		BuiltAt:        builtAt.UTC(),
		SourceRevision: revision,
		entries:        kept,
		byKey:          byKey,
	}
}

// Lookup returns every entry whose normalized key equals key.
func (ix *Index) Lookup(key string) []Entry {
	if ix == nil {
		return nil
	}
	return ix.byKey[key]
}

// Entries returns all entries ordered by path. Callers must not modify the result.
func (ix *Index) Entries() []Entry {
	if ix == nil {
		return nil
	}
	return ix.entries
}

// EntryCount returns the number of indexed entries.
func (ix *Index) EntryCount() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}
