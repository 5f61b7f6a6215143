// Package catalog builds and caches the searchable index of remote logo files.
//
// Builder asks the remote for the branch revision, reuses the on-disk cache
// artifact when the revision is unchanged, and otherwise lists the repository
// tree once, keeps image files, and derives a normalized match key from each
// file name. The resulting Index is an immutable snapshot that callers pass
// explicitly to the matcher; nothing in this package holds global state.
//
// Remote failures fall back to the last cached index (reported as stale). With
// no cache the build fails with services.ErrCatalogUnavailable.
package catalog
