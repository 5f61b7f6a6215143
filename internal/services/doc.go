// Package services defines shared utilities consumed by the catalog, matching
// and assignment packages.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, trigger names, and channel
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that keep failures
//     classifiable (catalog unavailable, stale cache, write conflict, ...)
//     after they have been wrapped with component context.
//
// Use these helpers when wiring new logic so operational behaviour (error
// classification, observability) stays uniform across a run.
package services
