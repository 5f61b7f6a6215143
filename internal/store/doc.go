// Package store is a SQLite-backed host data store holding channels and their
// logos.
//
// It implements assign.Host so the assignment engine can run end to end
// without the media-management host. Logo names are unique: concurrent
// creators of the same key converge on one row. Linking a logo re-checks the
// channel inside a transaction and reports services.ErrWriteConflict when the
// channel vanished or gained a real logo since it was read.
//
// Schema changes bump schemaVersion in schema.go; users delete the database to
// adopt a new schema.
package store
