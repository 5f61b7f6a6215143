// Package plugin exposes the two host entry points, Startup and Autorun.
//
// Both run the same assignment pass: take the cross-process run lock, list
// channels missing a logo from the host, run the assignment engine, and log
// the pass summary. Entry points never return errors. Every outcome,
// including a pass skipped because another one holds the lock, is reported
// through the returned summary.
package plugin
