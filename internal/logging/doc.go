// Package logging assembles structured slog loggers and formatting helpers used
// across logograb.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so assignment code automatically
// tags log lines with the run id, trigger, and channel id. When a log directory
// is configured every record is also appended as JSON to logograb.log. The
// package provides a no-op logger for tests and wiring code that cannot fail.
package logging
