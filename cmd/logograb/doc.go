// Command logograb assigns catalog logos to host channels.
//
// The CLI runs single passes, hosts the scheduling daemon, inspects the cached
// catalog index, scores channel names against it, and manages the SQLite host
// store used when no external media manager is attached.
package main
