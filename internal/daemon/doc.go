// Package daemon emulates the host scheduler for a long-running logograb
// process.
//
// It runs one startup pass after the configured delay and then an autorun
// pass on a fixed interval until its context ends. A daemon lock prevents two
// schedulers on the same state directory. Pass overlap across processes is
// handled separately by the plugin run lock.
//
// Keep scheduling here: the assignment engine never schedules itself.
package daemon
