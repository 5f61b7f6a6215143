// Package assign runs one logo assignment pass over a set of host channels.
//
// Each channel moves from pending to exactly one terminal state: skipped
// because it already has a real logo, no match, matched (dry run), assigned,
// or failed. Healthy channels are classified before any catalog or network
// work, and the catalog index is only built when some channel needs it.
//
// Logo records are created or reused per derived key under a keyed mutex, so
// concurrent passes never create two logos for one key. A failure on one
// channel is recorded and the pass moves on.
package assign
