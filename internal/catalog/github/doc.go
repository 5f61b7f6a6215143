// Package github talks to the GitHub REST API and raw content host that serve
// the logo catalog.
//
// Client resolves the current branch revision, lists the repository tree at
// that revision, and downloads individual files. Requests carry an optional
// bearer token and go through a bounded-retry transport for idempotent GETs.
package github
