// Package match scores channel keys against catalog entries and picks the
// winning logo.
//
// Scoring is pure and uses fixed weights: an exact key match scores 1.0,
// otherwise token overlap and normalized edit distance are blended. Only a
// winner at or above AcceptThreshold is accepted.
package match
