package match

const (
	// TokenWeight weights the Jaccard overlap of key tokens.
	TokenWeight = 0.4
	// EditWeight weights the normalized Levenshtein similarity of whole keys.
	EditWeight = 0.6
	// AcceptThreshold is the inclusive minimum score for an accepted match.
	AcceptThreshold = 0.75
)

// Policy exposes the scoring constants for logging and diagnostics.
type Policy struct {
	TokenWeight     float64 `json:"token_weight"`
	EditWeight      float64 `json:"edit_weight"`
	AcceptThreshold float64 `json:"accept_threshold"`
}

// DefaultPolicy returns the fixed scoring policy.
func DefaultPolicy() Policy {
	return Policy{
		TokenWeight:     TokenWeight,
		EditWeight:      EditWeight,
		AcceptThreshold: AcceptThreshold,
	}
}

// Accepts reports whether score clears the acceptance threshold.
func Accepts(score float64) bool {
	return score >= AcceptThreshold
}
