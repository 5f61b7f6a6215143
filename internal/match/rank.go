package match

import (
	"sort"

	"logograb/internal/catalog"
)

// Candidate is one scored catalog entry.
type Candidate struct {
	Entry    catalog.Entry `json:"entry"`
	Score    float64       `json:"score"`
	Accepted bool          `json:"accepted"`
}

// Rank scores every entry against key and returns the best limit candidates
// in selection order. A limit of zero or less returns all of them.
func Rank(key string, entries []catalog.Entry, limit int) []Candidate {
	if key == "" || len(entries) == 0 {
		return nil
	}
	out := make([]Candidate, 0, len(entries))
	for _, entry := range entries {
		score := Score(key, entry.NormalizedKey)
		out = append(out, Candidate{Entry: entry, Score: score, Accepted: Accepts(score)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return pathBefore(out[i].Entry.Path, out[j].Entry.Path)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
