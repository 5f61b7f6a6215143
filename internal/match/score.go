package match

import (
	"slices"
	"strings"
	"unicode"

	"logograb/internal/catalog"
	"logograb/internal/textutil"
)

// Result is the outcome of matching one channel key.
type Result struct {
	ChannelID int64
	// Chosen is nil unless Accepted.
	Chosen   *catalog.Entry
	Score    float64
	Accepted bool
	// Key is the channel key that produced this result.
	Key string
	// Runner is the best candidate's path even when rejected, for diagnostics.
	Runner string
}

// Score compares a channel key with a candidate key. Both are expected to be
// normalized already. Keys that differ in any digit-bearing token score 0:
// "sky sports 1" and "sky sports 2" are different channels however close
// their spelling.
func Score(channelKey, candidateKey string) float64 {
	if channelKey == "" || candidateKey == "" {
		return 0
	}
	if channelKey == candidateKey {
		return 1
	}
	channelTokens, candidateTokens := textutil.Tokens(channelKey), textutil.Tokens(candidateKey)
	if !slices.Equal(numberedTokens(channelTokens), numberedTokens(candidateTokens)) {
		return 0
	}
	jaccard := textutil.Jaccard(channelTokens, candidateTokens)
	return TokenWeight*jaccard + EditWeight*textutil.EditSimilarity(channelKey, candidateKey)
}

// numberedTokens returns the sorted distinct tokens containing a digit.
func numberedTokens(tokens []string) []string {
	var out []string
	for _, token := range tokens {
		if strings.ContainsFunc(token, unicode.IsDigit) {
			out = append(out, token)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Select scores every candidate against channelKey and returns the winner.
// Ties go to the shorter path, then the lexicographically smaller path.
func Select(channelID int64, channelKey string, candidates []catalog.Entry) Result {
	result := Result{ChannelID: channelID, Key: channelKey}
	if channelKey == "" {
		return result
	}

	bestIdx := -1
	bestScore := 0.0
	for i := range candidates {
		score := Score(channelKey, candidates[i].NormalizedKey)
		if bestIdx < 0 || score > bestScore || (score == bestScore && pathBefore(candidates[i].Path, candidates[bestIdx].Path)) {
			bestIdx = i
			bestScore = score
		}
	}
	if bestIdx < 0 {
		return result
	}

	result.Score = bestScore
	result.Runner = candidates[bestIdx].Path
	if Accepts(bestScore) {
		chosen := candidates[bestIdx]
		result.Chosen = &chosen
		result.Accepted = true
	}
	return result
}

// Resolve tries each key in order against the index: exact candidates first,
// then a full scan when the key has none. The best accepted result wins, with
// earlier keys kept on ties. Without an accepted result the highest-scoring
// rejection is returned.
func Resolve(channelID int64, keys []string, index *catalog.Index) Result {
	var best *Result
	for _, key := range keys {
		if key == "" {
			continue
		}
		candidates := index.Lookup(key)
		if len(candidates) == 0 {
			candidates = index.Entries()
		}
		r := Select(channelID, key, candidates)
		if best == nil || better(r, *best) {
			best = &r
		}
	}
	if best == nil {
		return Result{ChannelID: channelID}
	}
	return *best
}

func better(candidate, current Result) bool {
	if candidate.Accepted != current.Accepted {
		return candidate.Accepted
	}
	return candidate.Score > current.Score
}

func pathBefore(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
