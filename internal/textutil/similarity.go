package textutil

// Jaccard returns |a ∩ b| / |a ∪ b| over the distinct tokens of a and b.
// Two empty sets score 0.
func Jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, token := range a {
		setA[token] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, token := range b {
		setB[token] = struct{}{}
	}
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}
	var shared int
	for token := range setA {
		if _, ok := setB[token]; ok {
			shared++
		}
	}
	union := len(setA) + len(setB) - shared
	return float64(shared) / float64(union)
}

// Levenshtein returns the rune-level edit distance between a and b.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// EditSimilarity maps the Levenshtein distance into [0,1] using the longer
// rune length. Two empty strings score 0.
func EditSimilarity(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 0
	}
	return 1 - float64(Levenshtein(a, b))/float64(longest)
}
