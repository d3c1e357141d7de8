package depsolve

import "github.com/hbollon/go-edlib"

// EditDistanceSuggester implements Suggester with Levenshtein similarity
// over the set of registered module names, restoring the "did you mean"
// hint the original gave on an unresolved dependency (SPEC_FULL.md
// §10.2).
type EditDistanceSuggester struct {
	// MinSimilarity is the lowest normalized similarity (0..1) that still
	// counts as a usable suggestion; below it, no hint is offered.
	MinSimilarity float32
}

func NewEditDistanceSuggester() *EditDistanceSuggester {
	return &EditDistanceSuggester{MinSimilarity: 0.5}
}

func (s *EditDistanceSuggester) Suggest(missing string, candidates []string) string {
	best := ""
	var bestScore float32
	for _, c := range candidates {
		score, err := edlib.StringsSimilarity(missing, c, edlib.Levenshtein)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	if bestScore < s.MinSimilarity {
		return ""
	}
	return best
}
