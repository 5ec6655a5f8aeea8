package recommend

import "sort"

// scoredIndex pairs an entry position with its aggregated score.
type scoredIndex struct {
	index int
	score float64
}

// rank orders scores descending and returns at most n of them. Ties keep
// ascending index order. Indices in exclude are skipped.
func rank(scores []float64, n int, exclude map[int]struct{}) []scoredIndex {
	ranked := make([]scoredIndex, 0, len(scores))
	for i, s := range scores {
		if _, skip := exclude[i]; skip {
			continue
		}
		ranked = append(ranked, scoredIndex{index: i, score: s})
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
