package recommend

import "sync"

// similarityCache memoizes similarity vectors by entry index. Values are
// copied in and out so no caller can alter a cached vector.
type similarityCache struct {
	vectors sync.Map // int -> []float64
}

func newSimilarityCache() *similarityCache {
	return &similarityCache{}
}

func (c *similarityCache) get(i int) ([]float64, bool) {
	v, ok := c.vectors.Load(i)
	if !ok {
		return nil, false
	}
	return cloneScores(v.([]float64)), true
}

func (c *similarityCache) put(i int, scores []float64) {
	c.vectors.LoadOrStore(i, cloneScores(scores))
}

func cloneScores(scores []float64) []float64 {
	out := make([]float64, len(scores))
	copy(out, scores)
	return out
}
