package tfidf

import (
	"fmt"
	"log/slog"
)

// Similarity returns the cosine similarity between document i and every
// document in the model, indexed by document. Entry i is 1 unless document i
// has no vocabulary term, in which case every entry is 0.
//
// Scores are computed on demand; nothing is cached on the model.
func (m *Model) Similarity(i int) ([]float64, error) {
	if i < 0 || i >= len(m.vectors) {
		return nil, fmt.Errorf("%w: %d (documents: %d)", ErrIndexOutOfRange, i, len(m.vectors))
	}

	scores := make([]float64, len(m.vectors))
	query := m.vectors[i]
	if query.IsZero() {
		slog.Debug("Document has no vocabulary terms", "docIndex", i)
		return scores, nil
	}

	// scatter the query into a dense slice once so each candidate costs O(nnz)
	dense := make([]float64, len(m.terms))
	for k, col := range query.Indices {
		dense[col] = query.Values[k]
	}

	for j, candidate := range m.vectors {
		scores[j] = clampUnit(candidate.dotDense(dense))
	}
	scores[i] = 1

	return scores, nil
}

// clampUnit absorbs floating point drift so scores stay within [0, 1].
func clampUnit(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
