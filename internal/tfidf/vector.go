package tfidf

import "math"

// Vector is a sparse document vector. Indices are vocabulary columns in
// ascending order; Values holds the weight for each index.
type Vector struct {
	Indices []int
	Values  []float64
}

// Nnz returns the number of non-zero entries, which is the number of distinct
// vocabulary terms in the document.
func (v Vector) Nnz() int {
	return len(v.Indices)
}

// IsZero reports whether the vector has no non-zero entry.
func (v Vector) IsZero() bool {
	return len(v.Indices) == 0
}

// Norm returns the Euclidean length of the vector.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// dotDense returns the dot product with a dense vector indexed by column.
func (v Vector) dotDense(dense []float64) float64 {
	var sum float64
	for k, col := range v.Indices {
		sum += v.Values[k] * dense[col]
	}
	return sum
}

// normalize scales the vector to unit length in place; zero vectors stay zero.
func (v *Vector) normalize() {
	norm := v.Norm()
	if norm == 0 {
		return
	}
	for k := range v.Values {
		v.Values[k] /= norm
	}
}

func (v Vector) clone() Vector {
	out := Vector{
		Indices: make([]int, len(v.Indices)),
		Values:  make([]float64, len(v.Values)),
	}
	copy(out.Indices, v.Indices)
	copy(out.Values, v.Values)
	return out
}
