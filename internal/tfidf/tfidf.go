// Package tfidf provides the TF-IDF document-term weighting model and the
// cosine similarity computed on top of it.
//
// A Model is fitted once over a fixed collection of documents. Fitting builds a
// lexicographically ordered vocabulary, a smoothed inverse document frequency
// per term, and one L2-normalized sparse vector per document:
//
//	idf(t)      = ln((1 + D) / (1 + df(t))) + 1
//	weight(d,t) = count(d,t) * idf(t)
//
// where D is the number of documents and df(t) the number of documents that
// contain t. Because every vector has unit length and non-negative weights, the
// cosine similarity of two documents is their dot product and lies in [0, 1].
//
// Usage Example:
//
//	model, err := tfidf.Fit(documents, tfidf.Options{})
//	scores, err := model.Similarity(docIndex)
//
// A fitted Model is never mutated and is safe for concurrent use.
package tfidf

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
)

var (
	// ErrEmptyCorpus is returned when fitting over zero documents.
	ErrEmptyCorpus = errors.New("no documents to fit")
	// ErrEmptyVocabulary is returned when no document contains a usable term.
	ErrEmptyVocabulary = errors.New("empty vocabulary; documents contain only stop words")
	// ErrIndexOutOfRange is returned for a document index outside the model.
	ErrIndexOutOfRange = errors.New("document index out of range")
)

// Options tune how documents are analyzed and which terms are kept.
// The zero value matches a plain English stop-word vectorizer.
type Options struct {
	Stem  bool    // reduce terms to their Snowball English stem
	MinDF int     // drop terms found in fewer documents than this (0 or 1 keeps all)
	MaxDF float64 // drop terms found in more than this fraction of documents (0 keeps all)
}

// Model is a fitted TF-IDF weighting over a document collection.
type Model struct {
	vocabulary map[string]int // term -> column
	terms      []string       // column -> term, sorted
	idf        []float64      // column -> idf weight
	vectors    []Vector       // document -> weighted, normalized vector
}

// Fit builds the vocabulary, idf weights, and document vectors for docs.
// Identical input always yields an identical model.
func Fit(docs []string, opts Options) (*Model, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}

	an := newAnalyzer(opts.Stem)

	// count terms per document and document frequencies
	counts := make([]map[string]int, len(docs))
	docFreq := make(map[string]int)
	for i, doc := range docs {
		termCounts := make(map[string]int)
		for _, term := range an.analyze(doc) {
			termCounts[term]++
		}
		for term := range termCounts {
			docFreq[term]++
		}
		counts[i] = termCounts
	}

	terms := selectTerms(docFreq, len(docs), opts)
	if len(terms) == 0 {
		return nil, ErrEmptyVocabulary
	}

	m := &Model{
		vocabulary: make(map[string]int, len(terms)),
		terms:      terms,
		idf:        make([]float64, len(terms)),
		vectors:    make([]Vector, len(docs)),
	}

	total := float64(len(docs))
	for col, term := range terms {
		m.vocabulary[term] = col
		m.idf[col] = math.Log((1+total)/(1+float64(docFreq[term]))) + 1
	}

	for i, termCounts := range counts {
		m.vectors[i] = m.weigh(termCounts)
	}

	slog.Debug("Fitted TF-IDF model", "documents", len(docs), "terms", len(terms), "stem", opts.Stem)
	return m, nil
}

// selectTerms returns the sorted terms whose document frequency is within the
// configured bounds.
func selectTerms(docFreq map[string]int, total int, opts Options) []string {
	maxDocs := total
	if opts.MaxDF > 0 && opts.MaxDF < 1 {
		maxDocs = int(math.Floor(opts.MaxDF * float64(total)))
	}

	terms := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df < opts.MinDF || df > maxDocs {
			continue
		}
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// weigh turns raw term counts into a normalized tf-idf vector. Terms outside
// the vocabulary are ignored.
func (m *Model) weigh(termCounts map[string]int) Vector {
	v := Vector{
		Indices: make([]int, 0, len(termCounts)),
		Values:  make([]float64, 0, len(termCounts)),
	}
	for term := range termCounts {
		if col, ok := m.vocabulary[term]; ok {
			v.Indices = append(v.Indices, col)
		}
	}
	sort.Ints(v.Indices)
	for _, col := range v.Indices {
		v.Values = append(v.Values, float64(termCounts[m.terms[col]])*m.idf[col])
	}
	v.normalize()
	return v
}

// Len returns the number of documents in the model.
func (m *Model) Len() int {
	return len(m.vectors)
}

// VocabularySize returns the number of terms, which is also the dimension of
// every document vector.
func (m *Model) VocabularySize() int {
	return len(m.terms)
}

// Terms returns the vocabulary in column order.
func (m *Model) Terms() []string {
	out := make([]string, len(m.terms))
	copy(out, m.terms)
	return out
}

// IDF returns the inverse document frequency of term.
func (m *Model) IDF(term string) (float64, bool) {
	col, ok := m.vocabulary[term]
	if !ok {
		return 0, false
	}
	return m.idf[col], true
}

// Vector returns a copy of the weighted vector of document i.
func (m *Model) Vector(i int) (Vector, error) {
	if i < 0 || i >= len(m.vectors) {
		return Vector{}, fmt.Errorf("%w: %d (documents: %d)", ErrIndexOutOfRange, i, len(m.vectors))
	}
	return m.vectors[i].clone(), nil
}
