package app

import (
	"fmt"
	"sort"

	"github.com/chriscorrea/bookrec/internal/counter"
	"github.com/chriscorrea/bookrec/internal/tfidf"
)

// commonTermCount is how many of the most widespread terms Stats reports.
const commonTermCount = 5

// Stats describes a loaded catalog.
type Stats struct {
	Source       string          `json:"source"`
	Entries      int             `json:"entries"`
	Authors      int             `json:"authors"` // distinct cleaned author strings
	Terms        int             `json:"terms"`
	CommonTerms  []string        `json:"common_terms"` // lowest idf first
	MeanTerms    float64         `json:"mean_terms"`   // distinct vocabulary terms per document
	Documents    counter.Summary `json:"documents"`
	LongestTitle string          `json:"longest_title"`
}

// Stats measures the library's synthetic documents with the given method.
func (l *Library) Stats(method counter.Method) (Stats, error) {
	c, err := counter.New(method)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to create %s counter: %w", method, err)
	}

	entries := l.Engine.Entries()
	authors := make(map[string]struct{})
	for _, e := range entries {
		if e.Authors != "" {
			authors[e.Authors] = struct{}{}
		}
	}

	model := l.Engine.Model()
	meanTerms, err := meanDocumentTerms(model)
	if err != nil {
		return Stats{}, err
	}

	summary := counter.Summarize(l.Documents(), c)
	s := Stats{
		Source:      l.Source,
		Entries:     len(entries),
		Authors:     len(authors),
		Terms:       model.VocabularySize(),
		CommonTerms: commonTerms(model, commonTermCount),
		MeanTerms:   meanTerms,
		Documents:   summary,
	}
	if len(entries) > 0 {
		s.LongestTitle = entries[summary.Longest].Title
	}
	return s, nil
}

// commonTerms returns up to k terms with the lowest idf, i.e. those found in
// the most documents. Ties keep vocabulary order.
func commonTerms(m *tfidf.Model, k int) []string {
	terms := m.Terms()
	idf := make(map[string]float64, len(terms))
	for _, term := range terms {
		idf[term], _ = m.IDF(term)
	}
	sort.SliceStable(terms, func(a, b int) bool {
		return idf[terms[a]] < idf[terms[b]]
	})
	if len(terms) > k {
		terms = terms[:k]
	}
	return terms
}

func meanDocumentTerms(m *tfidf.Model) (float64, error) {
	if m.Len() == 0 {
		return 0, nil
	}
	total := 0
	for i := 0; i < m.Len(); i++ {
		v, err := m.Vector(i)
		if err != nil {
			return 0, fmt.Errorf("failed to read document vector: %w", err)
		}
		total += v.Nnz()
	}
	return float64(total) / float64(m.Len()), nil
}
