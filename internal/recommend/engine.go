// Package recommend ranks catalog entries by textual similarity to the
// entries a query matches.
//
// An Engine is built once from the catalog: it fits the TF-IDF model over
// one synthetic document per entry and is read-only afterwards, so a single
// Engine can serve any number of concurrent queries without locking.
//
// A query selects a set of entries (by title prefix or author substring),
// computes each selected entry's similarity to the whole catalog, and averages
// those vectors. Candidates that resemble every match therefore rank above
// candidates that resemble only one.
//
// Usage Example:
//
//	engine, err := recommend.New(entries)
//	result, err := engine.Recommend("Dune", recommend.ByTitle, 10)
package recommend

import (
	"fmt"
	"log/slog"

	"github.com/chriscorrea/bookrec/internal/catalog"
	"github.com/chriscorrea/bookrec/internal/tfidf"
)

// Bounds on the number of recommendations a query may request.
const (
	MinRecommendations     = 1
	MaxRecommendations     = 20
	DefaultRecommendations = 10
)

// Engine holds the catalog and its fitted model.
type Engine struct {
	entries    []catalog.Entry
	model      *tfidf.Model
	titleIndex map[string]int   // title -> first entry with that title
	cache      *similarityCache // nil unless WithSimilarityCache is used
}

type settings struct {
	tfidf             tfidf.Options
	descriptionFilter func(string) string
	cacheSimilarities bool
}

// Option configures an Engine at construction.
type Option func(*settings)

// WithTFIDFOptions sets the analyzer and term-pruning options for the model.
func WithTFIDFOptions(opts tfidf.Options) Option {
	return func(s *settings) {
		s.tfidf = opts
	}
}

// WithDescriptionFilter rewrites every non-empty description before it enters
// the synthetic document, for example to strip HTML.
func WithDescriptionFilter(filter func(string) string) Option {
	return func(s *settings) {
		s.descriptionFilter = filter
	}
}

// WithSimilarityCache memoizes per-entry similarity vectors. Useful when the
// same entries are queried repeatedly; memory grows with D² in the worst case.
func WithSimilarityCache() Option {
	return func(s *settings) {
		s.cacheSimilarities = true
	}
}

// New fits the term weighting model over entries and returns a ready Engine.
// Entries are copied; each entry's ID is set to its position.
func New(entries []catalog.Entry, opts ...Option) (*Engine, error) {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", ErrConfiguration)
	}

	owned := make([]catalog.Entry, len(entries))
	copy(owned, entries)
	titleIndex := make(map[string]int, len(owned))
	for i := range owned {
		owned[i].ID = i
		if title := owned[i].Title; title != "" {
			if _, seen := titleIndex[title]; !seen {
				titleIndex[title] = i
			}
		}
	}

	model, err := tfidf.Fit(catalog.Documents(owned, s.descriptionFilter), s.tfidf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	e := &Engine{
		entries:    owned,
		model:      model,
		titleIndex: titleIndex,
	}
	if s.cacheSimilarities {
		e.cache = newSimilarityCache()
	}

	slog.Debug("Recommendation engine ready", "entries", len(owned), "terms", model.VocabularySize(), "cache", s.cacheSimilarities)
	return e, nil
}

// Len returns the number of catalog entries.
func (e *Engine) Len() int {
	return len(e.entries)
}

// Entry returns the catalog entry at position i.
func (e *Engine) Entry(i int) (catalog.Entry, bool) {
	if i < 0 || i >= len(e.entries) {
		return catalog.Entry{}, false
	}
	return e.entries[i], true
}

// Entries returns a copy of the catalog in order.
func (e *Engine) Entries() []catalog.Entry {
	out := make([]catalog.Entry, len(e.entries))
	copy(out, e.entries)
	return out
}

// Model returns the fitted term weighting model.
func (e *Engine) Model() *tfidf.Model {
	return e.model
}

// IndexOfTitle returns the position of the first entry with exactly this title.
func (e *Engine) IndexOfTitle(title string) (int, bool) {
	i, ok := e.titleIndex[title]
	return i, ok
}

// Similarity returns the similarity of entry i to every entry in the catalog.
// The returned slice belongs to the caller.
func (e *Engine) Similarity(i int) ([]float64, error) {
	if e.cache != nil {
		if scores, ok := e.cache.get(i); ok {
			return scores, nil
		}
	}

	scores, err := e.model.Similarity(i)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	if e.cache != nil {
		e.cache.put(i, scores)
	}
	return scores, nil
}

// BooksByAuthor returns, in catalog order, the titles of entries whose cleaned
// author string equals author exactly. It returns an empty slice when nothing
// matches.
func (e *Engine) BooksByAuthor(author string) []string {
	titles := []string{}
	for _, entry := range e.entries {
		if entry.Authors == author {
			titles = append(titles, entry.Title)
		}
	}
	return titles
}
