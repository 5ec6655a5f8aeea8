package recommend

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/chriscorrea/bookrec/internal/catalog"
)

// SearchMode selects how a query string is matched against the catalog.
type SearchMode int

const (
	// ByTitle matches entries whose title starts with the query (case-sensitive).
	ByTitle SearchMode = iota
	// ByAuthor matches entries whose authors contain the query (case-insensitive).
	ByAuthor
)

// String returns the string representation of the search mode
func (m SearchMode) String() string {
	switch m {
	case ByTitle:
		return "title"
	case ByAuthor:
		return "author"
	default:
		return "unknown"
	}
}

// MarshalText encodes the mode by name.
func (m SearchMode) MarshalText() ([]byte, error) {
	if m != ByTitle && m != ByAuthor {
		return nil, fmt.Errorf("%w: search mode %d", ErrInvalidArgument, int(m))
	}
	return []byte(m.String()), nil
}

// ParseSearchMode accepts "title" or "author" in any case. "authors" is
// accepted as well, which is how a plural UI label reads once lowercased.
func ParseSearchMode(s string) (SearchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title":
		return ByTitle, nil
	case "author", "authors":
		return ByAuthor, nil
	default:
		return 0, fmt.Errorf("%w: search mode %q (want title or author)", ErrInvalidArgument, s)
	}
}

// Request describes one recommendation query.
type Request struct {
	Query          string
	SearchBy       SearchMode
	N              int
	ExcludeMatches bool // drop the matched entries themselves from the ranking
}

// Recommendation is one ranked entry.
type Recommendation struct {
	Entry catalog.Entry `json:"entry"`
	Score float64       `json:"score"` // averaged cosine similarity in [0, 1]
}

// Result is the outcome of a query: the entries the query matched and the
// ranked recommendations, best first.
type Result struct {
	Query           string           `json:"query"`
	SearchBy        SearchMode       `json:"search_by"`
	Matches         []int            `json:"matches"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Recommend ranks the catalog against every entry that query matches under
// the given mode and returns the top n.
func (e *Engine) Recommend(query string, by SearchMode, n int) (Result, error) {
	return e.Query(Request{Query: query, SearchBy: by, N: n})
}

// Query runs a recommendation request.
func (e *Engine) Query(req Request) (Result, error) {
	if req.N < MinRecommendations || req.N > MaxRecommendations {
		return Result{}, fmt.Errorf("%w: n = %d (want %d-%d)", ErrInvalidArgument, req.N, MinRecommendations, MaxRecommendations)
	}

	matches, err := e.Match(req.Query, req.SearchBy)
	if err != nil {
		return Result{}, err
	}

	scores, err := e.AverageSimilarity(matches)
	if err != nil {
		return Result{}, err
	}

	var exclude map[int]struct{}
	if req.ExcludeMatches {
		exclude = make(map[int]struct{}, len(matches))
		for _, i := range matches {
			exclude[i] = struct{}{}
		}
	}

	ranked := rank(scores, req.N, exclude)
	recs := make([]Recommendation, len(ranked))
	for k, r := range ranked {
		recs[k] = Recommendation{Entry: e.entries[r.index], Score: r.score}
	}

	slog.Debug("Recommendations computed", "query", req.Query, "searchBy", req.SearchBy.String(), "matches", len(matches), "returned", len(recs))
	return Result{
		Query:           req.Query,
		SearchBy:        req.SearchBy,
		Matches:         matches,
		Recommendations: recs,
	}, nil
}

// Match returns, in catalog order, the positions of entries the query selects.
// It returns ErrEmptyMatch when nothing matches and ErrInvalidArgument for a
// blank query or an unknown mode.
func (e *Engine) Match(query string, by SearchMode) ([]int, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", ErrInvalidArgument)
	}

	var matches []int
	switch by {
	case ByTitle:
		for i, entry := range e.entries {
			if entry.Title != "" && strings.HasPrefix(entry.Title, query) {
				matches = append(matches, i)
			}
		}
	case ByAuthor:
		needle := strings.ToLower(query)
		for i, entry := range e.entries {
			if strings.Contains(strings.ToLower(entry.Authors), needle) {
				matches = append(matches, i)
			}
		}
	default:
		return nil, fmt.Errorf("%w: search mode %d", ErrInvalidArgument, int(by))
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s %q", ErrEmptyMatch, by, query)
	}
	return matches, nil
}

// AverageSimilarity returns the elementwise mean of the similarity vectors of
// the given entries. An empty index set is rejected with ErrEmptyMatch rather
// than producing NaN scores.
func (e *Engine) AverageSimilarity(indices []int) ([]float64, error) {
	if len(indices) == 0 {
		return nil, ErrEmptyMatch
	}

	sum := make([]float64, len(e.entries))
	for _, i := range indices {
		scores, err := e.Similarity(i)
		if err != nil {
			return nil, err
		}
		for j, s := range scores {
			sum[j] += s
		}
	}

	count := float64(len(indices))
	for j := range sum {
		sum[j] /= count
	}
	return sum, nil
}
