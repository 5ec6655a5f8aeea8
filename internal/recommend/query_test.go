package recommend

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/chriscorrea/bookrec/internal/catalog"
)

func TestParseSearchMode(t *testing.T) {
	tests := []struct {
		in      string
		want    SearchMode
		wantErr bool
	}{
		{"title", ByTitle, false},
		{"Title", ByTitle, false},
		{"author", ByAuthor, false},
		{"Authors", ByAuthor, false},
		{" author ", ByAuthor, false},
		{"publisher", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSearchMode(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("ParseSearchMode(%q) error = %v, want ErrInvalidArgument", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseSearchMode(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestSearchModeString(t *testing.T) {
	tests := []struct {
		mode SearchMode
		want string
	}{
		{ByTitle, "title"},
		{ByAuthor, "author"},
		{SearchMode(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("SearchMode(%d).String() = %q, want %q", int(tt.mode), got, tt.want)
		}
	}
	if _, err := SearchMode(99).MarshalText(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("MarshalText(unknown) error = %v, want ErrInvalidArgument", err)
	}
}

func TestMatch(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name    string
		query   string
		by      SearchMode
		want    []int
		wantErr error
	}{
		{"title prefix", "Alpha", ByTitle, []int{0, 1, 4}, nil},
		{"title prefix is case-sensitive", "alpha", ByTitle, nil, ErrEmptyMatch},
		{"full title", "Gamma Rays", ByTitle, []int{3}, nil},
		{"author substring", "jane doe", ByAuthor, []int{0, 2}, nil},
		{"author partial", "LEE", ByAuthor, []int{2, 3}, nil},
		{"no author match", "Tolkien", ByAuthor, nil, ErrEmptyMatch},
		{"blank query", "   ", ByTitle, nil, ErrInvalidArgument},
		{"unknown mode", "Alpha", SearchMode(7), nil, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Match(tt.query, tt.by)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Match() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Match() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Match(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestMatchTitlePrefixExcludesOthers(t *testing.T) {
	e, err := New([]catalog.Entry{
		{Title: "Alpha", Description: "first"},
		{Title: "Alphabet", Description: "second"},
		{Title: "Beta", Description: "third"},
	})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	got, err := e.Match("Alpha", ByTitle)
	if err != nil {
		t.Fatalf("Match() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("Match(Alpha) = %v, want [0 1]", got)
	}
}

func TestRecommendAveragesMatches(t *testing.T) {
	e := newTestEngine(t)

	simB, _ := e.Similarity(0)
	simC, _ := e.Similarity(1)
	simD, _ := e.Similarity(4)

	result, err := e.Recommend("Alpha", ByTitle, MaxRecommendations)
	if err != nil {
		t.Fatalf("Recommend() unexpected error: %v", err)
	}
	for _, rec := range result.Recommendations {
		j := rec.Entry.ID
		want := (simB[j] + simC[j] + simD[j]) / 3
		if math.Abs(rec.Score-want) > epsilon {
			t.Errorf("score for %d = %f, want manual average %f", j, rec.Score, want)
		}
	}
	if !reflect.DeepEqual(result.Matches, []int{0, 1, 4}) {
		t.Errorf("Matches = %v, want [0 1 4]", result.Matches)
	}
}

func TestRecommendTwoMatchesEqualsManualAverage(t *testing.T) {
	e, err := New([]catalog.Entry{
		{Title: "Alpha", Description: "dragons castle knight"},
		{Title: "Alphabet", Description: "letters words dragons"},
		{Title: "Beta", Description: "castle siege"},
	})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	a, _ := e.Similarity(0)
	b, _ := e.Similarity(1)
	want, err := e.AverageSimilarity([]int{0, 1})
	if err != nil {
		t.Fatalf("AverageSimilarity() unexpected error: %v", err)
	}
	for j := range want {
		if math.Abs(want[j]-(a[j]+b[j])/2) > epsilon {
			t.Errorf("AverageSimilarity()[%d] = %f, want %f", j, want[j], (a[j]+b[j])/2)
		}
	}

	result, err := e.Recommend("Alpha", ByTitle, 3)
	if err != nil {
		t.Fatalf("Recommend() unexpected error: %v", err)
	}
	for _, rec := range result.Recommendations {
		if math.Abs(rec.Score-want[rec.Entry.ID]) > epsilon {
			t.Errorf("Recommend score for %d = %f, want %f", rec.Entry.ID, rec.Score, want[rec.Entry.ID])
		}
	}
}

func TestRecommendOrderingAndBounds(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Recommend("Jane Doe", ByAuthor, 4)
	if err != nil {
		t.Fatalf("Recommend() unexpected error: %v", err)
	}
	recs := result.Recommendations
	if len(recs) != 4 {
		t.Fatalf("Recommend() returned %d results, want 4", len(recs))
	}
	assertScoresInUnitRange(t, recs)

	for k := 1; k < len(recs); k++ {
		prev, cur := recs[k-1], recs[k]
		if cur.Score > prev.Score {
			t.Errorf("results not descending at %d: %f > %f", k, cur.Score, prev.Score)
		}
		if cur.Score == prev.Score && cur.Entry.ID < prev.Entry.ID {
			t.Errorf("tie at %d not in catalog order: %d before %d", k, prev.Entry.ID, cur.Entry.ID)
		}
	}
}

func TestRecommendDeterministic(t *testing.T) {
	e := newTestEngine(t)

	first, err := e.Recommend("Alpha", ByTitle, 5)
	if err != nil {
		t.Fatalf("Recommend() unexpected error: %v", err)
	}
	second, err := e.Recommend("Alpha", ByTitle, 5)
	if err != nil {
		t.Fatalf("Recommend() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical queries returned different results")
	}

	// a separately fitted engine over the same catalog agrees too
	other := newTestEngine(t)
	third, _ := other.Recommend("Alpha", ByTitle, 5)
	if !reflect.DeepEqual(first, third) {
		t.Error("engines fitted on the same catalog disagree")
	}
}

func TestRecommendMoreThanCatalog(t *testing.T) {
	e, err := New([]catalog.Entry{
		{Title: "One", Description: "apples"},
		{Title: "Two", Description: "apples pears"},
		{Title: "Three", Description: "pears"},
	})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	result, err := e.Recommend("One", ByTitle, 5)
	if err != nil {
		t.Fatalf("Recommend() unexpected error: %v", err)
	}
	if len(result.Recommendations) != 3 {
		t.Fatalf("Recommend() returned %d results, want 3", len(result.Recommendations))
	}
	seen := map[int]bool{}
	for _, rec := range result.Recommendations {
		if seen[rec.Entry.ID] {
			t.Errorf("entry %d returned twice", rec.Entry.ID)
		}
		seen[rec.Entry.ID] = true
	}
	if result.Recommendations[0].Entry.Title != "One" || result.Recommendations[0].Score != 1 {
		t.Errorf("top result = %+v, want the query itself with score 1", result.Recommendations[0])
	}
}

func TestRecommendErrors(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name    string
		query   string
		by      SearchMode
		n       int
		wantErr error
	}{
		{"no match", "Zeta", ByTitle, 5, ErrEmptyMatch},
		{"no author match", "Tolkien", ByAuthor, 5, ErrEmptyMatch},
		{"n too small", "Alpha", ByTitle, 0, ErrInvalidArgument},
		{"n negative", "Alpha", ByTitle, -3, ErrInvalidArgument},
		{"n too large", "Alpha", ByTitle, MaxRecommendations + 1, ErrInvalidArgument},
		{"bad mode", "Alpha", SearchMode(5), 5, ErrInvalidArgument},
		{"empty query", "", ByAuthor, 5, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := e.Recommend(tt.query, tt.by, tt.n)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Recommend() error = %v, want %v", err, tt.wantErr)
			}
			if len(result.Recommendations) != 0 {
				t.Errorf("Recommend() returned results alongside error: %v", result.Recommendations)
			}
		})
	}
}

func TestAverageSimilarityEmpty(t *testing.T) {
	e := newTestEngine(t)
	scores, err := e.AverageSimilarity(nil)
	if !errors.Is(err, ErrEmptyMatch) {
		t.Errorf("AverageSimilarity(nil) error = %v, want ErrEmptyMatch", err)
	}
	if scores != nil {
		t.Errorf("AverageSimilarity(nil) = %v, want nil", scores)
	}
}

func TestQueryExcludeMatches(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Query(Request{Query: "Alpha", SearchBy: ByTitle, N: MaxRecommendations, ExcludeMatches: true})
	if err != nil {
		t.Fatalf("Query() unexpected error: %v", err)
	}
	if len(result.Recommendations) != e.Len()-3 {
		t.Errorf("Query() returned %d results, want %d", len(result.Recommendations), e.Len()-3)
	}
	for _, rec := range result.Recommendations {
		switch rec.Entry.ID {
		case 0, 1, 4:
			t.Errorf("matched entry %d was not excluded", rec.Entry.ID)
		}
	}
}

func TestRank(t *testing.T) {
	tests := []struct {
		name    string
		scores  []float64
		n       int
		exclude map[int]struct{}
		want    []int
	}{
		{"descending", []float64{0.1, 0.9, 0.5}, 3, nil, []int{1, 2, 0}},
		{"ties keep catalog order", []float64{0.5, 0.7, 0.5, 0.5}, 4, nil, []int{1, 0, 2, 3}},
		{"truncate", []float64{0.1, 0.9, 0.5}, 1, nil, []int{1}},
		{"n beyond length", []float64{0.2, 0.3}, 10, nil, []int{1, 0}},
		{"exclusions", []float64{0.9, 0.8, 0.7}, 3, map[int]struct{}{0: {}}, []int{1, 2}},
		{"empty", []float64{}, 5, nil, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := rank(tt.scores, tt.n, tt.exclude)
			got := make([]int, len(ranked))
			for k, r := range ranked {
				got[k] = r.index
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("rank() = %v, want %v", got, tt.want)
			}
		})
	}
}
