// Package search provides free-text keyword search over the catalog using
// BM25md field-weighted ranking. It helps a user find the exact title or
// author to ask recommendations for; it plays no part in similarity scoring.
package search

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/chriscorrea/bm25md"
	"github.com/chriscorrea/bookrec/internal/catalog"
)

// Hit is one keyword search result.
type Hit struct {
	Entry catalog.Entry `json:"entry"`
	Score float64       `json:"score"` // BM25md score (higher = more relevant)
}

// Index is a BM25md corpus built over catalog entries.
type Index struct {
	entries []catalog.Entry
	words   []map[string]struct{} // lowercased words of each indexed document
	corpus  *bm25md.Corpus
	mu      sync.Mutex // serializes scoring against the shared corpus
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// wordSet returns the distinct lowercased words of text.
func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		set[w] = struct{}{}
	}
	return set
}

// NewIndex builds a keyword index. Each entry is rendered as a small Markdown
// document so the title heading and author line weigh more than body text.
// descriptionFilter, when non-nil, cleans descriptions first.
func NewIndex(entries []catalog.Entry, descriptionFilter func(string) string) *Index {
	corpus := bm25md.NewCorpus()
	parser := bm25md.NewMarkdownFieldParser()
	words := make([]map[string]struct{}, len(entries))

	for i, entry := range entries {
		text := markdownDocument(entry, descriptionFilter)
		words[i] = wordSet(text)
		corpus.AddDocument(bm25md.Document{
			ID:       i,
			Fields:   parser.ParseDocument(text),
			Original: text,
		})
	}

	slog.Debug("Keyword index built", "documents", len(entries))
	return &Index{entries: entries, words: words, corpus: corpus}
}

// markdownDocument renders the searchable fields of an entry.
func markdownDocument(e catalog.Entry, descriptionFilter func(string) string) string {
	var b strings.Builder
	if e.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", e.Title)
	}
	if e.Authors != "" {
		fmt.Fprintf(&b, "## %s\n\n", e.Authors)
	}
	if e.Categories != "" {
		fmt.Fprintf(&b, "**%s**\n\n", e.Categories)
	}
	description := e.Description
	if descriptionFilter != nil && description != "" {
		description = descriptionFilter(description)
	}
	if description != "" {
		b.WriteString(description)
		b.WriteString("\n\n")
	}
	if e.Publisher != "" {
		b.WriteString(e.Publisher)
	}
	return strings.TrimSpace(b.String())
}

// Search returns up to n entries that contain at least one query word, best
// first. BM25 gives no weight to a word found in half the catalog or more, so
// such entries still match with a score of 0. Equal scores keep catalog order.
func (idx *Index) Search(query string, n int) []Hit {
	query = strings.TrimSpace(query)
	if query == "" || n <= 0 {
		return []Hit{}
	}

	queryWords := wordSet(query)

	idx.mu.Lock()
	hits := make([]Hit, 0)
	for i, entry := range idx.entries {
		score := idx.corpus.Score(query, i)
		if score > 0 || idx.containsAny(i, queryWords) {
			hits = append(hits, Hit{Entry: entry, Score: score})
		}
	}
	idx.mu.Unlock()

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})

	if n < len(hits) {
		hits = hits[:n]
	}

	slog.Debug("Keyword search completed", "query", query, "hits", len(hits))
	return hits
}

// containsAny reports whether document i holds any of the given words.
func (idx *Index) containsAny(i int, words map[string]struct{}) bool {
	for w := range words {
		if _, ok := idx.words[i][w]; ok {
			return true
		}
	}
	return false
}
