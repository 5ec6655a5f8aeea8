package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"

	"github.com/chriscorrea/bookrec/internal/catalog"
	"github.com/chriscorrea/bookrec/internal/extract"
	"github.com/chriscorrea/bookrec/internal/recommend"
	"github.com/chriscorrea/bookrec/internal/search"
)

// column widths for text tables
const (
	titleWidth    = 48
	authorWidth   = 32
	categoryWidth = 24
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// styles are bound to the destination writer so escape codes are only
// emitted for terminals.
type styles struct {
	heading lipgloss.Style
	faint   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		heading: r.NewStyle().Bold(true),
		faint:   r.NewStyle().Faint(true),
	}
}

func (s styles) table(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.faint).
		Headers(headers...)
}

// clip shortens s to at most n runes, marking the cut with an ellipsis.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 4, 64)
}

// RenderRecommendations prints a recommendation result.
func RenderRecommendations(w io.Writer, res recommend.Result, f OutputFormat) error {
	switch f {
	case JSON:
		return writeJSON(w, res)
	case Markdown:
		var b strings.Builder
		fmt.Fprintf(&b, "## Recommendations for %q (by %s)\n\n", res.Query, res.SearchBy)
		fmt.Fprintf(&b, "Matched %d %s.\n\n", len(res.Matches), plural(len(res.Matches), "entry", "entries"))
		b.WriteString("| # | Title | Authors | Categories | Published | Rating | Score |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for k, rec := range res.Recommendations {
			e := rec.Entry
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s |\n", k+1,
				markdownCell(e.Title), markdownCell(e.Authors), markdownCell(e.Categories),
				markdownCell(e.PublishedDate), ratingText(e), formatScore(rec.Score))
		}
		_, err := io.WriteString(w, b.String())
		return err
	default:
		st := newStyles(w)
		t := st.table("#", "Title", "Authors", "Categories", "Published", "Rating", "Score")
		for k, rec := range res.Recommendations {
			e := rec.Entry
			t.Row(strconv.Itoa(k+1), clip(e.Title, titleWidth), clip(e.Authors, authorWidth),
				clip(e.Categories, categoryWidth), e.PublishedDate, ratingText(e), formatScore(rec.Score))
		}
		heading := fmt.Sprintf("Books like %q by %s (%d matched)", res.Query, res.SearchBy, len(res.Matches))
		_, err := fmt.Fprintf(w, "%s\n%s\n", st.heading.Render(heading), t.String())
		return err
	}
}

// RenderBooks prints the titles written by author.
func RenderBooks(w io.Writer, author string, titles []string, f OutputFormat) error {
	switch f {
	case JSON:
		return writeJSON(w, struct {
			Author string   `json:"author"`
			Titles []string `json:"titles"`
		}{author, titles})
	case Markdown:
		var b strings.Builder
		fmt.Fprintf(&b, "## Books by %s\n\n", author)
		if len(titles) == 0 {
			b.WriteString("_No books found._\n")
		}
		for _, title := range titles {
			fmt.Fprintf(&b, "- %s\n", title)
		}
		_, err := io.WriteString(w, b.String())
		return err
	default:
		st := newStyles(w)
		var b strings.Builder
		b.WriteString(st.heading.Render("Books by "+author) + "\n")
		if len(titles) == 0 {
			b.WriteString(st.faint.Render("no books found") + "\n")
		}
		for _, title := range titles {
			b.WriteString("  " + title + "\n")
		}
		_, err := io.WriteString(w, b.String())
		return err
	}
}

// RenderHits prints keyword search results.
func RenderHits(w io.Writer, query string, hits []search.Hit, f OutputFormat) error {
	switch f {
	case JSON:
		return writeJSON(w, struct {
			Query string       `json:"query"`
			Hits  []search.Hit `json:"hits"`
		}{query, hits})
	case Markdown:
		var b strings.Builder
		fmt.Fprintf(&b, "## Search results for %q\n\n", query)
		if len(hits) == 0 {
			b.WriteString("_No matches._\n")
		}
		for k, hit := range hits {
			fmt.Fprintf(&b, "%d. **%s**", k+1, hit.Entry.Title)
			if hit.Entry.Authors != "" {
				fmt.Fprintf(&b, " by %s", hit.Entry.Authors)
			}
			b.WriteString("\n")
		}
		_, err := io.WriteString(w, b.String())
		return err
	default:
		st := newStyles(w)
		if len(hits) == 0 {
			_, err := fmt.Fprintln(w, st.faint.Render(fmt.Sprintf("no matches for %q", query)))
			return err
		}
		t := st.table("#", "Title", "Authors", "Relevance")
		for k, hit := range hits {
			t.Row(strconv.Itoa(k+1), clip(hit.Entry.Title, titleWidth), clip(hit.Entry.Authors, authorWidth), formatScore(hit.Score))
		}
		_, err := fmt.Fprintln(w, t.String())
		return err
	}
}

// Card is the detailed view of one entry.
type Card struct {
	catalog.Entry
	DescriptionMarkdown string `json:"description_markdown,omitempty"`
}

// NewCard converts the entry's description to Markdown for display.
func NewCard(e catalog.Entry) (Card, error) {
	description, err := extract.Markdown(e.Description)
	if err != nil {
		return Card{}, err
	}
	return Card{Entry: e, DescriptionMarkdown: description}, nil
}

// RenderCard prints the detailed view of one entry.
func RenderCard(w io.Writer, card Card, f OutputFormat) error {
	if f == JSON {
		return writeJSON(w, card)
	}

	var b strings.Builder
	e := card.Entry
	if f == Markdown {
		fmt.Fprintf(&b, "# %s\n\n", e.Title)
		if e.Authors != "" {
			fmt.Fprintf(&b, "*by %s*\n\n", e.Authors)
		}
		for _, field := range cardFields(e) {
			fmt.Fprintf(&b, "- **%s:** %s\n", field[0], field[1])
		}
		if card.DescriptionMarkdown != "" {
			fmt.Fprintf(&b, "\n%s\n", card.DescriptionMarkdown)
		}
	} else {
		st := newStyles(w)
		b.WriteString(st.heading.Render(e.Title) + "\n")
		if e.Authors != "" {
			b.WriteString("by " + e.Authors + "\n")
		}
		b.WriteString("\n")
		for _, field := range cardFields(e) {
			fmt.Fprintf(&b, "%-11s %s\n", field[0]+":", field[1])
		}
		if text := extract.PlainText(e.Description); text != "" {
			fmt.Fprintf(&b, "\n%s\n", text)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// cardFields lists the populated secondary fields as label/value pairs.
func cardFields(e catalog.Entry) [][2]string {
	var fields [][2]string
	if e.Publisher != "" {
		fields = append(fields, [2]string{"Publisher", e.Publisher})
	}
	if e.PublishedDate != "" {
		fields = append(fields, [2]string{"Published", e.PublishedDate})
	}
	if e.Categories != "" {
		fields = append(fields, [2]string{"Categories", e.Categories})
	}
	if e.Rating > 0 {
		fields = append(fields, [2]string{"Rating", ratingText(e)})
	}
	return fields
}

// ratingText formats the average rating and its count; empty when unrated.
func ratingText(e catalog.Entry) string {
	if e.Rating <= 0 {
		return ""
	}
	rating := strconv.FormatFloat(e.Rating, 'f', -1, 64)
	if e.RatingsCount > 0 {
		rating += fmt.Sprintf(" (%d %s)", e.RatingsCount, plural(e.RatingsCount, "rating", "ratings"))
	}
	return rating
}

// markdownCell keeps a value from breaking a Markdown table row.
func markdownCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

// RenderStats prints catalog statistics.
func RenderStats(w io.Writer, s Stats, f OutputFormat) error {
	switch f {
	case JSON:
		return writeJSON(w, s)
	case Markdown:
		var b strings.Builder
		fmt.Fprintf(&b, "## Catalog statistics\n\n")
		fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
		for _, row := range statRows(s) {
			fmt.Fprintf(&b, "| %s | %s |\n", row[0], row[1])
		}
		_, err := io.WriteString(w, b.String())
		return err
	default:
		st := newStyles(w)
		t := st.table("Metric", "Value")
		for _, row := range statRows(s) {
			t.Row(row[0], row[1])
		}
		_, err := fmt.Fprintf(w, "%s\n%s\n", st.heading.Render("Catalog statistics"), t.String())
		return err
	}
}

func statRows(s Stats) [][2]string {
	unit := s.Documents.Unit
	return [][2]string{
		{"Source", s.Source},
		{"Entries", strconv.Itoa(s.Entries)},
		{"Distinct authors", strconv.Itoa(s.Authors)},
		{"Vocabulary terms", strconv.Itoa(s.Terms)},
		{"Most common terms", strings.Join(s.CommonTerms, ", ")},
		{"Mean terms per document", strconv.FormatFloat(s.MeanTerms, 'f', 1, 64)},
		{"Total " + unit, strconv.Itoa(s.Documents.Total)},
		{"Mean " + unit + " per document", strconv.FormatFloat(s.Documents.Mean, 'f', 1, 64)},
		{"Min / max " + unit, fmt.Sprintf("%d / %d", s.Documents.Min, s.Documents.Max)},
		{"Longest document", s.LongestTitle},
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
