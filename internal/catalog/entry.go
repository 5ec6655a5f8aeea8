// Package catalog holds the typed book records the recommender serves from
// and the text normalization that turns each record into a synthetic document.
//
// An Entry's identity is its position in the catalog. Fields that were absent
// in the source data are kept as empty strings (or zero for numeric fields) and
// rendered as the literal "nan" when building synthetic documents, so that a
// catalog with gaps weights exactly like the tabular data it was exported from.
//
// Usage Example:
//
//	entries, err := catalog.Read(reader, catalog.CSV)
//	docs := catalog.Documents(entries, nil)
package catalog

import "strings"

// MissingValue is how an absent text field is rendered in a synthetic document.
const MissingValue = "nan"

// Entry is one book in the catalog.
type Entry struct {
	ID            int     `json:"id"`             // position in the catalog
	Title         string  `json:"title"`          // may be empty when the source row had no title
	Authors       string  `json:"authors"`        // cleaned, comma-joined author names
	Description   string  `json:"description"`    // raw description, possibly containing HTML
	Publisher     string  `json:"publisher"`      // publisher name
	PublishedDate string  `json:"published_date"` // kept verbatim, e.g. "2004" or "2004-05-01"
	Categories    string  `json:"categories"`     // cleaned, comma-joined categories
	Rating        float64 `json:"rating"`         // average rating, 0 when absent
	RatingsCount  int     `json:"ratings_count"`  // number of ratings, 0 when absent
}

// CleanList removes the list punctuation left over from serialized lists such
// as "['Jane Doe', 'John Smith']": surrounding brackets are trimmed and every
// single quote is dropped.
func CleanList(s string) string {
	return strings.ReplaceAll(strings.Trim(s, "[]"), "'", "")
}

// Document returns the synthetic document for the entry with the description
// used as-is.
func (e Entry) Document() string {
	return e.document(nil)
}

// document joins the textual fields in fixed order: title, description,
// authors, publisher, published date, categories.
func (e Entry) document(descriptionFilter func(string) string) string {
	description := e.Description
	if descriptionFilter != nil && description != "" {
		description = descriptionFilter(description)
	}

	fields := []string{
		e.Title,
		description,
		e.Authors,
		e.Publisher,
		e.PublishedDate,
		e.Categories,
	}
	for i, field := range fields {
		if field == "" {
			fields[i] = MissingValue
		}
	}

	return strings.Join(fields, " ")
}

// Documents builds one synthetic document per entry, in catalog order.
// descriptionFilter, when non-nil, rewrites each non-empty description first
// (for example to strip HTML markup).
func Documents(entries []Entry, descriptionFilter func(string) string) []string {
	docs := make([]string, len(entries))
	for i, e := range entries {
		docs[i] = e.document(descriptionFilter)
	}
	return docs
}
