package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format identifies the tabular encoding of a catalog source.
type Format int

const (
	// comma-separated values with a header row (default)
	CSV Format = iota
	// Excel workbook; the first sheet is read
	XLSX
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case CSV:
		return "csv"
	case XLSX:
		return "xlsx"
	default:
		return "unknown"
	}
}

// DetectFormat picks a format from a source name, defaulting to CSV.
func DetectFormat(source string) Format {
	lower := strings.ToLower(source)
	if i := strings.IndexAny(lower, "?#"); i >= 0 {
		lower = lower[:i] // ignore URL query and fragment
	}
	if strings.HasSuffix(lower, ".xlsx") {
		return XLSX
	}
	return CSV
}

// ErrNoTitleColumn is returned when a source has no recognizable title column.
var ErrNoTitleColumn = errors.New("catalog has no title column")

type column int

const (
	colIgnored column = iota
	colTitle
	colAuthors
	colDescription
	colPublisher
	colPublishedDate
	colCategories
	colRating
	colRatingsCount
)

// headerColumns maps normalized header names to entry fields. Both the raw
// export names (publishedDate, ratingsCount) and the display names
// (Published Date, Ratings Count) normalize to the same key.
var headerColumns = map[string]column{
	"title":         colTitle,
	"authors":       colAuthors,
	"author":        colAuthors,
	"description":   colDescription,
	"publisher":     colPublisher,
	"publisheddate": colPublishedDate,
	"categories":    colCategories,
	"category":      colCategories,
	"rating":        colRating,
	"ratingscount":  colRatingsCount,
}

// missingMarkers are cell values treated as absent, as spreadsheet and
// dataframe exports write them.
var missingMarkers = map[string]struct{}{
	"":     {},
	"nan":  {},
	"NaN":  {},
	"NULL": {},
	"null": {},
	"N/A":  {},
	"NA":   {},
	"None": {},
}

// Read decodes a whole catalog from r. The first row must be a header row;
// unknown columns are ignored. Authors and Categories are cleaned with
// CleanList so that search and display see the same strings.
func Read(r io.Reader, format Format) ([]Entry, error) {
	var rows [][]string
	var err error

	switch format {
	case XLSX:
		rows, err = readXLSX(r)
	default:
		rows, err = readCSV(r)
	}
	if err != nil {
		return nil, err
	}

	return fromRows(rows)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Debug("Failed to close workbook", "error", err)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// fromRows maps a header row plus data rows onto entries.
func fromRows(rows [][]string) ([]Entry, error) {
	if len(rows) == 0 {
		return []Entry{}, nil
	}

	columns := make([]column, len(rows[0]))
	hasTitle := false
	for i, name := range rows[0] {
		col := headerColumns[normalizeHeader(name)]
		columns[i] = col
		if col == colTitle {
			hasTitle = true
		}
	}
	if !hasTitle {
		return nil, ErrNoTitleColumn
	}

	entries := make([]Entry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		e := Entry{ID: len(entries)}
		for i, col := range columns {
			if i >= len(row) {
				break
			}
			setField(&e, col, row[i])
		}
		entries = append(entries, e)
	}

	slog.Debug("Catalog rows decoded", "entries", len(entries), "columns", len(columns))
	return entries, nil
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "")
	return strings.ReplaceAll(name, "_", "")
}

func setField(e *Entry, col column, raw string) {
	value := strings.TrimSpace(raw)
	if _, missing := missingMarkers[value]; missing {
		return
	}

	switch col {
	case colTitle:
		e.Title = value
	case colAuthors:
		e.Authors = CleanList(value)
	case colDescription:
		e.Description = value
	case colPublisher:
		e.Publisher = value
	case colPublishedDate:
		e.PublishedDate = value
	case colCategories:
		e.Categories = CleanList(value)
	case colRating:
		rating, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(rating) {
			slog.Debug("Ignoring unparseable rating", "row", e.ID, "value", value)
			return
		}
		e.Rating = rating
	case colRatingsCount:
		// exports often write counts as floats ("12.0")
		count, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(count) {
			slog.Debug("Ignoring unparseable ratings count", "row", e.ID, "value", value)
			return
		}
		e.RatingsCount = int(count)
	}
}
