package catalog

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestCleanList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"serialized list", "['Jane Doe', 'John Smith']", "Jane Doe, John Smith"},
		{"single item", "['Fiction']", "Fiction"},
		{"already clean", "Jane Doe", "Jane Doe"},
		{"empty list", "[]", ""},
		{"inner apostrophe removed", "[\"O'Brien\"]", "\"OBrien\""},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanList(tt.in); got != tt.want {
				t.Errorf("CleanList(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEntryDocument(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{
			name: "all fields present",
			entry: Entry{
				Title:         "Dune",
				Description:   "Desert planet",
				Authors:       "Frank Herbert",
				Publisher:     "Chilton",
				PublishedDate: "1965",
				Categories:    "Fiction",
			},
			want: "Dune Desert planet Frank Herbert Chilton 1965 Fiction",
		},
		{
			name:  "missing fields render as nan",
			entry: Entry{Title: "Dune", Authors: "Frank Herbert"},
			want:  "Dune nan Frank Herbert nan nan nan",
		},
		{
			name:  "empty entry",
			entry: Entry{},
			want:  "nan nan nan nan nan nan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.Document(); got != tt.want {
				t.Errorf("Document() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDocumentsWithFilter(t *testing.T) {
	entries := []Entry{
		{Title: "A", Description: "<p>loud</p>"},
		{Title: "B"},
	}

	docs := Documents(entries, strings.ToUpper)
	if len(docs) != 2 {
		t.Fatalf("Documents() returned %d docs, want 2", len(docs))
	}
	if docs[0] != "A <P>LOUD</P> nan nan nan nan" {
		t.Errorf("Documents()[0] = %q", docs[0])
	}
	// filter is never applied to an absent description
	if docs[1] != "B nan nan nan nan nan" {
		t.Errorf("Documents()[1] = %q", docs[1])
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		source string
		want   Format
	}{
		{"books.csv", CSV},
		{"books.XLSX", XLSX},
		{"https://example.com/books.xlsx?raw=1", XLSX},
		{"-", CSV},
		{"books", CSV},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := DetectFormat(tt.source); got != tt.want {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

const sampleCSV = `,Title,authors,description,publisher,publishedDate,categories,rating,ratingsCount
0,Dune,['Frank Herbert'],A desert planet,Chilton,1965,['Fiction'],4.5,120.0
1,Emma,"['Jane Austen']",,Penguin,1815,['Fiction'],nan,
2,,['Anonymous'],Untitled work,,,,,
`

func TestReadCSV(t *testing.T) {
	entries, err := Read(strings.NewReader(sampleCSV), CSV)
	if err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Read() returned %d entries, want 3", len(entries))
	}

	dune := entries[0]
	if dune.ID != 0 || dune.Title != "Dune" || dune.Authors != "Frank Herbert" {
		t.Errorf("entry 0 = %+v", dune)
	}
	if dune.Categories != "Fiction" || dune.Rating != 4.5 || dune.RatingsCount != 120 {
		t.Errorf("entry 0 numeric/category fields = %+v", dune)
	}

	emma := entries[1]
	if emma.ID != 1 || emma.Description != "" || emma.Rating != 0 || emma.RatingsCount != 0 {
		t.Errorf("entry 1 = %+v", emma)
	}

	untitled := entries[2]
	if untitled.Title != "" || untitled.Authors != "Anonymous" {
		t.Errorf("entry 2 = %+v", untitled)
	}
}

func TestReadDisplayHeaders(t *testing.T) {
	input := "Title,Authors,Description,Publisher,Published Date,Categories,Rating,Ratings Count\n" +
		"Dune,Frank Herbert,Spice,Chilton,1965,Fiction,4.1,7\n"

	entries, err := Read(strings.NewReader(input), CSV)
	if err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Read() returned %d entries, want 1", len(entries))
	}
	if entries[0].PublishedDate != "1965" || entries[0].RatingsCount != 7 {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestReadWithoutTitleColumn(t *testing.T) {
	_, err := Read(strings.NewReader("name,authors\nDune,Frank Herbert\n"), CSV)
	if !errors.Is(err, ErrNoTitleColumn) {
		t.Errorf("Read() error = %v, want ErrNoTitleColumn", err)
	}
}

func TestReadEmpty(t *testing.T) {
	entries, err := Read(strings.NewReader(""), CSV)
	if err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Read() returned %d entries, want 0", len(entries))
	}
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Title", "authors", "categories", "rating"},
		{"Dune", "['Frank Herbert']", "['Fiction']", 4.5},
		{"Emma", "['Jane Austen']", "['Romance']", 4},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName() error: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow() error: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Failed to write workbook: %v", err)
	}

	entries, err := Read(&buf, XLSX)
	if err != nil {
		t.Fatalf("Read(XLSX) unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Read(XLSX) returned %d entries, want 2", len(entries))
	}
	if entries[1].Title != "Emma" || entries[1].Authors != "Jane Austen" || entries[1].Categories != "Romance" {
		t.Errorf("entry 1 = %+v", entries[1])
	}
	if entries[0].Rating != 4.5 {
		t.Errorf("entry 0 rating = %v, want 4.5", entries[0].Rating)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}

	entries, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("Load() returned %d entries, want 3", len(entries))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}
