package counter

import (
	"math"
	"testing"
)

func TestWordCounter(t *testing.T) {
	c, _ := New(Words)

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"empty string", "", 0},
		{"single word", "dune", 1},
		{"synthetic document", "Dune A desert planet Frank Herbert nan 1965 Fiction", 9},
		{"whitespace handling", "  hello   world  ", 2},
		{"unicode words", "café naïve résumé", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Count(tt.text); got != tt.expected {
				t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.expected)
			}
		})
	}
}

func TestCharCounter(t *testing.T) {
	c, _ := New(Characters)

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"empty string", "", 0},
		{"ascii", "hello", 5},
		{"accented", "café", 4},
		{"whitespace included", "a b", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Count(tt.text); got != tt.expected {
				t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.expected)
			}
		})
	}
}

func TestTokenCounter(t *testing.T) {
	tc, err := NewTokenCounter()
	if err != nil {
		t.Fatalf("NewTokenCounter() error: %v", err)
	}

	if got := tc.Count(""); got != 0 {
		t.Errorf("Count(\"\") = %d, want 0", got)
	}
	// exact counts depend on the encoding version
	if got := tc.Count("A desert planet and its spice"); got <= 0 {
		t.Errorf("Count() = %d, want positive", got)
	}
	if tc.Name() != "tokens (cl100k_base)" {
		t.Errorf("Name() = %q", tc.Name())
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"tokens", Tokens, false},
		{"", Tokens, false},
		{"Words", Words, false},
		{"chars", Characters, false},
		{"characters", Characters, false},
		{"bytes", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMethod(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMethod(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseMethod(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMethodString(t *testing.T) {
	tests := []struct {
		method   Method
		expected string
	}{
		{Tokens, "tokens"},
		{Words, "words"},
		{Characters, "characters"},
		{Method(999), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.method.String(); got != tt.expected {
			t.Errorf("Method(%d).String() = %q, want %q", int(tt.method), got, tt.expected)
		}
	}
	if _, err := New(Method(999)); err == nil {
		t.Error("New(unknown) expected error")
	}
}

func TestSummarize(t *testing.T) {
	c, _ := New(Words)
	docs := []string{"one two", "one two three four", "one", "five five five five"}

	s := Summarize(docs, c)

	if s.Unit != "words" || s.Documents != 4 {
		t.Errorf("Summarize() unit/docs = %q/%d", s.Unit, s.Documents)
	}
	if s.Total != 11 || s.Min != 1 || s.Max != 4 {
		t.Errorf("Summarize() total/min/max = %d/%d/%d, want 11/1/4", s.Total, s.Min, s.Max)
	}
	if s.Longest != 1 {
		t.Errorf("Summarize() longest = %d, want first maximum 1", s.Longest)
	}
	if math.Abs(s.Mean-2.75) > 1e-9 {
		t.Errorf("Summarize() mean = %f, want 2.75", s.Mean)
	}

	empty := Summarize(nil, c)
	if empty.Documents != 0 || empty.Mean != 0 || empty.Unit != "words" {
		t.Errorf("Summarize(nil) = %+v", empty)
	}
}
