// Package counter measures the size of catalog documents for the stats
// command. Documents can be measured in tokens (tiktoken, cl100k_base), in
// words, or in characters; Summarize aggregates a measure over the catalog.
package counter

import (
	"fmt"
	"strings"
)

// Counter measures text in one unit.
type Counter interface {
	// Count returns the number of units in text.
	Count(text string) int

	// Name returns the unit name used in reports.
	Name() string
}

// Method selects a Counter implementation.
type Method int

const (
	// Tokens counts cl100k_base tokens (default)
	Tokens Method = iota
	// Words counts whitespace-separated words
	Words
	// Characters counts Unicode code points
	Characters
)

func (m Method) String() string {
	switch m {
	case Tokens:
		return "tokens"
	case Words:
		return "words"
	case Characters:
		return "characters"
	default:
		return "unknown"
	}
}

// ParseMethod accepts the names printed by Method.String.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tokens", "token", "":
		return Tokens, nil
	case "words", "word":
		return Words, nil
	case "characters", "chars", "char":
		return Characters, nil
	default:
		return 0, fmt.Errorf("unknown counting method %q (use tokens, words or characters)", s)
	}
}

// New returns a Counter for method. Only the token counter can fail, when its
// encoding cannot be loaded.
func New(method Method) (Counter, error) {
	switch method {
	case Words:
		return wordCounter{}, nil
	case Characters:
		return charCounter{}, nil
	case Tokens:
		tc, err := NewTokenCounter()
		if err != nil {
			return nil, err
		}
		return tc, nil
	default:
		return nil, fmt.Errorf("unknown counting method %d", int(method))
	}
}
