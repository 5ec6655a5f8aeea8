package counter

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const tokenEncoding = "cl100k_base"

// TokenCounter counts tiktoken tokens. It is safe for concurrent use.
type TokenCounter struct {
	encoding *tiktoken.Tiktoken
	mu       sync.Mutex
}

// NewTokenCounter loads the cl100k_base encoding.
func NewTokenCounter() (*TokenCounter, error) {
	encoding, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s encoding: %w", tokenEncoding, err)
	}
	slog.Debug("Token counter ready", "encoding", tokenEncoding)
	return &TokenCounter{encoding: encoding}, nil
}

func (tc *TokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return len(tc.encoding.Encode(text, nil, nil))
}

func (tc *TokenCounter) Name() string {
	return "tokens (" + tokenEncoding + ")"
}
