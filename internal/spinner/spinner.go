// Package spinner shows a progress indicator on stderr while the catalog is
// loaded and the term weighting model is fitted.
package spinner

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const frameDelay = 80 * time.Millisecond

// Spinner animates a message until stopped or its context is cancelled.
type Spinner struct {
	w       io.Writer
	delay   time.Duration
	mu      sync.Mutex
	message string
	stop    chan struct{}
	done    chan struct{}
	ctx     context.Context
}

// New returns a stopped spinner writing to w.
func New(ctx context.Context, w io.Writer, message string) *Spinner {
	return &Spinner{w: w, delay: frameDelay, message: message, ctx: ctx}
}

// Start begins the animation. Calling Start on a running spinner is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.stop, s.done)
}

// Stop ends the animation and clears the line. Safe to call more than once
// and on a nil Spinner.
func (s *Spinner) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done

	if f, ok := s.w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(s.w, "\r\033[2K")
	} else {
		fmt.Fprint(s.w, "\r")
	}
}

// UpdateMessage replaces the text shown next to the frame. A nil Spinner
// ignores it.
func (s *Spinner) UpdateMessage(message string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

func (s *Spinner) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.delay)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-stop:
			return
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			message := s.message
			s.mu.Unlock()
			fmt.Fprintf(s.w, "\r%s %s", frames[i%len(frames)], message)
		}
	}
}

// Begin starts a spinner showing message when enabled is true and w is an
// interactive terminal, so piped output and --quiet runs stay clean. It
// returns nil otherwise; the caller may still call Stop and UpdateMessage.
func Begin(ctx context.Context, w io.Writer, enabled bool, message string) *Spinner {
	if !enabled || !Interactive(w) {
		return nil
	}
	sp := New(ctx, w, message)
	sp.Start()
	return sp
}

// Interactive reports whether w is a terminal.
func Interactive(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
