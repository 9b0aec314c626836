package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Spinner shows an animated spinner for indeterminate progress
type Spinner struct {
	chars    []string
	index    int
	done     chan struct{}
	label    string
	ticker   *time.Ticker
	stopOnce sync.Once
}

// NewSpinner creates a new spinner
func NewSpinner(label string) *Spinner {
	return &Spinner{
		chars: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		done:  make(chan struct{}),
		label: label,
	}
}

// Start starts the spinner animation
func (s *Spinner) Start() {
	if !IsTerminal() {
		fmt.Printf("%s...\n", s.label)
		return
	}

	s.ticker = time.NewTicker(100 * time.Millisecond)
	go func() {
		for {
			select {
			case <-s.done:
				return
			case <-s.ticker.C:
				fmt.Printf("\r%s %s", s.chars[s.index], s.label)
				s.index = (s.index + 1) % len(s.chars)
			}
		}
	}()
}

// Stop stops the spinner. Safe to call more than once.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.done)
		if IsTerminal() {
			fmt.Print("\r" + strings.Repeat(" ", len(s.label)+10) + "\r")
		}
	})
}
