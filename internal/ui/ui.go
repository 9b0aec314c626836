package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

var (
	isTerminal   = isatty.IsTerminal(os.Stdout.Fd())
	colorEnabled = true
)

// DisableColors disables all color output
func DisableColors() {
	colorEnabled = false
	isTerminal = false
	initStyles()
}

// IsTerminal checks if stdout is a terminal
func IsTerminal() bool {
	return isTerminal && colorEnabled
}

// IsInteractive reports whether stdin is attached to a terminal.
func IsInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Section prints a section header
func Section(title string) {
	fmt.Println()
	if IsTerminal() {
		fmt.Println("━━━ " + strings.ToUpper(title) + " ━━━")
	} else {
		fmt.Println(strings.ToUpper(title))
		fmt.Println(strings.Repeat("=", len(title)+6))
	}
}

// FormatBytes formats bytes to human-readable format using go-humanize
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}
