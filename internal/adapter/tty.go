package adapter

import (
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

const defaultTerminalWidth = 80

// IsTTY reports whether f is attached to an interactive terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	fd := f.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// TerminalWidth returns the column count of f, or a default when f is not a terminal.
func TerminalWidth(f *os.File) int {
	if !IsTTY(f) {
		return defaultTerminalWidth
	}

	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}

	return width
}
