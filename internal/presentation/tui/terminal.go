package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Width returns the terminal width of f, or 0 when unknown.
func Width(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}

// FormatWarnings renders validation warnings, highlighted for color profiles
// that support it.
func FormatWarnings(p termenv.Profile, warnings []string) string {
	var sb strings.Builder
	for _, w := range warnings {
		fmt.Fprintf(&sb, "%s %s\n", p.String("warning:").Foreground(p.Color("#f59e0b")).Bold(), w)
	}
	return sb.String()
}

// FormatError renders a fatal analysis error.
func FormatError(p termenv.Profile, err error) string {
	return fmt.Sprintf("%s %v\n", p.String("error:").Foreground(p.Color("#ef4444")).Bold(), err)
}
